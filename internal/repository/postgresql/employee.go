package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-overtime/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-overtime/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const employeeColumns = `
	id, name, department, position,
	to_char(shift_start, 'HH24:MI'), to_char(shift_end, 'HH24:MI'), hourly_rate`

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) attendance.EmployeeRepository {
	return &employeeRepository{db: db}
}

func scanEmployee(row pgx.Row) (attendance.Employee, error) {
	var emp attendance.Employee
	var rate decimal.NullDecimal
	err := row.Scan(&emp.ID, &emp.Name, &emp.Department, &emp.Position, &emp.ShiftStart, &emp.ShiftEnd, &rate)
	if err != nil {
		return attendance.Employee{}, err
	}
	if rate.Valid {
		emp.HourlyRate = &rate.Decimal
	}
	return emp, nil
}

// GetByID implements attendance.EmployeeRepository.
func (r *employeeRepository) GetByID(ctx context.Context, employeeID string) (attendance.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`

	emp, err := scanEmployee(q.QueryRow(ctx, query, employeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Employee{}, attendance.ErrEmployeeNotFound
		}
		return attendance.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return emp, nil
}

// List implements attendance.EmployeeRepository.
func (r *employeeRepository) List(ctx context.Context) ([]attendance.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees ORDER BY name, id`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []attendance.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}
	return employees, nil
}
