package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-overtime/internal/domain/shift"
	"github.com/cmlabs-hris/hris-overtime/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const shiftSwapColumns = `
	s.id, s.employee_id, s.swap_with_id, s.shift_date,
	to_char(s.shift_start, 'HH24:MI'), to_char(s.shift_end, 'HH24:MI'), s.reason,
	s.status, s.decided_by, s.decided_at, s.rejection_reason, s.created_at, s.updated_at,
	e.name, w.name`

const shiftSwapJoins = `
	FROM shift_swaps s
	LEFT JOIN employees e ON e.id = s.employee_id
	LEFT JOIN employees w ON w.id = s.swap_with_id`

type shiftSwapRepositoryImpl struct {
	db *database.DB
}

func NewShiftSwapRepository(db *database.DB) shift.ShiftSwapRepository {
	return &shiftSwapRepositoryImpl{db: db}
}

func scanShiftSwap(row pgx.Row) (shift.ShiftSwap, error) {
	var s shift.ShiftSwap
	err := row.Scan(
		&s.ID,
		&s.EmployeeID,
		&s.SwapWithID,
		&s.ShiftDate,
		&s.ShiftStart,
		&s.ShiftEnd,
		&s.Reason,
		&s.Status,
		&s.DecidedBy,
		&s.DecidedAt,
		&s.RejectionReason,
		&s.CreatedAt,
		&s.UpdatedAt,
		&s.EmployeeName,
		&s.SwapWithName,
	)
	return s, err
}

// Create implements shift.ShiftSwapRepository.
func (r *shiftSwapRepositoryImpl) Create(ctx context.Context, swap shift.ShiftSwap) (shift.ShiftSwap, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return shift.ShiftSwap{}, fmt.Errorf("failed to generate shift swap id: %w", err)
	}
	swap.ID = id.String()

	query := `
		INSERT INTO shift_swaps (
			id, employee_id, swap_with_id, shift_date, shift_start, shift_end, reason, status
		) VALUES (
			$1, $2, $3, $4, $5::time, $6::time, $7, $8
		) RETURNING created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		swap.ID, swap.EmployeeID, swap.SwapWithID, swap.ShiftDate,
		swap.ShiftStart, swap.ShiftEnd, swap.Reason, swap.Status,
	).Scan(&swap.CreatedAt, &swap.UpdatedAt)
	if err != nil {
		return shift.ShiftSwap{}, fmt.Errorf("failed to create shift swap: %w", err)
	}

	return swap, nil
}

// GetByID implements shift.ShiftSwapRepository.
func (r *shiftSwapRepositoryImpl) GetByID(ctx context.Context, id string) (shift.ShiftSwap, error) {
	if _, err := uuid.Parse(id); err != nil {
		return shift.ShiftSwap{}, shift.ErrShiftSwapNotFound
	}

	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + shiftSwapColumns + shiftSwapJoins + ` WHERE s.id = $1`

	s, err := scanShiftSwap(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.ShiftSwap{}, shift.ErrShiftSwapNotFound
		}
		return shift.ShiftSwap{}, fmt.Errorf("failed to get shift swap: %w", err)
	}
	return s, nil
}

// List implements shift.ShiftSwapRepository.
func (r *shiftSwapRepositoryImpl) List(ctx context.Context, filter shift.ShiftSwapFilter) ([]shift.ShiftSwap, int64, error) {
	q := GetQuerier(ctx, r.db)

	var (
		conditions []string
		args       []any
	)
	if filter.InvolvingID != nil && *filter.InvolvingID != "" {
		args = append(args, *filter.InvolvingID)
		conditions = append(conditions, fmt.Sprintf("(s.employee_id = $%d OR s.swap_with_id = $%d)", len(args), len(args)))
	}
	if filter.Status != nil && *filter.Status != "" {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("s.status = $%d", len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM shift_swaps s` + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count shift swaps: %w", err)
	}

	args = append(args, filter.Limit, filter.Offset())
	query := `SELECT ` + shiftSwapColumns + shiftSwapJoins + where +
		fmt.Sprintf(` ORDER BY s.created_at DESC, s.id DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list shift swaps: %w", err)
	}
	defer rows.Close()

	var swaps []shift.ShiftSwap
	for rows.Next() {
		s, err := scanShiftSwap(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan shift swap: %w", err)
		}
		swaps = append(swaps, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate shift swaps: %w", err)
	}

	return swaps, total, nil
}

// HasPending implements shift.ShiftSwapRepository.
func (r *shiftSwapRepositoryImpl) HasPending(ctx context.Context, employeeID string, date time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM shift_swaps
			WHERE employee_id = $1 AND shift_date = $2 AND status = 'pending'
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, employeeID, date).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check pending shift swaps: %w", err)
	}
	return exists, nil
}

// Decide implements shift.ShiftSwapRepository.
func (r *shiftSwapRepositoryImpl) Decide(ctx context.Context, d shift.Decision) (shift.ShiftSwap, error) {
	if _, err := uuid.Parse(d.ID); err != nil {
		return shift.ShiftSwap{}, shift.ErrShiftSwapNotFound
	}

	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shift_swaps
		SET status = $2, decided_by = $3, decided_at = $4, rejection_reason = $5, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`

	commandTag, err := q.Exec(ctx, query, d.ID, d.Status, d.DecidedBy, d.DecidedAt, d.RejectionReason)
	if err != nil {
		return shift.ShiftSwap{}, fmt.Errorf("failed to update shift swap: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, d.ID); err != nil {
			return shift.ShiftSwap{}, err
		}
		return shift.ShiftSwap{}, shift.ErrShiftSwapAlreadyProcessed
	}

	return r.GetByID(ctx, d.ID)
}
