package memory

import (
	"context"
	"sort"

	"github.com/cmlabs-hris/hris-overtime/internal/domain/attendance"
)

// EmployeeRepository is the in-memory employee directory.
type EmployeeRepository struct {
	store *Store
}

func NewEmployeeRepository(store *Store) *EmployeeRepository {
	return &EmployeeRepository{store: store}
}

// Upsert adds or replaces an employee.
func (r *EmployeeRepository) Upsert(emp attendance.Employee) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.employees[emp.ID] = emp
}

// GetByID implements attendance.EmployeeRepository.
func (r *EmployeeRepository) GetByID(_ context.Context, employeeID string) (attendance.Employee, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	emp, ok := r.store.employees[employeeID]
	if !ok {
		return attendance.Employee{}, attendance.ErrEmployeeNotFound
	}
	return emp, nil
}

// List implements attendance.EmployeeRepository.
func (r *EmployeeRepository) List(_ context.Context) ([]attendance.Employee, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	employees := make([]attendance.Employee, 0, len(r.store.employees))
	for _, emp := range r.store.employees {
		employees = append(employees, emp)
	}
	sort.Slice(employees, func(i, j int) bool {
		if employees[i].Name != employees[j].Name {
			return employees[i].Name < employees[j].Name
		}
		return employees[i].ID < employees[j].ID
	})
	return employees, nil
}
