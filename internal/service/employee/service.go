package employee

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hris-overtime/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-overtime/internal/domain/user"
)

type EmployeeServiceImpl struct {
	attendance.EmployeeRepository
}

func NewEmployeeService(employeeRepository attendance.EmployeeRepository) attendance.EmployeeService {
	return &EmployeeServiceImpl{EmployeeRepository: employeeRepository}
}

// ListEmployees returns the directory. Hourly rates are only shown to managers.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, principal user.Principal) ([]attendance.EmployeeResponse, error) {
	if !principal.Can(user.PermissionEmployeeView) {
		return nil, user.ErrInsufficientPermissions
	}

	employees, err := s.EmployeeRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	showRates := principal.IsManager()
	responses := make([]attendance.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		resp := attendance.EmployeeResponse{
			ID:         e.ID,
			Name:       e.Name,
			Department: e.Department,
			Position:   e.Position,
			ShiftStart: e.ShiftStart,
			ShiftEnd:   e.ShiftEnd,
		}
		if showRates && e.HourlyRate != nil {
			rate := e.HourlyRate.InexactFloat64()
			resp.HourlyRate = &rate
		}
		responses = append(responses, resp)
	}
	return responses, nil
}
