package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-overtime/internal/domain/leave"
	"github.com/cmlabs-hris/hris-overtime/internal/domain/user"
	"github.com/cmlabs-hris/hris-overtime/internal/pkg/database"
	"github.com/cmlabs-hris/hris-overtime/internal/pkg/pagination"
)

type LeaveServiceImpl struct {
	transactor database.Transactor
	leave.LeaveRequestRepository
	now func() time.Time
}

func NewLeaveService(transactor database.Transactor, leaveRequestRepository leave.LeaveRequestRepository) leave.LeaveService {
	return &LeaveServiceImpl{
		transactor:             transactor,
		LeaveRequestRepository: leaveRequestRepository,
		now:                    time.Now,
	}
}

// actorID identifies who decided a request: the employee record when linked, the user otherwise.
func actorID(principal user.Principal) string {
	if principal.EmployeeID != "" {
		return principal.EmployeeID
	}
	return principal.UserID
}

// CreateLeaveRequest implements leave.LeaveService.
func (s *LeaveServiceImpl) CreateLeaveRequest(ctx context.Context, principal user.Principal, req leave.CreateLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	if principal.EmployeeID == "" {
		return leave.LeaveRequestResponse{}, user.ErrEmployeeIDRequired
	}
	req.EmployeeID = principal.EmployeeID
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	from, to := req.Dates()

	var created leave.LeaveRequest
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		overlap, err := s.LeaveRequestRepository.HasOverlap(ctx, req.EmployeeID, from, to)
		if err != nil {
			return fmt.Errorf("failed to check overlapping leave requests: %w", err)
		}
		if overlap {
			return leave.ErrOverlappingLeave
		}

		created, err = s.LeaveRequestRepository.Create(ctx, leave.LeaveRequest{
			EmployeeID: req.EmployeeID,
			Type:       leave.LeaveType(req.LeaveType),
			FromDate:   from,
			ToDate:     to,
			Days:       leave.CountDays(from, to),
			Reason:     req.ReasonOrDefault(),
			Status:     leave.LeaveRequestStatusPending,
		})
		if err != nil {
			return fmt.Errorf("failed to create leave request: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	slog.Info("Leave request submitted",
		"leave_request_id", created.ID, "employee_id", created.EmployeeID,
		"leave_type", created.Type, "days", created.Days)
	return mapLeaveRequestToResponse(created), nil
}

// ApproveLeaveRequest implements leave.LeaveService.
func (s *LeaveServiceImpl) ApproveLeaveRequest(ctx context.Context, principal user.Principal, requestID string) (leave.LeaveRequestResponse, error) {
	if !principal.Can(user.PermissionLeaveApprove) {
		return leave.LeaveRequestResponse{}, user.ErrInsufficientPermissions
	}
	return s.decide(ctx, leave.Decision{
		ID:        requestID,
		Status:    leave.LeaveRequestStatusApproved,
		DecidedBy: actorID(principal),
		DecidedAt: s.now(),
	})
}

// RejectLeaveRequest implements leave.LeaveService.
func (s *LeaveServiceImpl) RejectLeaveRequest(ctx context.Context, principal user.Principal, req leave.RejectRequestRequest) (leave.LeaveRequestResponse, error) {
	if !principal.Can(user.PermissionLeaveApprove) {
		return leave.LeaveRequestResponse{}, user.ErrInsufficientPermissions
	}
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return s.decide(ctx, leave.Decision{
		ID:              req.ID,
		Status:          leave.LeaveRequestStatusRejected,
		DecidedBy:       actorID(principal),
		DecidedAt:       s.now(),
		RejectionReason: req.Reason,
	})
}

// CancelLeaveRequest implements leave.LeaveService.
func (s *LeaveServiceImpl) CancelLeaveRequest(ctx context.Context, principal user.Principal, requestID string) (leave.LeaveRequestResponse, error) {
	request, err := s.LeaveRequestRepository.GetByID(ctx, requestID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if principal.EmployeeID == "" || request.EmployeeID != principal.EmployeeID {
		return leave.LeaveRequestResponse{}, leave.ErrLeaveRequestNotFound
	}

	return s.decide(ctx, leave.Decision{
		ID:        requestID,
		Status:    leave.LeaveRequestStatusCancelled,
		DecidedBy: actorID(principal),
		DecidedAt: s.now(),
	})
}

func (s *LeaveServiceImpl) decide(ctx context.Context, decision leave.Decision) (leave.LeaveRequestResponse, error) {
	decided, err := s.LeaveRequestRepository.Decide(ctx, decision)
	if err != nil {
		if errors.Is(err, leave.ErrLeaveRequestNotFound) || errors.Is(err, leave.ErrLeaveRequestAlreadyProcessed) {
			return leave.LeaveRequestResponse{}, err
		}
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to update leave request: %w", err)
	}

	slog.Info("Leave request decided",
		"leave_request_id", decided.ID, "employee_id", decided.EmployeeID,
		"status", decided.Status, "decided_by", decision.DecidedBy)
	return mapLeaveRequestToResponse(decided), nil
}

// GetLeaveRequest implements leave.LeaveService.
func (s *LeaveServiceImpl) GetLeaveRequest(ctx context.Context, principal user.Principal, requestID string) (leave.LeaveRequestResponse, error) {
	request, err := s.LeaveRequestRepository.GetByID(ctx, requestID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if !principal.Can(user.PermissionLeaveApprove) && request.EmployeeID != principal.EmployeeID {
		return leave.LeaveRequestResponse{}, leave.ErrLeaveRequestNotFound
	}
	return mapLeaveRequestToResponse(request), nil
}

// ListLeaveRequests implements leave.LeaveService.
func (s *LeaveServiceImpl) ListLeaveRequests(ctx context.Context, principal user.Principal, filter leave.LeaveRequestFilter) (leave.ListLeaveRequestResponse, error) {
	if !principal.Can(user.PermissionLeaveApprove) {
		if principal.EmployeeID == "" {
			return leave.ListLeaveRequestResponse{}, user.ErrEmployeeIDRequired
		}
		filter.EmployeeID = &principal.EmployeeID
	}
	if err := filter.Validate(); err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}

	requests, total, err := s.LeaveRequestRepository.List(ctx, filter)
	if err != nil {
		return leave.ListLeaveRequestResponse{}, fmt.Errorf("failed to list leave requests: %w", err)
	}

	responses := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, lr := range requests {
		responses = append(responses, mapLeaveRequestToResponse(lr))
	}

	return leave.ListLeaveRequestResponse{
		TotalCount:    total,
		Page:          filter.Page,
		Limit:         filter.Limit,
		TotalPages:    pagination.TotalPages(filter.Limit, total),
		Showing:       pagination.Showing(filter.Page, filter.Limit, total),
		LeaveRequests: responses,
	}, nil
}

func mapLeaveRequestToResponse(lr leave.LeaveRequest) leave.LeaveRequestResponse {
	var employeeName string
	if lr.EmployeeName != nil {
		employeeName = *lr.EmployeeName
	}

	var decidedAt *string
	if lr.DecidedAt != nil {
		formatted := lr.DecidedAt.Format("2006-01-02 15:04:05")
		decidedAt = &formatted
	}

	return leave.LeaveRequestResponse{
		ID:              lr.ID,
		EmployeeID:      lr.EmployeeID,
		EmployeeName:    employeeName,
		LeaveType:       string(lr.Type),
		FromDate:        lr.FromDate.Format("2006-01-02"),
		ToDate:          lr.ToDate.Format("2006-01-02"),
		Days:            lr.Days,
		Reason:          lr.Reason,
		Status:          string(lr.Status),
		DecidedBy:       lr.DecidedBy,
		DecidedAt:       decidedAt,
		RejectionReason: lr.RejectionReason,
		CreatedAt:       lr.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:       lr.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}
