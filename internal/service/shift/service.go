package shift

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-overtime/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-overtime/internal/domain/shift"
	"github.com/cmlabs-hris/hris-overtime/internal/domain/user"
	"github.com/cmlabs-hris/hris-overtime/internal/pkg/database"
	"github.com/cmlabs-hris/hris-overtime/internal/pkg/pagination"
)

type ShiftSwapServiceImpl struct {
	transactor database.Transactor
	shift.ShiftSwapRepository
	attendance.EmployeeRepository
	now func() time.Time
}

func NewShiftSwapService(
	transactor database.Transactor,
	shiftSwapRepository shift.ShiftSwapRepository,
	employeeRepository attendance.EmployeeRepository,
) shift.ShiftSwapService {
	return &ShiftSwapServiceImpl{
		transactor:          transactor,
		ShiftSwapRepository: shiftSwapRepository,
		EmployeeRepository:  employeeRepository,
		now:                 time.Now,
	}
}

func actorID(principal user.Principal) string {
	if principal.EmployeeID != "" {
		return principal.EmployeeID
	}
	return principal.UserID
}

// CreateShiftSwap implements shift.ShiftSwapService.
func (s *ShiftSwapServiceImpl) CreateShiftSwap(ctx context.Context, principal user.Principal, req shift.CreateShiftSwapRequest) (shift.ShiftSwapResponse, error) {
	if principal.EmployeeID == "" {
		return shift.ShiftSwapResponse{}, user.ErrEmployeeIDRequired
	}
	req.EmployeeID = principal.EmployeeID
	if err := req.Validate(); err != nil {
		return shift.ShiftSwapResponse{}, err
	}
	date := req.Date()

	if _, err := s.EmployeeRepository.GetByID(ctx, req.SwapWithID); err != nil {
		if errors.Is(err, attendance.ErrEmployeeNotFound) {
			return shift.ShiftSwapResponse{}, err
		}
		return shift.ShiftSwapResponse{}, fmt.Errorf("failed to get swap partner: %w", err)
	}

	var created shift.ShiftSwap
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		pending, err := s.ShiftSwapRepository.HasPending(ctx, req.EmployeeID, date)
		if err != nil {
			return fmt.Errorf("failed to check pending shift swaps: %w", err)
		}
		if pending {
			return shift.ErrDuplicateShiftSwap
		}

		created, err = s.ShiftSwapRepository.Create(ctx, shift.ShiftSwap{
			EmployeeID: req.EmployeeID,
			SwapWithID: req.SwapWithID,
			ShiftDate:  date,
			ShiftStart: req.ShiftStart,
			ShiftEnd:   req.ShiftEnd,
			Reason:     req.ReasonOrDefault(),
			Status:     shift.SwapStatusPending,
		})
		if err != nil {
			return fmt.Errorf("failed to create shift swap: %w", err)
		}
		return nil
	})
	if err != nil {
		return shift.ShiftSwapResponse{}, err
	}

	slog.Info("Shift swap requested",
		"shift_swap_id", created.ID, "employee_id", created.EmployeeID,
		"swap_with_id", created.SwapWithID, "shift_date", created.ShiftDate.Format("2006-01-02"))
	return mapShiftSwapToResponse(created), nil
}

// ApproveShiftSwap implements shift.ShiftSwapService.
func (s *ShiftSwapServiceImpl) ApproveShiftSwap(ctx context.Context, principal user.Principal, swapID string) (shift.ShiftSwapResponse, error) {
	if !principal.Can(user.PermissionShiftApprove) {
		return shift.ShiftSwapResponse{}, user.ErrInsufficientPermissions
	}
	return s.decide(ctx, shift.Decision{
		ID:        swapID,
		Status:    shift.SwapStatusApproved,
		DecidedBy: actorID(principal),
		DecidedAt: s.now(),
	})
}

// RejectShiftSwap implements shift.ShiftSwapService.
func (s *ShiftSwapServiceImpl) RejectShiftSwap(ctx context.Context, principal user.Principal, req shift.RejectShiftSwapRequest) (shift.ShiftSwapResponse, error) {
	if !principal.Can(user.PermissionShiftApprove) {
		return shift.ShiftSwapResponse{}, user.ErrInsufficientPermissions
	}
	if err := req.Validate(); err != nil {
		return shift.ShiftSwapResponse{}, err
	}
	return s.decide(ctx, shift.Decision{
		ID:              req.ID,
		Status:          shift.SwapStatusRejected,
		DecidedBy:       actorID(principal),
		DecidedAt:       s.now(),
		RejectionReason: req.Reason,
	})
}

// CancelShiftSwap implements shift.ShiftSwapService.
func (s *ShiftSwapServiceImpl) CancelShiftSwap(ctx context.Context, principal user.Principal, swapID string) (shift.ShiftSwapResponse, error) {
	swap, err := s.ShiftSwapRepository.GetByID(ctx, swapID)
	if err != nil {
		return shift.ShiftSwapResponse{}, err
	}
	if principal.EmployeeID == "" || swap.EmployeeID != principal.EmployeeID {
		return shift.ShiftSwapResponse{}, shift.ErrShiftSwapNotFound
	}

	return s.decide(ctx, shift.Decision{
		ID:        swapID,
		Status:    shift.SwapStatusCancelled,
		DecidedBy: actorID(principal),
		DecidedAt: s.now(),
	})
}

func (s *ShiftSwapServiceImpl) decide(ctx context.Context, decision shift.Decision) (shift.ShiftSwapResponse, error) {
	decided, err := s.ShiftSwapRepository.Decide(ctx, decision)
	if err != nil {
		if errors.Is(err, shift.ErrShiftSwapNotFound) || errors.Is(err, shift.ErrShiftSwapAlreadyProcessed) {
			return shift.ShiftSwapResponse{}, err
		}
		return shift.ShiftSwapResponse{}, fmt.Errorf("failed to update shift swap: %w", err)
	}

	slog.Info("Shift swap decided",
		"shift_swap_id", decided.ID, "employee_id", decided.EmployeeID,
		"status", decided.Status, "decided_by", decision.DecidedBy)
	return mapShiftSwapToResponse(decided), nil
}

// ListShiftSwaps implements shift.ShiftSwapService.
func (s *ShiftSwapServiceImpl) ListShiftSwaps(ctx context.Context, principal user.Principal, filter shift.ShiftSwapFilter) (shift.ListShiftSwapResponse, error) {
	if !principal.Can(user.PermissionShiftApprove) {
		if principal.EmployeeID == "" {
			return shift.ListShiftSwapResponse{}, user.ErrEmployeeIDRequired
		}
		filter.InvolvingID = &principal.EmployeeID
	}
	if err := filter.Validate(); err != nil {
		return shift.ListShiftSwapResponse{}, err
	}

	swaps, total, err := s.ShiftSwapRepository.List(ctx, filter)
	if err != nil {
		return shift.ListShiftSwapResponse{}, fmt.Errorf("failed to list shift swaps: %w", err)
	}

	responses := make([]shift.ShiftSwapResponse, 0, len(swaps))
	for _, sw := range swaps {
		responses = append(responses, mapShiftSwapToResponse(sw))
	}

	return shift.ListShiftSwapResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: pagination.TotalPages(filter.Limit, total),
		Showing:    pagination.Showing(filter.Page, filter.Limit, total),
		ShiftSwaps: responses,
	}, nil
}

func mapShiftSwapToResponse(sw shift.ShiftSwap) shift.ShiftSwapResponse {
	resp := shift.ShiftSwapResponse{
		ID:              sw.ID,
		EmployeeID:      sw.EmployeeID,
		SwapWithID:      sw.SwapWithID,
		ShiftDate:       sw.ShiftDate.Format("2006-01-02"),
		ShiftStart:      sw.ShiftStart,
		ShiftEnd:        sw.ShiftEnd,
		Reason:          sw.Reason,
		Status:          string(sw.Status),
		DecidedBy:       sw.DecidedBy,
		RejectionReason: sw.RejectionReason,
		CreatedAt:       sw.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:       sw.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
	if sw.EmployeeName != nil {
		resp.EmployeeName = *sw.EmployeeName
	}
	if sw.SwapWithName != nil {
		resp.SwapWithName = *sw.SwapWithName
	}
	if sw.DecidedAt != nil {
		decidedAt := sw.DecidedAt.Format("2006-01-02 15:04:05")
		resp.DecidedAt = &decidedAt
	}
	return resp
}
