package leave

import (
	"context"
	"time"
)

// LeaveRequestRepository - interface for leave_requests table
type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)

	// List returns requests matched by filter, newest first, with the unpaginated total
	List(ctx context.Context, filter LeaveRequestFilter) ([]LeaveRequest, int64, error)

	// HasOverlap reports whether the employee has a pending or approved request covering
	// any day in [from, to]
	HasOverlap(ctx context.Context, employeeID string, from, to time.Time) (bool, error)

	// Decide applies a decision to a pending request and returns ErrLeaveRequestAlreadyProcessed
	// when the request is no longer pending
	Decide(ctx context.Context, decision Decision) (LeaveRequest, error)
}
