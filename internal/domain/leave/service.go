package leave

import (
	"context"

	"github.com/cmlabs-hris/hris-overtime/internal/domain/user"
)

type LeaveService interface {
	// CreateLeaveRequest submits a pending request for the caller
	CreateLeaveRequest(ctx context.Context, principal user.Principal, req CreateLeaveRequestRequest) (LeaveRequestResponse, error)

	// ApproveLeaveRequest approves a pending request (managers only)
	ApproveLeaveRequest(ctx context.Context, principal user.Principal, requestID string) (LeaveRequestResponse, error)

	// RejectLeaveRequest rejects a pending request with an optional reason (managers only)
	RejectLeaveRequest(ctx context.Context, principal user.Principal, req RejectRequestRequest) (LeaveRequestResponse, error)

	// CancelLeaveRequest withdraws the caller's own pending request
	CancelLeaveRequest(ctx context.Context, principal user.Principal, requestID string) (LeaveRequestResponse, error)

	// GetLeaveRequest returns one request; employees only see their own
	GetLeaveRequest(ctx context.Context, principal user.Principal, requestID string) (LeaveRequestResponse, error)

	// ListLeaveRequests lists requests newest first; employees only see their own
	ListLeaveRequests(ctx context.Context, principal user.Principal, filter LeaveRequestFilter) (ListLeaveRequestResponse, error)
}
