package shift

import (
	"context"

	"github.com/cmlabs-hris/hris-overtime/internal/domain/user"
)

type ShiftSwapService interface {
	// CreateShiftSwap submits a pending swap of the caller's shift to another employee
	CreateShiftSwap(ctx context.Context, principal user.Principal, req CreateShiftSwapRequest) (ShiftSwapResponse, error)

	// ApproveShiftSwap approves a pending swap (managers only)
	ApproveShiftSwap(ctx context.Context, principal user.Principal, swapID string) (ShiftSwapResponse, error)

	// RejectShiftSwap rejects a pending swap with an optional reason (managers only)
	RejectShiftSwap(ctx context.Context, principal user.Principal, req RejectShiftSwapRequest) (ShiftSwapResponse, error)

	// CancelShiftSwap withdraws the caller's own pending swap
	CancelShiftSwap(ctx context.Context, principal user.Principal, swapID string) (ShiftSwapResponse, error)

	// ListShiftSwaps lists swaps newest first; employees see swaps they requested or cover
	ListShiftSwaps(ctx context.Context, principal user.Principal, filter ShiftSwapFilter) (ListShiftSwapResponse, error)
}
