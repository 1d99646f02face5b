package shift

import (
	"context"
	"time"
)

// ShiftSwapRepository - interface for shift_swaps table
type ShiftSwapRepository interface {
	Create(ctx context.Context, swap ShiftSwap) (ShiftSwap, error)
	GetByID(ctx context.Context, id string) (ShiftSwap, error)

	// List returns swaps matched by filter, newest first, with the unpaginated total
	List(ctx context.Context, filter ShiftSwapFilter) ([]ShiftSwap, int64, error)

	// HasPending reports whether the employee already has a pending swap for the date
	HasPending(ctx context.Context, employeeID string, date time.Time) (bool, error)

	// Decide applies a decision to a pending swap and returns ErrShiftSwapAlreadyProcessed
	// when the swap is no longer pending
	Decide(ctx context.Context, decision Decision) (ShiftSwap, error)
}
