package shift

import "errors"

var (
	ErrShiftSwapNotFound         = errors.New("Shift swap not found")
	ErrShiftSwapAlreadyProcessed = errors.New("Shift swap already processed")
	ErrDuplicateShiftSwap        = errors.New("A pending swap for this shift already exists")
)
