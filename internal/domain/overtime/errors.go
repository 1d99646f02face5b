package overtime

import (
	"errors"
	"fmt"
)

// Overtime domain errors
var (
	ErrInvalidSession      = errors.New("invalid work session")
	ErrRulesNotFound       = errors.New("overtime rules not configured")
	ErrRulesUnavailable    = errors.New("overtime rules unavailable")
	ErrHistoryUnavailable  = errors.New("weekly hours history unavailable")
	ErrPersistenceConflict = errors.New("attendance record was modified concurrently")
)

// PersistFailedError is returned when a breakdown was computed but could not be saved.
// The breakdown is attached so callers can still display it.
type PersistFailedError struct {
	Breakdown Breakdown
	Err       error
}

func (e *PersistFailedError) Error() string {
	return fmt.Sprintf("failed to persist overtime breakdown: %v", e.Err)
}

func (e *PersistFailedError) Unwrap() error {
	return e.Err
}
