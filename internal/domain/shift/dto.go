package shift

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-overtime/internal/pkg/validator"
)

// DefaultReason is stored when a swap is submitted without one.
const DefaultReason = "No reason provided"

type CreateShiftSwapRequest struct {
	EmployeeID string  `json:"-"`
	SwapWithID string  `json:"swap_with_id"`
	ShiftDate  string  `json:"shift_date"`  // YYYY-MM-DD
	ShiftStart string  `json:"shift_start"` // HH:MM
	ShiftEnd   string  `json:"shift_end"`   // HH:MM
	Reason     *string `json:"reason,omitempty"`
}

func (r *CreateShiftSwapRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if validator.IsEmpty(r.SwapWithID) {
		errs = append(errs, validator.ValidationError{
			Field:   "swap_with_id",
			Message: "swap_with_id is required",
		})
	} else if r.SwapWithID == r.EmployeeID {
		errs = append(errs, validator.ValidationError{
			Field:   "swap_with_id",
			Message: "swap_with_id must be another employee",
		})
	}

	if _, ok := validator.IsValidDate(r.ShiftDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "shift_date",
			Message: "shift_date must be in YYYY-MM-DD format",
		})
	}

	start, startOK := validator.IsValidClock(r.ShiftStart)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "shift_start",
			Message: "shift_start must be in HH:MM format",
		})
	}

	end, endOK := validator.IsValidClock(r.ShiftEnd)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "shift_end",
			Message: "shift_end must be in HH:MM format",
		})
	}

	if startOK && endOK && start.Equal(end) {
		errs = append(errs, validator.ValidationError{
			Field:   "shift_end",
			Message: "shift_end must differ from shift_start",
		})
	}

	if r.Reason != nil && len(*r.Reason) > 1000 {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason must not exceed 1000 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Date returns the parsed shift date of a validated request.
func (r *CreateShiftSwapRequest) Date() time.Time {
	date, _ := validator.IsValidDate(r.ShiftDate)
	return date
}

// ReasonOrDefault returns the trimmed reason, or DefaultReason when none was given.
func (r *CreateShiftSwapRequest) ReasonOrDefault() string {
	if r.Reason == nil || validator.IsEmpty(*r.Reason) {
		return DefaultReason
	}
	return strings.TrimSpace(*r.Reason)
}

type RejectShiftSwapRequest struct {
	ID     string  `json:"-"`
	Reason *string `json:"rejection_reason,omitempty"`
}

func (r *RejectShiftSwapRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if r.Reason != nil && len(*r.Reason) > 1000 {
		errs = append(errs, validator.ValidationError{
			Field:   "rejection_reason",
			Message: "rejection_reason must not exceed 1000 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ShiftSwapFilter narrows a listing. InvolvingID matches swaps requested by or covered by
// that employee.
type ShiftSwapFilter struct {
	InvolvingID *string `json:"employee_id,omitempty"`
	Status      *string `json:"status,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *ShiftSwapFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Status != nil && *f.Status != "" && !validator.IsInSlice(*f.Status, validStatuses) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: " + strings.Join(validStatuses, ", "),
		})
	}

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1 // Default page
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20 // Default limit
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Offset returns the number of rows to skip for the requested page.
func (f *ShiftSwapFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

type ShiftSwapResponse struct {
	ID              string  `json:"id"`
	EmployeeID      string  `json:"employee_id"`
	EmployeeName    string  `json:"employee_name,omitempty"`
	SwapWithID      string  `json:"swap_with_id"`
	SwapWithName    string  `json:"swap_with_name,omitempty"`
	ShiftDate       string  `json:"shift_date"`
	ShiftStart      string  `json:"shift_start"`
	ShiftEnd        string  `json:"shift_end"`
	Reason          string  `json:"reason"`
	Status          string  `json:"status"`
	DecidedBy       *string `json:"decided_by,omitempty"`
	DecidedAt       *string `json:"decided_at,omitempty"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

type ListShiftSwapResponse struct {
	TotalCount int64               `json:"total_count"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
	TotalPages int                 `json:"total_pages"`
	Showing    string              `json:"showing"`
	ShiftSwaps []ShiftSwapResponse `json:"shift_swaps"`
}
