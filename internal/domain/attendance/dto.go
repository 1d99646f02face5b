package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-overtime/internal/domain/overtime"
	"github.com/cmlabs-hris/hris-overtime/internal/pkg/validator"
)

// ========================================
// CLOCK DTOs
// ========================================

type ClockInRequest struct {
	EmployeeID string   `json:"-"`
	Method     *string  `json:"method,omitempty"`
	Location   *string  `json:"location,omitempty"`
	HourlyRate *float64 `json:"hourly_rate,omitempty"`
}

func (r *ClockInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if r.Method != nil && !validator.IsInSlice(*r.Method, validMethods) {
		errs = append(errs, validator.ValidationError{
			Field:   "method",
			Message: "method must be one of: web, mobile, kiosk",
		})
	}

	if r.Location != nil && len(*r.Location) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "location",
			Message: "location must not exceed 255 characters",
		})
	}

	if r.HourlyRate != nil && *r.HourlyRate <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "hourly_rate",
			Message: "hourly_rate must be greater than 0",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ClockOutRequest struct {
	EmployeeID string `json:"-"`
}

func (r *ClockOutRequest) Validate() error {
	if validator.IsEmpty(r.EmployeeID) {
		return validator.ValidationErrors{{
			Field:   "employee_id",
			Message: "employee_id is required",
		}}
	}
	return nil
}

type AttendanceResponse struct {
	ID              string   `json:"id"`
	EmployeeID      string   `json:"employee_id"`
	EmployeeName    string   `json:"employee_name,omitempty"`
	Date            string   `json:"date"`
	ClockInTime     *string  `json:"clock_in_time,omitempty"`
	ClockOutTime    *string  `json:"clock_out_time,omitempty"`
	Method          *string  `json:"method,omitempty"`
	Location        *string  `json:"location,omitempty"`
	Status          string   `json:"status"`
	HourlyRate      *float64 `json:"hourly_rate,omitempty"`
	TotalHours      float64  `json:"total_hours"`
	RegularHours    float64  `json:"regular_hours"`
	OvertimeHours   float64  `json:"overtime_hours"`
	DoubleTimeHours float64  `json:"double_time_hours"`
	Overtime        float64  `json:"overtime"`
	OvertimeAmount  float64  `json:"overtime_amount"`
	CreatedAt       string   `json:"created_at"`
	UpdatedAt       string   `json:"updated_at"`
}

// ClockOutResponse is returned after a successful clock-out.
type ClockOutResponse struct {
	EmployeeID string                     `json:"employee_id"`
	Breakdown  overtime.BreakdownResponse `json:"breakdown"`
}

// ClockedOutEvent is published to live subscribers after a clock-out is stored.
type ClockedOutEvent struct {
	EmployeeID     string  `json:"employee_id"`
	Date           string  `json:"date"`
	TotalHours     float64 `json:"total_hours"`
	Overtime       float64 `json:"overtime"`
	OvertimeAmount float64 `json:"overtime_amount"`
}

// ========================================
// REPORT DTOs
// ========================================

type OvertimeReportFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	StartDate  *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate    *string `json:"end_date,omitempty"`   // YYYY-MM-DD

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *OvertimeReportFilter) Validate() error {
	var errs validator.ValidationErrors

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

	start, startOK := f.startDate()
	if f.StartDate != nil && *f.StartDate != "" && !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}

	end, endOK := f.endDate()
	if f.EndDate != nil && *f.EndDate != "" && !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}

	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// DateRange returns the parsed bounds of a validated filter. Unset bounds are nil.
func (f *OvertimeReportFilter) DateRange() (from, to *time.Time) {
	if start, ok := f.startDate(); ok {
		from = &start
	}
	if end, ok := f.endDate(); ok {
		to = &end
	}
	return from, to
}

// Offset returns the number of rows to skip for the requested page.
func (f *OvertimeReportFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

func (f *OvertimeReportFilter) startDate() (time.Time, bool) {
	if f.StartDate == nil || *f.StartDate == "" {
		return time.Time{}, false
	}
	return validator.IsValidDate(*f.StartDate)
}

func (f *OvertimeReportFilter) endDate() (time.Time, bool) {
	if f.EndDate == nil || *f.EndDate == "" {
		return time.Time{}, false
	}
	return validator.IsValidDate(*f.EndDate)
}

type OvertimeTotalsResponse struct {
	Records         int64   `json:"records"`
	OvertimeHours   float64 `json:"overtime_hours"`
	DoubleTimeHours float64 `json:"double_time_hours"`
	Overtime        float64 `json:"overtime"`
	OvertimeAmount  float64 `json:"overtime_amount"`
}

type OvertimeReportResponse struct {
	TotalCount int64                  `json:"total_count"`
	Page       int                    `json:"page"`
	Limit      int                    `json:"limit"`
	TotalPages int                    `json:"total_pages"`
	Showing    string                 `json:"showing"`
	Totals     OvertimeTotalsResponse `json:"totals"`
	Records    []AttendanceResponse   `json:"records"`
}

// ========================================
// EMPLOYEE DTOs
// ========================================

// EmployeeResponse is a directory entry. HourlyRate is only filled for managers.
type EmployeeResponse struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Department *string  `json:"department,omitempty"`
	Position   *string  `json:"position,omitempty"`
	ShiftStart *string  `json:"shift_start,omitempty"`
	ShiftEnd   *string  `json:"shift_end,omitempty"`
	HourlyRate *float64 `json:"hourly_rate,omitempty"`
}
