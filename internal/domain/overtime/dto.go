package overtime

import (
	"time"

	"github.com/cmlabs-hris/hris-overtime/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========================================
// RULES DTOs
// ========================================

type RulesResponse struct {
	DailyThreshold       float64 `json:"daily_threshold"`
	WeeklyThreshold      float64 `json:"weekly_threshold"`
	RateMultiplier       float64 `json:"rate_multiplier"`
	DoubleTimeThreshold  float64 `json:"double_time_threshold"`
	DoubleTimeMultiplier float64 `json:"double_time_multiplier"`
	UpdatedAt            *string `json:"updated_at,omitempty"`
}

func NewRulesResponse(r Rules) RulesResponse {
	resp := RulesResponse{
		DailyThreshold:       r.DailyThreshold.InexactFloat64(),
		WeeklyThreshold:      r.WeeklyThreshold.InexactFloat64(),
		RateMultiplier:       r.RateMultiplier.InexactFloat64(),
		DoubleTimeThreshold:  r.DoubleTimeThreshold.InexactFloat64(),
		DoubleTimeMultiplier: r.DoubleTimeMultiplier.InexactFloat64(),
	}
	if !r.UpdatedAt.IsZero() {
		updatedAt := r.UpdatedAt.Format("2006-01-02 15:04:05")
		resp.UpdatedAt = &updatedAt
	}
	return resp
}

type UpdateRulesRequest struct {
	DailyThreshold       float64 `json:"daily_threshold"`
	WeeklyThreshold      float64 `json:"weekly_threshold"`
	RateMultiplier       float64 `json:"rate_multiplier"`
	DoubleTimeThreshold  float64 `json:"double_time_threshold"`
	DoubleTimeMultiplier float64 `json:"double_time_multiplier"`
}

// ToRules converts the request into domain rules.
func (r *UpdateRulesRequest) ToRules() Rules {
	return Rules{
		DailyThreshold:       decimal.NewFromFloat(r.DailyThreshold),
		WeeklyThreshold:      decimal.NewFromFloat(r.WeeklyThreshold),
		RateMultiplier:       decimal.NewFromFloat(r.RateMultiplier),
		DoubleTimeThreshold:  decimal.NewFromFloat(r.DoubleTimeThreshold),
		DoubleTimeMultiplier: decimal.NewFromFloat(r.DoubleTimeMultiplier),
	}
}

func (r *UpdateRulesRequest) Validate() error {
	return r.ToRules().Validate()
}

// Upper bounds follow the overtime_rules column precision.
var (
	maxDailyThreshold  = decimal.RequireFromString("999.99")  // NUMERIC(5,2)
	maxWeeklyThreshold = decimal.RequireFromString("9999.99") // NUMERIC(6,2)
	maxMultiplier      = decimal.RequireFromString("99.99")   // NUMERIC(4,2)
)

// Validate checks the rule set invariants. A double-time threshold equal to the daily
// threshold is accepted and removes the overtime tier.
func (r Rules) Validate() error {
	var errs validator.ValidationErrors

	if r.DailyThreshold.IsNegative() {
		errs = append(errs, validator.ValidationError{
			Field:   "daily_threshold",
			Message: "daily_threshold must not be negative",
		})
	}
	if r.DailyThreshold.GreaterThan(maxDailyThreshold) {
		errs = append(errs, validator.ValidationError{
			Field:   "daily_threshold",
			Message: "daily_threshold must not exceed " + maxDailyThreshold.String(),
		})
	}

	if r.WeeklyThreshold.IsNegative() {
		errs = append(errs, validator.ValidationError{
			Field:   "weekly_threshold",
			Message: "weekly_threshold must not be negative",
		})
	}
	if r.WeeklyThreshold.GreaterThan(maxWeeklyThreshold) {
		errs = append(errs, validator.ValidationError{
			Field:   "weekly_threshold",
			Message: "weekly_threshold must not exceed " + maxWeeklyThreshold.String(),
		})
	}

	if !r.RateMultiplier.IsPositive() {
		errs = append(errs, validator.ValidationError{
			Field:   "rate_multiplier",
			Message: "rate_multiplier must be greater than 0",
		})
	}
	if r.RateMultiplier.GreaterThan(maxMultiplier) {
		errs = append(errs, validator.ValidationError{
			Field:   "rate_multiplier",
			Message: "rate_multiplier must not exceed " + maxMultiplier.String(),
		})
	}

	if !r.DoubleTimeMultiplier.IsPositive() {
		errs = append(errs, validator.ValidationError{
			Field:   "double_time_multiplier",
			Message: "double_time_multiplier must be greater than 0",
		})
	}
	if r.DoubleTimeMultiplier.GreaterThan(maxMultiplier) {
		errs = append(errs, validator.ValidationError{
			Field:   "double_time_multiplier",
			Message: "double_time_multiplier must not exceed " + maxMultiplier.String(),
		})
	}

	if r.DoubleTimeThreshold.GreaterThan(maxDailyThreshold) {
		errs = append(errs, validator.ValidationError{
			Field:   "double_time_threshold",
			Message: "double_time_threshold must not exceed " + maxDailyThreshold.String(),
		})
	}

	if r.DoubleTimeThreshold.LessThan(r.DailyThreshold) {
		errs = append(errs, validator.ValidationError{
			Field:   "double_time_threshold",
			Message: "double_time_threshold must not be lower than daily_threshold",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ========================================
// CALCULATION DTOs
// ========================================

type PreviewRequest struct {
	ClockIn          string   `json:"clock_in"`  // RFC3339
	ClockOut         string   `json:"clock_out"` // RFC3339
	PriorWeeklyHours float64  `json:"prior_weekly_hours"`
	HourlyRate       *float64 `json:"hourly_rate,omitempty"`
}

func (r *PreviewRequest) Validate() error {
	var errs validator.ValidationErrors

	clockIn, okIn := validator.IsValidDateTime(r.ClockIn)
	if !okIn {
		errs = append(errs, validator.ValidationError{
			Field:   "clock_in",
			Message: "clock_in must be an RFC3339 timestamp",
		})
	}

	clockOut, okOut := validator.IsValidDateTime(r.ClockOut)
	if !okOut {
		errs = append(errs, validator.ValidationError{
			Field:   "clock_out",
			Message: "clock_out must be an RFC3339 timestamp",
		})
	}

	if okIn && okOut && !clockOut.After(clockIn) {
		errs = append(errs, validator.ValidationError{
			Field:   "clock_out",
			Message: "clock_out must be after clock_in",
		})
	}

	if r.PriorWeeklyHours < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "prior_weekly_hours",
			Message: "prior_weekly_hours must not be negative",
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

// Session builds the work session described by a validated request.
func (r *PreviewRequest) Session() WorkSession {
	clockIn, _ := validator.IsValidDateTime(r.ClockIn)
	clockOut, _ := validator.IsValidDateTime(r.ClockOut)

	session := WorkSession{
		Date:     time.Date(clockIn.Year(), clockIn.Month(), clockIn.Day(), 0, 0, 0, 0, time.UTC),
		ClockIn:  clockIn,
		ClockOut: &clockOut,
	}
	if r.HourlyRate != nil {
		rate := decimal.NewFromFloat(*r.HourlyRate)
		session.HourlyRate = &rate
	}
	return session
}

type BreakdownResponse struct {
	TotalHours      float64 `json:"total_hours"`
	RegularHours    float64 `json:"regular_hours"`
	OvertimeHours   float64 `json:"overtime_hours"`
	DoubleTimeHours float64 `json:"double_time_hours"`
	Overtime        float64 `json:"overtime"`
	OvertimeAmount  float64 `json:"overtime_amount"`
	HourlyRate      float64 `json:"hourly_rate"`
}

func NewBreakdownResponse(b Breakdown) BreakdownResponse {
	return BreakdownResponse{
		TotalHours:      b.TotalHours.InexactFloat64(),
		RegularHours:    b.RegularHours.InexactFloat64(),
		OvertimeHours:   b.OvertimeHours.InexactFloat64(),
		DoubleTimeHours: b.DoubleTimeHours.InexactFloat64(),
		Overtime:        b.Combined().InexactFloat64(),
		OvertimeAmount:  b.OvertimeAmount.InexactFloat64(),
		HourlyRate:      b.HourlyRate.InexactFloat64(),
	}
}
