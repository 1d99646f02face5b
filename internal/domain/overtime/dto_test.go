package overtime

import (
	"errors"
	"testing"

	"github.com/cmlabs-hris/hris-overtime/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldsOf(t *testing.T, err error) []string {
	t.Helper()
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs), "expected validation errors, got %v", err)

	fields := make([]string, 0, len(verrs))
	for _, e := range verrs {
		fields = append(fields, e.Field)
	}
	return fields
}

func TestUpdateRulesRequest_Validate(t *testing.T) {
	valid := UpdateRulesRequest{
		DailyThreshold:       8,
		WeeklyThreshold:      40,
		RateMultiplier:       1.5,
		DoubleTimeThreshold:  12,
		DoubleTimeMultiplier: 2,
	}

	t.Run("defaults are valid", func(t *testing.T) {
		req := valid
		assert.NoError(t, req.Validate())
	})

	t.Run("largest storable values are valid", func(t *testing.T) {
		req := UpdateRulesRequest{
			DailyThreshold:       999.99,
			WeeklyThreshold:      9999.99,
			RateMultiplier:       99.99,
			DoubleTimeThreshold:  999.99,
			DoubleTimeMultiplier: 99.99,
		}
		assert.NoError(t, req.Validate())
	})

	tests := []struct {
		name   string
		mutate func(r *UpdateRulesRequest)
		field  string
	}{
		{"daily threshold too large", func(r *UpdateRulesRequest) { r.DailyThreshold = 1000; r.DoubleTimeThreshold = 1000 }, "daily_threshold"},
		{"weekly threshold too large", func(r *UpdateRulesRequest) { r.WeeklyThreshold = 10000 }, "weekly_threshold"},
		{"rate multiplier too large", func(r *UpdateRulesRequest) { r.RateMultiplier = 100 }, "rate_multiplier"},
		{"double time multiplier too large", func(r *UpdateRulesRequest) { r.DoubleTimeMultiplier = 150 }, "double_time_multiplier"},
		{"double time threshold too large", func(r *UpdateRulesRequest) { r.DoubleTimeThreshold = 1000 }, "double_time_threshold"},
		{"negative daily threshold", func(r *UpdateRulesRequest) { r.DailyThreshold = -1 }, "daily_threshold"},
		{"zero rate multiplier", func(r *UpdateRulesRequest) { r.RateMultiplier = 0 }, "rate_multiplier"},
		{"double time below daily", func(r *UpdateRulesRequest) { r.DoubleTimeThreshold = 6 }, "double_time_threshold"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			assert.Contains(t, fieldsOf(t, req.Validate()), tt.field)
		})
	}
}
