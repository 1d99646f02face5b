package overtime

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Calculator turns a closed session into a tiered breakdown. Implementations must be pure.
type Calculator interface {
	Compute(session WorkSession, rules Rules, priorWeeklyHours decimal.Decimal) (Breakdown, error)
}

// RulesProvider yields the rules to apply, falling back to DefaultRules when the store fails.
type RulesProvider interface {
	Get(ctx context.Context) Rules
	Refresh(ctx context.Context) error
}

// WeeklyHoursAccumulator sums hours already worked earlier in the week.
type WeeklyHoursAccumulator interface {
	SumPriorHours(ctx context.Context, employeeID string, weekStart, excludingDate time.Time) (decimal.Decimal, error)
}

// OvertimeService serves rule administration and calculation previews.
type OvertimeService interface {
	GetRules(ctx context.Context) (RulesResponse, error)
	UpdateRules(ctx context.Context, req UpdateRulesRequest) (RulesResponse, error)
	Preview(ctx context.Context, req PreviewRequest) (BreakdownResponse, error)
}
