package overtime

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// RulesRepository reads and stores the active overtime rule set.
type RulesRepository interface {
	// Get returns the active rules, or ErrRulesNotFound when none are configured
	Get(ctx context.Context) (Rules, error)

	// Save replaces the active rules
	Save(ctx context.Context, rules Rules) (Rules, error)
}

// HistoryRepository exposes read-only queries over completed sessions.
type HistoryRepository interface {
	// SumTotalHours sums total hours of the employee's closed sessions dated in [from, to)
	SumTotalHours(ctx context.Context, employeeID string, from, to time.Time) (decimal.Decimal, error)
}
