package overtime

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-overtime/internal/domain/overtime"
	"github.com/shopspring/decimal"
)

type WeeklyAccumulatorImpl struct {
	historyRepository overtime.HistoryRepository
}

func NewWeeklyAccumulator(historyRepository overtime.HistoryRepository) overtime.WeeklyHoursAccumulator {
	return &WeeklyAccumulatorImpl{historyRepository: historyRepository}
}

// SumPriorHours returns the total hours of closed sessions dated from weekStart up to,
// but not including, excludingDate.
func (a *WeeklyAccumulatorImpl) SumPriorHours(ctx context.Context, employeeID string, weekStart, excludingDate time.Time) (decimal.Decimal, error) {
	from := truncateToDate(weekStart)
	to := truncateToDate(excludingDate)
	if !to.After(from) {
		return decimal.Zero, nil
	}

	sum, err := a.historyRepository.SumTotalHours(ctx, employeeID, from, to)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", overtime.ErrHistoryUnavailable, err)
	}
	return sum.Round(2), nil
}

// WeekStart returns the Monday on or before date. Sunday belongs to the week that began
// the previous Monday.
func WeekStart(date time.Time) time.Time {
	day := truncateToDate(date)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
