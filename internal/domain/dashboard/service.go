package dashboard

import (
	"context"

	"github.com/cmlabs-hris/hris-overtime/internal/domain/user"
)

// DashboardService defines the interface for dashboard operations
type DashboardService interface {
	// GetWeeklyAttendance returns the seven days ending on endDate (YYYY-MM-DD, default today)
	// with per-day counts, per-department rates and pending approvals. Managers only.
	GetWeeklyAttendance(ctx context.Context, principal user.Principal, endDate string) (*WeeklyAttendanceResponse, error)
}
