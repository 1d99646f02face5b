package http

import (
	"net/http"

	"github.com/cmlabs-hris/hris-overtime/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-overtime/internal/domain/dashboard"
	"github.com/cmlabs-hris/hris-overtime/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-overtime/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-overtime/internal/pkg/jwt"
)

type DashboardHandler interface {
	WeeklyAttendance(w http.ResponseWriter, r *http.Request)
	ListEmployees(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
	employeeService  attendance.EmployeeService
}

func NewDashboardHandler(dashboardService dashboard.DashboardService, employeeService attendance.EmployeeService) DashboardHandler {
	return &dashboardHandlerImpl{
		dashboardService: dashboardService,
		employeeService:  employeeService,
	}
}

// WeeklyAttendance handles GET /dashboard/attendance/weekly?end_date=YYYY-MM-DD
func (h *dashboardHandlerImpl) WeeklyAttendance(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		response.HandleError(w, jwt.ErrInvalidClaims)
		return
	}

	data, err := h.dashboardService.GetWeeklyAttendance(r.Context(), principal, r.URL.Query().Get("end_date"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, data)
}

// ListEmployees handles GET /employees
func (h *dashboardHandlerImpl) ListEmployees(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		response.HandleError(w, jwt.ErrInvalidClaims)
		return
	}

	employees, err := h.employeeService.ListEmployees(r.Context(), principal)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, employees)
}
