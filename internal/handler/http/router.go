package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/hris-overtime/internal/domain/user"
	"github.com/cmlabs-hris/hris-overtime/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-overtime/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterOptions carries the process-level settings the router needs.
type RouterOptions struct {
	AppName        string
	Version        string
	Env            string
	AllowedOrigins []string
	Gatherer       prometheus.Gatherer
}

// Handlers groups the HTTP handlers mounted by NewRouter.
type Handlers struct {
	Attendance AttendanceHandler
	Overtime   OvertimeHandler
	Leave      LeaveHandler
	ShiftSwap  ShiftSwapHandler
	Dashboard  DashboardHandler
}

func NewRouter(opts RouterOptions, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(opts.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", opts.AppName),
		slog.String("version", opts.Version),
		slog.String("env", opts.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	if opts.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/attendance", func(r chi.Router) {
			// Event stream authenticates with a short-lived token in the query string
			r.Get("/events", h.Attendance.Events)

			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
				r.Use(middleware.AuthRequired)

				r.With(middleware.RequirePermission(user.PermissionAttendanceCreate)).Post("/clock-in", h.Attendance.ClockIn)
				r.With(middleware.RequirePermission(user.PermissionAttendanceCreate)).Post("/clock-out", h.Attendance.ClockOut)
				r.With(middleware.RequirePermission(user.PermissionAttendanceViewOwn)).Get("/today", h.Attendance.Today)
				r.With(middleware.RequireManager).Post("/events/token", h.Attendance.GetEventsToken)
			})
		})

		r.Route("/overtime", func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.With(middleware.RequirePermission(user.PermissionOvertimeRulesView)).Get("/rules", h.Overtime.GetRules)
			r.With(middleware.RequirePermission(user.PermissionOvertimeRulesManage)).Put("/rules", h.Overtime.UpdateRules)
			r.With(middleware.RequirePermission(user.PermissionOvertimePreview)).Post("/preview", h.Overtime.Preview)
			r.With(middleware.RequirePermission(user.PermissionReportsView)).Get("/report", h.Attendance.OvertimeReport)
		})

		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Route("/leave-requests", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionLeaveCreate)).Post("/", h.Leave.CreateRequest)
				r.With(middleware.RequirePermission(user.PermissionLeaveViewOwn)).Get("/", h.Leave.ListRequests)
				r.With(middleware.RequirePermission(user.PermissionLeaveViewOwn)).Get("/{id}", h.Leave.GetRequest)
				r.With(middleware.RequirePermission(user.PermissionLeaveApprove)).Post("/{id}/approve", h.Leave.ApproveRequest)
				r.With(middleware.RequirePermission(user.PermissionLeaveApprove)).Post("/{id}/reject", h.Leave.RejectRequest)
				r.With(middleware.RequirePermission(user.PermissionLeaveCreate)).Post("/{id}/cancel", h.Leave.CancelRequest)
			})

			r.Route("/shift-swaps", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionShiftCreate)).Post("/", h.ShiftSwap.CreateSwap)
				r.With(middleware.RequirePermission(user.PermissionShiftViewOwn)).Get("/", h.ShiftSwap.ListSwaps)
				r.With(middleware.RequirePermission(user.PermissionShiftApprove)).Post("/{id}/approve", h.ShiftSwap.ApproveSwap)
				r.With(middleware.RequirePermission(user.PermissionShiftApprove)).Post("/{id}/reject", h.ShiftSwap.RejectSwap)
				r.With(middleware.RequirePermission(user.PermissionShiftCreate)).Post("/{id}/cancel", h.ShiftSwap.CancelSwap)
			})

			r.With(middleware.RequirePermission(user.PermissionEmployeeView)).Get("/employees", h.Dashboard.ListEmployees)
			r.With(middleware.RequirePermission(user.PermissionAnalyticsView)).Get("/dashboard/attendance/weekly", h.Dashboard.WeeklyAttendance)
		})
	})

	return r
}
