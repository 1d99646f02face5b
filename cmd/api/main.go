package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hris-overtime/internal/config"
	"github.com/cmlabs-hris/hris-overtime/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-overtime/internal/domain/dashboard"
	"github.com/cmlabs-hris/hris-overtime/internal/domain/leave"
	"github.com/cmlabs-hris/hris-overtime/internal/domain/overtime"
	"github.com/cmlabs-hris/hris-overtime/internal/domain/shift"
	appHTTP "github.com/cmlabs-hris/hris-overtime/internal/handler/http"
	"github.com/cmlabs-hris/hris-overtime/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-overtime/internal/pkg/database"
	"github.com/cmlabs-hris/hris-overtime/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-overtime/internal/pkg/metrics"
	"github.com/cmlabs-hris/hris-overtime/internal/pkg/sse"
	"github.com/cmlabs-hris/hris-overtime/internal/repository/memory"
	"github.com/cmlabs-hris/hris-overtime/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/hris-overtime/internal/service/attendance"
	dashboardService "github.com/cmlabs-hris/hris-overtime/internal/service/dashboard"
	employeeService "github.com/cmlabs-hris/hris-overtime/internal/service/employee"
	leaveService "github.com/cmlabs-hris/hris-overtime/internal/service/leave"
	overtimeService "github.com/cmlabs-hris/hris-overtime/internal/service/overtime"
	shiftService "github.com/cmlabs-hris/hris-overtime/internal/service/shift"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	appName    = "hris-overtime"
	appVersion = "v1.0.0"
)

// repositories groups the store-backed dependencies shared by both drivers.
type repositories struct {
	transactor database.Transactor
	attendance interface {
		attendance.AttendanceRepository
		overtime.HistoryRepository
	}
	employees attendance.EmployeeRepository
	rules     overtime.RulesRepository
	leaves    leave.LeaveRequestRepository
	swaps     shift.ShiftSwapRepository
	dashboard dashboard.DashboardRepository
	close     func()
}

func newRepositories(ctx context.Context, cfg *config.Config) (*repositories, error) {
	switch cfg.Database.Driver {
	case config.DriverMemory:
		store := memory.NewStore()
		slog.Warn("Using in-memory store, data is lost on restart")
		return &repositories{
			transactor: memory.NewTransactor(store),
			attendance: memory.NewAttendanceRepository(store),
			employees:  memory.NewEmployeeRepository(store),
			rules:      memory.NewOvertimeRulesRepository(store),
			leaves:     memory.NewLeaveRequestRepository(store),
			swaps:      memory.NewShiftSwapRepository(store),
			dashboard:  memory.NewDashboardRepository(store),
			close:      func() {},
		}, nil
	default:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), cfg.Database.MaxConns)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return &repositories{
			transactor: postgresql.NewTransactor(db),
			attendance: postgresql.NewAttendanceRepository(db),
			employees:  postgresql.NewEmployeeRepository(db),
			rules:      postgresql.NewOvertimeRulesRepository(db),
			leaves:     postgresql.NewLeaveRequestRepository(db),
			swaps:      postgresql.NewShiftSwapRepository(db),
			dashboard:  postgresql.NewDashboardRepository(db),
			close:      db.Close,
		}, nil
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Error loading config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})).With(slog.String("app", appName)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := newRepositories(ctx, cfg)
	if err != nil {
		slog.Error("Error initializing store", "error", err)
		os.Exit(1)
	}
	defer repos.close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	hub := sse.NewHub()
	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	rulesProvider := overtimeService.NewRulesProvider(repos.rules, m, cfg.Overtime.RulesRefresh)
	calculator := overtimeService.NewCalculator()

	attendanceSvc := attendanceService.NewAttendanceService(
		repos.transactor,
		repos.attendance,
		repos.employees,
		attendanceService.NewRecordUpdater(repos.attendance),
		attendanceService.OvertimeEngine{
			Rules:       rulesProvider,
			Accumulator: overtimeService.NewWeeklyAccumulator(repos.attendance),
			Calculator:  calculator,
		},
		hub,
		m,
		cfg.App.Location,
		cfg.Overtime.DefaultHourlyRate,
	)
	overtimeSvc := overtimeService.NewOvertimeService(repos.rules, rulesProvider, calculator)

	scheduler := cron.NewScheduler(ctx)
	cron.NewOvertimeJobs(rulesProvider, cfg.Overtime.RulesRefresh).RegisterJobs(scheduler)
	scheduler.Start()

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			AppName:        appName,
			Version:        appVersion,
			Env:            cfg.App.Env,
			AllowedOrigins: cfg.App.AllowedOrigins,
			Gatherer:       registry,
		},
		JWTService,
		appHTTP.Handlers{
			Attendance: appHTTP.NewAttendanceHandler(attendanceSvc, JWTService, hub),
			Overtime:   appHTTP.NewOvertimeHandler(overtimeSvc),
			Leave:      appHTTP.NewLeaveHandler(leaveService.NewLeaveService(repos.transactor, repos.leaves)),
			ShiftSwap:  appHTTP.NewShiftSwapHandler(shiftService.NewShiftSwapService(repos.transactor, repos.swaps, repos.employees)),
			Dashboard: appHTTP.NewDashboardHandler(
				dashboardService.NewDashboardService(repos.dashboard, cfg.App.Location),
				employeeService.NewEmployeeService(repos.employees),
			),
		},
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr, "env", cfg.App.Env, "driver", cfg.Database.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", "error", err)
	}
}
