package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-overtime/internal/domain/user"
	"github.com/cmlabs-hris/hris-overtime/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-overtime/internal/pkg/metrics"
	"github.com/cmlabs-hris/hris-overtime/internal/pkg/sse"
	"github.com/cmlabs-hris/hris-overtime/internal/repository/memory"
	attendanceservice "github.com/cmlabs-hris/hris-overtime/internal/service/attendance"
	dashboardservice "github.com/cmlabs-hris/hris-overtime/internal/service/dashboard"
	employeeservice "github.com/cmlabs-hris/hris-overtime/internal/service/employee"
	leaveservice "github.com/cmlabs-hris/hris-overtime/internal/service/leave"
	overtimeservice "github.com/cmlabs-hris/hris-overtime/internal/service/overtime"
	shiftservice "github.com/cmlabs-hris/hris-overtime/internal/service/shift"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const handlerTestSecret = "test-secret-key-for-jwt"

type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

type testServer struct {
	router     *chi.Mux
	jwtService jwt.Service
	hub        *sse.Hub
	employees  *memory.EmployeeRepository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store := memory.NewStore()
	attendanceRepo := memory.NewAttendanceRepository(store)
	employeeRepo := memory.NewEmployeeRepository(store)
	transactor := memory.NewTransactor(store)
	rulesRepo := memory.NewOvertimeRulesRepository(store)
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)
	hub := sse.NewHub()

	provider := overtimeservice.NewRulesProvider(rulesRepo, m, time.Minute)
	calculator := overtimeservice.NewCalculator()

	attendanceService := attendanceservice.NewAttendanceService(
		transactor,
		attendanceRepo,
		employeeRepo,
		attendanceservice.NewRecordUpdater(attendanceRepo),
		attendanceservice.OvertimeEngine{
			Rules:       provider,
			Accumulator: overtimeservice.NewWeeklyAccumulator(attendanceRepo),
			Calculator:  calculator,
		},
		hub, m, time.UTC, decimal.NewFromInt(25),
	)
	overtimeService := overtimeservice.NewOvertimeService(rulesRepo, provider, calculator)

	jwtService := jwt.NewJWTService(handlerTestSecret, time.Hour)
	router := NewRouter(
		RouterOptions{AppName: "hris-overtime-test", Env: "test", AllowedOrigins: []string{"*"}, Gatherer: registry},
		jwtService,
		Handlers{
			Attendance: NewAttendanceHandler(attendanceService, jwtService, hub),
			Overtime:   NewOvertimeHandler(overtimeService),
			Leave:      NewLeaveHandler(leaveservice.NewLeaveService(transactor, memory.NewLeaveRequestRepository(store))),
			ShiftSwap:  NewShiftSwapHandler(shiftservice.NewShiftSwapService(transactor, memory.NewShiftSwapRepository(store), employeeRepo)),
			Dashboard: NewDashboardHandler(
				dashboardservice.NewDashboardService(memory.NewDashboardRepository(store), time.UTC),
				employeeservice.NewEmployeeService(employeeRepo),
			),
		},
	)

	return &testServer{router: router, jwtService: jwtService, hub: hub, employees: employeeRepo}
}

func (s *testServer) token(t *testing.T, principal user.Principal) string {
	t.Helper()
	token, _, err := s.jwtService.GenerateAccessToken(principal)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)

	var resp apiResponse
	if strings.HasPrefix(rr.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	}
	return rr, resp
}

var (
	employeeAlice = user.Principal{UserID: "u-alice", EmployeeID: "emp-alice", CompanyID: "c-1", Role: user.RoleEmployee}
	employeeBob   = user.Principal{UserID: "u-bob", EmployeeID: "emp-bob", CompanyID: "c-1", Role: user.RoleEmployee}
	managerCarol  = user.Principal{UserID: "u-carol", EmployeeID: "emp-carol", CompanyID: "c-1", Role: user.RoleManager}
)

func TestAttendanceHandler_ClockInClockOut(t *testing.T) {
	srv := newTestServer(t)
	token := srv.token(t, employeeAlice)

	t.Run("clock out without a session returns not found", func(t *testing.T) {
		rr, resp := srv.do(t, http.MethodPost, "/api/v1/attendance/clock-out", token, nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.False(t, resp.Success)
	})

	t.Run("clock in with an empty body", func(t *testing.T) {
		rr, resp := srv.do(t, http.MethodPost, "/api/v1/attendance/clock-in", token, nil)
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

		var record struct {
			EmployeeID string   `json:"employee_id"`
			Status     string   `json:"status"`
			HourlyRate *float64 `json:"hourly_rate"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &record))
		assert.Equal(t, "emp-alice", record.EmployeeID)
		assert.Equal(t, "clocked-in", record.Status)
		require.NotNil(t, record.HourlyRate)
		assert.Equal(t, 25.0, *record.HourlyRate)
	})

	t.Run("clock out returns the breakdown", func(t *testing.T) {
		time.Sleep(5 * time.Millisecond)
		rr, resp := srv.do(t, http.MethodPost, "/api/v1/attendance/clock-out", token, nil)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var out struct {
			EmployeeID string `json:"employee_id"`
			Breakdown  struct {
				TotalHours    float64 `json:"total_hours"`
				OvertimeHours float64 `json:"overtime_hours"`
				HourlyRate    float64 `json:"hourly_rate"`
			} `json:"breakdown"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &out))
		assert.Equal(t, "emp-alice", out.EmployeeID)
		assert.Equal(t, 0.0, out.Breakdown.OvertimeHours)
		assert.Equal(t, 25.0, out.Breakdown.HourlyRate)
	})

	t.Run("second clock out finds no open session", func(t *testing.T) {
		rr, _ := srv.do(t, http.MethodPost, "/api/v1/attendance/clock-out", token, nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestAttendanceHandler_ClockInValidation(t *testing.T) {
	srv := newTestServer(t)
	token := srv.token(t, employeeAlice)

	t.Run("unknown method", func(t *testing.T) {
		rr, resp := srv.do(t, http.MethodPost, "/api/v1/attendance/clock-in", token, map[string]interface{}{"method": "fax"})
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		require.NotNil(t, resp.Error)
		assert.Contains(t, resp.Error.Details, "method")
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/attendance/clock-in", strings.NewReader("{"))
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		srv.router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("token without employee", func(t *testing.T) {
		owner := srv.token(t, user.Principal{UserID: "u-owner", Role: user.RoleOwner})
		rr, _ := srv.do(t, http.MethodPost, "/api/v1/attendance/clock-in", owner, nil)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestAttendanceHandler_Auth(t *testing.T) {
	srv := newTestServer(t)

	t.Run("missing token", func(t *testing.T) {
		rr, _ := srv.do(t, http.MethodGet, "/api/v1/attendance/today", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("token signed with another key", func(t *testing.T) {
		other := jwt.NewJWTService("another-secret", time.Hour)
		token, _, err := other.GenerateAccessToken(employeeAlice)
		require.NoError(t, err)

		rr, _ := srv.do(t, http.MethodGet, "/api/v1/attendance/today", token, nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("sse token is not an access token", func(t *testing.T) {
		token, _, err := srv.jwtService.GenerateSSEToken(employeeAlice)
		require.NoError(t, err)

		rr, _ := srv.do(t, http.MethodGet, "/api/v1/attendance/today", token, nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("pending role has no permissions", func(t *testing.T) {
		token := srv.token(t, user.Principal{UserID: "u-new", EmployeeID: "emp-new", Role: user.RolePending})
		rr, _ := srv.do(t, http.MethodPost, "/api/v1/attendance/clock-in", token, nil)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestAttendanceHandler_Today(t *testing.T) {
	srv := newTestServer(t)
	alice := srv.token(t, employeeAlice)
	bob := srv.token(t, employeeBob)
	carol := srv.token(t, managerCarol)

	for _, token := range []string{alice, bob} {
		rr, _ := srv.do(t, http.MethodPost, "/api/v1/attendance/clock-in", token, nil)
		require.Equal(t, http.StatusCreated, rr.Code)
	}

	countRecords := func(token string) int {
		rr, resp := srv.do(t, http.MethodGet, "/api/v1/attendance/today", token, nil)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		var records []map[string]interface{}
		require.NoError(t, json.Unmarshal(resp.Data, &records))
		return len(records)
	}

	assert.Equal(t, 1, countRecords(alice))
	assert.Equal(t, 2, countRecords(carol))
}

func TestOvertimeHandler_Rules(t *testing.T) {
	srv := newTestServer(t)
	employee := srv.token(t, employeeAlice)
	manager := srv.token(t, managerCarol)

	t.Run("defaults are served before any update", func(t *testing.T) {
		rr, resp := srv.do(t, http.MethodGet, "/api/v1/overtime/rules", employee, nil)
		require.Equal(t, http.StatusOK, rr.Code)

		var rules map[string]interface{}
		require.NoError(t, json.Unmarshal(resp.Data, &rules))
		assert.Equal(t, 8.0, rules["daily_threshold"])
		assert.Equal(t, 1.5, rules["rate_multiplier"])
	})

	update := map[string]interface{}{
		"daily_threshold":        7.5,
		"weekly_threshold":       37.5,
		"rate_multiplier":        1.25,
		"double_time_threshold":  10,
		"double_time_multiplier": 2,
	}

	t.Run("employees cannot update", func(t *testing.T) {
		rr, _ := srv.do(t, http.MethodPut, "/api/v1/overtime/rules", employee, update)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("managers update and the new rules are served", func(t *testing.T) {
		rr, _ := srv.do(t, http.MethodPut, "/api/v1/overtime/rules", manager, update)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		rr, resp := srv.do(t, http.MethodGet, "/api/v1/overtime/rules", employee, nil)
		require.Equal(t, http.StatusOK, rr.Code)
		var rules map[string]interface{}
		require.NoError(t, json.Unmarshal(resp.Data, &rules))
		assert.Equal(t, 7.5, rules["daily_threshold"])
		assert.Equal(t, 1.25, rules["rate_multiplier"])
	})

	t.Run("double-time threshold below the daily threshold is rejected", func(t *testing.T) {
		bad := map[string]interface{}{
			"daily_threshold":        8,
			"weekly_threshold":       40,
			"rate_multiplier":        1.5,
			"double_time_threshold":  6,
			"double_time_multiplier": 2,
		}
		rr, _ := srv.do(t, http.MethodPut, "/api/v1/overtime/rules", manager, bad)
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})

	t.Run("thresholds beyond the stored precision are rejected", func(t *testing.T) {
		bad := map[string]interface{}{
			"daily_threshold":        1000,
			"weekly_threshold":       40,
			"rate_multiplier":        1.5,
			"double_time_threshold":  1200,
			"double_time_multiplier": 2,
		}
		rr, resp := srv.do(t, http.MethodPut, "/api/v1/overtime/rules", manager, bad)
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		require.NotNil(t, resp.Error)
		assert.Contains(t, resp.Error.Details, "daily_threshold")
		assert.Contains(t, resp.Error.Details, "double_time_threshold")
	})
}

func TestOvertimeHandler_Preview(t *testing.T) {
	srv := newTestServer(t)
	token := srv.token(t, employeeAlice)

	t.Run("ten hour day", func(t *testing.T) {
		rr, resp := srv.do(t, http.MethodPost, "/api/v1/overtime/preview", token, map[string]interface{}{
			"clock_in":    "2024-03-11T08:00:00Z",
			"clock_out":   "2024-03-11T18:00:00Z",
			"hourly_rate": 20,
		})
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var b map[string]float64
		require.NoError(t, json.Unmarshal(resp.Data, &b))
		assert.Equal(t, 10.0, b["total_hours"])
		assert.Equal(t, 8.0, b["regular_hours"])
		assert.Equal(t, 2.0, b["overtime_hours"])
		assert.Equal(t, 0.0, b["double_time_hours"])
		assert.Equal(t, 60.0, b["overtime_amount"])
	})

	t.Run("clock out before clock in", func(t *testing.T) {
		rr, resp := srv.do(t, http.MethodPost, "/api/v1/overtime/preview", token, map[string]interface{}{
			"clock_in":  "2024-03-11T18:00:00Z",
			"clock_out": "2024-03-11T08:00:00Z",
		})
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		require.NotNil(t, resp.Error)
		assert.Contains(t, resp.Error.Details, "clock_out")
	})
}

func TestAttendanceHandler_OvertimeReport(t *testing.T) {
	srv := newTestServer(t)

	t.Run("employees are forbidden", func(t *testing.T) {
		rr, _ := srv.do(t, http.MethodGet, "/api/v1/overtime/report", srv.token(t, employeeAlice), nil)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("managers get an empty first page", func(t *testing.T) {
		rr, resp := srv.do(t, http.MethodGet, "/api/v1/overtime/report?page=1&limit=10", srv.token(t, managerCarol), nil)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var report struct {
			TotalCount int64         `json:"total_count"`
			Page       int           `json:"page"`
			Limit      int           `json:"limit"`
			Records    []interface{} `json:"records"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &report))
		assert.Equal(t, int64(0), report.TotalCount)
		assert.Equal(t, 1, report.Page)
		assert.Equal(t, 10, report.Limit)
		assert.Empty(t, report.Records)
	})

	t.Run("invalid date range", func(t *testing.T) {
		rr, _ := srv.do(t, http.MethodGet, "/api/v1/overtime/report?start_date=2024-03-15&end_date=2024-03-01", srv.token(t, managerCarol), nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})
}

func TestAttendanceHandler_Events(t *testing.T) {
	srv := newTestServer(t)

	t.Run("missing token", func(t *testing.T) {
		rr, _ := srv.do(t, http.MethodGet, "/api/v1/attendance/events", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("access token is rejected", func(t *testing.T) {
		rr, _ := srv.do(t, http.MethodGet, "/api/v1/attendance/events?token="+srv.token(t, managerCarol), "", nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("employees cannot request a stream token", func(t *testing.T) {
		rr, _ := srv.do(t, http.MethodPost, "/api/v1/attendance/events/token", srv.token(t, employeeAlice), nil)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("employee stream token is refused", func(t *testing.T) {
		token, _, err := srv.jwtService.GenerateSSEToken(employeeAlice)
		require.NoError(t, err)
		rr, _ := srv.do(t, http.MethodGet, "/api/v1/attendance/events?token="+token, "", nil)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("managers receive a stream token", func(t *testing.T) {
		rr, resp := srv.do(t, http.MethodPost, "/api/v1/attendance/events/token", srv.token(t, managerCarol), nil)
		require.Equal(t, http.StatusOK, rr.Code)

		var out eventsTokenResponse
		require.NoError(t, json.Unmarshal(resp.Data, &out))
		assert.NotEmpty(t, out.Token)
		assert.Positive(t, out.ExpiresIn)

		principal, err := srv.jwtService.ValidateSSEToken(out.Token)
		require.NoError(t, err)
		assert.Equal(t, managerCarol.UserID, principal.UserID)
	})
}

func TestRouter_Metrics(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	srv.router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}
