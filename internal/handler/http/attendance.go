package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/hris-overtime/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-overtime/internal/domain/overtime"
	"github.com/cmlabs-hris/hris-overtime/internal/domain/user"
	"github.com/cmlabs-hris/hris-overtime/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-overtime/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-overtime/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-overtime/internal/pkg/sse"
)

type AttendanceHandler interface {
	ClockIn(w http.ResponseWriter, r *http.Request)
	ClockOut(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
	OvertimeReport(w http.ResponseWriter, r *http.Request)
	GetEventsToken(w http.ResponseWriter, r *http.Request)
	Events(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	jwtService        jwt.Service
	hub               *sse.Hub
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService, jwtService jwt.Service, hub *sse.Hub) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		jwtService:        jwtService,
		hub:               hub,
	}
}

// employeePrincipal returns the caller, requiring the token to be linked to an employee.
func employeePrincipal(r *http.Request) (user.Principal, error) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		return user.Principal{}, jwt.ErrInvalidClaims
	}
	if principal.EmployeeID == "" {
		return user.Principal{}, user.ErrEmployeeIDRequired
	}
	return principal, nil
}

// ClockIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) ClockIn(w http.ResponseWriter, r *http.Request) {
	principal, err := employeePrincipal(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req attendance.ClockInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		slog.Error("Failed to decode clock-in request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = principal.EmployeeID

	resp, err := h.attendanceService.ClockIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Clocked in successfully", resp)
}

// ClockOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) ClockOut(w http.ResponseWriter, r *http.Request) {
	principal, err := employeePrincipal(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	breakdown, err := h.attendanceService.ClockOut(r.Context(), attendance.ClockOutRequest{EmployeeID: principal.EmployeeID})
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if breakdown == nil {
		response.HandleError(w, attendance.ErrNoOpenSession)
		return
	}

	response.SuccessWithMessage(w, "Clocked out successfully", attendance.ClockOutResponse{
		EmployeeID: principal.EmployeeID,
		Breakdown:  overtime.NewBreakdownResponse(*breakdown),
	})
}

// Today implements AttendanceHandler.
func (h *attendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		response.HandleError(w, jwt.ErrInvalidClaims)
		return
	}

	records, err := h.attendanceService.GetTodayAttendance(r.Context(), principal)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, records)
}

// OvertimeReport implements AttendanceHandler.
func (h *attendanceHandlerImpl) OvertimeReport(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		response.HandleError(w, jwt.ErrInvalidClaims)
		return
	}

	query := r.URL.Query()
	var filter attendance.OvertimeReportFilter

	if v := query.Get("employee_id"); v != "" {
		filter.EmployeeID = &v
	}
	if v := query.Get("start_date"); v != "" {
		filter.StartDate = &v
	}
	if v := query.Get("end_date"); v != "" {
		filter.EndDate = &v
	}
	if v := query.Get("page"); v != "" {
		if page, err := strconv.Atoi(v); err == nil {
			filter.Page = page
		}
	}
	if v := query.Get("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil {
			filter.Limit = limit
		}
	}

	report, err := h.attendanceService.GetOvertimeReport(r.Context(), principal, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, report, response.NewMeta(report.Page, report.Limit, report.TotalCount))
}

type eventsTokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

// GetEventsToken issues a short-lived token for opening the event stream.
func (h *attendanceHandlerImpl) GetEventsToken(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		response.HandleError(w, jwt.ErrInvalidClaims)
		return
	}

	token, expiresIn, err := h.jwtService.GenerateSSEToken(principal)
	if err != nil {
		slog.Error("Failed to generate SSE token", "error", err)
		response.InternalServerError(w, "Failed to generate token")
		return
	}

	response.Success(w, eventsTokenResponse{Token: token, ExpiresIn: expiresIn})
}

// Events streams clock-out events to managers
func (h *attendanceHandlerImpl) Events(w http.ResponseWriter, r *http.Request) {
	// Get token from query parameter (SSE doesn't support custom headers)
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		response.Unauthorized(w, "Missing token")
		return
	}

	principal, err := h.jwtService.ValidateSSEToken(tokenStr)
	if err != nil {
		response.Unauthorized(w, "Invalid token")
		return
	}
	if !principal.Can(user.PermissionAttendanceViewAll) {
		response.HandleError(w, user.ErrManagerAccessRequired)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.hub.Subscribe(attendance.EventTopic)
	defer cleanup()

	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\"}\n\n")
	flusher.Flush()

	keepalive := time.NewTicker(30 * time.Second)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Data)
			if err != nil {
				slog.Error("Failed to encode event", "event", event.Event, "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, data)
			flusher.Flush()
		case <-keepalive.C:
			fmt.Fprintf(w, ": keepalive\n\n")
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}
