package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-overtime/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-overtime/internal/domain/leave"
	"github.com/cmlabs-hris/hris-overtime/internal/domain/overtime"
	"github.com/cmlabs-hris/hris-overtime/internal/domain/shift"
	"github.com/cmlabs-hris/hris-overtime/internal/domain/user"
	"github.com/cmlabs-hris/hris-overtime/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-overtime/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// The breakdown was computed; hand it back so the client can show it.
	var persistErr *overtime.PersistFailedError
	if errors.As(err, &persistErr) {
		ServiceUnavailable(w, "Clock-out was calculated but could not be saved, please retry",
			overtime.NewBreakdownResponse(persistErr.Breakdown))
		return
	}

	switch {
	// Auth errors
	case errors.Is(err, jwt.ErrInvalidClaims):
		Unauthorized(w, "Invalid token")
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, "Insufficient permissions")
	case errors.Is(err, user.ErrManagerAccessRequired):
		Forbidden(w, "Manager access required")
	case errors.Is(err, user.ErrEmployeeIDRequired):
		Forbidden(w, "Token is not linked to an employee")

	// Overtime domain errors
	case errors.Is(err, overtime.ErrInvalidSession):
		ValidationError(w, map[string]string{"session": err.Error()})
	case errors.Is(err, overtime.ErrPersistenceConflict):
		Conflict(w, "Attendance was modified concurrently, please retry")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrNoOpenSession):
		NotFound(w, "No open session to clock out")
	case errors.Is(err, attendance.ErrAttendanceExists):
		Conflict(w, "Attendance for today is being recorded, please retry")
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Leave errors
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, leave.ErrLeaveRequestAlreadyProcessed),
		errors.Is(err, leave.ErrOverlappingLeave):
		Conflict(w, err.Error())

	// Shift swap errors
	case errors.Is(err, shift.ErrShiftSwapNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, shift.ErrShiftSwapAlreadyProcessed),
		errors.Is(err, shift.ErrDuplicateShiftSwap):
		Conflict(w, err.Error())

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
