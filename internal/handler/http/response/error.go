package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/shift-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/shift-attendance/internal/domain/auth"
	"github.com/cmlabs-hris/shift-attendance/internal/domain/employee"
	"github.com/cmlabs-hris/shift-attendance/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrTokenRevoked):
		Unauthorized(w, "Token has been revoked")
	case errors.Is(err, auth.ErrEmployeeClaimMissing):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrAdminAccessRequired):
		Forbidden(w, "Admin access required")
	case errors.Is(err, auth.ErrEmployeeAccessDenied):
		Forbidden(w, err.Error())

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrShiftEnded):
		ConflictWithCode(w, "SHIFT_ENDED", attendance.ErrShiftEnded.Error())
	case errors.Is(err, attendance.ErrGlobalShiftEnded):
		ConflictWithCode(w, "GLOBAL_SHIFT_ENDED", attendance.ErrGlobalShiftEnded.Error())
	case errors.Is(err, attendance.ErrAlreadyEnded):
		ConflictWithCode(w, "ALREADY_ENDED", attendance.ErrAlreadyEnded.Error())
	case errors.Is(err, attendance.ErrNoActiveSession):
		UnprocessableEntity(w, "NO_ACTIVE_SESSION", attendance.ErrNoActiveSession.Error())
	case errors.Is(err, attendance.ErrNoRecordToday):
		NotFoundWithCode(w, "NO_RECORD_TODAY", attendance.ErrNoRecordToday.Error())
	case errors.Is(err, attendance.ErrNoEmployees):
		ConflictWithCode(w, "NO_EMPLOYEES", attendance.ErrNoEmployees.Error())
	case errors.Is(err, attendance.ErrNothingToEnd):
		ConflictWithCode(w, "NOTHING_TO_END", attendance.ErrNothingToEnd.Error())
	case errors.Is(err, attendance.ErrConflict):
		ConflictWithCode(w, "CONCURRENT_UPDATE", attendance.ErrConflict.Error())

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
