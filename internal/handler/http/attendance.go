package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/shift-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/shift-attendance/internal/domain/auth"
	"github.com/cmlabs-hris/shift-attendance/internal/handler/http/middleware"
	"github.com/cmlabs-hris/shift-attendance/internal/handler/http/response"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	rosterService     attendance.RosterService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService, rosterService attendance.RosterService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		rosterService:     rosterService,
	}
}

type sessionRequest struct {
	EmployeeID string `json:"employee_id"`
}

// decodeOptionalJSON decodes the body into dst; an empty body leaves dst untouched.
func decodeOptionalJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// targetEmployee resolves which employee the caller acts on.
func targetEmployee(r *http.Request, requested string) (string, error) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		return "", auth.ErrInvalidToken
	}
	return actor.EmployeeFor(requested)
}

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	var body sessionRequest
	if err := decodeOptionalJSON(r, &body); err != nil {
		slog.Error("Failed to decode check-in request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	employeeID, err := targetEmployee(r, body.EmployeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.CheckIn(r.Context(), attendance.CheckInRequest{EmployeeID: employeeID})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Check in successful", result)
}

// CheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	var body sessionRequest
	if err := decodeOptionalJSON(r, &body); err != nil {
		slog.Error("Failed to decode check-out request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	employeeID, err := targetEmployee(r, body.EmployeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.CheckOut(r.Context(), attendance.CheckOutRequest{EmployeeID: employeeID})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Check out successful", result)
}

// History implements AttendanceHandler.
func (h *attendanceHandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	employeeID, err := targetEmployee(r, query.Get("employee_id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filter := attendance.HistoryFilter{
		EmployeeID: employeeID,
		StartDate:  query.Get("start_date"),
		EndDate:    query.Get("end_date"),
	}

	result, err := h.attendanceService.GetAttendanceHistory(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Today implements AttendanceHandler.
func (h *attendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	result, err := h.rosterService.ListTodaysCheckIns(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
