package http

import (
	"net/http"

	"github.com/cmlabs-hris/shift-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/shift-attendance/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ShiftHandler interface {
	Start(w http.ResponseWriter, r *http.Request)
	End(w http.ResponseWriter, r *http.Request)
	EndForEmployee(w http.ResponseWriter, r *http.Request)
	Status(w http.ResponseWriter, r *http.Request)
	EmployeeStatus(w http.ResponseWriter, r *http.Request)
}

type shiftHandlerImpl struct {
	shiftService attendance.ShiftService
}

func NewShiftHandler(shiftService attendance.ShiftService) ShiftHandler {
	return &shiftHandlerImpl{
		shiftService: shiftService,
	}
}

// Start implements ShiftHandler.
func (h *shiftHandlerImpl) Start(w http.ResponseWriter, r *http.Request) {
	result, err := h.shiftService.StartShift(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	message := "Shift started"
	if result.Action == attendance.ActionReopened {
		message = "Shift reopened"
	}
	response.SuccessWithMessage(w, message, result)
}

// End implements ShiftHandler.
func (h *shiftHandlerImpl) End(w http.ResponseWriter, r *http.Request) {
	result, err := h.shiftService.EndShiftForAll(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	message := "Shift ended for all employees"
	if result.AlreadyEnded {
		message = "Shift was already ended"
	}
	response.SuccessWithMessage(w, message, result)
}

// EndForEmployee implements ShiftHandler.
func (h *shiftHandlerImpl) EndForEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")

	result, err := h.shiftService.EndShiftForEmployee(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Employee shift ended", result)
}

// Status implements ShiftHandler.
func (h *shiftHandlerImpl) Status(w http.ResponseWriter, r *http.Request) {
	result, err := h.shiftService.GetShiftStatus(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// EmployeeStatus implements ShiftHandler.
func (h *shiftHandlerImpl) EmployeeStatus(w http.ResponseWriter, r *http.Request) {
	employeeID, err := targetEmployee(r, chi.URLParam(r, "employeeID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.shiftService.GetEmployeeShiftStatus(r.Context(), employeeID, r.URL.Query().Get("date"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
