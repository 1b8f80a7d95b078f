package attendance

import (
	"github.com/cmlabs-hris/shift-attendance/internal/pkg/validator"
)

// ========================================
// SESSION DTOs
// ========================================

type CheckInRequest struct {
	EmployeeID string `json:"employee_id"`
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CheckOutRequest struct {
	EmployeeID string `json:"employee_id"`
}

func (r *CheckOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CheckInResponse struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	Date         string `json:"date"`
	CheckInTime  string `json:"check_in_time"`
	WasLate      bool   `json:"was_late"`
	SessionCount int    `json:"session_count"`
}

type CheckOutResponse struct {
	EmployeeID   string  `json:"employee_id"`
	EmployeeName string  `json:"employee_name"`
	Date         string  `json:"date"`
	CheckOutTime string  `json:"check_out_time"`
	TotalHours   float64 `json:"total_hours"`
}

// ========================================
// HISTORY DTOs
// ========================================

const MaxHistoryRangeDays = 366

type HistoryFilter struct {
	EmployeeID string `json:"employee_id"`
	StartDate  string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate    string `json:"end_date,omitempty"`   // YYYY-MM-DD
}

func (f *HistoryFilter) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(f.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	startDate, startValid := validator.IsValidDate(f.StartDate)
	if f.StartDate != "" && !startValid {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}

	endDate, endValid := validator.IsValidDate(f.EndDate)
	if f.EndDate != "" && !endValid {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}

	if startValid && endValid {
		if endDate.Before(startDate) {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must not be before start_date",
			})
		} else if int(endDate.Sub(startDate).Hours()/24) > MaxHistoryRangeDays {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "date range must not exceed 366 days",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AttendanceResponse struct {
	ID           string   `json:"id"`
	EmployeeID   string   `json:"employee_id"`
	Date         string   `json:"date"`
	CheckIns     []string `json:"check_ins"`
	CheckOuts    []string `json:"check_outs"`
	TotalHours   float64  `json:"total_hours"`
	WasLate      bool     `json:"was_late"`
	ShiftEnded   bool     `json:"shift_ended"`
	ShiftEndedAt *string  `json:"shift_ended_at,omitempty"`
	State        string   `json:"state"`
}

type HistoryResponse struct {
	EmployeeID   string               `json:"employee_id"`
	EmployeeName string               `json:"employee_name"`
	StartDate    string               `json:"start_date"`
	EndDate      string               `json:"end_date"`
	TotalHours   float64              `json:"total_hours"`
	LateDays     int                  `json:"late_days"`
	Attendances  []AttendanceResponse `json:"attendances"`
}

// ========================================
// SHIFT LIFECYCLE DTOs
// ========================================

type StartShiftAction string

const (
	ActionStarted  StartShiftAction = "started"
	ActionReopened StartShiftAction = "reopened"
)

type StartShiftResponse struct {
	Action   StartShiftAction `json:"action"`
	Date     string           `json:"date"`
	Affected int              `json:"affected"`
}

type EndShiftResponse struct {
	Date         string `json:"date"`
	EndedAt      string `json:"ended_at"`
	Affected     int    `json:"affected"`
	AlreadyEnded bool   `json:"already_ended"`
}

type EndEmployeeShiftResponse struct {
	EmployeeID   string  `json:"employee_id"`
	EmployeeName string  `json:"employee_name"`
	Date         string  `json:"date"`
	EndedAt      string  `json:"ended_at"`
	TotalHours   float64 `json:"total_hours"`
}

type ShiftStatusResponse struct {
	Date    string  `json:"date"`
	Started bool    `json:"started"`
	Ended   bool    `json:"ended"`
	EndedAt *string `json:"ended_at,omitempty"`
}

type EmployeeShiftStatusResponse struct {
	EmployeeID   string  `json:"employee_id"`
	EmployeeName string  `json:"employee_name"`
	Date         string  `json:"date"`
	HasRecord    bool    `json:"has_record"`
	CheckedIn    bool    `json:"checked_in"`
	Ended        bool    `json:"ended"`
	EndedAt      *string `json:"ended_at,omitempty"`
	CurrentShift *string `json:"current_shift,omitempty"`
}

// ========================================
// ROSTER DTOs
// ========================================

type RosterEntry struct {
	EmployeeID        string  `json:"employee_id"`
	EmployeeName      string  `json:"employee_name"`
	LatestCheckInTime string  `json:"latest_check_in_time"`
	WasLate           bool    `json:"was_late"`
	SessionCount      int     `json:"session_count"`
	CurrentShift      *string `json:"current_shift,omitempty"`
	CurrentShiftColor *string `json:"current_shift_color,omitempty"`
}

type RosterResponse struct {
	Date    string        `json:"date"`
	Total   int           `json:"total"`
	Late    int           `json:"late"`
	Entries []RosterEntry `json:"entries"`
}
