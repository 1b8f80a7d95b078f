package attendance

import (
	"context"
	"time"
)

// AttendanceService is the check-in/check-out state machine for one employee-day.
type AttendanceService interface {
	CheckIn(ctx context.Context, req CheckInRequest) (CheckInResponse, error)
	CheckOut(ctx context.Context, req CheckOutRequest) (CheckOutResponse, error)
	GetAttendanceHistory(ctx context.Context, filter HistoryFilter) (HistoryResponse, error)
}

// ShiftService controls the open/closed lifecycle of shift days.
type ShiftService interface {
	StartShift(ctx context.Context) (StartShiftResponse, error)
	EndShiftForAll(ctx context.Context) (EndShiftResponse, error)
	EndShiftForEmployee(ctx context.Context, employeeID string) (EndEmployeeShiftResponse, error)

	// GetShiftStatus reports the day-level state; an empty date means today
	GetShiftStatus(ctx context.Context, date string) (ShiftStatusResponse, error)
	GetEmployeeShiftStatus(ctx context.Context, employeeID string, date string) (EmployeeShiftStatusResponse, error)

	// CloseStaleShiftDay ends a past day that was left open. Returns the number of records ended.
	CloseStaleShiftDay(ctx context.Context, day time.Time) (int, error)
}

// RosterService is the read-only "who has checked in" projection.
type RosterService interface {
	ListTodaysCheckIns(ctx context.Context, date string) (RosterResponse, error)
}
