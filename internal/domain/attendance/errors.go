package attendance

import "errors"

// Attendance domain errors
var (
	// Session errors
	ErrShiftEnded       = errors.New("your shift has already ended for today")
	ErrGlobalShiftEnded = errors.New("the shift day is closed")
	ErrNoActiveSession  = errors.New("you have not checked in yet")

	// Lifecycle errors
	ErrNoRecordToday = errors.New("employee has no attendance record today")
	ErrAlreadyEnded  = errors.New("employee shift has already ended")
	ErrNoEmployees   = errors.New("there are no active employees to start a shift for")
	ErrNothingToEnd  = errors.New("no attendance records exist for this day")

	// Store errors
	ErrConflict         = errors.New("attendance record was modified concurrently, please retry")
	ErrRecordNotFound   = errors.New("attendance record not found")
	ErrShiftDayNotFound = errors.New("shift day not found")
)
