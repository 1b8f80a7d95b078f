package attendance

import (
	"context"
	"time"
)

// AttendanceRepository persists one Record per (employee, day).
type AttendanceRepository interface {
	// GetByEmployeeAndDay returns ErrRecordNotFound when the employee has no record for day
	GetByEmployeeAndDay(ctx context.Context, employeeID string, day time.Time) (Record, error)

	// GetOrCreate returns the existing record or inserts a fresh one.
	// Concurrent creators of the same key all receive the first writer's record.
	// A record is only created while day is open, otherwise ErrGlobalShiftEnded.
	GetOrCreate(ctx context.Context, employeeID string, day time.Time) (Record, error)

	// Save writes the full record if its Version is current, otherwise returns ErrConflict.
	// A record left open can only be written while its day is open, otherwise ErrGlobalShiftEnded.
	// The check is atomic with EndShiftDay. The returned record carries the new version.
	Save(ctx context.Context, record Record) (Record, error)

	ListByDay(ctx context.Context, day time.Time) ([]Record, error)

	// ListByEmployee returns records with startDay <= day <= endDay ordered by day
	ListByEmployee(ctx context.Context, employeeID string, startDay, endDay time.Time) ([]Record, error)
}

// ShiftDayRepository owns the day-level lifecycle. Bulk methods are atomic and safe to re-run.
type ShiftDayRepository interface {
	// GetShiftDay returns ErrShiftDayNotFound when the day was never started
	GetShiftDay(ctx context.Context, day time.Time) (ShiftDay, error)

	// OpenShiftDay marks day as started and creates a fresh record for every employee that lacks one.
	// Returns the number of records created.
	OpenShiftDay(ctx context.Context, day time.Time, employeeIDs []string, now time.Time) (int, error)

	// ReopenShiftDay clears the ended flags of the day and of all its records, leaving sessions intact.
	// Returns the number of records reopened.
	ReopenShiftDay(ctx context.Context, day time.Time, now time.Time) (int, error)

	// EndShiftDay marks the day and every record not yet ended as ended at now.
	// Records already ended keep their timestamp. Returns the number of records ended by this call.
	EndShiftDay(ctx context.Context, day time.Time, now time.Time) (int, error)
}
