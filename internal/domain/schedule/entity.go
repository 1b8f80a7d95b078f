package schedule

import (
	"slices"
	"time"
)

// ShiftTemplate is a recurring weekly window used for display only.
// It never decides whether a check-in or check-out is accepted.
type ShiftTemplate struct {
	ID          string
	Name        string
	StartTime   time.Duration // offset from midnight
	EndTime     time.Duration // offset from midnight, <= StartTime means the window ends the next day
	Weekdays    []time.Weekday
	EmployeeIDs []string
	Color       string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsOvernight reports whether the window crosses midnight.
func (t ShiftTemplate) IsOvernight() bool {
	return t.EndTime <= t.StartTime
}

// AssignedTo reports whether employeeID is scheduled on this template.
func (t ShiftTemplate) AssignedTo(employeeID string) bool {
	return slices.Contains(t.EmployeeIDs, employeeID)
}

// Covers reports whether now falls inside one of the template's windows.
// Overnight windows belong to the weekday on which they start.
func (t ShiftTemplate) Covers(now time.Time) bool {
	if !t.Active {
		return false
	}

	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	offset := now.Sub(midnight)

	if !t.IsOvernight() {
		return slices.Contains(t.Weekdays, now.Weekday()) && offset >= t.StartTime && offset < t.EndTime
	}

	// started today, not yet past midnight
	if slices.Contains(t.Weekdays, now.Weekday()) && offset >= t.StartTime {
		return true
	}

	// started yesterday, still before today's end time
	yesterday := midnight.AddDate(0, 0, -1).Weekday()
	return slices.Contains(t.Weekdays, yesterday) && offset < t.EndTime
}
