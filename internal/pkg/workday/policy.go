package workday

import (
	"fmt"
	"time"
)

const (
	DefaultExpectedStart = "18:00"
	DefaultGraceMinutes  = 20
)

// Policy defines the business calendar: where a day begins and when a shift is expected to start.
type Policy struct {
	Location      *time.Location
	ExpectedStart time.Duration // offset from midnight
	Grace         time.Duration
}

// NewPolicy builds a Policy from a timezone name, an "HH:MM" start time and a grace period in minutes.
func NewPolicy(timezone string, expectedStart string, graceMinutes int) (Policy, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return Policy{}, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}

	offset, err := ParseTimeOfDay(expectedStart)
	if err != nil {
		return Policy{}, err
	}

	if graceMinutes < 0 {
		return Policy{}, fmt.Errorf("grace minutes must not be negative, got %d", graceMinutes)
	}

	return Policy{
		Location:      loc,
		ExpectedStart: offset,
		Grace:         time.Duration(graceMinutes) * time.Minute,
	}, nil
}

// ParseTimeOfDay parses "HH:MM" into an offset from midnight.
func ParseTimeOfDay(value string) (time.Duration, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q, expected HH:MM: %w", value, err)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

func (p Policy) location() *time.Location {
	if p.Location == nil {
		return time.UTC
	}
	return p.Location
}

// Local converts t to the business timezone.
func (p Policy) Local(t time.Time) time.Time {
	return t.In(p.location())
}

// StartOfDay returns midnight of t's calendar date in the business timezone.
func (p Policy) StartOfDay(t time.Time) time.Time {
	local := t.In(p.location())
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, p.location())
}

// Today is StartOfDay(now).
func (p Policy) Today(now time.Time) time.Time {
	return p.StartOfDay(now)
}

// ExpectedStartAt returns the instant the shift is expected to start on day.
func (p Policy) ExpectedStartAt(day time.Time) time.Time {
	d := p.StartOfDay(day)
	hour := int(p.ExpectedStart / time.Hour)
	minute := int((p.ExpectedStart % time.Hour) / time.Minute)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, p.location())
}

// IsLate reports whether checkIn falls after the expected start plus grace.
func (p Policy) IsLate(checkIn time.Time, day time.Time) bool {
	return checkIn.After(p.ExpectedStartAt(day).Add(p.Grace))
}

// ParseDate parses a YYYY-MM-DD date as a day in the business timezone.
func (p Policy) ParseDate(value string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", value, p.location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", value, err)
	}
	return t, nil
}

// FormatDate renders a day as YYYY-MM-DD in the business timezone.
func (p Policy) FormatDate(day time.Time) string {
	return day.In(p.location()).Format("2006-01-02")
}
