package attendance

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// Record is one employee's attendance for one calendar day.
type Record struct {
	ID           string
	EmployeeID   string
	Day          time.Time
	CheckIns     []time.Time
	CheckOuts    []time.Time
	TotalHours   decimal.Decimal
	WasLate      bool
	ShiftEnded   bool
	ShiftEndedAt *time.Time
	Version      int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SessionState describes where a record sits in the check-in/check-out cycle.
type SessionState string

const (
	StateFresh      SessionState = "fresh"
	StateCheckedIn  SessionState = "checked_in"
	StateCheckedOut SessionState = "checked_out"
	StateEnded      SessionState = "ended"
)

// State derives the session state from the record contents.
func (r Record) State() SessionState {
	switch {
	case r.ShiftEnded:
		return StateEnded
	case len(r.CheckIns) == 0:
		return StateFresh
	case len(r.CheckIns) > len(r.CheckOuts):
		return StateCheckedIn
	default:
		return StateCheckedOut
	}
}

// LatestCheckIn returns max(CheckIns).
func (r Record) LatestCheckIn() (time.Time, bool) {
	if len(r.CheckIns) == 0 {
		return time.Time{}, false
	}
	return slices.MaxFunc(r.CheckIns, func(a, b time.Time) int { return a.Compare(b) }), true
}

// Clone deep-copies the session slices and the end timestamp.
func (r Record) Clone() Record {
	c := r
	c.CheckIns = slices.Clone(r.CheckIns)
	c.CheckOuts = slices.Clone(r.CheckOuts)
	if r.ShiftEndedAt != nil {
		t := *r.ShiftEndedAt
		c.ShiftEndedAt = &t
	}
	return c
}

// ComputeTotalHours pairs sessions positionally: both sequences are sorted ascending on their
// own and the i-th check-out is matched with the i-th check-in, for i < min(len(in), len(out)).
// Nearest-neighbour matching was considered and rejected to keep the rule simple, so
// interleaved or overlapping pairs give a well-defined but not "nearest session" result.
func ComputeTotalHours(checkIns, checkOuts []time.Time) decimal.Decimal {
	ins := sortedCopy(checkIns)
	outs := sortedCopy(checkOuts)

	var worked time.Duration
	for i := 0; i < min(len(ins), len(outs)); i++ {
		worked += outs[i].Sub(ins[i])
	}

	return decimal.NewFromInt(int64(worked)).Div(decimal.NewFromInt(int64(time.Hour)))
}

func sortedCopy(ts []time.Time) []time.Time {
	out := slices.Clone(ts)
	slices.SortFunc(out, func(a, b time.Time) int { return a.Compare(b) })
	return out
}

// ShiftDay is the organisation-wide open/closed state of one calendar day.
type ShiftDay struct {
	Day       time.Time
	StartedAt time.Time
	Ended     bool
	EndedAt   *time.Time
	UpdatedAt time.Time
}

// IsOpen reports whether check-ins and check-outs are accepted for the day.
func (d ShiftDay) IsOpen() bool {
	return !d.Ended
}
