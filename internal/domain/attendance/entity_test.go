package attendance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func clock(hour, minute int) time.Time {
	return time.Date(2025, time.March, 10, hour, minute, 0, 0, time.FixedZone("WIB", 7*60*60))
}

func TestComputeTotalHours(t *testing.T) {
	cases := []struct {
		name      string
		checkIns  []time.Time
		checkOuts []time.Time
		want      string
	}{
		{"no sessions", nil, nil, "0"},
		{"check-in without check-out", []time.Time{clock(9, 0)}, []time.Time{}, "0"},
		{"single session", []time.Time{clock(9, 0)}, []time.Time{clock(12, 30)}, "3.5"},
		{"reversed inputs", []time.Time{clock(13, 0), clock(9, 0)}, []time.Time{clock(15, 30), clock(11, 0)}, "4.5"},
		{"overlapping pairs", []time.Time{clock(10, 0), clock(9, 0)}, []time.Time{clock(12, 0), clock(11, 0)}, "4"},
		{"more check-outs than check-ins", []time.Time{clock(9, 0)}, []time.Time{clock(12, 0), clock(10, 0)}, "1"},
		{"open session ignored", []time.Time{clock(13, 0), clock(9, 0)}, []time.Time{clock(12, 0)}, "3"},
		{"twenty minutes", []time.Time{clock(9, 0)}, []time.Time{clock(9, 20)}, "0.3333"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := ComputeTotalHours(c.checkIns, c.checkOuts).Round(4)
			assert.True(t, got.Equal(decimal.RequireFromString(c.want)), "got %s, want %s", got, c.want)
		})
	}
}

func TestComputeTotalHours_LeavesInputsUnsorted(t *testing.T) {
	ins := []time.Time{clock(13, 0), clock(9, 0)}
	outs := []time.Time{clock(15, 30), clock(11, 0)}

	ComputeTotalHours(ins, outs)

	assert.Equal(t, []time.Time{clock(13, 0), clock(9, 0)}, ins)
	assert.Equal(t, []time.Time{clock(15, 30), clock(11, 0)}, outs)
}

func TestRecordState(t *testing.T) {
	r := Record{}
	assert.Equal(t, StateFresh, r.State())

	r.CheckIns = []time.Time{clock(9, 0)}
	assert.Equal(t, StateCheckedIn, r.State())

	r.CheckOuts = []time.Time{clock(10, 0)}
	assert.Equal(t, StateCheckedOut, r.State())

	r.ShiftEnded = true
	assert.Equal(t, StateEnded, r.State())
}
