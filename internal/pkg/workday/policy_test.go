package workday

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jakarta = time.FixedZone("WIB", 7*60*60)

func testPolicy() Policy {
	return Policy{Location: jakarta, ExpectedStart: 18 * time.Hour, Grace: 20 * time.Minute}
}

func TestStartOfDay(t *testing.T) {
	p := testPolicy()

	// 2026-03-01 20:30 UTC is already 2026-03-02 03:30 in WIB
	got := p.StartOfDay(time.Date(2026, 3, 1, 20, 30, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, jakarta), got)

	got = p.StartOfDay(time.Date(2026, 3, 2, 23, 59, 59, 0, jakarta))
	assert.True(t, got.Equal(time.Date(2026, 3, 2, 0, 0, 0, 0, jakarta)))
}

func TestIsLate(t *testing.T) {
	p := testPolicy()
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, jakarta)

	cases := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"before expected start", time.Date(2026, 3, 2, 17, 50, 0, 0, jakarta), false},
		{"inside grace", time.Date(2026, 3, 2, 18, 15, 0, 0, jakarta), false},
		{"exactly at cutoff", time.Date(2026, 3, 2, 18, 20, 0, 0, jakarta), false},
		{"after cutoff", time.Date(2026, 3, 2, 18, 25, 0, 0, jakarta), true},
		{"cutoff expressed in UTC", time.Date(2026, 3, 2, 11, 21, 0, 0, time.UTC), true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, p.IsLate(c.at, day))
		})
	}
}

func TestExpectedStartAt(t *testing.T) {
	p := testPolicy()
	p.ExpectedStart = 8*time.Hour + 30*time.Minute

	got := p.ExpectedStartAt(time.Date(2026, 3, 2, 14, 0, 0, 0, jakarta))
	assert.Equal(t, time.Date(2026, 3, 2, 8, 30, 0, 0, jakarta), got)
}

func TestNewPolicy(t *testing.T) {
	p, err := NewPolicy("UTC", "09:15", 5)
	require.NoError(t, err)
	assert.Equal(t, 9*time.Hour+15*time.Minute, p.ExpectedStart)
	assert.Equal(t, 5*time.Minute, p.Grace)

	_, err = NewPolicy("UTC", "9am", 5)
	assert.Error(t, err)

	_, err = NewPolicy("Not/AZone", DefaultExpectedStart, DefaultGraceMinutes)
	assert.Error(t, err)

	_, err = NewPolicy("UTC", DefaultExpectedStart, -1)
	assert.Error(t, err)
}

func TestParseAndFormatDate(t *testing.T) {
	p := testPolicy()

	day, err := p.ParseDate("2026-03-02")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, jakarta), day)
	assert.Equal(t, "2026-03-02", p.FormatDate(day))

	_, err = p.ParseDate("02/03/2026")
	assert.Error(t, err)
}

func TestLocal(t *testing.T) {
	got := testPolicy().Local(time.Date(2026, 3, 1, 20, 30, 0, 0, time.UTC))
	assert.Equal(t, "2026-03-02T03:30:00+07:00", got.Format(time.RFC3339))

	// a zero policy falls back to UTC instead of panicking
	got = Policy{}.Local(time.Date(2026, 3, 2, 3, 30, 0, 0, jakarta))
	assert.Equal(t, time.UTC, got.Location())
}
