package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/shift-attendance/internal/config"
	"github.com/cmlabs-hris/shift-attendance/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{Secret: "jwt"},
		App: config.AppConfig{
			Env:             "test",
			LogLevel:        "warn",
			StorageDriver:   config.StorageDriverMemory,
			MemoryEmployees: []string{"E1=Ayu Lestari", " E2=Budi Santoso"},
		},
		Shift: config.ShiftConfig{Timezone: "Asia/Jakarta", ExpectedStart: "18:00", GraceMinutes: 20},
	}
}

func TestOpenRepositories_Memory(t *testing.T) {
	cfg := memoryConfig()
	policy, err := cfg.Policy()
	require.NoError(t, err)

	repos, err := OpenRepositories(context.Background(), cfg, policy)
	require.NoError(t, err)
	defer repos.Close()

	employees, err := repos.Employees.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, employees, 2)
	assert.Equal(t, "Budi Santoso", employees[1].FullName)

	now := time.Date(2025, time.March, 10, 9, 0, 0, 0, policy.Location)
	services := NewServices(repos, policy, func() time.Time { return now })

	started, err := services.Shift.StartShift(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, started.Affected)

	_, err = services.Attendance.CheckIn(context.Background(), attendance.CheckInRequest{EmployeeID: "E2"})
	require.NoError(t, err)

	roster, err := services.Roster.ListTodaysCheckIns(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 1, roster.Total)
}

func TestOpenRepositories_BadSeed(t *testing.T) {
	cfg := memoryConfig()
	cfg.App.MemoryEmployees = []string{"no-separator"}
	policy, err := cfg.Policy()
	require.NoError(t, err)

	_, err = OpenRepositories(context.Background(), cfg, policy)
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	logger, level, err := NewLogger(memoryConfig(), "test")
	require.NoError(t, err)
	assert.NotNil(t, logger)
	assert.Equal(t, "WARN", level.String())
}
