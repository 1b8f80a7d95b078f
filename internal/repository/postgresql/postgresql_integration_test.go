//go:build integration

package postgresql_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/shift-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/shift-attendance/internal/domain/employee"
	"github.com/cmlabs-hris/shift-attendance/internal/pkg/database"
	"github.com/cmlabs-hris/shift-attendance/internal/repository/postgresql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var wib = time.FixedZone("WIB", 7*60*60)

func setupPostgresContainer(t *testing.T, ctx context.Context) (*database.DB, func()) {
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connString := fmt.Sprintf("postgres://test:test@%s:%s/testdb?sslmode=disable", host, port.Port())

	db, err := database.NewPostgreSQLDB(ctx, connString, database.PoolOptions{MaxConns: 10, MinConns: 1})
	require.NoError(t, err)

	require.NoError(t, postgresql.RunMigrations(ctx, db))
	// a second run must find every migration applied
	require.NoError(t, postgresql.RunMigrations(ctx, db))

	_, err = db.Exec(ctx, `
		INSERT INTO employees (id, full_name, employment_status) VALUES
			('E1', 'Ayu Lestari', 'active'),
			('E2', 'Budi Santoso', 'active'),
			('E9', 'Citra Dewi', 'resigned')
	`)
	require.NoError(t, err)

	_, err = db.Exec(ctx, `
		INSERT INTO shift_templates (id, name, start_time, end_time, weekdays, employee_ids, is_active) VALUES
			('0199a000-0000-7000-8000-000000000001', 'Night', '22:00', '06:00', '{1,2,3,4,5}', '{E1}', TRUE),
			('0199a000-0000-7000-8000-000000000002', 'Archived', '08:00', '16:00', '{1}', '{}', FALSE)
	`)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		_ = container.Terminate(ctx)
	}

	return db, cleanup
}

func TestIntegration_Repositories(t *testing.T) {
	ctx := context.Background()
	db, cleanup := setupPostgresContainer(t, ctx)
	defer cleanup()

	repo := postgresql.NewAttendanceRepository(db, wib)
	employees := postgresql.NewEmployeeRepository(db)
	templates := postgresql.NewShiftTemplateRepository(db)

	day := time.Date(2025, 3, 10, 0, 0, 0, 0, wib)
	at := func(h, m int) time.Time { return time.Date(2025, 3, 10, h, m, 0, 0, wib) }

	t.Run("employee directory", func(t *testing.T) {
		e, err := employees.GetByID(ctx, "E9")
		require.NoError(t, err)
		assert.Equal(t, "Citra Dewi", e.FullName)
		assert.False(t, e.IsActive())

		_, err = employees.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

		active, err := employees.ListActive(ctx)
		require.NoError(t, err)
		require.Len(t, active, 2)
		assert.Equal(t, "E1", active[0].ID)
		assert.Equal(t, "E2", active[1].ID)
	})

	t.Run("shift templates", func(t *testing.T) {
		list, err := templates.ListActive(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Night", list[0].Name)
		assert.Equal(t, 22*time.Hour, list[0].StartTime)
		assert.Equal(t, 6*time.Hour, list[0].EndTime)
		assert.True(t, list[0].IsOvernight())
		assert.Contains(t, list[0].Weekdays, time.Monday)
		assert.True(t, list[0].AssignedTo("E1"))
	})

	t.Run("day never started", func(t *testing.T) {
		_, err := repo.GetShiftDay(ctx, day)
		assert.ErrorIs(t, err, attendance.ErrShiftDayNotFound)

		_, err = repo.GetByEmployeeAndDay(ctx, "E1", day)
		assert.ErrorIs(t, err, attendance.ErrRecordNotFound)
	})

	t.Run("open creates one record per employee", func(t *testing.T) {
		created, err := repo.OpenShiftDay(ctx, day, []string{"E1", "E2"}, at(8, 0))
		require.NoError(t, err)
		assert.Equal(t, 2, created)

		created, err = repo.OpenShiftDay(ctx, day, []string{"E1", "E2"}, at(8, 5))
		require.NoError(t, err)
		assert.Equal(t, 0, created)

		sd, err := repo.GetShiftDay(ctx, day)
		require.NoError(t, err)
		assert.True(t, sd.Day.Equal(day))
		assert.False(t, sd.Ended)
		assert.True(t, sd.StartedAt.Equal(at(8, 0)))
	})

	t.Run("save with optimistic version", func(t *testing.T) {
		rec, err := repo.GetOrCreate(ctx, "E1", day)
		require.NoError(t, err)
		assert.Empty(t, rec.CheckIns)

		rec.CheckIns = append(rec.CheckIns, at(8, 55))
		rec.CheckOuts = append(rec.CheckOuts, at(12, 0))
		rec.TotalHours = decimal.RequireFromString("3.0833")
		saved, err := repo.Save(ctx, rec)
		require.NoError(t, err)
		assert.Equal(t, rec.Version+1, saved.Version)
		require.Len(t, saved.CheckIns, 1)
		assert.True(t, saved.CheckIns[0].Equal(at(8, 55)))
		assert.True(t, saved.TotalHours.Equal(decimal.RequireFromString("3.0833")))

		// rec still carries the old version
		_, err = repo.Save(ctx, rec)
		assert.ErrorIs(t, err, attendance.ErrConflict)
	})

	t.Run("concurrent get or create returns one record", func(t *testing.T) {
		other := day.AddDate(0, 0, 1)
		_, err := repo.OpenShiftDay(ctx, other, nil, other.Add(8*time.Hour))
		require.NoError(t, err)

		var wg sync.WaitGroup
		ids := make([]string, 10)
		for i := range ids {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				rec, err := repo.GetOrCreate(ctx, "E2", other)
				if assert.NoError(t, err) {
					ids[i] = rec.ID
				}
			}(i)
		}
		wg.Wait()
		for _, id := range ids {
			assert.Equal(t, ids[0], id)
		}
	})

	t.Run("unknown employee violates foreign key", func(t *testing.T) {
		_, err := repo.GetOrCreate(ctx, "ghost", day)
		assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	})

	t.Run("end and reopen", func(t *testing.T) {
		ended, err := repo.EndShiftDay(ctx, day, at(17, 0))
		require.NoError(t, err)
		assert.Equal(t, 2, ended)

		ended, err = repo.EndShiftDay(ctx, day, at(18, 0))
		require.NoError(t, err)
		assert.Equal(t, 0, ended)

		sd, err := repo.GetShiftDay(ctx, day)
		require.NoError(t, err)
		assert.True(t, sd.Ended)
		require.NotNil(t, sd.EndedAt)
		assert.True(t, sd.EndedAt.Equal(at(17, 0)))

		reopened, err := repo.ReopenShiftDay(ctx, day, at(19, 0))
		require.NoError(t, err)
		assert.Equal(t, 2, reopened)

		rec, err := repo.GetByEmployeeAndDay(ctx, "E1", day)
		require.NoError(t, err)
		assert.False(t, rec.ShiftEnded)
		assert.Nil(t, rec.ShiftEndedAt)
		assert.Len(t, rec.CheckIns, 1)
	})

	t.Run("list queries", func(t *testing.T) {
		records, err := repo.ListByDay(ctx, day)
		require.NoError(t, err)
		assert.Len(t, records, 2)

		history, err := repo.ListByEmployee(ctx, "E2", day, day.AddDate(0, 0, 1))
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.True(t, history[0].Day.Before(history[1].Day))
	})

	t.Run("closed day rejects open writes", func(t *testing.T) {
		closed := day.AddDate(0, 0, 2)

		_, err := repo.GetOrCreate(ctx, "E1", closed)
		assert.ErrorIs(t, err, attendance.ErrGlobalShiftEnded)

		_, err = repo.OpenShiftDay(ctx, closed, []string{"E1"}, closed.Add(8*time.Hour))
		require.NoError(t, err)
		_, err = repo.EndShiftDay(ctx, closed, closed.Add(17*time.Hour))
		require.NoError(t, err)

		_, err = repo.GetOrCreate(ctx, "E2", closed)
		assert.ErrorIs(t, err, attendance.ErrGlobalShiftEnded)

		rec, err := repo.GetByEmployeeAndDay(ctx, "E1", closed)
		require.NoError(t, err)
		rec.ShiftEnded = false
		rec.ShiftEndedAt = nil
		rec.CheckIns = append(rec.CheckIns, closed.Add(18*time.Hour))
		_, err = repo.Save(ctx, rec)
		assert.ErrorIs(t, err, attendance.ErrGlobalShiftEnded)
	})

	t.Run("check-ins racing the end of the day are all ended", func(t *testing.T) {
		racing := day.AddDate(0, 0, 3)
		_, err := repo.OpenShiftDay(ctx, racing, nil, racing.Add(8*time.Hour))
		require.NoError(t, err)

		var wg sync.WaitGroup
		for _, id := range []string{"E1", "E2", "E9"} {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				rec, err := repo.GetOrCreate(ctx, id, racing)
				if err != nil {
					assert.ErrorIs(t, err, attendance.ErrGlobalShiftEnded)
					return
				}
				rec.CheckIns = append(rec.CheckIns, racing.Add(9*time.Hour))
				if _, err := repo.Save(ctx, rec); err != nil {
					assert.True(t, errors.Is(err, attendance.ErrGlobalShiftEnded) || errors.Is(err, attendance.ErrConflict), "unexpected error %v", err)
				}
			}(id)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.EndShiftDay(ctx, racing, racing.Add(17*time.Hour))
			assert.NoError(t, err)
		}()
		wg.Wait()

		records, err := repo.ListByDay(ctx, racing)
		require.NoError(t, err)
		for _, r := range records {
			assert.True(t, r.ShiftEnded, "record of %s left open", r.EmployeeID)
		}
	})

	t.Run("reopen of a missing day", func(t *testing.T) {
		_, err := repo.ReopenShiftDay(ctx, day.AddDate(0, 0, -5), at(9, 0))
		assert.ErrorIs(t, err, attendance.ErrShiftDayNotFound)
	})
}
