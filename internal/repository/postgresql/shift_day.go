package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/shift-attendance/internal/domain/attendance"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// GetShiftDay implements attendance.ShiftDayRepository.
func (a *AttendanceRepository) GetShiftDay(ctx context.Context, day time.Time) (attendance.ShiftDay, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT day, started_at, ended, ended_at, updated_at
		FROM shift_days
		WHERE day = $1::date
	`

	var sd attendance.ShiftDay
	err := q.QueryRow(ctx, query, a.dateParam(day)).Scan(&sd.Day, &sd.StartedAt, &sd.Ended, &sd.EndedAt, &sd.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.ShiftDay{}, attendance.ErrShiftDayNotFound
		}
		return attendance.ShiftDay{}, fmt.Errorf("failed to get shift day: %w", mapPostgresError(err))
	}
	sd.Day = a.localDay(sd.Day)
	return sd, nil
}

// OpenShiftDay implements attendance.ShiftDayRepository.
func (a *AttendanceRepository) OpenShiftDay(ctx context.Context, day time.Time, employeeIDs []string, now time.Time) (int, error) {
	ids := make([]string, len(employeeIDs))
	for i := range employeeIDs {
		id, err := uuid.NewV7()
		if err != nil {
			return 0, fmt.Errorf("failed to generate record id: %w", err)
		}
		ids[i] = id.String()
	}

	var created int
	err := WithTransaction(ctx, a.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, a.db)

		if _, err := q.Exec(ctx, `
			INSERT INTO shift_days (day, started_at, updated_at)
			VALUES ($1::date, $2, $2)
			ON CONFLICT (day) DO NOTHING
		`, a.dateParam(day), now); err != nil {
			return fmt.Errorf("failed to open shift day: %w", mapPostgresError(err))
		}

		if len(employeeIDs) == 0 {
			return nil
		}

		tag, err := q.Exec(ctx, `
			INSERT INTO attendance_records (id, employee_id, day, created_at, updated_at)
			SELECT u.id, u.employee_id, $3::date, $4, $4
			FROM unnest($1::uuid[], $2::text[]) AS u(id, employee_id)
			ON CONFLICT (employee_id, day) DO NOTHING
		`, ids, employeeIDs, a.dateParam(day), now)
		if err != nil {
			return fmt.Errorf("failed to create attendance records: %w", mapPostgresError(err))
		}
		created = int(tag.RowsAffected())
		return nil
	})
	if err != nil {
		return 0, err
	}

	return created, nil
}

// ReopenShiftDay implements attendance.ShiftDayRepository.
func (a *AttendanceRepository) ReopenShiftDay(ctx context.Context, day time.Time, now time.Time) (int, error) {
	var reopened int
	err := WithTransaction(ctx, a.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, a.db)

		tag, err := q.Exec(ctx, `
			UPDATE shift_days
			SET ended = FALSE, ended_at = NULL, updated_at = $2
			WHERE day = $1::date
		`, a.dateParam(day), now)
		if err != nil {
			return fmt.Errorf("failed to reopen shift day: %w", mapPostgresError(err))
		}
		if tag.RowsAffected() == 0 {
			return attendance.ErrShiftDayNotFound
		}

		// check_ins, check_outs and total_hours stay as they are
		tag, err = q.Exec(ctx, `
			UPDATE attendance_records
			SET shift_ended = FALSE, shift_ended_at = NULL, version = version + 1, updated_at = $2
			WHERE day = $1::date AND shift_ended
		`, a.dateParam(day), now)
		if err != nil {
			return fmt.Errorf("failed to reopen attendance records: %w", mapPostgresError(err))
		}
		reopened = int(tag.RowsAffected())
		return nil
	})
	if err != nil {
		return 0, err
	}

	return reopened, nil
}

// EndShiftDay implements attendance.ShiftDayRepository.
func (a *AttendanceRepository) EndShiftDay(ctx context.Context, day time.Time, now time.Time) (int, error) {
	var ended int
	err := WithTransaction(ctx, a.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, a.db)

		// the first end timestamp wins so re-running never moves it
		if _, err := q.Exec(ctx, `
			INSERT INTO shift_days (day, started_at, ended, ended_at, updated_at)
			VALUES ($1::date, $2, TRUE, $2, $2)
			ON CONFLICT (day) DO UPDATE
			SET ended = TRUE,
				ended_at = COALESCE(shift_days.ended_at, EXCLUDED.ended_at),
				updated_at = EXCLUDED.updated_at
		`, a.dateParam(day), now); err != nil {
			return fmt.Errorf("failed to end shift day: %w", mapPostgresError(err))
		}

		tag, err := q.Exec(ctx, `
			UPDATE attendance_records
			SET shift_ended = TRUE, shift_ended_at = $2, version = version + 1, updated_at = $2
			WHERE day = $1::date AND NOT shift_ended
		`, a.dateParam(day), now)
		if err != nil {
			return fmt.Errorf("failed to end attendance records: %w", mapPostgresError(err))
		}
		ended = int(tag.RowsAffected())
		return nil
	})
	if err != nil {
		return 0, err
	}

	return ended, nil
}
