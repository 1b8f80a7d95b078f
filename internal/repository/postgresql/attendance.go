package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/shift-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/shift-attendance/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const recordColumns = `
	id, employee_id, day, check_ins, check_outs, total_hours,
	was_late, shift_ended, shift_ended_at, version, created_at, updated_at
`

type AttendanceRepository struct {
	db  *database.DB
	loc *time.Location
}

// NewAttendanceRepository returns a repository that maps DATE columns onto midnight in loc.
func NewAttendanceRepository(db *database.DB, loc *time.Location) *AttendanceRepository {
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceRepository{db: db, loc: loc}
}

var (
	_ attendance.AttendanceRepository = (*AttendanceRepository)(nil)
	_ attendance.ShiftDayRepository   = (*AttendanceRepository)(nil)
)

// localDay converts a scanned DATE (midnight UTC) back to midnight in the business timezone.
func (a *AttendanceRepository) localDay(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, a.loc)
}

// dateParam renders a day as a DATE literal so the database never reinterprets its timezone.
func (a *AttendanceRepository) dateParam(day time.Time) string {
	return day.In(a.loc).Format("2006-01-02")
}

func (a *AttendanceRepository) scanRecord(row pgx.Row) (attendance.Record, error) {
	var rec attendance.Record
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.Day, &rec.CheckIns, &rec.CheckOuts, &rec.TotalHours,
		&rec.WasLate, &rec.ShiftEnded, &rec.ShiftEndedAt, &rec.Version, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return attendance.Record{}, err
	}
	rec.Day = a.localDay(rec.Day)
	rec.CheckIns = nonNil(rec.CheckIns)
	rec.CheckOuts = nonNil(rec.CheckOuts)
	return rec, nil
}

// nonNil keeps empty sequences from being written as NULL arrays.
func nonNil(ts []time.Time) []time.Time {
	if ts == nil {
		return []time.Time{}
	}
	return ts
}

// GetByEmployeeAndDay implements attendance.AttendanceRepository.
func (a *AttendanceRepository) GetByEmployeeAndDay(ctx context.Context, employeeID string, day time.Time) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + recordColumns + `
		FROM attendance_records
		WHERE employee_id = $1 AND day = $2::date
	`

	rec, err := a.scanRecord(q.QueryRow(ctx, query, employeeID, a.dateParam(day)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrRecordNotFound
		}
		return attendance.Record{}, fmt.Errorf("failed to get attendance by employee and day: %w", mapPostgresError(err))
	}
	return rec, nil
}

// lockOpenDay takes a share lock on the day's shift_days row for the rest of the transaction.
// EndShiftDay and ReopenShiftDay update that row, so they wait for the caller to commit and the
// caller waits for an end already in flight.
func (a *AttendanceRepository) lockOpenDay(ctx context.Context, q database.Querier, day time.Time) error {
	var ended bool
	err := q.QueryRow(ctx, `
		SELECT ended FROM shift_days WHERE day = $1::date FOR SHARE
	`, a.dateParam(day)).Scan(&ended)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.ErrGlobalShiftEnded
		}
		return fmt.Errorf("failed to lock shift day: %w", mapPostgresError(err))
	}
	if ended {
		return attendance.ErrGlobalShiftEnded
	}
	return nil
}

// GetOrCreate implements attendance.AttendanceRepository.
func (a *AttendanceRepository) GetOrCreate(ctx context.Context, employeeID string, day time.Time) (attendance.Record, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to generate record id: %w", err)
	}

	var rec attendance.Record
	err = WithTransaction(ctx, a.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, a.db)

		existing, err := a.GetByEmployeeAndDay(ctx, employeeID, day)
		if err == nil {
			rec = existing
			return nil
		}
		if !errors.Is(err, attendance.ErrRecordNotFound) {
			return err
		}

		if err := a.lockOpenDay(ctx, q, day); err != nil {
			return err
		}

		// DO NOTHING keeps the first writer's row; the loser falls through to the select below
		query := `
			INSERT INTO attendance_records (id, employee_id, day)
			VALUES ($1, $2, $3::date)
			ON CONFLICT (employee_id, day) DO NOTHING
			RETURNING ` + recordColumns

		created, err := a.scanRecord(q.QueryRow(ctx, query, id.String(), employeeID, a.dateParam(day)))
		if err == nil {
			rec = created
			return nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("failed to create attendance record: %w", mapPostgresError(err))
		}

		rec, err = a.GetByEmployeeAndDay(ctx, employeeID, day)
		return err
	})
	if err != nil {
		return attendance.Record{}, err
	}

	return rec, nil
}

// Save implements attendance.AttendanceRepository.
func (a *AttendanceRepository) Save(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	query := `
		UPDATE attendance_records
		SET check_ins = $3,
			check_outs = $4,
			total_hours = $5,
			was_late = $6,
			shift_ended = $7,
			shift_ended_at = $8,
			version = version + 1,
			updated_at = NOW()
		WHERE employee_id = $1 AND day = $2::date AND version = $9
		RETURNING ` + recordColumns

	var saved attendance.Record
	err := WithTransaction(ctx, a.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, a.db)

		// ending a record is allowed on a closed day, leaving it open is not
		if !record.ShiftEnded {
			if err := a.lockOpenDay(ctx, q, record.Day); err != nil {
				return err
			}
		}

		row, err := a.scanRecord(q.QueryRow(ctx, query,
			record.EmployeeID,
			a.dateParam(record.Day),
			nonNil(record.CheckIns),
			nonNil(record.CheckOuts),
			record.TotalHours.Round(4),
			record.WasLate,
			record.ShiftEnded,
			record.ShiftEndedAt,
			record.Version,
		))
		if err == nil {
			saved = row
			return nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("failed to save attendance record: %w", mapPostgresError(err))
		}

		// Nothing matched: either the row is gone or its version moved on
		if _, getErr := a.GetByEmployeeAndDay(ctx, record.EmployeeID, record.Day); getErr != nil {
			return getErr
		}
		return attendance.ErrConflict
	})
	if err != nil {
		return attendance.Record{}, err
	}

	return saved, nil
}

// ListByDay implements attendance.AttendanceRepository.
func (a *AttendanceRepository) ListByDay(ctx context.Context, day time.Time) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + recordColumns + `
		FROM attendance_records
		WHERE day = $1::date
		ORDER BY created_at, employee_id
	`

	return a.queryRecords(ctx, q, query, a.dateParam(day))
}

// ListByEmployee implements attendance.AttendanceRepository.
func (a *AttendanceRepository) ListByEmployee(ctx context.Context, employeeID string, startDay, endDay time.Time) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + recordColumns + `
		FROM attendance_records
		WHERE employee_id = $1 AND day BETWEEN $2::date AND $3::date
		ORDER BY day
	`

	return a.queryRecords(ctx, q, query, employeeID, a.dateParam(startDay), a.dateParam(endDay))
}

func (a *AttendanceRepository) queryRecords(ctx context.Context, q database.Querier, query string, args ...any) ([]attendance.Record, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance records: %w", mapPostgresError(err))
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		rec, err := a.scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance records: %w", mapPostgresError(err))
	}

	return records, nil
}
