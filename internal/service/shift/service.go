package shift

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/shift-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/shift-attendance/internal/domain/employee"
	"github.com/cmlabs-hris/shift-attendance/internal/domain/schedule"
	"github.com/cmlabs-hris/shift-attendance/internal/pkg/keylock"
	"github.com/cmlabs-hris/shift-attendance/internal/pkg/retry"
	"github.com/cmlabs-hris/shift-attendance/internal/pkg/validator"
	"github.com/cmlabs-hris/shift-attendance/internal/pkg/workday"
	attendanceService "github.com/cmlabs-hris/shift-attendance/internal/service/attendance"
)

type ShiftServiceImpl struct {
	attendance.AttendanceRepository
	attendance.ShiftDayRepository
	employee.EmployeeRepository
	templates schedule.ShiftTemplateRepository
	policy    workday.Policy
	locks     *keylock.Locker
	now       func() time.Time
}

func (s *ShiftServiceImpl) format(t time.Time) string {
	return attendanceService.FormatInstant(s.policy, t)
}

func (s *ShiftServiceImpl) formatPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := s.format(*t)
	return &v
}

// resolveDay parses an optional YYYY-MM-DD date, defaulting to today.
func (s *ShiftServiceImpl) resolveDay(date string) (time.Time, error) {
	if date == "" {
		return s.policy.Today(s.now()), nil
	}
	if _, ok := validator.IsValidDate(date); !ok {
		return time.Time{}, validator.ValidationErrors{{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		}}
	}
	return s.policy.ParseDate(date)
}

// StartShift implements attendance.ShiftService.
func (s *ShiftServiceImpl) StartShift(ctx context.Context) (attendance.StartShiftResponse, error) {
	now := s.now()
	day := s.policy.Today(now)

	employees, err := s.EmployeeRepository.ListActive(ctx)
	if err != nil {
		return attendance.StartShiftResponse{}, fmt.Errorf("failed to list active employees: %w", err)
	}
	if len(employees) == 0 {
		return attendance.StartShiftResponse{}, attendance.ErrNoEmployees
	}

	resp := attendance.StartShiftResponse{Date: s.policy.FormatDate(day)}

	shiftDay, err := s.ShiftDayRepository.GetShiftDay(ctx, day)
	switch {
	case err == nil && shiftDay.Ended:
		reopened, err := s.ShiftDayRepository.ReopenShiftDay(ctx, day, now)
		if err != nil {
			return attendance.StartShiftResponse{}, fmt.Errorf("failed to reopen shift day: %w", err)
		}
		resp.Action = attendance.ActionReopened
		resp.Affected = reopened

	case err == nil || errors.Is(err, attendance.ErrShiftDayNotFound):
		ids := make([]string, 0, len(employees))
		for _, emp := range employees {
			ids = append(ids, emp.ID)
		}
		created, err := s.ShiftDayRepository.OpenShiftDay(ctx, day, ids, now)
		if err != nil {
			return attendance.StartShiftResponse{}, fmt.Errorf("failed to open shift day: %w", err)
		}
		resp.Action = attendance.ActionStarted
		resp.Affected = created

	default:
		return attendance.StartShiftResponse{}, fmt.Errorf("failed to get shift day: %w", err)
	}

	slog.InfoContext(ctx, "Shift day started", "date", resp.Date, "action", resp.Action, "affected", resp.Affected)

	return resp, nil
}

// EndShiftForAll implements attendance.ShiftService.
func (s *ShiftServiceImpl) EndShiftForAll(ctx context.Context) (attendance.EndShiftResponse, error) {
	now := s.now()
	day := s.policy.Today(now)

	ended, alreadyEnded, err := s.endDay(ctx, day, now)
	if err != nil {
		return attendance.EndShiftResponse{}, err
	}

	shiftDay, err := s.ShiftDayRepository.GetShiftDay(ctx, day)
	if err != nil {
		return attendance.EndShiftResponse{}, fmt.Errorf("failed to get shift day: %w", err)
	}

	resp := attendance.EndShiftResponse{
		Date:         s.policy.FormatDate(day),
		EndedAt:      s.format(now),
		Affected:     ended,
		AlreadyEnded: alreadyEnded,
	}
	if shiftDay.EndedAt != nil {
		resp.EndedAt = s.format(*shiftDay.EndedAt)
	}

	slog.InfoContext(ctx, "Shift day ended", "date", resp.Date, "affected", ended, "already_ended", alreadyEnded)

	return resp, nil
}

// endDay ends every open record of day. A day that was never started and has no records
// fails with ErrNothingToEnd.
func (s *ShiftServiceImpl) endDay(ctx context.Context, day, now time.Time) (int, bool, error) {
	alreadyEnded := false

	shiftDay, err := s.ShiftDayRepository.GetShiftDay(ctx, day)
	switch {
	case err == nil:
		alreadyEnded = shiftDay.Ended
	case errors.Is(err, attendance.ErrShiftDayNotFound):
		records, err := s.AttendanceRepository.ListByDay(ctx, day)
		if err != nil {
			return 0, false, fmt.Errorf("failed to list attendance records: %w", err)
		}
		if len(records) == 0 {
			return 0, false, attendance.ErrNothingToEnd
		}
	default:
		return 0, false, fmt.Errorf("failed to get shift day: %w", err)
	}

	ended, err := s.ShiftDayRepository.EndShiftDay(ctx, day, now)
	if err != nil {
		return 0, false, fmt.Errorf("failed to end shift day: %w", err)
	}
	return ended, alreadyEnded, nil
}

// EndShiftForEmployee implements attendance.ShiftService.
func (s *ShiftServiceImpl) EndShiftForEmployee(ctx context.Context, employeeID string) (attendance.EndEmployeeShiftResponse, error) {
	if validator.IsEmpty(employeeID) {
		return attendance.EndEmployeeShiftResponse{}, validator.ValidationErrors{{
			Field:   "employee_id",
			Message: "employee_id is required",
		}}
	}

	emp, err := employee.Resolve(ctx, s.EmployeeRepository, employeeID)
	if err != nil {
		return attendance.EndEmployeeShiftResponse{}, err
	}

	now := s.now()
	day := s.policy.Today(now)

	unlock := s.locks.Lock(attendanceService.LockKey(s.policy, emp.ID, day))
	defer unlock()

	record, err := retry.Once(ctx, attendance.ErrConflict, func() (attendance.Record, error) {
		record, err := s.AttendanceRepository.GetByEmployeeAndDay(ctx, emp.ID, day)
		if err != nil {
			if errors.Is(err, attendance.ErrRecordNotFound) {
				return attendance.Record{}, attendance.ErrNoRecordToday
			}
			return attendance.Record{}, fmt.Errorf("failed to load attendance record: %w", err)
		}
		if record.ShiftEnded {
			return attendance.Record{}, attendance.ErrAlreadyEnded
		}

		endedAt := now
		record.ShiftEnded = true
		record.ShiftEndedAt = &endedAt
		record.UpdatedAt = now

		saved, err := s.AttendanceRepository.Save(ctx, record)
		if err != nil {
			return attendance.Record{}, fmt.Errorf("failed to save shift end: %w", err)
		}
		return saved, nil
	})
	if err != nil {
		return attendance.EndEmployeeShiftResponse{}, err
	}

	slog.InfoContext(ctx, "Employee shift ended", "employee_id", emp.ID, "date", s.policy.FormatDate(day))

	return attendance.EndEmployeeShiftResponse{
		EmployeeID:   emp.ID,
		EmployeeName: emp.FullName,
		Date:         s.policy.FormatDate(day),
		EndedAt:      s.format(*record.ShiftEndedAt),
		TotalHours:   record.TotalHours.Round(2).InexactFloat64(),
	}, nil
}

// GetShiftStatus implements attendance.ShiftService.
func (s *ShiftServiceImpl) GetShiftStatus(ctx context.Context, date string) (attendance.ShiftStatusResponse, error) {
	day, err := s.resolveDay(date)
	if err != nil {
		return attendance.ShiftStatusResponse{}, err
	}

	resp := attendance.ShiftStatusResponse{Date: s.policy.FormatDate(day)}

	shiftDay, err := s.ShiftDayRepository.GetShiftDay(ctx, day)
	if err != nil {
		if errors.Is(err, attendance.ErrShiftDayNotFound) {
			return resp, nil
		}
		return attendance.ShiftStatusResponse{}, fmt.Errorf("failed to get shift day: %w", err)
	}

	resp.Started = true
	resp.Ended = shiftDay.Ended
	resp.EndedAt = s.formatPtr(shiftDay.EndedAt)
	return resp, nil
}

// GetEmployeeShiftStatus implements attendance.ShiftService.
func (s *ShiftServiceImpl) GetEmployeeShiftStatus(ctx context.Context, employeeID string, date string) (attendance.EmployeeShiftStatusResponse, error) {
	day, err := s.resolveDay(date)
	if err != nil {
		return attendance.EmployeeShiftStatusResponse{}, err
	}

	emp, err := employee.Resolve(ctx, s.EmployeeRepository, employeeID)
	if err != nil {
		return attendance.EmployeeShiftStatusResponse{}, err
	}

	resp := attendance.EmployeeShiftStatusResponse{
		EmployeeID:   emp.ID,
		EmployeeName: emp.FullName,
		Date:         s.policy.FormatDate(day),
	}

	record, err := s.AttendanceRepository.GetByEmployeeAndDay(ctx, emp.ID, day)
	switch {
	case err == nil:
		resp.HasRecord = true
		resp.CheckedIn = record.State() == attendance.StateCheckedIn
		resp.Ended = record.ShiftEnded
		resp.EndedAt = s.formatPtr(record.ShiftEndedAt)
	case errors.Is(err, attendance.ErrRecordNotFound):
	default:
		return attendance.EmployeeShiftStatusResponse{}, fmt.Errorf("failed to load attendance record: %w", err)
	}

	now := s.now()
	if day.Equal(s.policy.Today(now)) {
		templates, err := s.templates.ListActive(ctx)
		if err != nil {
			return attendance.EmployeeShiftStatusResponse{}, fmt.Errorf("failed to list shift templates: %w", err)
		}
		if tpl, ok := schedule.ActiveTemplateFor(templates, emp.ID, s.policy.Local(now)); ok {
			resp.CurrentShift = &tpl.Name
		}
	}

	return resp, nil
}

// CloseStaleShiftDay implements attendance.ShiftService.
func (s *ShiftServiceImpl) CloseStaleShiftDay(ctx context.Context, day time.Time) (int, error) {
	now := s.now()
	day = s.policy.StartOfDay(day)
	if !day.Before(s.policy.Today(now)) {
		return 0, fmt.Errorf("shift day %s is not in the past", s.policy.FormatDate(day))
	}

	shiftDay, err := s.ShiftDayRepository.GetShiftDay(ctx, day)
	if err != nil {
		if errors.Is(err, attendance.ErrShiftDayNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get shift day: %w", err)
	}
	if shiftDay.Ended {
		return 0, nil
	}

	ended, err := s.ShiftDayRepository.EndShiftDay(ctx, day, now)
	if err != nil {
		return 0, fmt.Errorf("failed to end stale shift day: %w", err)
	}

	slog.InfoContext(ctx, "Closed stale shift day", "date", s.policy.FormatDate(day), "affected", ended)

	return ended, nil
}

func NewShiftService(
	attendanceRepo attendance.AttendanceRepository,
	shiftDayRepo attendance.ShiftDayRepository,
	employeeRepo employee.EmployeeRepository,
	templateRepo schedule.ShiftTemplateRepository,
	policy workday.Policy,
	locks *keylock.Locker,
	now func() time.Time,
) attendance.ShiftService {
	if now == nil {
		now = time.Now
	}
	return &ShiftServiceImpl{
		AttendanceRepository: attendanceRepo,
		ShiftDayRepository:   shiftDayRepo,
		EmployeeRepository:   employeeRepo,
		templates:            templateRepo,
		policy:               policy,
		locks:                locks,
		now:                  now,
	}
}
