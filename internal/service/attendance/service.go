package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/shift-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/shift-attendance/internal/domain/employee"
	"github.com/cmlabs-hris/shift-attendance/internal/pkg/keylock"
	"github.com/cmlabs-hris/shift-attendance/internal/pkg/retry"
	"github.com/cmlabs-hris/shift-attendance/internal/pkg/validator"
	"github.com/cmlabs-hris/shift-attendance/internal/pkg/workday"
	"github.com/shopspring/decimal"
)

// DefaultHistoryDays is the window returned when no start date is given.
const DefaultHistoryDays = 30

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	attendance.ShiftDayRepository
	employee.EmployeeRepository
	policy workday.Policy
	locks  *keylock.Locker
	now    func() time.Time
}

// LockKey identifies the (employee, day) pair that mutations are serialised on.
func LockKey(policy workday.Policy, employeeID string, day time.Time) string {
	return employeeID + "@" + policy.FormatDate(day)
}

// FormatInstant renders an instant in the business timezone.
func FormatInstant(policy workday.Policy, t time.Time) string {
	return policy.Local(t).Format(time.RFC3339)
}

func timePtrToString(policy workday.Policy, t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := FormatInstant(policy, *t)
	return &s
}

// ensureDayOpen fails with ErrGlobalShiftEnded unless the shift day was started and not ended.
func (a *AttendanceServiceImpl) ensureDayOpen(ctx context.Context, day time.Time) error {
	shiftDay, err := a.ShiftDayRepository.GetShiftDay(ctx, day)
	if err != nil {
		if errors.Is(err, attendance.ErrShiftDayNotFound) {
			return attendance.ErrGlobalShiftEnded
		}
		return fmt.Errorf("failed to get shift day: %w", err)
	}
	if !shiftDay.IsOpen() {
		return attendance.ErrGlobalShiftEnded
	}
	return nil
}

// CheckIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.CheckInResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.CheckInResponse{}, err
	}

	emp, err := employee.Resolve(ctx, a.EmployeeRepository, req.EmployeeID)
	if err != nil {
		return attendance.CheckInResponse{}, err
	}

	now := a.now()
	day := a.policy.Today(now)

	unlock := a.locks.Lock(LockKey(a.policy, emp.ID, day))
	defer unlock()

	record, err := retry.Once(ctx, attendance.ErrConflict, func() (attendance.Record, error) {
		return a.checkIn(ctx, emp.ID, day, now)
	})
	if err != nil {
		return attendance.CheckInResponse{}, err
	}

	slog.InfoContext(ctx, "Employee checked in",
		"employee_id", emp.ID,
		"date", a.policy.FormatDate(day),
		"session", len(record.CheckIns),
		"was_late", record.WasLate,
	)

	return attendance.CheckInResponse{
		EmployeeID:   emp.ID,
		EmployeeName: emp.FullName,
		Date:         a.policy.FormatDate(day),
		CheckInTime:  FormatInstant(a.policy, now),
		WasLate:      record.WasLate,
		SessionCount: len(record.CheckIns),
	}, nil
}

func (a *AttendanceServiceImpl) checkIn(ctx context.Context, employeeID string, day, now time.Time) (attendance.Record, error) {
	if err := a.ensureDayOpen(ctx, day); err != nil {
		return attendance.Record{}, err
	}

	record, err := a.AttendanceRepository.GetOrCreate(ctx, employeeID, day)
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to load attendance record: %w", err)
	}

	if record.ShiftEnded {
		return attendance.Record{}, attendance.ErrShiftEnded
	}

	record.CheckIns = append(record.CheckIns, now)
	if len(record.CheckIns) == 1 {
		record.WasLate = a.policy.IsLate(now, day)
	}
	record.TotalHours = attendance.ComputeTotalHours(record.CheckIns, record.CheckOuts)
	record.UpdatedAt = now

	saved, err := a.AttendanceRepository.Save(ctx, record)
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to save check-in: %w", err)
	}
	return saved, nil
}

// CheckOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.CheckOutResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.CheckOutResponse{}, err
	}

	emp, err := employee.Resolve(ctx, a.EmployeeRepository, req.EmployeeID)
	if err != nil {
		return attendance.CheckOutResponse{}, err
	}

	now := a.now()
	day := a.policy.Today(now)

	unlock := a.locks.Lock(LockKey(a.policy, emp.ID, day))
	defer unlock()

	record, err := retry.Once(ctx, attendance.ErrConflict, func() (attendance.Record, error) {
		return a.checkOut(ctx, emp.ID, day, now)
	})
	if err != nil {
		return attendance.CheckOutResponse{}, err
	}

	totalHours := record.TotalHours.Round(2)

	slog.InfoContext(ctx, "Employee checked out",
		"employee_id", emp.ID,
		"date", a.policy.FormatDate(day),
		"total_hours", totalHours.String(),
	)

	return attendance.CheckOutResponse{
		EmployeeID:   emp.ID,
		EmployeeName: emp.FullName,
		Date:         a.policy.FormatDate(day),
		CheckOutTime: FormatInstant(a.policy, now),
		TotalHours:   totalHours.InexactFloat64(),
	}, nil
}

func (a *AttendanceServiceImpl) checkOut(ctx context.Context, employeeID string, day, now time.Time) (attendance.Record, error) {
	if err := a.ensureDayOpen(ctx, day); err != nil {
		return attendance.Record{}, err
	}

	record, err := a.AttendanceRepository.GetByEmployeeAndDay(ctx, employeeID, day)
	if err != nil {
		if errors.Is(err, attendance.ErrRecordNotFound) {
			return attendance.Record{}, attendance.ErrNoActiveSession
		}
		return attendance.Record{}, fmt.Errorf("failed to load attendance record: %w", err)
	}

	if record.ShiftEnded {
		return attendance.Record{}, attendance.ErrShiftEnded
	}

	// A check-out after a check-out is accepted and paired positionally.
	if len(record.CheckIns) == 0 {
		return attendance.Record{}, attendance.ErrNoActiveSession
	}

	record.CheckOuts = append(record.CheckOuts, now)
	record.TotalHours = attendance.ComputeTotalHours(record.CheckIns, record.CheckOuts)
	record.UpdatedAt = now

	saved, err := a.AttendanceRepository.Save(ctx, record)
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to save check-out: %w", err)
	}
	return saved, nil
}

// GetAttendanceHistory implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetAttendanceHistory(ctx context.Context, filter attendance.HistoryFilter) (attendance.HistoryResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.HistoryResponse{}, err
	}

	emp, err := a.EmployeeRepository.GetByID(ctx, filter.EmployeeID)
	if err != nil {
		return attendance.HistoryResponse{}, err
	}

	startDay, endDay, err := a.historyRange(filter)
	if err != nil {
		return attendance.HistoryResponse{}, err
	}

	records, err := a.AttendanceRepository.ListByEmployee(ctx, emp.ID, startDay, endDay)
	if err != nil {
		return attendance.HistoryResponse{}, fmt.Errorf("failed to list attendance history: %w", err)
	}

	resp := attendance.HistoryResponse{
		EmployeeID:   emp.ID,
		EmployeeName: emp.FullName,
		StartDate:    a.policy.FormatDate(startDay),
		EndDate:      a.policy.FormatDate(endDay),
		Attendances:  make([]attendance.AttendanceResponse, 0, len(records)),
	}

	sum := decimal.Zero
	for _, r := range records {
		sum = sum.Add(r.TotalHours)
		if r.WasLate {
			resp.LateDays++
		}
		resp.Attendances = append(resp.Attendances, a.toAttendanceResponse(r))
	}
	resp.TotalHours = sum.Round(2).InexactFloat64()

	return resp, nil
}

// historyRange applies the defaults: end is today, start is DefaultHistoryDays back from end.
func (a *AttendanceServiceImpl) historyRange(filter attendance.HistoryFilter) (time.Time, time.Time, error) {
	endDay := a.policy.Today(a.now())
	if filter.EndDate != "" {
		d, err := a.policy.ParseDate(filter.EndDate)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		endDay = d
	}

	startDay := endDay.AddDate(0, 0, -(DefaultHistoryDays - 1))
	if filter.StartDate != "" {
		d, err := a.policy.ParseDate(filter.StartDate)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		startDay = d
	}

	if endDay.Before(startDay) {
		return time.Time{}, time.Time{}, validator.ValidationErrors{{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		}}
	}
	if endDay.Sub(startDay) > attendance.MaxHistoryRangeDays*24*time.Hour {
		return time.Time{}, time.Time{}, validator.ValidationErrors{{
			Field:   "start_date",
			Message: "date range must not exceed 366 days",
		}}
	}

	return startDay, endDay, nil
}

func (a *AttendanceServiceImpl) toAttendanceResponse(r attendance.Record) attendance.AttendanceResponse {
	resp := attendance.AttendanceResponse{
		ID:           r.ID,
		EmployeeID:   r.EmployeeID,
		Date:         a.policy.FormatDate(r.Day),
		CheckIns:     make([]string, 0, len(r.CheckIns)),
		CheckOuts:    make([]string, 0, len(r.CheckOuts)),
		TotalHours:   r.TotalHours.Round(2).InexactFloat64(),
		WasLate:      r.WasLate,
		ShiftEnded:   r.ShiftEnded,
		ShiftEndedAt: timePtrToString(a.policy, r.ShiftEndedAt),
		State:        string(r.State()),
	}
	for _, t := range r.CheckIns {
		resp.CheckIns = append(resp.CheckIns, FormatInstant(a.policy, t))
	}
	for _, t := range r.CheckOuts {
		resp.CheckOuts = append(resp.CheckOuts, FormatInstant(a.policy, t))
	}
	return resp
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	shiftDayRepo attendance.ShiftDayRepository,
	employeeRepo employee.EmployeeRepository,
	policy workday.Policy,
	locks *keylock.Locker,
	now func() time.Time,
) attendance.AttendanceService {
	if now == nil {
		now = time.Now
	}
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		ShiftDayRepository:   shiftDayRepo,
		EmployeeRepository:   employeeRepo,
		policy:               policy,
		locks:                locks,
		now:                  now,
	}
}
