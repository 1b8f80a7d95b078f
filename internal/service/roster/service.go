package roster

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/cmlabs-hris/shift-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/shift-attendance/internal/domain/employee"
	"github.com/cmlabs-hris/shift-attendance/internal/domain/schedule"
	"github.com/cmlabs-hris/shift-attendance/internal/pkg/validator"
	"github.com/cmlabs-hris/shift-attendance/internal/pkg/workday"
	attendanceService "github.com/cmlabs-hris/shift-attendance/internal/service/attendance"
	"golang.org/x/sync/errgroup"
)

// lookupLimit bounds concurrent directory lookups per request.
const lookupLimit = 8

type RosterServiceImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
	templates schedule.ShiftTemplateRepository
	policy    workday.Policy
	now       func() time.Time
}

type checkedIn struct {
	record attendance.Record
	latest time.Time
}

// ListTodaysCheckIns implements attendance.RosterService.
func (r *RosterServiceImpl) ListTodaysCheckIns(ctx context.Context, date string) (attendance.RosterResponse, error) {
	now := r.now()
	day := r.policy.Today(now)
	if date != "" {
		if _, ok := validator.IsValidDate(date); !ok {
			return attendance.RosterResponse{}, validator.ValidationErrors{{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			}}
		}
		parsed, err := r.policy.ParseDate(date)
		if err != nil {
			return attendance.RosterResponse{}, err
		}
		day = parsed
	}

	records, err := r.AttendanceRepository.ListByDay(ctx, day)
	if err != nil {
		return attendance.RosterResponse{}, fmt.Errorf("failed to list attendance records: %w", err)
	}

	var present []checkedIn
	for _, rec := range records {
		latest, ok := rec.LatestCheckIn()
		if !ok {
			continue
		}
		present = append(present, checkedIn{record: rec, latest: latest})
	}
	slices.SortStableFunc(present, func(a, b checkedIn) int {
		if c := a.latest.Compare(b.latest); c != 0 {
			return c
		}
		return strings.Compare(a.record.EmployeeID, b.record.EmployeeID)
	})

	var templates []schedule.ShiftTemplate
	isToday := day.Equal(r.policy.Today(now))
	if isToday {
		templates, err = r.templates.ListActive(ctx)
		if err != nil {
			return attendance.RosterResponse{}, fmt.Errorf("failed to list shift templates: %w", err)
		}
	}

	entries := make([]attendance.RosterEntry, len(present))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(lookupLimit)
	for i, p := range present {
		g.Go(func() error {
			entry := attendance.RosterEntry{
				EmployeeID:        p.record.EmployeeID,
				EmployeeName:      p.record.EmployeeID,
				LatestCheckInTime: attendanceService.FormatInstant(r.policy, p.latest),
				WasLate:           p.record.WasLate,
				SessionCount:      len(p.record.CheckIns),
			}

			emp, err := r.EmployeeRepository.GetByID(gctx, p.record.EmployeeID)
			switch {
			case err == nil:
				entry.EmployeeName = emp.FullName
			case errors.Is(err, employee.ErrEmployeeNotFound):
			default:
				return fmt.Errorf("failed to resolve employee %s: %w", p.record.EmployeeID, err)
			}

			if isToday {
				if tpl, ok := schedule.ActiveTemplateFor(templates, p.record.EmployeeID, r.policy.Local(now)); ok {
					entry.CurrentShift = &tpl.Name
					entry.CurrentShiftColor = &tpl.Color
				}
			}

			entries[i] = entry
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return attendance.RosterResponse{}, err
	}

	resp := attendance.RosterResponse{
		Date:    r.policy.FormatDate(day),
		Total:   len(entries),
		Entries: entries,
	}
	for _, e := range entries {
		if e.WasLate {
			resp.Late++
		}
	}
	return resp, nil
}

func NewRosterService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	templateRepo schedule.ShiftTemplateRepository,
	policy workday.Policy,
	now func() time.Time,
) attendance.RosterService {
	if now == nil {
		now = time.Now
	}
	return &RosterServiceImpl{
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		templates:            templateRepo,
		policy:               policy,
		now:                  now,
	}
}
