package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/shift-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/shift-attendance/internal/pkg/workday"
)

// ShiftJobs closes shift days that nobody ended.
type ShiftJobs struct {
	shiftService attendance.ShiftService
	policy       workday.Policy
	now          func() time.Time
}

func NewShiftJobs(shiftService attendance.ShiftService, policy workday.Policy, now func() time.Time) *ShiftJobs {
	if now == nil {
		now = time.Now
	}
	return &ShiftJobs{
		shiftService: shiftService,
		policy:       policy,
		now:          now,
	}
}

func (j *ShiftJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob("close_stale_shift_day", interval, j.CloseStaleShiftDay)
}

// CloseStaleShiftDay ends yesterday's shift day if it is still open.
func (j *ShiftJobs) CloseStaleShiftDay(ctx context.Context) error {
	yesterday := j.policy.Today(j.now()).AddDate(0, 0, -1)

	ended, err := j.shiftService.CloseStaleShiftDay(ctx, yesterday)
	if err != nil {
		return fmt.Errorf("failed to close shift day %s: %w", j.policy.FormatDate(yesterday), err)
	}

	if ended > 0 {
		slog.Info("Cron: Closed stale shift day", "date", j.policy.FormatDate(yesterday), "records", ended)
	}
	return nil
}
