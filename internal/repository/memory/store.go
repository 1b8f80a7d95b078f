package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/cmlabs-hris/shift-attendance/internal/domain/attendance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AttendanceStore is an in-memory implementation of attendance.AttendanceRepository and
// attendance.ShiftDayRepository for development and testing. Records are versioned the same way
// the PostgreSQL store versions rows.
type AttendanceStore struct {
	mu        sync.RWMutex
	records   map[recordKey]*attendance.Record
	shiftDays map[int64]*attendance.ShiftDay
	now       func() time.Time
}

type recordKey struct {
	employeeID string
	day        int64
}

func keyOf(employeeID string, day time.Time) recordKey {
	return recordKey{employeeID: employeeID, day: day.Unix()}
}

// NewAttendanceStore creates a new in-memory attendance store
func NewAttendanceStore() *AttendanceStore {
	return &AttendanceStore{
		records:   make(map[recordKey]*attendance.Record),
		shiftDays: make(map[int64]*attendance.ShiftDay),
		now:       time.Now,
	}
}

func newRecord(employeeID string, day time.Time, now time.Time) attendance.Record {
	return attendance.Record{
		ID:         uuid.Must(uuid.NewV7()).String(),
		EmployeeID: employeeID,
		Day:        day,
		CheckIns:   []time.Time{},
		CheckOuts:  []time.Time{},
		TotalHours: decimal.Zero,
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// GetByEmployeeAndDay implements attendance.AttendanceRepository.
func (s *AttendanceStore) GetByEmployeeAndDay(ctx context.Context, employeeID string, day time.Time) (attendance.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[keyOf(employeeID, day)]
	if !ok {
		return attendance.Record{}, attendance.ErrRecordNotFound
	}
	return rec.Clone(), nil
}

// GetOrCreate implements attendance.AttendanceRepository.
func (s *AttendanceStore) GetOrCreate(ctx context.Context, employeeID string, day time.Time) (attendance.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := keyOf(employeeID, day)
	if rec, ok := s.records[key]; ok {
		return rec.Clone(), nil
	}
	if !s.dayOpenLocked(day) {
		return attendance.Record{}, attendance.ErrGlobalShiftEnded
	}

	rec := newRecord(employeeID, day, s.now())
	s.records[key] = &rec
	return rec.Clone(), nil
}

// Save implements attendance.AttendanceRepository.
func (s *AttendanceStore) Save(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := keyOf(record.EmployeeID, record.Day)
	current, ok := s.records[key]
	if !ok {
		return attendance.Record{}, attendance.ErrRecordNotFound
	}
	if current.Version != record.Version {
		return attendance.Record{}, attendance.ErrConflict
	}
	if !record.ShiftEnded && !s.dayOpenLocked(record.Day) {
		return attendance.Record{}, attendance.ErrGlobalShiftEnded
	}

	next := record.Clone()
	next.ID = current.ID
	next.CreatedAt = current.CreatedAt
	next.TotalHours = next.TotalHours.Round(4)
	next.Version = current.Version + 1
	next.UpdatedAt = s.now()
	s.records[key] = &next

	return next.Clone(), nil
}

// dayOpenLocked reports whether day was started and not ended. Callers hold s.mu.
func (s *AttendanceStore) dayOpenLocked(day time.Time) bool {
	sd, ok := s.shiftDays[day.Unix()]
	return ok && !sd.Ended
}

// ListByDay implements attendance.AttendanceRepository.
func (s *AttendanceStore) ListByDay(ctx context.Context, day time.Time) ([]attendance.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []attendance.Record
	for key, rec := range s.records {
		if key.day == day.Unix() {
			out = append(out, rec.Clone())
		}
	}
	slices.SortFunc(out, func(a, b attendance.Record) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return out, nil
}

// ListByEmployee implements attendance.AttendanceRepository.
func (s *AttendanceStore) ListByEmployee(ctx context.Context, employeeID string, startDay, endDay time.Time) ([]attendance.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []attendance.Record
	for key, rec := range s.records {
		if key.employeeID != employeeID {
			continue
		}
		if rec.Day.Before(startDay) || rec.Day.After(endDay) {
			continue
		}
		out = append(out, rec.Clone())
	}
	slices.SortFunc(out, func(a, b attendance.Record) int {
		return a.Day.Compare(b.Day)
	})
	return out, nil
}

// GetShiftDay implements attendance.ShiftDayRepository.
func (s *AttendanceStore) GetShiftDay(ctx context.Context, day time.Time) (attendance.ShiftDay, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sd, ok := s.shiftDays[day.Unix()]
	if !ok {
		return attendance.ShiftDay{}, attendance.ErrShiftDayNotFound
	}
	return copyShiftDay(sd), nil
}

// OpenShiftDay implements attendance.ShiftDayRepository.
func (s *AttendanceStore) OpenShiftDay(ctx context.Context, day time.Time, employeeIDs []string, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.shiftDays[day.Unix()]; !ok {
		s.shiftDays[day.Unix()] = &attendance.ShiftDay{Day: day, StartedAt: now, UpdatedAt: now}
	}

	created := 0
	for _, id := range employeeIDs {
		key := keyOf(id, day)
		if _, ok := s.records[key]; ok {
			continue
		}
		rec := newRecord(id, day, now)
		s.records[key] = &rec
		created++
	}
	return created, nil
}

// ReopenShiftDay implements attendance.ShiftDayRepository.
func (s *AttendanceStore) ReopenShiftDay(ctx context.Context, day time.Time, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sd, ok := s.shiftDays[day.Unix()]
	if !ok {
		return 0, attendance.ErrShiftDayNotFound
	}
	sd.Ended = false
	sd.EndedAt = nil
	sd.UpdatedAt = now

	reopened := 0
	for key, rec := range s.records {
		if key.day != day.Unix() || !rec.ShiftEnded {
			continue
		}
		rec.ShiftEnded = false
		rec.ShiftEndedAt = nil
		rec.Version++
		rec.UpdatedAt = now
		reopened++
	}
	return reopened, nil
}

// EndShiftDay implements attendance.ShiftDayRepository.
func (s *AttendanceStore) EndShiftDay(ctx context.Context, day time.Time, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sd, ok := s.shiftDays[day.Unix()]
	if !ok {
		sd = &attendance.ShiftDay{Day: day, StartedAt: now}
		s.shiftDays[day.Unix()] = sd
	}
	if !sd.Ended {
		endedAt := now
		sd.Ended = true
		sd.EndedAt = &endedAt
		sd.UpdatedAt = now
	}

	ended := 0
	for key, rec := range s.records {
		if key.day != day.Unix() || rec.ShiftEnded {
			continue
		}
		endedAt := now
		rec.ShiftEnded = true
		rec.ShiftEndedAt = &endedAt
		rec.Version++
		rec.UpdatedAt = now
		ended++
	}
	return ended, nil
}

func copyShiftDay(sd *attendance.ShiftDay) attendance.ShiftDay {
	c := *sd
	if sd.EndedAt != nil {
		t := *sd.EndedAt
		c.EndedAt = &t
	}
	return c
}
