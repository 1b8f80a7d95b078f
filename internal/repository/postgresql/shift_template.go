package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/shift-attendance/internal/domain/schedule"
	"github.com/cmlabs-hris/shift-attendance/internal/pkg/database"
	"github.com/jackc/pgx/v5/pgtype"
)

type shiftTemplateRepositoryImpl struct {
	db *database.DB
}

func NewShiftTemplateRepository(db *database.DB) schedule.ShiftTemplateRepository {
	return &shiftTemplateRepositoryImpl{db: db}
}

// ListActive implements schedule.ShiftTemplateRepository.
func (s *shiftTemplateRepositoryImpl) ListActive(ctx context.Context) ([]schedule.ShiftTemplate, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		SELECT id, name, start_time, end_time, weekdays, employee_ids, color, is_active, created_at, updated_at
		FROM shift_templates
		WHERE is_active
		ORDER BY name
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list shift templates: %w", mapPostgresError(err))
	}
	defer rows.Close()

	var templates []schedule.ShiftTemplate
	for rows.Next() {
		var (
			t          schedule.ShiftTemplate
			start, end pgtype.Time
			weekdays   []int16
		)
		if err := rows.Scan(
			&t.ID, &t.Name, &start, &end, &weekdays, &t.EmployeeIDs, &t.Color, &t.Active, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan shift template: %w", err)
		}

		t.StartTime = time.Duration(start.Microseconds) * time.Microsecond
		t.EndTime = time.Duration(end.Microseconds) * time.Microsecond
		for _, d := range weekdays {
			t.Weekdays = append(t.Weekdays, time.Weekday(d))
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shift templates: %w", mapPostgresError(err))
	}

	return templates, nil
}
