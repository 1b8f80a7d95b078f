package schedule

import "context"

// ShiftTemplateRepository is a read-only reference table.
type ShiftTemplateRepository interface {
	ListActive(ctx context.Context) ([]ShiftTemplate, error)
}
