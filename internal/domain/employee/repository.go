package employee

import "context"

// EmployeeRepository is the read-only employee directory.
type EmployeeRepository interface {
	// GetByID returns ErrEmployeeNotFound for unknown identifiers
	GetByID(ctx context.Context, id string) (Employee, error)
	ListActive(ctx context.Context) ([]Employee, error)
}
