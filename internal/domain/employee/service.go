package employee

import (
	"context"
	"fmt"
)

// Resolve looks up an employee that is allowed to record attendance.
// Unknown and inactive employees both fail with ErrEmployeeNotFound.
func Resolve(ctx context.Context, repo EmployeeRepository, id string) (Employee, error) {
	emp, err := repo.GetByID(ctx, id)
	if err != nil {
		return Employee{}, err
	}
	if !emp.IsActive() {
		return Employee{}, fmt.Errorf("%w: %s is %s: %w", ErrEmployeeNotFound, id, emp.EmploymentStatus, ErrEmployeeInactive)
	}
	return emp, nil
}
