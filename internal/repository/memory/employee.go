package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/cmlabs-hris/shift-attendance/internal/domain/employee"
)

// EmployeeDirectory is an in-memory employee.EmployeeRepository.
type EmployeeDirectory struct {
	mu        sync.RWMutex
	employees map[string]employee.Employee
}

func NewEmployeeDirectory(employees ...employee.Employee) *EmployeeDirectory {
	d := &EmployeeDirectory{employees: make(map[string]employee.Employee)}
	for _, e := range employees {
		d.employees[e.ID] = e
	}
	return d
}

// Put adds or replaces an employee
func (d *EmployeeDirectory) Put(e employee.Employee) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.employees[e.ID] = e
}

// GetByID implements employee.EmployeeRepository.
func (d *EmployeeDirectory) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	e, ok := d.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

// ListActive implements employee.EmployeeRepository.
func (d *EmployeeDirectory) ListActive(ctx context.Context) ([]employee.Employee, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var out []employee.Employee
	for _, e := range d.employees {
		if e.IsActive() {
			out = append(out, e)
		}
	}
	slices.SortFunc(out, func(a, b employee.Employee) int {
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}
