package employee

type Employee struct {
	ID               string
	FullName         string
	EmploymentStatus EmploymentStatus
}

type EmploymentStatus string

const (
	EmploymentStatusActive     EmploymentStatus = "active"
	EmploymentStatusResigned   EmploymentStatus = "resigned"
	EmploymentStatusTerminated EmploymentStatus = "terminated"
)

// IsActive reports whether the employee may record attendance.
func (e Employee) IsActive() bool {
	return e.EmploymentStatus == EmploymentStatusActive
}
