package auth

import "fmt"

type Role string

const (
	RoleAdmin    Role = "admin"    // Starts and ends shift days, acts for any employee
	RoleEmployee Role = "employee" // Records own attendance
)

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

// Actor is the authenticated caller taken from access token claims.
type Actor struct {
	Subject    string
	EmployeeID string
	Role       Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// ActorFromClaims reads the sub, employee_id and role claims of an access token.
func ActorFromClaims(claims map[string]interface{}) (Actor, error) {
	tokenType, _ := claims["type"].(string)
	if tokenType != "access" {
		return Actor{}, ErrInvalidToken
	}

	roleStr, _ := claims["role"].(string)
	role := Role(roleStr)
	if !role.IsValid() {
		return Actor{}, fmt.Errorf("%w: unknown role %q", ErrInvalidToken, roleStr)
	}

	actor := Actor{Role: role}
	actor.Subject, _ = claims["sub"].(string)
	actor.EmployeeID, _ = claims["employee_id"].(string)

	if role == RoleEmployee && actor.EmployeeID == "" {
		return Actor{}, ErrEmployeeClaimMissing
	}
	return actor, nil
}

// EmployeeFor decides which employee a request acts on. Employees are pinned to their own id,
// admins must name one.
func (a Actor) EmployeeFor(requested string) (string, error) {
	if a.IsAdmin() {
		return requested, nil
	}
	if requested != "" && requested != a.EmployeeID {
		return "", ErrEmployeeAccessDenied
	}
	return a.EmployeeID, nil
}
