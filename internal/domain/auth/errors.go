package auth

import "errors"

var (
	ErrInvalidToken         = errors.New("invalid or expired token")
	ErrTokenRevoked         = errors.New("token has been revoked")
	ErrAdminAccessRequired  = errors.New("admin access required")
	ErrEmployeeClaimMissing = errors.New("token is not bound to an employee")
	ErrEmployeeAccessDenied = errors.New("employees may only act on their own attendance")
)
