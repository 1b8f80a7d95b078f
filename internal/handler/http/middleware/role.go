package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/shift-attendance/internal/domain/auth"
	"github.com/cmlabs-hris/shift-attendance/internal/handler/http/response"
)

// RequireAdmin requires the admin role
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ActorFromContext(r.Context())
		if !ok {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		if !actor.IsAdmin() {
			response.HandleError(w, auth.ErrAdminAccessRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
