package commands

import (
	"context"
	"time"

	"github.com/cmlabs-hris/shift-attendance/internal/domain/auth"
	"github.com/cmlabs-hris/shift-attendance/internal/pkg/jwt"
)

type TokenCmd struct {
	Subject    string        `help:"Subject identifier" required:""`
	EmployeeID string        `help:"Employee the token acts for; required for the employee role"`
	Role       string        `help:"Token role" enum:"admin,employee" default:"employee"`
	TTL        time.Duration `help:"Token lifetime" default:"12h"`
	SigningKey string        `help:"JWT signing key" required:"" env:"JWT_SECRET_KEY"`
}

func (t *TokenCmd) Run(ctx context.Context) error {
	token, expiresAt, err := jwt.NewJWTService(t.SigningKey).GenerateAccessToken(t.Subject, t.EmployeeID, auth.Role(t.Role), t.TTL)
	if err != nil {
		return err
	}

	return printJSON(map[string]interface{}{
		"access_token": token,
		"token_type":   "Bearer",
		"expires_at":   time.Unix(expiresAt, 0).UTC().Format(time.RFC3339),
	})
}
