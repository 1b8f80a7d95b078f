package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/cmlabs-hris/shift-attendance/internal/domain/auth"
	"github.com/cmlabs-hris/shift-attendance/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = prev })
	return &buf
}

func TestTokenCmd(t *testing.T) {
	out := captureStdout(t)

	cmd := &TokenCmd{Subject: "ayu", EmployeeID: "E1", Role: "employee", TTL: time.Hour, SigningKey: "test-secret"}
	require.NoError(t, cmd.Run(context.Background()))

	var printed struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		ExpiresAt   string `json:"expires_at"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &printed))
	assert.Equal(t, "Bearer", printed.TokenType)

	token, err := jwt.NewJWTService("test-secret").JWTAuth().Decode(printed.AccessToken)
	require.NoError(t, err)
	claims, err := token.AsMap(context.Background())
	require.NoError(t, err)

	actor, err := auth.ActorFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, "E1", actor.EmployeeID)
	assert.Equal(t, auth.RoleEmployee, actor.Role)
}

func TestTokenCmd_EmployeeRoleNeedsEmployeeID(t *testing.T) {
	captureStdout(t)

	cmd := &TokenCmd{Subject: "ayu", Role: "employee", TTL: time.Hour, SigningKey: "test-secret"}
	assert.ErrorIs(t, cmd.Run(context.Background()), auth.ErrEmployeeClaimMissing)
}

func TestOpen_RejectsMemoryDriver(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("JWT_SECRET_KEY", "test-secret")

	_, err := open(context.Background(), &Globals{Version: "test"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORAGE_DRIVER=postgres")
}
