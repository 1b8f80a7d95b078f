package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActorFromClaims(t *testing.T) {
	t.Run("employee", func(t *testing.T) {
		actor, err := ActorFromClaims(map[string]interface{}{
			"sub":         "u-1",
			"employee_id": "E1",
			"role":        "employee",
			"type":        "access",
		})
		require.NoError(t, err)
		assert.Equal(t, Actor{Subject: "u-1", EmployeeID: "E1", Role: RoleEmployee}, actor)
		assert.False(t, actor.IsAdmin())
	})

	t.Run("admin without employee", func(t *testing.T) {
		actor, err := ActorFromClaims(map[string]interface{}{"role": "admin", "type": "access"})
		require.NoError(t, err)
		assert.True(t, actor.IsAdmin())
	})

	t.Run("refresh token", func(t *testing.T) {
		_, err := ActorFromClaims(map[string]interface{}{"role": "admin", "type": "refresh"})
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unknown role", func(t *testing.T) {
		_, err := ActorFromClaims(map[string]interface{}{"role": "owner", "type": "access"})
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("employee without id", func(t *testing.T) {
		_, err := ActorFromClaims(map[string]interface{}{"role": "employee", "type": "access"})
		assert.ErrorIs(t, err, ErrEmployeeClaimMissing)
	})
}

func TestActor_EmployeeFor(t *testing.T) {
	employee := Actor{EmployeeID: "E1", Role: RoleEmployee}
	admin := Actor{Role: RoleAdmin}

	id, err := employee.EmployeeFor("")
	require.NoError(t, err)
	assert.Equal(t, "E1", id)

	id, err = employee.EmployeeFor("E1")
	require.NoError(t, err)
	assert.Equal(t, "E1", id)

	_, err = employee.EmployeeFor("E2")
	assert.ErrorIs(t, err, ErrEmployeeAccessDenied)

	id, err = admin.EmployeeFor("E2")
	require.NoError(t, err)
	assert.Equal(t, "E2", id)
}
