package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	for _, role := range Roles() {
		parsed, err := ParseRole(string(role))
		require.NoError(t, err)
		assert.Equal(t, role, parsed)
	}

	for _, raw := range []string{"", "CEO", "Writer", "superuser", "principle"} {
		_, err := ParseRole(raw)
		assert.Error(t, err, "expected %q to be rejected", raw)
	}
}

func TestRoleRankIsStrictTotalOrder(t *testing.T) {
	roles := Roles()
	require.Equal(t, []Role{RoleUser, RoleWriter, RoleEditor, RoleCoord, RoleAdmin, RolePrincipal, RoleCeo}, roles)

	for i := 1; i < len(roles); i++ {
		assert.Greater(t, roles[i].Rank(), roles[i-1].Rank())
	}
	assert.Equal(t, 0, Role("nobody").Rank())
}

func TestRoleAtLeast(t *testing.T) {
	assert.True(t, RoleAdmin.AtLeast(RoleEditor))
	assert.True(t, RoleEditor.AtLeast(RoleEditor))
	assert.False(t, RoleWriter.AtLeast(RoleEditor))
	assert.False(t, Role("ghost").AtLeast(RoleUser))
	assert.False(t, RoleCeo.AtLeast(Role("ghost")))
}
