package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayStatus(t *testing.T) {
	t.Parallel()

	cases := []struct {
		u    User
		want string
	}{
		{User{Status: StatusRejected, IsActive: true}, "Rejected"},
		{User{Status: StatusApproved, IsActive: true}, "Active"},
		{User{Status: StatusApproved}, "Deactivated"},
		{User{Status: StatusPending}, "pending"},
		{User{}, "—"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.u.DisplayStatus(), "%+v", tc.u)
	}
}

func TestRoleLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Administrator", RoleAdmin.Label())
	assert.Equal(t, "Personnel", RoleOfficer.Label())
	assert.Equal(t, "Supervisor", Role("supervisor").Label())
	assert.Equal(t, "École Head", Role("école head").Label())
	assert.Empty(t, Role("").Label())
}

func TestInitials(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "?", Initials("   "))
	assert.Equal(t, "M", Initials("maria"))
	assert.Equal(t, "MS", Initials("Maria Clara  Santos"))
	assert.Equal(t, "ÉZ", Initials("élise zamora"))
}

func TestNewStatus(t *testing.T) {
	t.Parallel()

	s, err := NewStatus("approved")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, s)

	_, err = NewStatus("archived")
	require.Error(t, err)
}

func TestReason(t *testing.T) {
	t.Parallel()

	r := "Duplicate account"
	assert.Equal(t, "Duplicate account", Reason(&r))
	assert.Empty(t, Reason(nil))
}
