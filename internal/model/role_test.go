package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"OWNER", "ADMIN", "STAFF", "MEMBER"} {
		role, ok := ParseRole(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, Role(raw), role)
	}

	for _, raw := range []string{"", "owner", "SUPERADMIN", "GUEST"} {
		_, ok := ParseRole(raw)
		assert.False(t, ok, raw)
	}
}

func TestRoleSetContains(t *testing.T) {
	t.Parallel()

	set := NewRoleSet(RoleOwner, RoleAdmin)
	assert.True(t, set.Contains(RoleOwner))
	assert.True(t, set.Contains(RoleAdmin))
	assert.False(t, set.Contains(RoleStaff))
	assert.False(t, set.Contains(RoleMember))
}

func TestParseMembershipStatus(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"ACTIVE", "FROZEN", "SUSPENDED", "TRIAL"} {
		status, ok := ParseMembershipStatus(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, MembershipStatus(raw), status)
	}

	_, ok := ParseMembershipStatus("EXPIRED")
	assert.False(t, ok)
}

func TestParseReservationEnums(t *testing.T) {
	t.Parallel()

	status, ok := ParseReservationStatus("CANCELED")
	assert.True(t, ok)
	assert.Equal(t, ReservationCanceled, status)
	_, ok = ParseReservationStatus("PENDING")
	assert.False(t, ok)

	kind, ok := ParseReservationKind("SPACE")
	assert.True(t, ok)
	assert.Equal(t, KindSpace, kind)
	_, ok = ParseReservationKind("COURT")
	assert.False(t, ok)
}
