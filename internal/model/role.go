package model

// Role enumerates the roles a user can hold inside a center.  Authorization
// decisions compare against named RoleSet values declared in the access
// package instead of ad-hoc string comparisons, so adding a role forces a
// review of every operation's allowed set.
type Role string

const (
	RoleOwner  Role = "OWNER"
	RoleAdmin  Role = "ADMIN"
	RoleStaff  Role = "STAFF"
	RoleMember Role = "MEMBER"
)

// ParseRole validates a raw role string and returns the typed Role.  The
// second return value is false when the string is not a known role.
func ParseRole(raw string) (Role, bool) {
	switch Role(raw) {
	case RoleOwner, RoleAdmin, RoleStaff, RoleMember:
		return Role(raw), true
	}
	return "", false
}

// RoleSet is a closed set of roles allowed to perform one operation.
type RoleSet map[Role]struct{}

// NewRoleSet builds a RoleSet from the given roles.
func NewRoleSet(roles ...Role) RoleSet {
	s := make(RoleSet, len(roles))
	for _, r := range roles {
		s[r] = struct{}{}
	}
	return s
}

// Contains reports whether r is in the set.
func (s RoleSet) Contains(r Role) bool {
	_, ok := s[r]
	return ok
}

// MembershipStatus is the lifecycle state of a membership row.
type MembershipStatus string

const (
	MembershipActive    MembershipStatus = "ACTIVE"
	MembershipFrozen    MembershipStatus = "FROZEN"
	MembershipSuspended MembershipStatus = "SUSPENDED"
	MembershipTrial     MembershipStatus = "TRIAL"
)

// ParseMembershipStatus validates a raw membership status string.
func ParseMembershipStatus(raw string) (MembershipStatus, bool) {
	switch MembershipStatus(raw) {
	case MembershipActive, MembershipFrozen, MembershipSuspended, MembershipTrial:
		return MembershipStatus(raw), true
	}
	return "", false
}
