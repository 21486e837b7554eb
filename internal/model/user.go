package model

import "time"

// User represents an application user record as stored in the `users` table.
// Center-scoped roles live in the memberships table; the Superadmin flag is a
// global override that the access layer resolves to OWNER everywhere.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  FullName     – display name.
//  Superadmin   – global override flag, true for platform operators only.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	Superadmin   bool      `json:"superadmin"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Membership associates a user with a center.  A user may hold memberships
// in several centers, each with its own role and lifecycle status.
type Membership struct {
	ID        uint64           `json:"id"`
	CenterID  uint64           `json:"center_id"`
	UserID    uint64           `json:"user_id"`
	Role      Role             `json:"role"`
	Status    MembershipStatus `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}
