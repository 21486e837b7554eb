package model

import "time"

// ServiceStatus gates every operation against a center.  A SUSPENDED center
// rejects all requests except from superadmins and fleet-manager members.
type ServiceStatus string

const (
	ServiceActive    ServiceStatus = "ACTIVE"
	ServiceSuspended ServiceStatus = "SUSPENDED"
)

// Center represents a tenant (a gym or fitness center) as stored in the
// `centers` table.
//
// Fields:
//  ID               – primary key identifier.
//  Name             – display name.
//  Slug             – unique URL-friendly identifier.
//  Timezone         – IANA timezone used to interpret wall-clock slot times.
//  Currency         – default currency for price snapshots (e.g. "usd").
//  ServiceStatus    – ACTIVE or SUSPENDED.
//  SuspensionReason – free-text reason, set only while suspended.
//  SuspendedAt      – when the suspension took effect (null when active).
//  CreatedAt        – timestamp of creation.
//  UpdatedAt        – timestamp of last update.
type Center struct {
	ID               uint64        `json:"id"`
	Name             string        `json:"name"`
	Slug             string        `json:"slug"`
	Timezone         string        `json:"timezone"`
	Currency         string        `json:"currency"`
	ServiceStatus    ServiceStatus `json:"service_status"`
	SuspensionReason *string       `json:"suspension_reason,omitempty"`
	SuspendedAt      *time.Time    `json:"suspended_at,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// CenterWithRole pairs a center with the caller's role in it.  It is the
// shape returned when listing centers for a user.
type CenterWithRole struct {
	Center
	Role Role `json:"role"`
}
