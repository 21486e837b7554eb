package model

import "time"

// ReservationStatus is the state of a reservation.  The only transition is
// CONFIRMED to CANCELED; CANCELED is terminal.
type ReservationStatus string

const (
	ReservationConfirmed ReservationStatus = "CONFIRMED"
	ReservationCanceled  ReservationStatus = "CANCELED"
)

// ParseReservationStatus validates a raw status string.
func ParseReservationStatus(raw string) (ReservationStatus, bool) {
	switch ReservationStatus(raw) {
	case ReservationConfirmed, ReservationCanceled:
		return ReservationStatus(raw), true
	}
	return "", false
}

// ReservationKind distinguishes class bookings (against a ClassSlot
// occurrence) from ad-hoc space bookings.
type ReservationKind string

const (
	KindClass ReservationKind = "CLASS"
	KindSpace ReservationKind = "SPACE"
)

// ParseReservationKind validates a raw kind string.
func ParseReservationKind(raw string) (ReservationKind, bool) {
	switch ReservationKind(raw) {
	case KindClass, KindSpace:
		return ReservationKind(raw), true
	}
	return "", false
}

// Reservation records a concrete booking for a user in a center.
//
// Fields:
//  ID         – primary key identifier.
//  CenterID   – owning center.
//  UserID     – the subject of the booking.
//  StaffID    – staff member who booked on the subject's behalf, if any.
//               This is the authorization anchor for staff-scoped edits.
//  Kind       – CLASS or SPACE.
//  Title      – human label for the booking.
//  SlotID     – class slot this booking counts against (class kind only).
//  SpaceID    – physical space identifier (space kind only).
//  StartAt    – absolute start instant, UTC.
//  EndAt      – absolute end instant, UTC, strictly after StartAt.
//  Status     – CONFIRMED or CANCELED.
//  PriceCents – price snapshot taken at booking time.
//  Currency   – currency snapshot, defaulted from the center.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Reservation struct {
	ID         uint64            `json:"id"`
	CenterID   uint64            `json:"center_id"`
	UserID     uint64            `json:"user_id"`
	StaffID    *uint64           `json:"staff_id,omitempty"`
	Kind       ReservationKind   `json:"kind"`
	Title      string            `json:"title"`
	SlotID     *uint64           `json:"slot_id,omitempty"`
	SpaceID    *string           `json:"space_id,omitempty"`
	StartAt    time.Time         `json:"start_at"`
	EndAt      time.Time         `json:"end_at"`
	Status     ReservationStatus `json:"status"`
	PriceCents uint32            `json:"price_cents"`
	Currency   string            `json:"currency"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}
