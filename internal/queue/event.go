// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationConfirmedEvent is published after a reservation commits.  It is
// the boundary with the notification collaborator: downstream consumers can
// notify, log or feed analytics without querying the primary database.
type ReservationConfirmedEvent struct {
	EventID    string  `json:"event_id"`
	CenterID   uint64  `json:"center_id"`
	CenterName string  `json:"center_name"`
	UserID     uint64  `json:"user_id"`
	StaffID    *uint64 `json:"staff_id,omitempty"`
	Kind       string  `json:"kind"`
	Title      string  `json:"title"`
	SlotID     *uint64 `json:"slot_id,omitempty"`
	SpaceID    *string `json:"space_id,omitempty"`
	StartAt    string  `json:"start_at"`
	EndAt      string  `json:"end_at"`
	PriceCents uint32  `json:"price_cents"`
	Currency   string  `json:"currency"`

	ReservationID uint64 `json:"reservation_id"`
	ConfirmedAt   string `json:"confirmed_at"`
}
