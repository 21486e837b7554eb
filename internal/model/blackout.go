package model

import "time"

// Blackout is an ad-hoc absolute interval [StartAt, EndAt) during which no
// booking may occur anywhere in the center: holidays, maintenance, manual
// class cancellations.  Intervals are half-open; a booking that starts
// exactly when a blackout ends does not conflict.  The overlap predicate
// runs in SQL (repository.BlackoutRepo.OverlapsTx) inside the booking
// transaction.
type Blackout struct {
	ID        uint64    `json:"id"`
	CenterID  uint64    `json:"center_id"`
	Name      string    `json:"name"`
	StartAt   time.Time `json:"start_at"`
	EndAt     time.Time `json:"end_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
