// Package repository implements raw-SQL persistence for the booking core.
// This file defines sentinel errors reused across repositories so that
// handlers can map failure scenarios to HTTP statuses with errors.Is.
package repository

import "errors"

// ErrConflict is returned when an operation cannot proceed because of
// conflicting state, such as registering an email that already exists.
// Handlers translate this into a 409 response.
var ErrConflict = errors.New("conflict")

// Not-found sentinels, one per aggregate, translated into 404 responses.
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrCenterNotFound      = errors.New("center not found")
	ErrMembershipNotFound  = errors.New("membership not found")
	ErrSlotNotFound        = errors.New("class slot not found")
	ErrBlackoutNotFound    = errors.New("blackout not found")
	ErrReservationNotFound = errors.New("reservation not found")
)
