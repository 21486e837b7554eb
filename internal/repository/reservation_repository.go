package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/avelarde/gymcore/internal/model"
)

// ReservationRepo provides persistence for concrete bookings.  Conflict
// queries (duplicate, space overlap, capacity count) only exist as Tx
// variants: they are meaningless outside the booking transaction because a
// decision made on a stale snapshot can admit one reservation too many.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle for transaction control.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

const reservationCols = `id, center_id, user_id, staff_id, kind, title, slot_id, space_id,
	start_at, end_at, status, price_cents, currency, created_at, updated_at`

func scanReservation(scan func(dest ...any) error) (*model.Reservation, error) {
	var res model.Reservation
	var staffID, slotID sql.NullInt64
	var spaceID sql.NullString
	err := scan(&res.ID, &res.CenterID, &res.UserID, &staffID, &res.Kind, &res.Title,
		&slotID, &spaceID, &res.StartAt, &res.EndAt, &res.Status,
		&res.PriceCents, &res.Currency, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	if staffID.Valid {
		v := uint64(staffID.Int64)
		res.StaffID = &v
	}
	if slotID.Valid {
		v := uint64(slotID.Int64)
		res.SlotID = &v
	}
	if spaceID.Valid {
		res.SpaceID = &spaceID.String
	}
	return &res, nil
}

func (r *ReservationRepo) queryList(ctx context.Context, q string, args ...any) ([]model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	return out, rows.Err()
}

// ListByCenter returns the center's reservations newest start first, for
// OWNER and ADMIN callers.  A non-nil subject narrows to one user.
func (r *ReservationRepo) ListByCenter(ctx context.Context, centerID uint64, subject *uint64) ([]model.Reservation, error) {
	q := `SELECT ` + reservationCols + ` FROM reservations WHERE center_id = ?`
	args := []any{centerID}
	if subject != nil {
		q += ` AND user_id = ?`
		args = append(args, *subject)
	}
	q += ` ORDER BY start_at DESC`
	return r.queryList(ctx, q, args...)
}

// ListForMember returns only the caller's own reservations.
func (r *ReservationRepo) ListForMember(ctx context.Context, centerID, userID uint64) ([]model.Reservation, error) {
	const q = `SELECT ` + reservationCols + ` FROM reservations
	           WHERE center_id = ? AND user_id = ?
	           ORDER BY start_at DESC`
	return r.queryList(ctx, q, centerID, userID)
}

// ListForStaff scopes the list for STAFF callers.  With an explicit subject
// other than themself they see only reservations they assigned for that
// subject; otherwise the union of reservations where they are the subject
// or the assigning staff.
func (r *ReservationRepo) ListForStaff(ctx context.Context, centerID, staffID uint64, subject *uint64) ([]model.Reservation, error) {
	if subject != nil && *subject != staffID {
		const q = `SELECT ` + reservationCols + ` FROM reservations
		           WHERE center_id = ? AND user_id = ? AND staff_id = ?
		           ORDER BY start_at DESC`
		return r.queryList(ctx, q, centerID, *subject, staffID)
	}
	const q = `SELECT ` + reservationCols + ` FROM reservations
	           WHERE center_id = ? AND (user_id = ? OR staff_id = ?)
	           ORDER BY start_at DESC`
	return r.queryList(ctx, q, centerID, staffID, staffID)
}

// GetByID returns a reservation by primary key or ErrReservationNotFound.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+reservationCols+` FROM reservations WHERE id = ?`, id)
	return scanReservation(row.Scan)
}

// DuplicateExistsTx reports whether the subject already holds a CONFIRMED
// reservation for the same slot (NULL-safe match) and the identical
// interval.  excludeID skips one row so the update path can re-check
// without tripping over itself.
func (r *ReservationRepo) DuplicateExistsTx(ctx context.Context, tx *sql.Tx, centerID, userID uint64, slotID *uint64, start, end time.Time, excludeID uint64) (bool, error) {
	const q = `SELECT 1 FROM reservations
	           WHERE center_id = ? AND user_id = ? AND slot_id <=> ?
	             AND start_at = ? AND end_at = ?
	             AND status = 'CONFIRMED' AND id <> ?
	           LIMIT 1`
	var one int
	err := tx.QueryRowContext(ctx, q, centerID, userID, slotID, start.UTC(), end.UTC(), excludeID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// SpaceOverlapExistsTx reports whether any CONFIRMED reservation for the
// same physical space intersects [start, end), half-open.  Callers must
// hold the center row lock (CenterRepo.LockTx) before relying on the
// answer.
func (r *ReservationRepo) SpaceOverlapExistsTx(ctx context.Context, tx *sql.Tx, centerID uint64, spaceID string, start, end time.Time, excludeID uint64) (bool, error) {
	const q = `SELECT 1 FROM reservations
	           WHERE center_id = ? AND space_id = ? AND status = 'CONFIRMED'
	             AND start_at < ? AND end_at > ?
	             AND id <> ?
	           LIMIT 1`
	var one int
	err := tx.QueryRowContext(ctx, q, centerID, spaceID, end.UTC(), start.UTC(), excludeID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CountSlotConfirmedTx counts CONFIRMED reservations against the slot whose
// intervals intersect [start, end).  Callers must hold the slot row lock
// (ScheduleRepo.GetForUpdateTx) so concurrent counts serialize.
func (r *ReservationRepo) CountSlotConfirmedTx(ctx context.Context, tx *sql.Tx, slotID uint64, start, end time.Time, excludeID uint64) (int, error) {
	const q = `SELECT COUNT(*) FROM reservations
	           WHERE slot_id = ? AND status = 'CONFIRMED'
	             AND start_at < ? AND end_at > ?
	             AND id <> ?`
	var n int
	if err := tx.QueryRowContext(ctx, q, slotID, end.UTC(), start.UTC(), excludeID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// CreateTx inserts the reservation within the booking transaction and
// populates the stored row back onto res.  The caller commits only after
// every check has passed.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	const q = `INSERT INTO reservations
	           (center_id, user_id, staff_id, kind, title, slot_id, space_id, start_at, end_at, status, price_cents, currency)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q, res.CenterID, res.UserID, res.StaffID, res.Kind, res.Title,
		res.SlotID, res.SpaceID, res.StartAt.UTC(), res.EndAt.UTC(), res.Status, res.PriceCents, res.Currency)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	row := tx.QueryRowContext(ctx, `SELECT `+reservationCols+` FROM reservations WHERE id = ?`, res.ID)
	created, err := scanReservation(row.Scan)
	if err != nil {
		return err
	}
	*res = *created
	return nil
}

// UpdateTx rewrites the mutable fields of a reservation inside the given
// transaction and returns the fresh row on res.
func (r *ReservationRepo) UpdateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	const q = `UPDATE reservations SET title = ?, start_at = ?, end_at = ?, status = ? WHERE id = ?`
	if _, err := tx.ExecContext(ctx, q, res.Title, res.StartAt.UTC(), res.EndAt.UTC(), res.Status, res.ID); err != nil {
		return err
	}
	row := tx.QueryRowContext(ctx, `SELECT `+reservationCols+` FROM reservations WHERE id = ?`, res.ID)
	updated, err := scanReservation(row.Scan)
	if err != nil {
		return err
	}
	*res = *updated
	return nil
}

// Delete hard-deletes a reservation row.
func (r *ReservationRepo) Delete(ctx context.Context, id uint64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrReservationNotFound
	}
	return nil
}
