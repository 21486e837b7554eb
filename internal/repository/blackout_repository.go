package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/avelarde/gymcore/internal/model"
)

// BlackoutRepo provides persistence for tenant-wide blackout intervals.
// All instants are UTC; interval comparisons are half-open.
type BlackoutRepo struct {
	db *sql.DB
}

// NewBlackoutRepo returns a BlackoutRepo bound to the given database.
func NewBlackoutRepo(db *sql.DB) *BlackoutRepo { return &BlackoutRepo{db: db} }

const blackoutCols = `id, center_id, name, start_at, end_at, created_at, updated_at`

func scanBlackout(scan func(dest ...any) error) (*model.Blackout, error) {
	var b model.Blackout
	err := scan(&b.ID, &b.CenterID, &b.Name, &b.StartAt, &b.EndAt, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBlackoutNotFound
		}
		return nil, err
	}
	return &b, nil
}

// Create inserts a blackout interval.
func (r *BlackoutRepo) Create(ctx context.Context, b *model.Blackout) error {
	const q = `INSERT INTO blackouts (center_id, name, start_at, end_at) VALUES (?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q, b.CenterID, b.Name, b.StartAt.UTC(), b.EndAt.UTC())
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	created, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*b = *created
	return nil
}

// GetByID returns a blackout by primary key or ErrBlackoutNotFound.
func (r *BlackoutRepo) GetByID(ctx context.Context, id uint64) (*model.Blackout, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+blackoutCols+` FROM blackouts WHERE id = ?`, id)
	return scanBlackout(row.Scan)
}

// List returns the center's blackouts ordered by start time.  The optional
// from/to bounds filter on start_at >= from and end_at <= to respectively.
func (r *BlackoutRepo) List(ctx context.Context, centerID uint64, from, to *time.Time) ([]model.Blackout, error) {
	q := `SELECT ` + blackoutCols + ` FROM blackouts WHERE center_id = ?`
	args := []any{centerID}
	if from != nil {
		q += ` AND start_at >= ?`
		args = append(args, from.UTC())
	}
	if to != nil {
		q += ` AND end_at <= ?`
		args = append(args, to.UTC())
	}
	q += ` ORDER BY start_at ASC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Blackout, 0)
	for rows.Next() {
		b, err := scanBlackout(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

// Update rewrites the blackout row after the handler has merged and
// re-validated the patch.
func (r *BlackoutRepo) Update(ctx context.Context, b *model.Blackout) error {
	const q = `UPDATE blackouts SET name = ?, start_at = ?, end_at = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, q, b.Name, b.StartAt.UTC(), b.EndAt.UTC(), b.ID); err != nil {
		return err
	}
	updated, err := r.GetByID(ctx, b.ID)
	if err != nil {
		return err
	}
	*b = *updated
	return nil
}

// Delete removes a blackout interval.
func (r *BlackoutRepo) Delete(ctx context.Context, id uint64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM blackouts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrBlackoutNotFound
	}
	return nil
}

// OverlapsTx reports whether any blackout of the center intersects
// [start, end).  Runs inside the booking transaction so the decision and
// the insert see the same snapshot.
func (r *BlackoutRepo) OverlapsTx(ctx context.Context, tx *sql.Tx, centerID uint64, start, end time.Time) (bool, error) {
	const q = `SELECT 1 FROM blackouts
	           WHERE center_id = ? AND start_at < ? AND end_at > ?
	           LIMIT 1`
	var one int
	err := tx.QueryRowContext(ctx, q, centerID, end.UTC(), start.UTC()).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
