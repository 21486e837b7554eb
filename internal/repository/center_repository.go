package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/avelarde/gymcore/internal/model"
)

// CenterRepo provides persistence for centers (tenants).  Service status
// changes go through UpdateServiceStatus so the reason and timestamp stay
// consistent with the flag.
type CenterRepo struct {
	db *sql.DB
}

// NewCenterRepo returns a CenterRepo bound to the given database.
func NewCenterRepo(db *sql.DB) *CenterRepo { return &CenterRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions that
// span several repositories.
func (r *CenterRepo) DB() *sql.DB { return r.db }

const centerCols = `id, name, slug, timezone, currency, service_status, suspension_reason, suspended_at, created_at, updated_at`

func scanCenterRow(scan func(dest ...any) error) (*model.Center, error) {
	var c model.Center
	var reason sql.NullString
	var suspendedAt sql.NullTime
	err := scan(&c.ID, &c.Name, &c.Slug, &c.Timezone, &c.Currency, &c.ServiceStatus,
		&reason, &suspendedAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCenterNotFound
		}
		return nil, err
	}
	if reason.Valid {
		c.SuspensionReason = &reason.String
	}
	if suspendedAt.Valid {
		t := suspendedAt.Time
		c.SuspendedAt = &t
	}
	return &c, nil
}

// Create inserts a new center.  A duplicate slug yields ErrConflict.
func (r *CenterRepo) Create(ctx context.Context, c *model.Center) error {
	const q = `INSERT INTO centers (name, slug, timezone, currency, service_status) VALUES (?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q, c.Name, c.Slug, c.Timezone, c.Currency, model.ServiceActive)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
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
	*c = *created
	return nil
}

// GetByID returns a center by primary key or ErrCenterNotFound.
func (r *CenterRepo) GetByID(ctx context.Context, id uint64) (*model.Center, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+centerCols+` FROM centers WHERE id = ?`, id)
	return scanCenterRow(row.Scan)
}

// SlugExists reports whether any center already uses the given slug.
func (r *CenterRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM centers WHERE slug = ?`, slug).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListForUser returns the centers the user belongs to together with the
// role held in each, newest membership first.
func (r *CenterRepo) ListForUser(ctx context.Context, userID uint64) ([]model.CenterWithRole, error) {
	const q = `SELECT c.id, c.name, c.slug, c.timezone, c.currency, c.service_status,
	                  c.suspension_reason, c.suspended_at, c.created_at, c.updated_at, m.role
	           FROM memberships m
	           JOIN centers c ON c.id = m.center_id
	           WHERE m.user_id = ?
	           ORDER BY m.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.CenterWithRole, 0)
	for rows.Next() {
		var cw model.CenterWithRole
		var reason sql.NullString
		var suspendedAt sql.NullTime
		if err := rows.Scan(&cw.ID, &cw.Name, &cw.Slug, &cw.Timezone, &cw.Currency, &cw.ServiceStatus,
			&reason, &suspendedAt, &cw.CreatedAt, &cw.UpdatedAt, &cw.Role); err != nil {
			return nil, err
		}
		if reason.Valid {
			cw.SuspensionReason = &reason.String
		}
		if suspendedAt.Valid {
			t := suspendedAt.Time
			cw.SuspendedAt = &t
		}
		out = append(out, cw)
	}
	return out, rows.Err()
}

// ListAll returns every center, newest first.  Used for the superadmin view.
func (r *CenterRepo) ListAll(ctx context.Context) ([]model.Center, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+centerCols+` FROM centers ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Center, 0)
	for rows.Next() {
		var c model.Center
		var reason sql.NullString
		var suspendedAt sql.NullTime
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Timezone, &c.Currency, &c.ServiceStatus,
			&reason, &suspendedAt, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		if reason.Valid {
			c.SuspensionReason = &reason.String
		}
		if suspendedAt.Valid {
			t := suspendedAt.Time
			c.SuspendedAt = &t
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Update modifies the mutable profile fields of a center and returns the
// fresh row.
func (r *CenterRepo) Update(ctx context.Context, id uint64, name, timezone, currency string) (*model.Center, error) {
	const q = `UPDATE centers SET name = ?, timezone = ?, currency = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, q, name, timezone, currency, id)
	if err != nil {
		return nil, err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}

// UpdateServiceStatus flips the suspension gate.  Suspending records the
// reason and timestamp; reactivating clears both.
func (r *CenterRepo) UpdateServiceStatus(ctx context.Context, id uint64, status model.ServiceStatus, reason *string) (*model.Center, error) {
	var suspendedAt *time.Time
	if status == model.ServiceSuspended {
		now := time.Now().UTC()
		suspendedAt = &now
	} else {
		reason = nil
	}
	const q = `UPDATE centers SET service_status = ?, suspension_reason = ?, suspended_at = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, q, status, reason, suspendedAt, id); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// LockTx takes a row lock on the center inside the given transaction.
// Space bookings serialize on this lock so two concurrent overlap checks
// for the same center cannot both miss each other's insert.
func (r *CenterRepo) LockTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	var got uint64
	err := tx.QueryRowContext(ctx, `SELECT id FROM centers WHERE id = ? FOR UPDATE`, id).Scan(&got)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrCenterNotFound
	}
	return err
}
