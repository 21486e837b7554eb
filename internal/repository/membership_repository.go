package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/avelarde/gymcore/internal/model"
)

// MembershipRepo provides persistence for center memberships, the rows the
// access layer reads to resolve a caller's role.
type MembershipRepo struct {
	db *sql.DB
}

// NewMembershipRepo returns a MembershipRepo bound to the given database.
func NewMembershipRepo(db *sql.DB) *MembershipRepo { return &MembershipRepo{db: db} }

const membershipCols = `id, center_id, user_id, role, status, created_at, updated_at`

func scanMembership(scan func(dest ...any) error) (*model.Membership, error) {
	var m model.Membership
	err := scan(&m.ID, &m.CenterID, &m.UserID, &m.Role, &m.Status, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMembershipNotFound
		}
		return nil, err
	}
	return &m, nil
}

// RoleOf returns the role the user holds in the center.  The boolean is
// false when no membership exists.
func (r *MembershipRepo) RoleOf(ctx context.Context, userID, centerID uint64) (model.Role, bool, error) {
	var role model.Role
	err := r.db.QueryRowContext(ctx,
		`SELECT role FROM memberships WHERE user_id = ? AND center_id = ?`,
		userID, centerID,
	).Scan(&role)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return role, true, nil
}

// Assign creates a membership.  The (center_id, user_id) pair is unique;
// assigning an existing member yields ErrConflict.
func (r *MembershipRepo) Assign(ctx context.Context, m *model.Membership) error {
	const q = `INSERT INTO memberships (center_id, user_id, role, status) VALUES (?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q, m.CenterID, m.UserID, m.Role, m.Status)
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
	m.ID = uint64(id)
	created, err := r.Get(ctx, m.CenterID, m.UserID)
	if err != nil {
		return err
	}
	*m = *created
	return nil
}

// Get returns the membership row for (centerID, userID).
func (r *MembershipRepo) Get(ctx context.Context, centerID, userID uint64) (*model.Membership, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+membershipCols+` FROM memberships WHERE center_id = ? AND user_id = ?`,
		centerID, userID)
	return scanMembership(row.Scan)
}

// ListByCenter returns all memberships of a center ordered by role then
// creation time, so owners and admins list first.
func (r *MembershipRepo) ListByCenter(ctx context.Context, centerID uint64) ([]model.Membership, error) {
	const q = `SELECT ` + membershipCols + ` FROM memberships
	           WHERE center_id = ?
	           ORDER BY FIELD(role, 'OWNER', 'ADMIN', 'STAFF', 'MEMBER'), created_at ASC`
	rows, err := r.db.QueryContext(ctx, q, centerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Membership, 0)
	for rows.Next() {
		m, err := scanMembership(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

// Update rewrites the role and lifecycle status of a membership.
func (r *MembershipRepo) Update(ctx context.Context, centerID, userID uint64, role model.Role, status model.MembershipStatus) (*model.Membership, error) {
	const q = `UPDATE memberships SET role = ?, status = ? WHERE center_id = ? AND user_id = ?`
	result, err := r.db.ExecContext(ctx, q, role, status, centerID, userID)
	if err != nil {
		return nil, err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		// Zero rows can mean a no-op update; distinguish via lookup.
		return r.Get(ctx, centerID, userID)
	}
	return r.Get(ctx, centerID, userID)
}

// Remove deletes a membership row.
func (r *MembershipRepo) Remove(ctx context.Context, centerID, userID uint64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM memberships WHERE center_id = ? AND user_id = ?`, centerID, userID)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrMembershipNotFound
	}
	return nil
}
