package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/avelarde/gymcore/internal/model"
)

// UserRepo provides persistence for user accounts.  Center-scoped roles are
// handled by MembershipRepo; this repository only knows about the global
// account row and its superadmin flag.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo returns a UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

const userCols = `id, email, password_hash, full_name, is_superadmin, created_at, updated_at`

func scanUser(row *sql.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.Superadmin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user and populates the generated ID and timestamps.
// Emails are stored lowercase; a duplicate email yields ErrConflict.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	const q = `INSERT INTO users (email, password_hash, full_name, is_superadmin) VALUES (?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q, u.Email, u.PasswordHash, u.FullName, u.Superadmin)
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
	u.ID = uint64(id)
	created, err := r.GetByID(ctx, u.ID)
	if err != nil {
		return err
	}
	*u = *created
	return nil
}

// GetByID returns a user by primary key or ErrUserNotFound.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, `SELECT `+userCols+` FROM users WHERE id = ?`, id))
}

// GetByEmail returns a user by email or ErrUserNotFound.  Lookup is
// case-insensitive because Create normalizes to lowercase.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.db.QueryRowContext(ctx, `SELECT `+userCols+` FROM users WHERE email = ?`, email))
}

// IsSuperadmin reports whether the user carries the global override flag.
// A missing user is simply not a superadmin.
func (r *UserRepo) IsSuperadmin(ctx context.Context, id uint64) (bool, error) {
	var flag bool
	err := r.db.QueryRowContext(ctx, `SELECT is_superadmin FROM users WHERE id = ?`, id).Scan(&flag)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return flag, nil
}

// isDuplicateKey detects MySQL error 1062 (duplicate entry for a unique key).
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
