package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/avelarde/gymcore/internal/model"
)

// ScheduleRepo provides persistence for recurring class slot templates.
type ScheduleRepo struct {
	db *sql.DB
}

// NewScheduleRepo returns a ScheduleRepo bound to the given database.
func NewScheduleRepo(db *sql.DB) *ScheduleRepo { return &ScheduleRepo{db: db} }

const slotCols = `id, center_id, name, description, day_of_week, start_time, end_time, capacity, space_id, is_active, created_at, updated_at`

func scanSlot(scan func(dest ...any) error) (*model.ClassSlot, error) {
	var s model.ClassSlot
	var desc, space sql.NullString
	err := scan(&s.ID, &s.CenterID, &s.Name, &desc, &s.DayOfWeek, &s.StartTime, &s.EndTime,
		&s.Capacity, &space, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}
	if desc.Valid {
		s.Description = &desc.String
	}
	if space.Valid {
		s.SpaceID = &space.String
	}
	return &s, nil
}

// Create inserts a slot template and returns the stored row on the same
// pointer.
func (r *ScheduleRepo) Create(ctx context.Context, s *model.ClassSlot) error {
	const q = `INSERT INTO class_slots
	           (center_id, name, description, day_of_week, start_time, end_time, capacity, space_id, is_active)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q, s.CenterID, s.Name, s.Description, s.DayOfWeek,
		s.StartTime, s.EndTime, s.Capacity, s.SpaceID, s.IsActive)
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
	*s = *created
	return nil
}

// GetByID returns a slot by primary key or ErrSlotNotFound.
func (r *ScheduleRepo) GetByID(ctx context.Context, id uint64) (*model.ClassSlot, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+slotCols+` FROM class_slots WHERE id = ?`, id)
	return scanSlot(row.Scan)
}

// GetForUpdateTx loads a slot inside the transaction with a row lock.  The
// booking path takes this lock before counting confirmed reservations so
// two concurrent requests for the last seat serialize on the slot row.
func (r *ScheduleRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.ClassSlot, error) {
	row := tx.QueryRowContext(ctx, `SELECT `+slotCols+` FROM class_slots WHERE id = ? FOR UPDATE`, id)
	return scanSlot(row.Scan)
}

// ListByCenter returns the center's slot templates ordered by day of week
// then start time, the order the weekly timetable renders in.
func (r *ScheduleRepo) ListByCenter(ctx context.Context, centerID uint64) ([]model.ClassSlot, error) {
	const q = `SELECT ` + slotCols + ` FROM class_slots
	           WHERE center_id = ?
	           ORDER BY day_of_week ASC, start_time ASC`
	rows, err := r.db.QueryContext(ctx, q, centerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.ClassSlot, 0)
	for rows.Next() {
		s, err := scanSlot(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

// Update rewrites the full slot row.  Handlers merge the patch into the
// existing values and re-validate before calling this.
func (r *ScheduleRepo) Update(ctx context.Context, s *model.ClassSlot) error {
	const q = `UPDATE class_slots
	           SET name = ?, description = ?, day_of_week = ?, start_time = ?, end_time = ?,
	               capacity = ?, space_id = ?, is_active = ?
	           WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, s.Name, s.Description, s.DayOfWeek, s.StartTime, s.EndTime,
		s.Capacity, s.SpaceID, s.IsActive, s.ID)
	if err != nil {
		return err
	}
	updated, err := r.GetByID(ctx, s.ID)
	if err != nil {
		return err
	}
	*s = *updated
	return nil
}

// Delete removes a slot template.  Reservations that reference it keep
// their rows; the FK sets their slot_id to NULL.
func (r *ScheduleRepo) Delete(ctx context.Context, id uint64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM class_slots WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSlotNotFound
	}
	return nil
}
