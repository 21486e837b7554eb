package handler

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelarde/gymcore/internal/access"
	"github.com/avelarde/gymcore/internal/model"
	"github.com/avelarde/gymcore/internal/repository"
)

// memberDirectory is a canned access.Directory: user 10 is a MEMBER of the
// active center 1.  Booking conflicts, not authorization, are under test
// here, so the directory never fails.
type memberDirectory struct{}

func (memberDirectory) IsSuperadmin(context.Context, uint64) (bool, error) { return false, nil }

func (memberDirectory) CenterRole(_ context.Context, userID, centerID uint64) (model.Role, bool, error) {
	if userID == 10 && centerID == 1 {
		return model.RoleMember, true, nil
	}
	return "", false, nil
}

func (memberDirectory) CenterByID(_ context.Context, centerID uint64) (*model.Center, error) {
	if centerID != 1 {
		return nil, repository.ErrCenterNotFound
	}
	return &model.Center{ID: 1, Name: "Iron Temple", Currency: "usd", ServiceStatus: model.ServiceActive}, nil
}

func newBookingHandler(t *testing.T) (*ReservationHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	acc := access.New(memberDirectory{}, 0)
	h := NewReservationHandler(acc,
		repository.NewCenterRepo(db),
		repository.NewScheduleRepo(db),
		repository.NewBlackoutRepo(db),
		repository.NewReservationRepo(db))
	return h, mock
}

func postReservation(t *testing.T, h *ReservationHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/centers/1/reservations", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/centers/:id/reservations")
	c.SetParamNames("id")
	c.SetParamValues("1")
	c.Set("user_id", uint64(10))
	require.NoError(t, h.Create(c))
	return rec
}

func slotRows() *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"id", "center_id", "name", "description", "day_of_week", "start_time",
		"end_time", "capacity", "space_id", "is_active", "created_at", "updated_at",
	}).AddRow(5, 1, "Morning Yoga", nil, 1, "09:00", "10:00", 2, nil, true, now, now)
}

func oneRow() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"1"}).AddRow(1)
}

const classBody = `{"kind":"CLASS","title":"Morning Yoga","slot_id":5,
	"start_at":"2026-09-07T09:00:00Z","end_at":"2026-09-07T10:00:00Z"}`

const spaceBody = `{"kind":"SPACE","title":"Court hour","space_id":"court-1",
	"start_at":"2026-09-07T09:00:00Z","end_at":"2026-09-07T10:00:00Z"}`

func TestCreateRejectsDuplicate(t *testing.T) {
	h, mock := newBookingHandler(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM class_slots").WillReturnRows(slotRows())
	mock.ExpectQuery("slot_id <=>").WillReturnRows(oneRow())
	mock.ExpectRollback()

	rec := postReservation(t, h, classBody)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"duplicate reservation"}`, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRejectsBlackout(t *testing.T) {
	h, mock := newBookingHandler(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM class_slots").WillReturnRows(slotRows())
	mock.ExpectQuery("slot_id <=>").WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("FROM blackouts").WillReturnRows(oneRow())
	mock.ExpectRollback()

	rec := postReservation(t, h, classBody)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"time blocked"}`, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRejectsFullClass(t *testing.T) {
	h, mock := newBookingHandler(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM class_slots").WillReturnRows(slotRows())
	mock.ExpectQuery("slot_id <=>").WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("FROM blackouts").WillReturnError(sql.ErrNoRows)
	// Capacity is 2 and two CONFIRMED rows already overlap the occurrence.
	mock.ExpectQuery("COUNT").WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(2))
	mock.ExpectRollback()

	rec := postReservation(t, h, classBody)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"class full"}`, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRejectsOccupiedSpace(t *testing.T) {
	h, mock := newBookingHandler(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM centers").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery("slot_id <=>").WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("AND space_id").WillReturnRows(oneRow())
	mock.ExpectRollback()

	rec := postReservation(t, h, spaceBody)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"space unavailable for this time"}`, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCommitsWhenAllChecksPass(t *testing.T) {
	h, mock := newBookingHandler(t)

	start := time.Date(2026, time.September, 7, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM class_slots").WillReturnRows(slotRows())
	mock.ExpectQuery("slot_id <=>").WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("FROM blackouts").WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("COUNT").WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))
	mock.ExpectExec("INSERT INTO reservations").WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectQuery("FROM reservations WHERE id").WillReturnRows(sqlmock.NewRows([]string{
		"id", "center_id", "user_id", "staff_id", "kind", "title", "slot_id", "space_id",
		"start_at", "end_at", "status", "price_cents", "currency", "created_at", "updated_at",
	}).AddRow(42, 1, 10, nil, "CLASS", "Morning Yoga", 5, nil, start, end, "CONFIRMED", 0, "usd", now, now))
	mock.ExpectCommit()

	rec := postReservation(t, h, classBody)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"CONFIRMED"`)
	assert.Contains(t, rec.Body.String(), `"id":42`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateChecksRunInOrder(t *testing.T) {
	// With both a duplicate and a blackout present only the duplicate error
	// surfaces; the rejection order is fixed.
	h, mock := newBookingHandler(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM class_slots").WillReturnRows(slotRows())
	mock.ExpectQuery("slot_id <=>").WillReturnRows(oneRow())
	mock.ExpectRollback()

	rec := postReservation(t, h, classBody)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"duplicate reservation"}`, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}
