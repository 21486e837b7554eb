package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/avelarde/gymcore/internal/access"
	"github.com/avelarde/gymcore/internal/model"
	"github.com/avelarde/gymcore/internal/queue"
	"github.com/avelarde/gymcore/internal/repository"
	queue_publisher "github.com/avelarde/gymcore/internal/service"
)

// ReservationHandler is the booking engine.  Every mutation that could race
// with another booking runs inside one transaction: the contended row (the
// class slot, or the center row for space bookings) is locked first, then
// duplicate, overlap, blackout and capacity checks run against that lock, and
// the write commits or nothing does.
type ReservationHandler struct {
	Access       *access.Service
	Centers      *repository.CenterRepo
	Slots        *repository.ScheduleRepo
	Blackouts    *repository.BlackoutRepo
	Reservations *repository.ReservationRepo
}

// NewReservationHandler constructs a ReservationHandler.
func NewReservationHandler(acc *access.Service, centers *repository.CenterRepo, slots *repository.ScheduleRepo, blackouts *repository.BlackoutRepo, reservations *repository.ReservationRepo) *ReservationHandler {
	if acc == nil || centers == nil || slots == nil || blackouts == nil || reservations == nil {
		panic("nil dependency passed to NewReservationHandler")
	}
	return &ReservationHandler{
		Access:       acc,
		Centers:      centers,
		Slots:        slots,
		Blackouts:    blackouts,
		Reservations: reservations,
	}
}

// List handles GET /v1/centers/:id/reservations with an optional user_id
// filter.  Visibility is role scoped: members see only their own rows,
// staff see their own plus the ones they booked for others, owners and
// admins see everything.
func (h *ReservationHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	centerID, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	subject, err := queryUint(c, "user_id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	ctx := c.Request().Context()
	role, err := h.Access.RequireMember(ctx, userID, centerID, false)
	if err != nil {
		return authzError(c, err)
	}

	var rows []model.Reservation
	switch role {
	case model.RoleMember:
		if subject != nil && *subject != userID {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "members may only list their own reservations"})
		}
		rows, err = h.Reservations.ListForMember(ctx, centerID, userID)
	case model.RoleStaff:
		rows, err = h.Reservations.ListForStaff(ctx, centerID, userID, subject)
	default:
		rows, err = h.Reservations.ListByCenter(ctx, centerID, subject)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": rows})
}

type reservationBody struct {
	UserID     uint64  `json:"user_id"`
	Kind       string  `json:"kind"`
	Title      string  `json:"title"`
	SlotID     *uint64 `json:"slot_id"`
	SpaceID    *string `json:"space_id"`
	StartAt    string  `json:"start_at"`
	EndAt      string  `json:"end_at"`
	PriceCents uint32  `json:"price_cents"`
	Currency   string  `json:"currency"`
}

// Create handles POST /v1/centers/:id/reservations.
func (h *ReservationHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	centerID, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var body reservationBody
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	ctx := c.Request().Context()
	role, err := h.Access.RequireMember(ctx, userID, centerID, false)
	if err != nil {
		return authzError(c, err)
	}

	subjectID := userID
	if body.UserID != 0 {
		subjectID = body.UserID
	}
	if role == model.RoleMember && subjectID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "members may only book for themselves"})
	}

	kind, ok := model.ParseReservationKind(body.Kind)
	if !ok {
		return badRequest(c, "invalid kind, expected CLASS or SPACE")
	}
	if body.Title == "" {
		return badRequest(c, "title is required")
	}
	start, err := parseInstant(body.StartAt)
	if err != nil {
		return badRequest(c, "invalid start_at, expected RFC3339")
	}
	end, err := parseInstant(body.EndAt)
	if err != nil {
		return badRequest(c, "invalid end_at, expected RFC3339")
	}
	if !end.After(start) {
		return badRequest(c, "end_at must be after start_at")
	}
	if kind == model.KindClass && body.SlotID == nil {
		return badRequest(c, "slot_id is required for class reservations")
	}
	if kind == model.KindSpace && (body.SpaceID == nil || *body.SpaceID == "") {
		return badRequest(c, "space_id is required for space reservations")
	}

	center, err := h.Access.RequireCenterExists(ctx, centerID)
	if err != nil {
		return authzError(c, err)
	}
	currency := body.Currency
	if currency == "" {
		currency = center.Currency
	}

	res := &model.Reservation{
		CenterID:   centerID,
		UserID:     subjectID,
		Kind:       kind,
		Title:      body.Title,
		StartAt:    start,
		EndAt:      end,
		Status:     model.ReservationConfirmed,
		PriceCents: body.PriceCents,
		Currency:   currency,
	}
	if subjectID != userID {
		staffID := userID
		res.StaffID = &staffID
	}

	tx, err := h.Reservations.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var capacity int
	switch kind {
	case model.KindClass:
		// Lock the slot row before counting so two concurrent bookings of
		// the last seat serialize here.
		slot, err := h.Slots.GetForUpdateTx(ctx, tx, *body.SlotID)
		if err != nil {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "slot not found"})
		}
		if slot.CenterID != centerID || !slot.IsActive {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "slot not found"})
		}
		res.SlotID = &slot.ID
		res.SpaceID = slot.SpaceID
		capacity = slot.Capacity
	case model.KindSpace:
		// Space bookings have no slot row to contend on, so the center row
		// is the serialization point.
		if err := h.Centers.LockTx(ctx, tx, centerID); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		res.SpaceID = body.SpaceID
	}

	if code, msg, err := h.checkConflictsTx(ctx, tx, res, capacity, 0); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	} else if msg != "" {
		return c.JSON(code, echo.Map{"error": msg})
	}

	if err := h.Reservations.CreateTx(ctx, tx, res); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create reservation"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	committed = true

	go h.publishConfirmed(res, center.Name)

	return c.JSON(http.StatusCreated, echo.Map{"reservation": res})
}

// checkConflictsTx runs the booking invariants inside the caller's
// transaction, in a fixed order: duplicate, space overlap, blackout,
// capacity.  It returns a non-empty message with its status code when a
// check rejects the booking.
func (h *ReservationHandler) checkConflictsTx(ctx context.Context, tx *sql.Tx, res *model.Reservation, capacity int, excludeID uint64) (int, string, error) {
	dup, err := h.Reservations.DuplicateExistsTx(ctx, tx, res.CenterID, res.UserID, res.SlotID, res.StartAt, res.EndAt, excludeID)
	if err != nil {
		return 0, "", err
	}
	if dup {
		return http.StatusBadRequest, "duplicate reservation", nil
	}
	if res.Kind == model.KindSpace && res.SpaceID != nil {
		taken, err := h.Reservations.SpaceOverlapExistsTx(ctx, tx, res.CenterID, *res.SpaceID, res.StartAt, res.EndAt, excludeID)
		if err != nil {
			return 0, "", err
		}
		if taken {
			return http.StatusBadRequest, "space unavailable for this time", nil
		}
	}
	blocked, err := h.Blackouts.OverlapsTx(ctx, tx, res.CenterID, res.StartAt, res.EndAt)
	if err != nil {
		return 0, "", err
	}
	if blocked {
		return http.StatusBadRequest, "time blocked", nil
	}
	if res.Kind == model.KindClass && res.SlotID != nil {
		n, err := h.Reservations.CountSlotConfirmedTx(ctx, tx, *res.SlotID, res.StartAt, res.EndAt, excludeID)
		if err != nil {
			return 0, "", err
		}
		if n >= capacity {
			return http.StatusBadRequest, "class full", nil
		}
	}
	return 0, "", nil
}

// canEdit reports whether the caller may touch the given reservation.
// Members edit only their own rows; staff additionally edit rows they
// booked for someone else; owners and admins edit anything in the center.
func canEdit(role model.Role, userID uint64, res *model.Reservation) bool {
	switch role {
	case model.RoleMember:
		return res.UserID == userID
	case model.RoleStaff:
		if res.UserID == userID {
			return true
		}
		return res.StaffID != nil && *res.StaffID == userID
	}
	return true
}

// Update handles PUT /v1/centers/:id/reservations/:reservationId.  When the
// interval moves while the booking stays CONFIRMED, every conflict check
// reruns inside a transaction with the row's own id excluded.
func (h *ReservationHandler) Update(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	centerID, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	reservationID, err := pathID(c, "reservationId")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var body struct {
		Title   *string `json:"title"`
		StartAt *string `json:"start_at"`
		EndAt   *string `json:"end_at"`
		Status  *string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	ctx := c.Request().Context()
	role, err := h.Access.RequireMember(ctx, userID, centerID, false)
	if err != nil {
		return authzError(c, err)
	}
	res, err := h.Reservations.GetByID(ctx, reservationID)
	if err != nil {
		return notFoundError(c, err)
	}
	if res.CenterID != centerID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
	}
	if !canEdit(role, userID, res) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not allowed to modify this reservation"})
	}
	if res.Status == model.ReservationCanceled {
		return badRequest(c, "reservation is canceled")
	}

	timesChanged := false
	if body.Title != nil {
		res.Title = *body.Title
	}
	if body.StartAt != nil {
		t, err := parseInstant(*body.StartAt)
		if err != nil {
			return badRequest(c, "invalid start_at, expected RFC3339")
		}
		if !t.Equal(res.StartAt) {
			res.StartAt = t
			timesChanged = true
		}
	}
	if body.EndAt != nil {
		t, err := parseInstant(*body.EndAt)
		if err != nil {
			return badRequest(c, "invalid end_at, expected RFC3339")
		}
		if !t.Equal(res.EndAt) {
			res.EndAt = t
			timesChanged = true
		}
	}
	if !res.EndAt.After(res.StartAt) {
		return badRequest(c, "end_at must be after start_at")
	}
	if body.Status != nil {
		status, ok := model.ParseReservationStatus(*body.Status)
		if !ok {
			return badRequest(c, "invalid status")
		}
		res.Status = status
	}

	tx, err := h.Reservations.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if timesChanged && res.Status == model.ReservationConfirmed {
		capacity := 0
		if res.Kind == model.KindClass && res.SlotID != nil {
			slot, err := h.Slots.GetForUpdateTx(ctx, tx, *res.SlotID)
			if err != nil {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "slot not found"})
			}
			capacity = slot.Capacity
		} else if res.Kind == model.KindSpace {
			if err := h.Centers.LockTx(ctx, tx, centerID); err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
			}
		}
		if code, msg, err := h.checkConflictsTx(ctx, tx, res, capacity, res.ID); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		} else if msg != "" {
			return c.JSON(code, echo.Map{"error": msg})
		}
	}

	if err := h.Reservations.UpdateTx(ctx, tx, res); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update reservation"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	committed = true
	return c.JSON(http.StatusOK, echo.Map{"reservation": res})
}

// Delete handles DELETE /v1/centers/:id/reservations/:reservationId.
func (h *ReservationHandler) Delete(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	centerID, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	reservationID, err := pathID(c, "reservationId")
	if err != nil {
		return badRequest(c, err.Error())
	}
	ctx := c.Request().Context()
	role, err := h.Access.RequireMember(ctx, userID, centerID, false)
	if err != nil {
		return authzError(c, err)
	}
	res, err := h.Reservations.GetByID(ctx, reservationID)
	if err != nil {
		return notFoundError(c, err)
	}
	if res.CenterID != centerID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
	}
	if !canEdit(role, userID, res) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not allowed to modify this reservation"})
	}
	if err := h.Reservations.Delete(ctx, reservationID); err != nil {
		return notFoundError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// publishConfirmed emits the confirmation event after a successful commit.
// Failures are logged, never surfaced: the booking already exists.
func (h *ReservationHandler) publishConfirmed(res *model.Reservation, centerName string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	evt := queue.ReservationConfirmedEvent{
		EventID:       uuid.NewString(),
		CenterID:      res.CenterID,
		CenterName:    centerName,
		UserID:        res.UserID,
		StaffID:       res.StaffID,
		Kind:          string(res.Kind),
		Title:         res.Title,
		SlotID:        res.SlotID,
		SpaceID:       res.SpaceID,
		StartAt:       res.StartAt.Format(time.RFC3339),
		EndAt:         res.EndAt.Format(time.RFC3339),
		PriceCents:    res.PriceCents,
		Currency:      res.Currency,
		ReservationID: res.ID,
		ConfirmedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	if err := queue_publisher.PublishReservationConfirmed(ctx, evt); err != nil {
		log.Warn().Err(err).Uint64("reservation_id", res.ID).Msg("failed to publish reservation.confirmed")
	}
}
