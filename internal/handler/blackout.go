package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/avelarde/gymcore/internal/access"
	"github.com/avelarde/gymcore/internal/model"
	"github.com/avelarde/gymcore/internal/repository"
)

// BlackoutHandler manages the ad-hoc blocked intervals of a center.
type BlackoutHandler struct {
	Access    *access.Service
	Blackouts *repository.BlackoutRepo
}

// NewBlackoutHandler constructs a BlackoutHandler.
func NewBlackoutHandler(acc *access.Service, blackouts *repository.BlackoutRepo) *BlackoutHandler {
	if acc == nil || blackouts == nil {
		panic("nil dependency passed to NewBlackoutHandler")
	}
	return &BlackoutHandler{Access: acc, Blackouts: blackouts}
}

// List handles GET /v1/centers/:id/blackouts with optional RFC3339 from/to
// query bounds.
func (h *BlackoutHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	centerID, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var from, to *time.Time
	if raw := c.QueryParam("from"); raw != "" {
		t, err := parseInstant(raw)
		if err != nil {
			return badRequest(c, "invalid from, expected RFC3339")
		}
		from = &t
	}
	if raw := c.QueryParam("to"); raw != "" {
		t, err := parseInstant(raw)
		if err != nil {
			return badRequest(c, "invalid to, expected RFC3339")
		}
		to = &t
	}
	ctx := c.Request().Context()
	if _, err := h.Access.RequireMember(ctx, userID, centerID, false); err != nil {
		return authzError(c, err)
	}
	blackouts, err := h.Blackouts.List(ctx, centerID, from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"blackouts": blackouts})
}

// Create handles POST /v1/centers/:id/blackouts.
func (h *BlackoutHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	centerID, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var body struct {
		Name    string `json:"name"`
		StartAt string `json:"start_at"`
		EndAt   string `json:"end_at"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	ctx := c.Request().Context()
	if _, err := h.Access.RequireRole(ctx, userID, centerID, access.CanManageBlackouts); err != nil {
		return authzError(c, err)
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
	if body.Name == "" {
		return badRequest(c, "name is required")
	}
	b := &model.Blackout{CenterID: centerID, Name: body.Name, StartAt: start, EndAt: end}
	if err := h.Blackouts.Create(ctx, b); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create blackout"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"blackout": b})
}

// Update handles PUT /v1/centers/:id/blackouts/:blackoutId.  Ordering is
// re-checked on the merged interval.
func (h *BlackoutHandler) Update(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	centerID, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	blackoutID, err := pathID(c, "blackoutId")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var body struct {
		Name    *string `json:"name"`
		StartAt *string `json:"start_at"`
		EndAt   *string `json:"end_at"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	ctx := c.Request().Context()
	if _, err := h.Access.RequireRole(ctx, userID, centerID, access.CanManageBlackouts); err != nil {
		return authzError(c, err)
	}
	b, err := h.Blackouts.GetByID(ctx, blackoutID)
	if err != nil {
		return notFoundError(c, err)
	}
	if b.CenterID != centerID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "blackout not found"})
	}
	if body.Name != nil {
		b.Name = *body.Name
	}
	if body.StartAt != nil {
		t, err := parseInstant(*body.StartAt)
		if err != nil {
			return badRequest(c, "invalid start_at, expected RFC3339")
		}
		b.StartAt = t
	}
	if body.EndAt != nil {
		t, err := parseInstant(*body.EndAt)
		if err != nil {
			return badRequest(c, "invalid end_at, expected RFC3339")
		}
		b.EndAt = t
	}
	if !b.EndAt.After(b.StartAt) {
		return badRequest(c, "end_at must be after start_at")
	}
	if err := h.Blackouts.Update(ctx, b); err != nil {
		return notFoundError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"blackout": b})
}

// Remove handles DELETE /v1/centers/:id/blackouts/:blackoutId.
func (h *BlackoutHandler) Remove(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	centerID, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	blackoutID, err := pathID(c, "blackoutId")
	if err != nil {
		return badRequest(c, err.Error())
	}
	ctx := c.Request().Context()
	if _, err := h.Access.RequireRole(ctx, userID, centerID, access.CanManageBlackouts); err != nil {
		return authzError(c, err)
	}
	b, err := h.Blackouts.GetByID(ctx, blackoutID)
	if err != nil {
		return notFoundError(c, err)
	}
	if b.CenterID != centerID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "blackout not found"})
	}
	if err := h.Blackouts.Delete(ctx, blackoutID); err != nil {
		return notFoundError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
