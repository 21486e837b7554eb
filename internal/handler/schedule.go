package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avelarde/gymcore/internal/access"
	"github.com/avelarde/gymcore/internal/config"
	"github.com/avelarde/gymcore/internal/model"
	"github.com/avelarde/gymcore/internal/repository"
)

// ScheduleHandler manages the weekly slot catalog of a center.
type ScheduleHandler struct {
	Access *access.Service
	Slots  *repository.ScheduleRepo
	Cfg    *config.Config
}

// NewScheduleHandler constructs a ScheduleHandler.
func NewScheduleHandler(acc *access.Service, slots *repository.ScheduleRepo, cfg *config.Config) *ScheduleHandler {
	if acc == nil || slots == nil || cfg == nil {
		panic("nil dependency passed to NewScheduleHandler")
	}
	return &ScheduleHandler{Access: acc, Slots: slots, Cfg: cfg}
}

// List handles GET /v1/centers/:id/slots.
func (h *ScheduleHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	centerID, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	ctx := c.Request().Context()
	if _, err := h.Access.RequireMember(ctx, userID, centerID, false); err != nil {
		return authzError(c, err)
	}
	slots, err := h.Slots.ListByCenter(ctx, centerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"slots": slots})
}

// Create handles POST /v1/centers/:id/slots.  The slot must satisfy the
// deployment's SlotRules; capacity defaults to 20 when omitted.
func (h *ScheduleHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	centerID, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var body struct {
		Name        string  `json:"name"`
		Description *string `json:"description"`
		DayOfWeek   *int    `json:"day_of_week"`
		StartTime   string  `json:"start_time"`
		EndTime     string  `json:"end_time"`
		Capacity    *int    `json:"capacity"`
		SpaceID     *string `json:"space_id"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	ctx := c.Request().Context()
	if _, err := h.Access.RequireRole(ctx, userID, centerID, h.Cfg.SlotCreatorRoles); err != nil {
		return authzError(c, err)
	}

	if body.Name == "" {
		return badRequest(c, "name is required")
	}
	if body.DayOfWeek == nil {
		return badRequest(c, "day_of_week is required")
	}
	if err := model.ValidateDayOfWeek(*body.DayOfWeek); err != nil {
		return badRequest(c, err.Error())
	}
	if err := h.Cfg.SlotRules.ValidateSlotTimes(body.StartTime, body.EndTime); err != nil {
		return badRequest(c, err.Error())
	}
	capacity := 20
	if body.Capacity != nil {
		capacity = *body.Capacity
	}
	if err := h.Cfg.SlotRules.ValidateSlotCapacity(capacity); err != nil {
		return badRequest(c, err.Error())
	}

	slot := &model.ClassSlot{
		CenterID:    centerID,
		Name:        body.Name,
		Description: body.Description,
		DayOfWeek:   *body.DayOfWeek,
		StartTime:   body.StartTime,
		EndTime:     body.EndTime,
		Capacity:    capacity,
		SpaceID:     body.SpaceID,
		IsActive:    true,
	}
	if err := h.Slots.Create(ctx, slot); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create slot"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"slot": slot})
}

// Update handles PUT /v1/centers/:id/slots/:slotId.  Rules are re-checked on
// the merged values so a partial patch cannot sidestep them.
func (h *ScheduleHandler) Update(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	centerID, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	slotID, err := pathID(c, "slotId")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var body struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		DayOfWeek   *int    `json:"day_of_week"`
		StartTime   *string `json:"start_time"`
		EndTime     *string `json:"end_time"`
		Capacity    *int    `json:"capacity"`
		SpaceID     *string `json:"space_id"`
		IsActive    *bool   `json:"is_active"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	ctx := c.Request().Context()
	if _, err := h.Access.RequireRole(ctx, userID, centerID, h.Cfg.SlotCreatorRoles); err != nil {
		return authzError(c, err)
	}
	slot, err := h.Slots.GetByID(ctx, slotID)
	if err != nil {
		return notFoundError(c, err)
	}
	if slot.CenterID != centerID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "slot not found"})
	}

	if body.Name != nil {
		slot.Name = *body.Name
	}
	if body.Description != nil {
		slot.Description = body.Description
	}
	if body.DayOfWeek != nil {
		if err := model.ValidateDayOfWeek(*body.DayOfWeek); err != nil {
			return badRequest(c, err.Error())
		}
		slot.DayOfWeek = *body.DayOfWeek
	}
	if body.StartTime != nil {
		slot.StartTime = *body.StartTime
	}
	if body.EndTime != nil {
		slot.EndTime = *body.EndTime
	}
	if body.Capacity != nil {
		slot.Capacity = *body.Capacity
	}
	if body.SpaceID != nil {
		slot.SpaceID = body.SpaceID
	}
	if body.IsActive != nil {
		slot.IsActive = *body.IsActive
	}
	if err := h.Cfg.SlotRules.ValidateSlotTimes(slot.StartTime, slot.EndTime); err != nil {
		return badRequest(c, err.Error())
	}
	if err := h.Cfg.SlotRules.ValidateSlotCapacity(slot.Capacity); err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.Slots.Update(ctx, slot); err != nil {
		return notFoundError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"slot": slot})
}

// Delete handles DELETE /v1/centers/:id/slots/:slotId.  Existing
// reservations keep their copied times; the foreign key nulls their slot
// reference.
func (h *ScheduleHandler) Delete(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	centerID, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	slotID, err := pathID(c, "slotId")
	if err != nil {
		return badRequest(c, err.Error())
	}
	ctx := c.Request().Context()
	if _, err := h.Access.RequireRole(ctx, userID, centerID, access.CanDeleteSlots); err != nil {
		return authzError(c, err)
	}
	slot, err := h.Slots.GetByID(ctx, slotID)
	if err != nil {
		return notFoundError(c, err)
	}
	if slot.CenterID != centerID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "slot not found"})
	}
	if err := h.Slots.Delete(ctx, slotID); err != nil {
		return notFoundError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
