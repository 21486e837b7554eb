package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avelarde/gymcore/internal/access"
	"github.com/avelarde/gymcore/internal/model"
	"github.com/avelarde/gymcore/internal/repository"
)

// MembershipHandler manages the membership rows the access layer reads.
type MembershipHandler struct {
	Access      *access.Service
	Users       *repository.UserRepo
	Memberships *repository.MembershipRepo
}

// NewMembershipHandler constructs a MembershipHandler.
func NewMembershipHandler(acc *access.Service, users *repository.UserRepo, memberships *repository.MembershipRepo) *MembershipHandler {
	if acc == nil || users == nil || memberships == nil {
		panic("nil dependency passed to NewMembershipHandler")
	}
	return &MembershipHandler{Access: acc, Users: users, Memberships: memberships}
}

// List handles GET /v1/centers/:id/members.  Any member may see the roster.
func (h *MembershipHandler) List(c echo.Context) error {
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
	members, err := h.Memberships.ListByCenter(ctx, centerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"members": members})
}

// Assign handles POST /v1/centers/:id/members.  The subject is named by
// user_id or by email; role defaults to MEMBER and status to ACTIVE.
func (h *MembershipHandler) Assign(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	centerID, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var body struct {
		UserID uint64 `json:"user_id"`
		Email  string `json:"email"`
		Role   string `json:"role"`
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	ctx := c.Request().Context()
	if _, err := h.Access.RequireRole(ctx, userID, centerID, access.CanManageMembers); err != nil {
		return authzError(c, err)
	}

	subjectID := body.UserID
	if subjectID == 0 {
		if body.Email == "" {
			return badRequest(c, "user_id or email is required")
		}
		u, err := h.Users.GetByEmail(ctx, body.Email)
		if err != nil {
			return notFoundError(c, err)
		}
		subjectID = u.ID
	} else if _, err := h.Users.GetByID(ctx, subjectID); err != nil {
		return notFoundError(c, err)
	}

	role := model.RoleMember
	if body.Role != "" {
		parsed, ok := model.ParseRole(body.Role)
		if !ok {
			return badRequest(c, "invalid role")
		}
		role = parsed
	}
	status := model.MembershipActive
	if body.Status != "" {
		parsed, ok := model.ParseMembershipStatus(body.Status)
		if !ok {
			return badRequest(c, "invalid status")
		}
		status = parsed
	}

	m := &model.Membership{CenterID: centerID, UserID: subjectID, Role: role, Status: status}
	if err := h.Memberships.Assign(ctx, m); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "user is already a member"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to assign membership"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"membership": m})
}

// Update handles PUT /v1/centers/:id/members/:userId.  The patch is merged
// over the existing row so role and status can change independently.
func (h *MembershipHandler) Update(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	centerID, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	subjectID, err := pathID(c, "userId")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var body struct {
		Role   string `json:"role"`
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	ctx := c.Request().Context()
	if _, err := h.Access.RequireRole(ctx, userID, centerID, access.CanManageMembers); err != nil {
		return authzError(c, err)
	}
	existing, err := h.Memberships.Get(ctx, centerID, subjectID)
	if err != nil {
		return notFoundError(c, err)
	}
	role := existing.Role
	if body.Role != "" {
		parsed, ok := model.ParseRole(body.Role)
		if !ok {
			return badRequest(c, "invalid role")
		}
		role = parsed
	}
	status := existing.Status
	if body.Status != "" {
		parsed, ok := model.ParseMembershipStatus(body.Status)
		if !ok {
			return badRequest(c, "invalid status")
		}
		status = parsed
	}
	m, err := h.Memberships.Update(ctx, centerID, subjectID, role, status)
	if err != nil {
		return notFoundError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"membership": m})
}

// Remove handles DELETE /v1/centers/:id/members/:userId.
func (h *MembershipHandler) Remove(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	centerID, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	subjectID, err := pathID(c, "userId")
	if err != nil {
		return badRequest(c, err.Error())
	}
	ctx := c.Request().Context()
	if _, err := h.Access.RequireRole(ctx, userID, centerID, access.CanManageMembers); err != nil {
		return authzError(c, err)
	}
	if err := h.Memberships.Remove(ctx, centerID, subjectID); err != nil {
		return notFoundError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
