package handler

import (
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/avelarde/gymcore/internal/access"
	"github.com/avelarde/gymcore/internal/model"
	"github.com/avelarde/gymcore/internal/repository"
)

// CenterHandler manages tenants: creation, profile updates and the service
// suspension gate.
type CenterHandler struct {
	Access      *access.Service
	Users       *repository.UserRepo
	Centers     *repository.CenterRepo
	Memberships *repository.MembershipRepo
}

// NewCenterHandler constructs a CenterHandler.
func NewCenterHandler(acc *access.Service, users *repository.UserRepo, centers *repository.CenterRepo, memberships *repository.MembershipRepo) *CenterHandler {
	if acc == nil || users == nil || centers == nil || memberships == nil {
		panic("nil dependency passed to NewCenterHandler")
	}
	return &CenterHandler{Access: acc, Users: users, Centers: centers, Memberships: memberships}
}

var nonSlugRe = regexp.MustCompile(`[^a-z0-9]+`)

// slugify lowercases the input and collapses every non-alphanumeric run
// into a single dash.
func slugify(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	s = nonSlugRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// List handles GET /v1/centers.  Superadmins see every center with an
// implied OWNER role; everyone else sees the centers they belong to.
func (h *CenterHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()
	super, err := h.Users.IsSuperadmin(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if super {
		centers, err := h.Centers.ListAll(ctx)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		out := make([]model.CenterWithRole, 0, len(centers))
		for _, center := range centers {
			out = append(out, model.CenterWithRole{Center: center, Role: model.RoleOwner})
		}
		return c.JSON(http.StatusOK, echo.Map{"centers": out})
	}
	centers, err := h.Centers.ListForUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"centers": centers})
}

// Create handles POST /v1/centers.  Any authenticated user can open a
// center; the creator becomes its OWNER.  Slug collisions get a short
// suffix derived from the creator id.
func (h *CenterHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		Name     string `json:"name"`
		Slug     string `json:"slug"`
		Timezone string `json:"timezone"`
		Currency string `json:"currency"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return badRequest(c, "name is required")
	}
	slug := slugify(body.Slug)
	if slug == "" {
		slug = slugify(name)
	}
	if slug == "" {
		return badRequest(c, "invalid slug")
	}
	ctx := c.Request().Context()
	exists, err := h.Centers.SlugExists(ctx, slug)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if exists {
		slug = slug + "-" + strconv.FormatUint(userID, 10)
	}
	center := &model.Center{
		Name:     name,
		Slug:     slug,
		Timezone: defaultStr(body.Timezone, "UTC"),
		Currency: defaultStr(strings.ToLower(body.Currency), "usd"),
	}
	if err := h.Centers.Create(ctx, center); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "slug already taken"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create center"})
	}
	m := &model.Membership{CenterID: center.ID, UserID: userID, Role: model.RoleOwner, Status: model.MembershipActive}
	if err := h.Memberships.Assign(ctx, m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to assign owner"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"center": center})
}

// Get handles GET /v1/centers/:id.  Reads are allowed while suspended so
// owners can still see the suspension reason.
func (h *CenterHandler) Get(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	centerID, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	ctx := c.Request().Context()
	if _, err := h.Access.RequireMember(ctx, userID, centerID, true); err != nil {
		return authzError(c, err)
	}
	center, err := h.Access.RequireCenterExists(ctx, centerID)
	if err != nil {
		return authzError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"center": center})
}

// Update handles PUT /v1/centers/:id for the profile fields.
func (h *CenterHandler) Update(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	centerID, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var body struct {
		Name     *string `json:"name"`
		Timezone *string `json:"timezone"`
		Currency *string `json:"currency"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	ctx := c.Request().Context()
	if _, err := h.Access.RequireRole(ctx, userID, centerID, access.CanEditCenter); err != nil {
		return authzError(c, err)
	}
	existing, err := h.Centers.GetByID(ctx, centerID)
	if err != nil {
		return notFoundError(c, err)
	}
	name := existing.Name
	if body.Name != nil && strings.TrimSpace(*body.Name) != "" {
		name = strings.TrimSpace(*body.Name)
	}
	timezone := existing.Timezone
	if body.Timezone != nil && *body.Timezone != "" {
		timezone = *body.Timezone
	}
	currency := existing.Currency
	if body.Currency != nil && *body.Currency != "" {
		currency = strings.ToLower(*body.Currency)
	}
	center, err := h.Centers.Update(ctx, centerID, name, timezone, currency)
	if err != nil {
		return notFoundError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"center": center})
}

// UpdateServiceStatus handles PUT /v1/centers/:id/service-status.  Allowed
// for superadmins, the center's direct OWNER, and fleet-manager members;
// fleet managers cannot suspend the fleet center itself.
func (h *CenterHandler) UpdateServiceStatus(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	centerID, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var body struct {
		ServiceStatus    string  `json:"service_status"`
		SuspensionReason *string `json:"suspension_reason"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	status := model.ServiceStatus(body.ServiceStatus)
	if status != model.ServiceActive && status != model.ServiceSuspended {
		return badRequest(c, "service_status must be ACTIVE or SUSPENDED")
	}

	ctx := c.Request().Context()
	if _, err := h.Access.RequireCenterExists(ctx, centerID); err != nil {
		return authzError(c, err)
	}
	allowed := false
	if super, err := h.Users.IsSuperadmin(ctx, userID); err == nil && super {
		allowed = true
	}
	if !allowed {
		if role, ok, err := h.Memberships.RoleOf(ctx, userID, centerID); err == nil && ok && role == model.RoleOwner {
			allowed = true
		}
	}
	if !allowed {
		fleet, err := h.Access.IsFleetManager(ctx, userID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		if !fleet {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "insufficient permissions"})
		}
		if centerID == h.Access.FleetCenterID() {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "cannot suspend the fleet manager center"})
		}
	}

	reason := body.SuspensionReason
	if status == model.ServiceSuspended && (reason == nil || strings.TrimSpace(*reason) == "") {
		def := "membership fee pending"
		reason = &def
	}
	center, err := h.Centers.UpdateServiceStatus(ctx, centerID, status, reason)
	if err != nil {
		return notFoundError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"center": center})
}

func defaultStr(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
