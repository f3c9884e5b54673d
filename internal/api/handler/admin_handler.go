package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/teamskills/skills-matrix-api/internal/core/domain"
	"github.com/teamskills/skills-matrix-api/internal/core/ports"
)

// AdminHandler handles HTTP requests for admin account management.
type AdminHandler struct {
	credentials ports.CredentialService
	audit       ports.AuditRecorder
}

func NewAdminHandler(credentials ports.CredentialService, audit ports.AuditRecorder) *AdminHandler {
	return &AdminHandler{credentials: credentials, audit: audit}
}

// List handles GET /v1/admins.
func (h *AdminHandler) List(c echo.Context) error {
	admins, err := h.credentials.ListAdmins(c.Request().Context())
	if err != nil {
		return err
	}

	resp := make([]adminResponse, 0, len(admins))
	for _, a := range admins {
		resp = append(resp, adminResponse{ID: a.ID, Name: a.Name, Email: a.Email})
	}
	return c.JSON(http.StatusOK, resp)
}

// Create handles POST /v1/admins. Provisions a fresh admin account;
// a duplicate email is refused with 409.
func (h *AdminHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createAdminRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	p, err := h.credentials.Provision(c.Request().Context(), ports.ProvisionInput{
		Name:     req.Name,
		Email:    req.Email,
		Role:     domain.RoleAdmin,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	h.audit.Record(actor, domain.ActionCreate, "admin:"+p.ID, "provisioned admin "+p.Email)

	return c.JSON(http.StatusCreated, adminResponse{ID: p.ID, Name: p.Name, Email: p.Email})
}

// ResetPassword handles PUT /v1/admins/:id/password. Rotates the stored
// hash; existing sessions stay alive, only future logins need the new
// password.
func (h *AdminHandler) ResetPassword(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	id := c.Param("id")
	if err := h.credentials.SetPassword(c.Request().Context(), id, req.Password); err != nil {
		return err
	}

	h.audit.Record(actor, domain.ActionUpdate, "admin:"+id, "password reset")

	return c.NoContent(http.StatusNoContent)
}

// Demote handles DELETE /v1/admins/:id. Strips admin rights (and the
// stored password hash) without deleting the account. Demoting the last
// admin is refused with 409 so the system cannot lock itself out.
func (h *AdminHandler) Demote(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	id := c.Param("id")
	if err := h.credentials.Demote(c.Request().Context(), id); err != nil {
		return err
	}

	h.audit.Record(actor, domain.ActionUpdate, "admin:"+id, "revoked admin rights")

	return c.NoContent(http.StatusNoContent)
}
