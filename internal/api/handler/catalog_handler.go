package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/teamskills/skills-matrix-api/internal/core/ports"
)

// CatalogHandler handles HTTP requests for levels and projects, the two
// small lookup catalogs employees reference.
type CatalogHandler struct {
	service ports.MatrixService
}

func NewCatalogHandler(service ports.MatrixService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// ListLevels handles GET /v1/levels, in progression order.
func (h *CatalogHandler) ListLevels(c echo.Context) error {
	levels, err := h.service.ListLevels(c.Request().Context())
	if err != nil {
		return err
	}

	resp := make([]levelResponse, 0, len(levels))
	for _, l := range levels {
		resp = append(resp, levelResponse{ID: l.ID, Name: l.Name, Order: l.Order})
	}
	return c.JSON(http.StatusOK, resp)
}

// CreateLevel handles POST /v1/levels.
func (h *CatalogHandler) CreateLevel(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req levelRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	level, err := h.service.CreateLevel(c.Request().Context(), actor, req.Name, req.Order)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, levelResponse{ID: level.ID, Name: level.Name, Order: level.Order})
}

// DeleteLevel handles DELETE /v1/levels/:id. Refused with 409 while
// employees are still assigned to it.
func (h *CatalogHandler) DeleteLevel(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteLevel(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListProjects handles GET /v1/projects.
func (h *CatalogHandler) ListProjects(c echo.Context) error {
	projects, err := h.service.ListProjects(c.Request().Context())
	if err != nil {
		return err
	}

	resp := make([]projectResponse, 0, len(projects))
	for _, p := range projects {
		resp = append(resp, projectResponse{ID: p.ID, Name: p.Name})
	}
	return c.JSON(http.StatusOK, resp)
}

// CreateProject handles POST /v1/projects.
func (h *CatalogHandler) CreateProject(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req projectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	project, err := h.service.CreateProject(c.Request().Context(), actor, req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, projectResponse{ID: project.ID, Name: project.Name})
}

// DeleteProject handles DELETE /v1/projects/:id. Refused with 409 while
// employees are still assigned to it.
func (h *CatalogHandler) DeleteProject(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteProject(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
