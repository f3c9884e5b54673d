package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/teamskills/skills-matrix-api/internal/core/ports"
)

// SkillHandler handles HTTP requests for the skill catalog.
type SkillHandler struct {
	service ports.MatrixService
}

func NewSkillHandler(service ports.MatrixService) *SkillHandler {
	return &SkillHandler{service: service}
}

// List handles GET /v1/skills.
func (h *SkillHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.service.ListSkills(c.Request().Context(), c.QueryParam("search"), page, limit)
	if err != nil {
		return err
	}

	resp := listSkillsResponse{
		Data:       make([]skillResponse, 0, len(result.Items)),
		Pagination: toPaginationResponse(result.Total, result.Page, result.Limit, result.TotalPages),
	}
	for _, s := range result.Items {
		resp.Data = append(resp.Data, toSkillResponse(s))
	}
	return c.JSON(http.StatusOK, resp)
}

// Create handles POST /v1/skills.
func (h *SkillHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	in, err := bindSkillInput(c)
	if err != nil {
		return err
	}

	skill, err := h.service.CreateSkill(c.Request().Context(), actor, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toSkillResponse(skill))
}

// Update handles PUT /v1/skills/:id.
func (h *SkillHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	in, err := bindSkillInput(c)
	if err != nil {
		return err
	}

	skill, err := h.service.UpdateSkill(c.Request().Context(), actor, c.Param("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSkillResponse(skill))
}

// Delete handles DELETE /v1/skills/:id. Refused with 409 while any
// employee still holds the skill.
func (h *SkillHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteSkill(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func bindSkillInput(c echo.Context) (ports.SkillInput, error) {
	var req skillRequest
	if err := c.Bind(&req); err != nil {
		return ports.SkillInput{}, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return ports.SkillInput{}, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return ports.SkillInput{
		Name:                 req.Name,
		Description:          req.Description,
		RequiresTraining:     req.RequiresTraining,
		TrainingExpiryMonths: req.TrainingExpiryMonths,
		TrainingDetails:      req.TrainingDetails,
	}, nil
}
