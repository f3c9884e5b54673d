package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/teamskills/skills-matrix-api/internal/core/ports"
)

// EmployeeHandler handles HTTP requests for employees and the skills
// matrix view.
type EmployeeHandler struct {
	service ports.MatrixService
}

func NewEmployeeHandler(service ports.MatrixService) *EmployeeHandler {
	return &EmployeeHandler{service: service}
}

// Matrix handles GET /v1/matrix. Admins see every employee; everyone
// else sees their own row. The skill catalog rides along so clients can
// render the full grid.
func (h *EmployeeHandler) Matrix(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	view, err := h.service.Matrix(c.Request().Context(), actor, c.QueryParam("search"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toMatrixResponse(view, time.Now().UTC()))
}

// List handles GET /v1/employees.
func (h *EmployeeHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.service.ListEmployees(c.Request().Context(), c.QueryParam("search"), page, limit)
	if err != nil {
		return err
	}

	resp := listEmployeesResponse{
		Data:       make([]employeeResponse, 0, len(result.Items)),
		Pagination: toPaginationResponse(result.Total, result.Page, result.Limit, result.TotalPages),
	}
	for _, e := range result.Items {
		resp.Data = append(resp.Data, toEmployeeResponse(e))
	}
	return c.JSON(http.StatusOK, resp)
}

// Create handles POST /v1/employees. An employee with a clock ID also
// gets a login account keyed to it.
func (h *EmployeeHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	in, err := bindEmployeeInput(c)
	if err != nil {
		return err
	}

	employee, err := h.service.CreateEmployee(c.Request().Context(), actor, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toEmployeeResponse(employee))
}

// Update handles PUT /v1/employees/:id.
func (h *EmployeeHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	in, err := bindEmployeeInput(c)
	if err != nil {
		return err
	}

	employee, err := h.service.UpdateEmployee(c.Request().Context(), actor, c.Param("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEmployeeResponse(employee))
}

// Delete handles DELETE /v1/employees/:id.
func (h *EmployeeHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteEmployee(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// UpdateSkills handles PUT /v1/employees/:id/skills. The payload is the
// employee's complete skill set. Admins may edit anyone; an employee
// may edit only their own row.
func (h *EmployeeHandler) UpdateSkills(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateEmployeeSkillsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	assignments := make([]ports.SkillAssignment, 0, len(req.Skills))
	for _, s := range req.Skills {
		a := ports.SkillAssignment{
			SkillID:     s.SkillID,
			Proficiency: s.Proficiency,
		}
		if s.LastTrainingDate != "" {
			trained, err := time.Parse(dateLayout, s.LastTrainingDate)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "last_training_date must be YYYY-MM-DD")
			}
			a.LastTrainingDate = &trained
		}
		assignments = append(assignments, a)
	}

	if err := h.service.UpdateEmployeeSkills(c.Request().Context(), actor, c.Param("id"), assignments); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func bindEmployeeInput(c echo.Context) (ports.EmployeeInput, error) {
	var req employeeRequest
	if err := c.Bind(&req); err != nil {
		return ports.EmployeeInput{}, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return ports.EmployeeInput{}, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return ports.EmployeeInput{}, echo.NewHTTPError(http.StatusBadRequest, "start_date must be YYYY-MM-DD")
	}

	return ports.EmployeeInput{
		Name:      req.Name,
		Email:     req.Email,
		ClockID:   req.ClockID,
		JobTitle:  req.JobTitle,
		LevelID:   req.LevelID,
		ProjectID: req.ProjectID,
		StartDate: startDate,
	}, nil
}
