package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/teamskills/skills-matrix-api/internal/core/ports"
)

// AuditHandler handles HTTP requests for the audit trail.
type AuditHandler struct {
	audit ports.AuditRecorder
}

func NewAuditHandler(audit ports.AuditRecorder) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// List handles GET /v1/audit. Entries come back newest first; optional
// filters narrow by actor and timestamp range.
func (h *AuditHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	filter := ports.AuditFilter{
		ActorID: c.QueryParam("actor_id"),
		Page:    page,
		Limit:   limit,
	}
	if raw := c.QueryParam("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "from must be RFC 3339")
		}
		filter.From = from
	}
	if raw := c.QueryParam("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "to must be RFC 3339")
		}
		filter.To = to
	}

	result, err := h.audit.Query(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	resp := listAuditResponse{
		Data:       make([]auditEntryResponse, 0, len(result.Items)),
		Pagination: toPaginationResponse(result.Total, result.Page, result.Limit, result.TotalPages),
	}
	for _, e := range result.Items {
		resp.Data = append(resp.Data, toAuditEntryResponse(e))
	}
	return c.JSON(http.StatusOK, resp)
}
