package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/teamskills/skills-matrix-api/internal/api/middleware"
	"github.com/teamskills/skills-matrix-api/internal/core/ports"
)

// ctxActor extracts the acting principal from the session injected by
// the gate middleware. A missing session means the route was wired
// without the middleware; reject rather than act anonymously.
func ctxActor(c echo.Context) (ports.Actor, error) {
	s := middleware.SessionFrom(c)
	if s == nil {
		return ports.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return ports.Actor{ID: s.PrincipalID, Name: s.PrincipalName, Role: s.Role}, nil
}
