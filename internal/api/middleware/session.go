package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/teamskills/skills-matrix-api/internal/api/metrics"
	"github.com/teamskills/skills-matrix-api/internal/core/domain"
	"github.com/teamskills/skills-matrix-api/internal/core/ports"
)

// sessionKey is the echo context key the validated session is stored
// under. Handlers read it through SessionFrom.
const sessionKey = "session"

// Session requires a valid session on the request and injects it into
// the echo context. The token is read from the session cookie, falling
// back to a bearer Authorization header for non-browser clients.
func Session(gate ports.AccessGate, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			d := gate.RequireAuthenticated(c.Request().Context(), tokenFrom(c, cookieName))
			if !d.Allowed() {
				return reject(d.Reason)
			}
			c.Set(sessionKey, d.Session)
			return next(c)
		}
	}
}

// RequireRole requires a valid session whose role snapshot satisfies
// role. Admin sessions satisfy any requirement. The check order is
// fixed: a missing or expired session rejects with 401 before the role
// is ever considered, so 403 always means "known caller, not allowed".
func RequireRole(gate ports.AccessGate, cookieName string, role domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			d := gate.RequireRole(c.Request().Context(), tokenFrom(c, cookieName), role)
			if !d.Allowed() {
				return reject(d.Reason)
			}
			c.Set(sessionKey, d.Session)
			return next(c)
		}
	}
}

// SessionFrom returns the session injected by Session or RequireRole,
// or nil when no gate middleware ran on the route.
func SessionFrom(c echo.Context) *domain.Session {
	s, _ := c.Get(sessionKey).(*domain.Session)
	return s
}

// tokenFrom extracts the raw session token. An empty string means no
// credential was presented; the gate turns that into a no-session
// rejection rather than an error here, keeping the rejection taxonomy
// in one place.
func tokenFrom(c echo.Context, cookieName string) string {
	if cookie, err := c.Cookie(cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := c.Request().Header.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	return ""
}

func reject(reason ports.RejectReason) error {
	metrics.AccessDeniedTotal.WithLabelValues(string(reason)).Inc()

	switch reason {
	case ports.ReasonExpired:
		return echo.NewHTTPError(http.StatusUnauthorized, "session expired")
	case ports.ReasonForbidden:
		return echo.NewHTTPError(http.StatusForbidden, "access forbidden")
	default:
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
}
