package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/teamskills/skills-matrix-api/internal/api/metrics"
	"github.com/teamskills/skills-matrix-api/internal/core/domain"
	"github.com/teamskills/skills-matrix-api/internal/core/ports"
	"github.com/teamskills/skills-matrix-api/internal/infrastructure/config"
)

// AuthHandler handles login and logout. Two credential tiers share the
// login endpoint: a password means the admin path (email + password), no
// password means the employee path (bare clock ID).
type AuthHandler struct {
	credentials ports.CredentialService
	sessions    ports.SessionService
	audit       ports.AuditRecorder
	cookie      config.SessionConfig
}

func NewAuthHandler(credentials ports.CredentialService, sessions ports.SessionService, audit ports.AuditRecorder, cookie config.SessionConfig) *AuthHandler {
	return &AuthHandler{
		credentials: credentials,
		sessions:    sessions,
		audit:       audit,
		cookie:      cookie,
	}
}

type loginRequest struct {
	Email    string `json:"email,omitempty"`
	ClockID  string `json:"clock_id,omitempty"`
	Password string `json:"password,omitempty"`
	Remember bool   `json:"remember"`
}

type principalResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

type loginResponse struct {
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expires_at"`
	Principal principalResponse `json:"principal"`
}

// Login authenticates and issues a session. The token travels both in
// the response body (for API clients) and in the session cookie (for
// browsers). A remember login carries Max-Age; a plain login leaves the
// cookie scoped to the browser session while the server-side record
// still expires on its own clock.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	ctx := c.Request().Context()

	var (
		p    *domain.Principal
		err  error
		tier string
	)
	if req.Password != "" {
		tier = "admin"
		p, err = h.credentials.VerifyAdmin(ctx, req.Email, req.Password)
	} else {
		tier = "employee"
		p, err = h.credentials.VerifyEmployee(ctx, req.ClockID)
	}
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(tier, "failure").Inc()
		return err
	}

	token, session, err := h.sessions.Create(ctx, p, req.Remember)
	if err != nil {
		return err
	}

	metrics.LoginsTotal.WithLabelValues(tier, "success").Inc()
	metrics.SessionsIssuedTotal.WithLabelValues(strconv.FormatBool(req.Remember)).Inc()

	h.audit.Record(ports.Actor{ID: p.ID, Name: p.Name, Role: p.Role}, domain.ActionLogin, "", tier+" login")

	c.SetCookie(h.sessionCookie(token, session))

	return c.JSON(http.StatusOK, loginResponse{
		Token:     token,
		ExpiresAt: session.ExpiresAt,
		Principal: principalResponse{ID: p.ID, Name: p.Name, Role: string(p.Role)},
	})
}

// Logout revokes the current session and clears the cookie. Revocation
// is idempotent, so a stale, expired, or missing token still returns
// 204; the route deliberately skips the gate so half-dead sessions can
// still end themselves.
func (h *AuthHandler) Logout(c echo.Context) error {
	ctx := c.Request().Context()

	if token := h.requestToken(c); token != "" {
		if s, err := h.sessions.Validate(ctx, token); err == nil {
			h.audit.Record(ports.Actor{ID: s.PrincipalID, Name: s.PrincipalName, Role: s.Role}, domain.ActionLogout, "", "")
		}
		if err := h.sessions.Revoke(ctx, token); err != nil {
			return err
		}
	}

	c.SetCookie(h.clearedCookie())
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) requestToken(c echo.Context) string {
	if cookie, err := c.Cookie(h.cookie.CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	authHeader := c.Request().Header.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	return ""
}

func (h *AuthHandler) sessionCookie(token string, s *domain.Session) *http.Cookie {
	cookie := &http.Cookie{
		Name:     h.cookie.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookie.CookieSecure,
		SameSite: h.cookie.SameSite(),
	}
	if s.Remember {
		cookie.Expires = s.ExpiresAt
		cookie.MaxAge = int(time.Until(s.ExpiresAt).Seconds())
	}
	return cookie
}

func (h *AuthHandler) clearedCookie() *http.Cookie {
	return &http.Cookie{
		Name:     h.cookie.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookie.CookieSecure,
		SameSite: h.cookie.SameSite(),
		MaxAge:   -1,
	}
}
