package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/Skotchmaster/storefront/pkg/tokens"
	"github.com/Skotchmaster/storefront/pkg/validate"
)

const (
	ForbiddenMessage = "你沒有權限存取此資源"

	principalKey = "principal"
	accessCookie = "accessToken"
)

// Principal is the authenticated caller. It is set once per request and never
// mutated by handlers.
type Principal struct {
	ID   uuid.UUID
	Role string
}

func (p Principal) IsAdmin() bool { return p.Role == validate.RoleAdmin }

// RoleLookup returns the current role of a user. Roles are read from storage on
// every request so a role change applies without reissuing tokens.
type RoleLookup func(ctx context.Context, userID uuid.UUID) (string, error)

type AuthMiddleware struct {
	JWTSecret []byte
	Lookup    RoleLookup
}

func NewAuthMiddleware(secret []byte, lookup RoleLookup) *AuthMiddleware {
	return &AuthMiddleware{JWTSecret: secret, Lookup: lookup}
}

type ValidatorFunc func(p Principal) error

func (m *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireAuthWithValidator(next, nil)
}

func (m *AuthMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireAuthWithValidator(next, func(p Principal) error {
		if !p.IsAdmin() {
			return echo.NewHTTPError(http.StatusUnauthorized, ForbiddenMessage)
		}
		return nil
	})
}

func (m *AuthMiddleware) requireAuthWithValidator(next echo.HandlerFunc, validator ValidatorFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		l := logging.FromContext(ctx).With("middleware", "auth")

		raw := bearerToken(c)
		if raw == "" {
			l.Warn("auth_error", "status", 401, "reason", "missing token")
			return echo.NewHTTPError(http.StatusUnauthorized, ForbiddenMessage)
		}

		claims, err := tokens.AccessClaimsFromToken(raw, m.JWTSecret)
		if err != nil {
			l.Warn("auth_error", "status", 401, "reason", "invalid token", "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, ForbiddenMessage)
		}

		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			l.Warn("auth_error", "status", 401, "reason", "subject is not a uuid", "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, ForbiddenMessage)
		}

		role := claims.Role
		if m.Lookup != nil {
			role, err = m.Lookup(ctx, userID)
			if err != nil {
				l.Warn("auth_error", "status", 401, "reason", "user lookup failed", "error", err)
				return echo.NewHTTPError(http.StatusUnauthorized, ForbiddenMessage)
			}
		}

		p := Principal{ID: userID, Role: role}
		if validator != nil {
			if validationErr := validator(p); validationErr != nil {
				l.Warn("auth_error", "status", 401, "reason", "role not allowed", "user_id", userID.String())
				return validationErr
			}
		}

		setUserContext(c, p)
		return next(c)
	}
}

func bearerToken(c echo.Context) string {
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	if scheme, tok, ok := strings.Cut(h, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(tok)
	}
	if ck, err := c.Cookie(accessCookie); err == nil {
		return ck.Value
	}
	return ""
}

func setUserContext(c echo.Context, p Principal) {
	c.Set(principalKey, p)
	c.Set("user_id", p.ID.String())
	c.Set("role", p.Role)
}

func PrincipalFrom(c echo.Context) (Principal, bool) {
	p, ok := c.Get(principalKey).(Principal)
	return p, ok
}
