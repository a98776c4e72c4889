package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/pkg/logging"
	middleware "github.com/Skotchmaster/storefront/pkg/middleware/auth"
)

const accessCookie = "accessToken"

type UserHTTP struct {
	Svc *service.UserService
}

func createCookie(name, value, path string, exp time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  exp,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

func (h *UserHTTP) Signup(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.signup")

	var req transport.SignupRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("signup_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidFields)
	}

	u, err := h.Svc.Signup(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			l.Warn("signup_error", "status", 400, "reason", "invalid field", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, msgInvalidFields)
		case errors.Is(err, service.ErrPasswordPolicy):
			l.Warn("signup_error", "status", 400, "reason", "password policy", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, msgPasswordPolicy)
		case errors.Is(err, service.ErrConflict):
			l.Warn("signup_error", "status", 409, "reason", "email taken", "error", err)
			return echo.NewHTTPError(http.StatusConflict, msgEmailTaken)
		default:
			l.Error("signup_error", "status", 500, "reason", "storage error", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, msgServerError)
		}
	}

	l.Info("signup_success", "user_id", u.ID.String())
	return ok(c, http.StatusCreated, msgSignedUp, nil)
}

func (h *UserHTTP) Signin(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.signin")

	var req transport.SigninRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("signin_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidFields)
	}

	data, err := h.Svc.Signin(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			l.Warn("signin_error", "status", 400, "reason", "invalid field", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, msgInvalidFields)
		case errors.Is(err, service.ErrInvalidCredentials):
			l.Warn("signin_error", "status", 400, "reason", "bad credentials")
			return echo.NewHTTPError(http.StatusBadRequest, msgBadCredentials)
		default:
			l.Error("signin_error", "status", 500, "reason", "signin failed", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, msgServerError)
		}
	}

	c.SetCookie(createCookie(accessCookie, data.Token, "/", time.Now().Add(h.Svc.JWTExpires)))

	l.Info("signin_success")
	return ok(c, http.StatusCreated, msgSignedIn, data)
}

func (h *UserHTTP) GetProfile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.get_profile")

	p, _ := middleware.PrincipalFrom(c)
	profile, err := h.Svc.Profile(ctx, p.ID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("get_profile_error", "status", 401, "reason", "user gone", "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, middleware.ForbiddenMessage)
		}
		l.Error("get_profile_error", "status", 500, "reason", "storage error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, msgServerError)
	}

	return ok(c, http.StatusOK, msgFetched, map[string]any{"user": profile})
}

func (h *UserHTTP) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.update_profile")

	var req transport.ProfileRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_profile_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidFields)
	}

	p, _ := middleware.PrincipalFrom(c)
	profile, err := h.Svc.UpdateProfile(ctx, p.ID, req)
	if err != nil {
		msg := msgProfileFailed
		switch {
		case errors.Is(err, service.ErrValidation):
			msg = msgInvalidFields
		case errors.Is(err, service.ErrInvalidTel):
			msg = msgInvalidTel
		case errors.Is(err, service.ErrAddressTooLong):
			msg = msgAddressTooLong
		case errors.Is(err, service.ErrNameUnchanged):
			msg = msgNameUnchanged
		case errors.Is(err, service.ErrWriteFailed):
		default:
			l.Error("update_profile_error", "status", 500, "reason", "storage error", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, msgServerError)
		}
		l.Warn("update_profile_error", "status", 400, "reason", msg, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msg)
	}

	return ok(c, http.StatusOK, msgUpdated, map[string]any{"user": profile})
}

func (h *UserHTTP) UpdatePassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.update_password")

	var req transport.PasswordRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_password_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidFields)
	}

	p, _ := middleware.PrincipalFrom(c)
	if err := h.Svc.ChangePassword(ctx, p.ID, req); err != nil {
		msg := msgPasswordFailed
		switch {
		case errors.Is(err, service.ErrValidation):
			msg = msgInvalidFields
		case errors.Is(err, service.ErrPasswordPolicy):
			msg = msgPasswordPolicy
		case errors.Is(err, service.ErrSamePassword):
			msg = msgSamePassword
		case errors.Is(err, service.ErrPasswordMismatch):
			msg = msgPasswordMismatch
		case errors.Is(err, service.ErrWrongPassword):
			msg = msgWrongPassword
		case errors.Is(err, service.ErrWriteFailed):
		default:
			l.Error("update_password_error", "status", 500, "reason", "storage error", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, msgServerError)
		}
		l.Warn("update_password_error", "status", 400, "reason", msg, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msg)
	}

	return ok(c, http.StatusOK, msgUpdated, nil)
}

func (h *UserHTTP) UpdateRole(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.update_role")

	var req transport.RoleRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_role_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidFields)
	}

	p, _ := middleware.PrincipalFrom(c)
	role, err := h.Svc.SetRole(ctx, p.ID, req)
	if err != nil {
		if errors.Is(err, service.ErrValidation) || errors.Is(err, service.ErrWriteFailed) {
			l.Warn("update_role_error", "status", 400, "reason", "role not changed", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, msgRoleChangeFailed)
		}
		l.Error("update_role_error", "status", 500, "reason", "storage error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, msgServerError)
	}

	l.Info("update_role_success", "user_id", p.ID.String(), "role", role)
	return c.JSON(http.StatusOK, transport.RoleResponse{Message: msgRoleChanged, Role: role})
}
