package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/service"
)

// writeError maps the outcome of a header/link write onto a response.
// failed is the operation's own "did not happen" message.
func writeError(l *slog.Logger, event string, err error, failed string) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		l.Warn(event, "status", 400, "reason", "invalid field", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidFields)
	case errors.Is(err, service.ErrWriteFailed), errors.Is(err, service.ErrPartialWrite):
		l.Warn(event, "status", 400, "reason", "not written", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, failed)
	default:
		l.Error(event, "status", 500, "reason", "storage error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, msgServerError)
	}
}
