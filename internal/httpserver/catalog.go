package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/internal/util"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

// NamedHTTP serves the admin CRUD of categories or tags.
type NamedHTTP[T repo.Named] struct {
	Svc  *service.NamedService[T]
	Kind string
}

func (h *NamedHTTP[T]) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", h.Kind+".create")

	var req transport.NameRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_"+h.Kind+"_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidFields)
	}

	item, err := h.Svc.Create(ctx, req)
	if err != nil {
		return writeError(l, "create_"+h.Kind+"_error", err, msgCreateFailed)
	}

	l.Info("create_"+h.Kind+"_success", "id", item.ID)
	return ok(c, http.StatusOK, msgCreated, nil)
}

// List answers {message, data, pagination}.
func (h *NamedHTTP[T]) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", h.Kind+".list")

	page, valid := util.ParsePage(c.QueryParam("page"))
	if !valid {
		l.Warn("list_"+h.Kind+"_error", "status", 400, "reason", "bad page", "page", c.QueryParam("page"))
		return echo.NewHTTPError(http.StatusBadRequest, msgBadPage)
	}

	pg, items, err := h.Svc.List(ctx, page)
	if err != nil {
		l.Error("list_"+h.Kind+"_error", "status", 500, "reason", "storage error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, msgServerError)
	}

	return c.JSON(http.StatusOK, transport.NamedPage{Message: msgOK, Data: items, Pagination: *pg})
}

// ListAll answers every live row without pagination.
func (h *NamedHTTP[T]) ListAll(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", h.Kind+".list_all")

	_, items, err := h.Svc.List(ctx, 0)
	if err != nil {
		l.Error("list_"+h.Kind+"_error", "status", 500, "reason", "storage error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, msgServerError)
	}

	return ok(c, http.StatusOK, msgOK, items)
}

func (h *NamedHTTP[T]) Rename(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", h.Kind+".rename")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("rename_"+h.Kind+"_error", "status", 400, "reason", "id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidFields)
	}

	var req transport.NameRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("rename_"+h.Kind+"_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidFields)
	}

	if err := h.Svc.Rename(ctx, id, req); err != nil {
		return writeError(l, "rename_"+h.Kind+"_error", err, msgUpdateFailed)
	}
	return ok(c, http.StatusOK, msgUpdated, nil)
}

func (h *NamedHTTP[T]) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", h.Kind+".delete")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("delete_"+h.Kind+"_error", "status", 400, "reason", "id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgDeleteFailed)
	}

	if err := h.Svc.Delete(ctx, id); err != nil {
		return writeError(l, "delete_"+h.Kind+"_error", err, msgDeleteFailed)
	}
	return ok(c, http.StatusOK, msgDeleted, nil)
}
