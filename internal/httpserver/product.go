package httpserver

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/internal/util"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type ProductHTTP struct {
	Svc *service.ProductService
}

func (h *ProductHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products")

	page, valid := util.ParsePage(c.QueryParam("page"))
	if !valid {
		l.Warn("get_products_error", "status", 400, "reason", "bad page", "page", c.QueryParam("page"))
		return echo.NewHTTPError(http.StatusBadRequest, msgBadPage)
	}

	out, err := h.Svc.ListPublic(ctx, page, c.QueryParam("category"))
	if err != nil {
		if errors.Is(err, service.ErrUnknownCategory) {
			l.Warn("get_products_error", "status", 400, "reason", "unknown category", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, msgUnknownCategory)
		}
		l.Error("get_products_error", "status", 500, "reason", "storage error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, msgServerError)
	}

	return ok(c, http.StatusOK, msgOK, out)
}

func (h *ProductHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search")

	page, valid := util.ParsePage(c.QueryParam("page"))
	if !valid {
		l.Warn("search_products_error", "status", 400, "reason", "bad page", "page", c.QueryParam("page"))
		return echo.NewHTTPError(http.StatusBadRequest, msgBadPage)
	}

	out, err := h.Svc.Search(ctx, c.QueryParam("q"), page)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("search_products_error", "status", 400, "reason", "empty query", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, msgInvalidFields)
		}
		l.Error("search_products_error", "status", 500, "reason", "storage error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, msgServerError)
	}

	return ok(c, http.StatusOK, msgOK, out)
}

func (h *ProductHTTP) GetProduct(c echo.Context) error {
	return h.detail(c, false)
}

func (h *ProductHTTP) AdminGetProduct(c echo.Context) error {
	return h.detail(c, true)
}

func (h *ProductHTTP) detail(c echo.Context, admin bool) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product", "admin", admin)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("get_product_error", "status", 400, "reason", "id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidFields)
	}

	d, err := h.Svc.Detail(ctx, id, admin)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("get_product_error", "status", 404, "reason", "product not found", "error", err)
			return echo.NewHTTPError(http.StatusNotFound, msgProductNotFound)
		}
		l.Error("get_product_error", "status", 500, "reason", "storage error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, msgServerError)
	}

	return ok(c, http.StatusOK, msgOK, d)
}

func (h *ProductHTTP) AdminGetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.admin_get_products")

	page, valid := util.ParsePage(c.QueryParam("page"))
	if !valid {
		l.Warn("get_products_error", "status", 400, "reason", "bad page", "page", c.QueryParam("page"))
		return echo.NewHTTPError(http.StatusBadRequest, msgBadPage)
	}

	out, err := h.Svc.ListAdmin(ctx, page)
	if err != nil {
		l.Error("get_products_error", "status", 500, "reason", "storage error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, msgServerError)
	}

	return ok(c, http.StatusOK, msgOK, out)
}

func (h *ProductHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create_product")

	var req transport.ProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("product_create_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidFields)
	}

	p, err := h.Svc.CreateProduct(ctx, req)
	if err != nil {
		return writeError(l, "product_create_error", err, msgCreateFailed)
	}

	l.Info("product_create_success", "product_id", p.ID.String())
	return ok(c, http.StatusOK, msgCreated, nil)
}

func (h *ProductHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update_product")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("product_update_error", "status", 400, "reason", "id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidFields)
	}

	var req transport.ProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("product_update_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidFields)
	}

	if err := h.Svc.UpdateProduct(ctx, id, req); err != nil {
		return writeError(l, "product_update_error", err, msgUpdateFailed)
	}

	l.Info("product_update_success", "product_id", id.String())
	return ok(c, http.StatusOK, msgUpdated, nil)
}

func (h *ProductHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete_product")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("product_delete_error", "status", 400, "reason", "id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgDeleteFailed)
	}

	if err := h.Svc.DeleteProduct(ctx, id); err != nil {
		return writeError(l, "product_delete_error", err, msgDeleteFailed)
	}

	l.Info("product_delete_success", "product_id", id.String())
	return ok(c, http.StatusOK, msgDeleted, nil)
}
