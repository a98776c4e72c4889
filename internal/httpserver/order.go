package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/internal/util"
	"github.com/Skotchmaster/storefront/pkg/logging"
	middleware "github.com/Skotchmaster/storefront/pkg/middleware/auth"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create_order")

	p, found := middleware.PrincipalFrom(c)
	if !found {
		l.Warn("create_order_error", "status", 401, "reason", "no principal")
		return echo.NewHTTPError(http.StatusUnauthorized, middleware.ForbiddenMessage)
	}

	var req transport.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_order_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidFields)
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("create_order_error", "status", 400, "reason", "invalid field", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidFields)
	}

	order, err := h.Svc.PlaceOrder(ctx, p.ID, req)
	if err != nil {
		return writeError(l, "create_order_error", err, msgOrderFailed)
	}

	l.Info("create_order_success", "order_id", order.ID.String(), "lines", len(order.Lines))
	return ok(c, http.StatusOK, msgOrderAdded, nil)
}

func (h *OrderHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_orders")

	p, found := middleware.PrincipalFrom(c)
	if !found {
		l.Warn("list_orders_error", "status", 401, "reason", "no principal")
		return echo.NewHTTPError(http.StatusUnauthorized, middleware.ForbiddenMessage)
	}

	page, valid := util.ParsePage(c.QueryParam("page"))
	if !valid {
		l.Warn("list_orders_error", "status", 400, "reason", "bad page", "page", c.QueryParam("page"))
		return echo.NewHTTPError(http.StatusBadRequest, msgBadPage)
	}
	offset, limit := util.Calculate(page, util.DefaultPageSize)

	total, orders, err := h.Svc.ListOrders(ctx, p.ID, limit, offset)
	if err != nil {
		l.Error("list_orders_error", "status", 500, "reason", "storage error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, msgServerError)
	}

	return ok(c, http.StatusOK, msgOK, transport.OrderPage{
		Pagination: transport.Pagination{CurrentPage: page, TotalPage: util.TotalPages(total, limit)},
		Orders:     orders,
	})
}
