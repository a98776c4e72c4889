package httpserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/storefront/internal/models"
	middleware "github.com/Skotchmaster/storefront/pkg/middleware/auth"
	"github.com/Skotchmaster/storefront/pkg/middleware/csrf"
	loggingmw "github.com/Skotchmaster/storefront/pkg/middleware/logging"
	"github.com/Skotchmaster/storefront/pkg/validate"
)

type Deps struct {
	Logger *slog.Logger
	Auth   *middleware.AuthMiddleware

	Users      *UserHTTP
	Orders     *OrderHTTP
	Products   *ProductHTTP
	Categories *NamedHTTP[models.Category]
	Tags       *NamedHTTP[models.Tag]

	// Ready reports whether the backing stores answer.
	Ready func(ctx context.Context) error
}

// New builds the echo instance with the shared middleware stack and every
// route registered.
func New(d *Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validate.EchoValidator{}
	e.HTTPErrorHandler = ErrorHandler

	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(d.Logger))
	e.Use(echomw.CORS())
	e.Use(csrf.Middleware(csrf.Config{SessionCookie: accessCookie}))

	Register(e, d)
	return e
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/healthcheck", func(c echo.Context) error { return c.String(http.StatusOK, "OK") })
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, msgServerError).SetInternal(err)
			}
		}
		return c.NoContent(http.StatusOK)
	})

	api := e.Group("/api/v1")

	users := api.Group("/users")
	users.POST("/signup", d.Users.Signup)
	users.POST("/signin", d.Users.Signin)
	users.GET("/profile", d.Users.GetProfile, d.Auth.RequireAuth)
	users.PUT("/profile", d.Users.UpdateProfile, d.Auth.RequireAuth)
	users.PUT("/password", d.Users.UpdatePassword, d.Auth.RequireAuth)

	products := api.Group("/products")
	products.GET("", d.Products.GetProducts)
	products.GET("/search", d.Products.SearchProducts)
	products.GET("/:id", d.Products.GetProduct)

	api.GET("/category", d.Categories.ListAll)

	orders := api.Group("/orders", d.Auth.RequireAuth)
	orders.POST("", d.Orders.CreateOrder)
	orders.GET("", d.Orders.ListOrders)

	// Role switching only requires a signed-in user; any account may change
	// its own role here.
	adminUsers := api.Group("/admin/users", d.Auth.RequireAuth)
	adminUsers.PUT("/role", d.Users.UpdateRole)

	admin := api.Group("/admin", d.Auth.RequireAdmin)

	admin.POST("/category", d.Categories.Create)
	admin.GET("/category", d.Categories.List)
	admin.PUT("/category/:id", d.Categories.Rename)
	admin.DELETE("/category/:id", d.Categories.Delete)

	admin.POST("/tags", d.Tags.Create)
	admin.GET("/tags", d.Tags.List)
	admin.PUT("/tags/:id", d.Tags.Rename)
	admin.DELETE("/tags/:id", d.Tags.Delete)

	admin.POST("/products", d.Products.CreateProduct)
	admin.GET("/products", d.Products.AdminGetProducts)
	admin.GET("/products/:id", d.Products.AdminGetProduct)
	admin.PUT("/products/:id", d.Products.UpdateProduct)
	admin.DELETE("/products/:id", d.Products.DeleteProduct)
}
