package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	authapp "github.com/avetrov/go-shop-api/internal/domains/auth/application"
	catalogports "github.com/avetrov/go-shop-api/internal/domains/catalog/ports"
	orderports "github.com/avetrov/go-shop-api/internal/domains/orders/ports"
	userdomain "github.com/avetrov/go-shop-api/internal/domains/users/domain"
	userports "github.com/avetrov/go-shop-api/internal/domains/users/ports"
)

// Services bundles the application services the router exposes.
type Services struct {
	Auth    *authapp.Service
	Users   userports.Service
	Catalog catalogports.Service
	Orders  orderports.Service
}

// NewRouter assembles the gin engine with all routes and middleware.
func NewRouter(serviceName string, services Services) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authn := requireAuth(services.Auth)
	adminOnly := requireRole(userdomain.RoleAdmin)

	authHandler := NewAuthHandler(services.Auth, services.Users)
	auth := router.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/verify", authHandler.Verify)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", authn, authHandler.Logout)
		auth.GET("/me", authn, authHandler.Me)
	}

	usersHandler := NewUsersHandler(services.Users)
	users := router.Group("/users")
	{
		users.POST("", authn, adminOnly, usersHandler.Create)
		users.GET("", authn, adminOnly, usersHandler.List)
		users.GET("/:id", authn, usersHandler.Get)
		users.PATCH("/:id", authn, usersHandler.Update)
		users.DELETE("/:id", authn, adminOnly, usersHandler.Delete)
	}

	productsHandler := NewProductsHandler(services.Catalog)
	products := router.Group("/products")
	{
		products.POST("", authn, adminOnly, productsHandler.Create)
		products.GET("", productsHandler.List)
		products.GET("/:id", productsHandler.Get)
		products.PATCH("/:id", authn, adminOnly, productsHandler.Update)
		products.DELETE("/:id", authn, adminOnly, productsHandler.Delete)
	}

	ordersHandler := NewOrdersHandler(services.Orders)
	orders := router.Group("/orders")
	{
		orders.POST("", ordersHandler.Create)
		orders.GET("", ordersHandler.List)
		orders.GET("/:id", authn, ordersHandler.Get)
		orders.PATCH("/:id", authn, ordersHandler.Update)
		orders.DELETE("/:id", authn, adminOnly, ordersHandler.Delete)
		// Payment provider callback; authenticated by the provider out of
		// band, not by a bearer token.
		orders.PATCH("/:id/status", ordersHandler.UpdatePaymentStatus)
	}

	detailsHandler := NewOrderDetailsHandler(services.Orders)
	details := router.Group("/order-details")
	{
		details.POST("", detailsHandler.Create)
		details.GET("", authn, adminOnly, detailsHandler.List)
		details.GET("/order/:orderId", detailsHandler.ListByOrder)
		details.GET("/:id", authn, detailsHandler.Get)
		details.PATCH("/:id", authn, detailsHandler.Update)
		details.DELETE("/:id", authn, detailsHandler.Delete)
	}

	return router
}
