package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/marketd/internal/handlers"
	"github.com/01moynul/marketd/internal/middleware"
	"github.com/01moynul/marketd/internal/models"
)

// Options carries the router settings that do not belong to Handlers.
type Options struct {
	CORSOrigin string
	Limiter    *middleware.RateLimiter // nil disables rate limiting
}

// CORSMiddleware allows the configured frontend origin to call the API.
func CORSMiddleware(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		// Preflight
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func SetupRouter(h *handlers.Handlers, opts Options) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(), CORSMiddleware(opts.CORSOrigin))
	if opts.Limiter != nil {
		router.Use(opts.Limiter.Middleware())
	}

	var (
		customer      = middleware.RequireRole(models.RoleCustomer)
		vendor        = middleware.RequireRole(models.RoleVendor)
		rider         = middleware.RequireRole(models.RoleRider)
		vendorOrAdmin = middleware.RequireRole(models.RoleVendor, models.RoleAdmin)
	)

	v1 := router.Group("/v1")
	{
		// --- Public Routes ---
		v1.GET("/ping", h.Ping)
		v1.POST("/login", h.Login)
		v1.GET("/products/:id", h.GetProduct)

		// --- Protected Routes (Login Required) ---
		auth := v1.Group("/")
		auth.Use(middleware.AuthMiddleware(h.Tokens, h.Store))
		{
			// --- Orders ---
			auth.POST("/orders", customer, h.PlaceOrder)
			auth.GET("/orders/me", customer, h.GetMyOrders)
			auth.GET("/orders", vendorOrAdmin, h.GetOrders)
			auth.GET("/orders/:id", h.GetOrder)
			auth.POST("/orders/:id/payment", customer, h.RecordPayment)

			// --- Fulfillment ---
			auth.PATCH("/orders/:id/rider", vendorOrAdmin, h.AssignRider)
			auth.PATCH("/orders/:id/status", vendorOrAdmin, h.UpdateOrderStatus)

			// --- Businesses ---
			auth.GET("/businesses/:id/orders", vendorOrAdmin, h.GetBusinessOrders)
			auth.POST("/vendor/businesses", vendor, h.CreateBusiness)
			auth.POST("/vendor/businesses/:id/products", vendor, h.CreateProduct)

			// --- Rider Routes ---
			// The status route is not role-gated: anyone but the assigned
			// rider gets the same 404.
			auth.GET("/rider/orders", rider, h.GetRiderOrders)
			auth.PATCH("/rider/orders/:id/status", h.UpdateDeliveryStatus)

			// --- Notifications ---
			auth.GET("/notifications", h.GetMyNotifications)
			auth.PATCH("/notifications/:id/read", h.MarkNotificationAsRead)
		}
	}

	return router
}
