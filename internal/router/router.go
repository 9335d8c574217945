package router

import (
	"github.com/gin-gonic/gin"

	"github.com/bigbestmart/bnbmart-backend/config"
	"github.com/bigbestmart/bnbmart-backend/internal/app/controller"
	"github.com/bigbestmart/bnbmart-backend/internal/middleware"
)

type Router struct {
	productController      *controller.ProductController
	cartController         *controller.CartController
	orderController        *controller.OrderController
	notificationController *controller.NotificationController
	config                 *config.Config
}

func NewRouter(
	productController *controller.ProductController,
	cartController *controller.CartController,
	orderController *controller.OrderController,
	notificationController *controller.NotificationController,
	cfg *config.Config,
) *Router {
	return &Router{
		productController:      productController,
		cartController:         cartController,
		orderController:        orderController,
		notificationController: notificationController,
		config:                 cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "Big&Best Mart API is running",
		})
	})

	// WebSocket endpoint sits outside the versioned API group; browsers
	// cannot set custom headers on the handshake so the client ID comes
	// from the query string.
	router.GET("/ws/notifications",
		middleware.ClientIDMiddleware(),
		r.notificationController.StreamNotifications,
	)

	v1 := router.Group("/api/v1")
	v1.Use(middleware.ClientIDMiddleware())
	{
		products := v1.Group("/products")
		{
			products.GET("", r.productController.ListProducts)
			products.GET("/:id", r.productController.GetProduct)
		}

		cart := v1.Group("/cart")
		{
			cart.GET("", r.cartController.GetCart)
			cart.POST("", r.cartController.AddToCart)
			cart.DELETE("", r.cartController.ClearCart)
			cart.POST("/remove", r.cartController.RemoveFromCart)
			cart.POST("/delete", r.cartController.DeleteFromCart)
			cart.PUT("/quantity", r.cartController.UpdateQuantity)
			cart.POST("/increase", r.cartController.IncreaseQuantity)
			cart.POST("/decrease", r.cartController.DecreaseQuantity)
			cart.GET("/items/:id", r.cartController.GetItemStatus)
		}

		v1.POST("/checkout", r.orderController.Checkout)

		orders := v1.Group("/orders")
		{
			orders.GET("", r.orderController.GetOrders)
			orders.GET("/:id", r.orderController.GetOrder)
		}

		v1.GET("/notifications", r.notificationController.GetNotifications)
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, X-Client-ID, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Client-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
