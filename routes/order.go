package routes

import (
	"github.com/gin-gonic/gin"
	orderControllers "github.com/plantstore-dev/plantstore-api/controllers/order"
	"github.com/plantstore-dev/plantstore-api/middleware"
	"gorm.io/gorm"
)

func SetupOrderRoutes(r *gin.Engine, db *gorm.DB) {
	orders := r.Group("/orders")
	{
		// Create a new order (registered or guest checkout)
		orders.POST("/", orderControllers.CreateOrderHandler(db))

		// Fulfilment queue: orders in a given status, items nested
		orders.GET("/status/:status", orderControllers.GetOrdersByStatusHandler(db))

		// Orders for the authenticated user
		orders.GET("/user", middleware.ValidateToken, orderControllers.GetUserOrdersHandler(db))

		// websocket endpoint for real-time order updates
		orders.GET("/ws", orderControllers.OrderWebSocketHandler)

		// Single order lookup
		orders.GET("/:orderID", orderControllers.GetOrderHandler(db))

		// Update order status (e.g. shipped, cancelled)
		orders.PUT("/:orderID/status", orderControllers.UpdateOrderStatusHandler(db))
	}
}
