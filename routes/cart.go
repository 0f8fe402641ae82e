package routes

import (
	"github.com/gin-gonic/gin"
	cartControllers "github.com/plantstore-dev/plantstore-api/controllers/cart"
	"gorm.io/gorm"
)

func SetupCartRoutes(r *gin.Engine, db *gorm.DB) {
	cart := r.Group("/cart")
	{
		// GET /cart?user_id= or ?guest_id=
		cart.GET("/", cartControllers.GetCartHandler(db))
		cart.POST("/", cartControllers.AddToCartHandler(db))
		// The path carries the cart id; the item id comes in the body.
		cart.DELETE("/:cart_id", cartControllers.RemoveItemHandler(db))
	}
}
