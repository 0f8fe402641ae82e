package routes

import (
	"github.com/gin-gonic/gin"
	userControllers "github.com/plantstore-dev/plantstore-api/controllers/user"
	"github.com/plantstore-dev/plantstore-api/middleware"
	"gorm.io/gorm"
)

// SetupUserRoutes registers all "/users/*" endpoints. Requires JWT middleware.
func SetupUserRoutes(r *gin.Engine, db *gorm.DB) {
	userGroup := r.Group("/users")
	userGroup.Use(middleware.ValidateToken)
	{
		userGroup.GET("/profile", userControllers.GetProfile(db))
	}
}
