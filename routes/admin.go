package routes

import (
	"github.com/gin-gonic/gin"
	orderControllers "github.com/plantstore-dev/plantstore-api/controllers/order"
	plantControllers "github.com/plantstore-dev/plantstore-api/controllers/plant"
	userControllers "github.com/plantstore-dev/plantstore-api/controllers/user"
	"github.com/plantstore-dev/plantstore-api/middleware"
	"gorm.io/gorm"
)

// SetupAdminRoutes registers all "/admin/*" endpoints. Requires API-key middleware.
func SetupAdminRoutes(r *gin.Engine, db *gorm.DB) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.ValidateAPIKey)
	{
		adminGroup.GET("/users", userControllers.GetAllUsers(db))
		adminGroup.GET("/orders", orderControllers.GetAllOrdersHandler(db))

		plantAdmin := adminGroup.Group("/plants")
		{
			plantAdmin.POST("", plantControllers.CreatePlant(db))
			plantAdmin.PUT("/:id", plantControllers.UpdatePlant(db))
			plantAdmin.DELETE("/:id", plantControllers.DeletePlant(db))
			plantAdmin.GET("/export-excel", plantControllers.ExportPlantsToExcel(db))
		}
	}
}
