package routes

import (
	"github.com/gin-gonic/gin"
	plantControllers "github.com/plantstore-dev/plantstore-api/controllers/plant"
	reviewControllers "github.com/plantstore-dev/plantstore-api/controllers/review"
	"gorm.io/gorm"
)

func SetupPlantRoutes(r *gin.Engine, db *gorm.DB) {
	plants := r.Group("/plants")
	{
		plants.GET("/", plantControllers.GetPlants(db))
		plants.GET("/reviews", reviewControllers.GetPlantReviews(db)) // GET /plants/reviews?plant_id=
		plants.GET("/:id", plantControllers.GetPlantByID(db))
	}

	r.POST("/reviews", reviewControllers.CreateReview(db))
}
