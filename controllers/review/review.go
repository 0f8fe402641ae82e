package reviewControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/plantstore-dev/plantstore-api/models"
	"gorm.io/gorm"
)

type CreateReviewInput struct {
	PlantID   uint    `json:"plant_id" binding:"required"`
	UserID    *uint   `json:"user_id"`
	GuestName *string `json:"guest_name"`
	Rating    int     `json:"rating" binding:"required,min=1,max=5"`
	Comment   string  `json:"comment"`
}

// POST /reviews
func CreateReview(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CreateReviewInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if input.UserID == nil && input.GuestName == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Either user_id or guest_name must be provided"})
			return
		}

		review := models.Review{
			PlantID:   input.PlantID,
			UserID:    input.UserID,
			GuestName: input.GuestName,
			Rating:    input.Rating,
			Comment:   input.Comment,
		}
		if err := db.Create(&review).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create review"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"success": true, "review_id": review.ID})
	}
}

// GET /plants/reviews?plant_id=
func GetPlantReviews(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		plantID := c.Query("plant_id")
		if plantID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Plant ID is required"})
			return
		}

		var reviews []models.Review
		if err := db.Where("plant_id = ?", plantID).Order("created_at DESC").Find(&reviews).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching reviews"})
			return
		}
		if len(reviews) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "No reviews found for this plant"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "reviews": reviews})
	}
}
