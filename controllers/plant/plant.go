package plantControllers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/plantstore-dev/plantstore-api/models"
	"gorm.io/gorm"
)

// UploadsDir is where plant images land; served statically from main.
var UploadsDir = "./uploads"

type UpdatePlantInput struct {
	Name                 string  `json:"name" binding:"required"`
	Category             string  `json:"category" binding:"required"`
	Price                float64 `json:"price" binding:"required"`
	Stock                int     `json:"stock"`
	Description          string  `json:"description"`
	ImageURL             string  `json:"image_url"`
	SunlightRequirements string  `json:"sunlight_requirements"`
	WateringFrequency    string  `json:"watering_frequency"`
	IsFeatured           bool    `json:"is_featured"`
}

// GET /plants
func GetPlants(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var plants []models.Plant
		if err := db.Find(&plants).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch plants"})
			return
		}
		c.JSON(http.StatusOK, plants)
	}
}

// GET /plants/:id
func GetPlantByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var plant models.Plant
		if err := db.First(&plant, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Plant not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching plant details"})
			return
		}
		c.JSON(http.StatusOK, plant)
	}
}

// POST /admin/plants. Multipart form with an optional image file.
func CreatePlant(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.PostForm("name")
		category := c.PostForm("category")
		priceStr := c.PostForm("price")
		if name == "" || category == "" || priceStr == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Name, category, and price are required."})
			return
		}

		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price"})
			return
		}

		stock := 0
		if stockStr := c.PostForm("stock"); stockStr != "" {
			if stock, err = strconv.Atoi(stockStr); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid stock"})
				return
			}
		}

		imageURL := c.PostForm("image_url")
		if file, err := c.FormFile("image"); err == nil {
			fileName := fmt.Sprintf("%d%s", time.Now().UnixMilli(), filepath.Ext(file.Filename))
			if err := c.SaveUploadedFile(file, filepath.Join(UploadsDir, fileName)); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save image"})
				return
			}
			imageURL = "/uploads/" + fileName
		}

		plant := models.Plant{
			Name:                 name,
			Category:             category,
			Price:                price,
			Stock:                stock,
			Description:          c.PostForm("description"),
			ImageURL:             imageURL,
			SunlightRequirements: c.PostForm("sunlight_requirements"),
			WateringFrequency:    c.PostForm("watering_frequency"),
			IsFeatured:           c.PostForm("is_featured") == "true",
		}
		if err := db.Create(&plant).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error adding plant. Please try again."})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"message": "Plant added successfully", "plant_id": plant.ID})
	}
}

// PUT /admin/plants/:id
func UpdatePlant(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input UpdatePlantInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		result := db.Model(&models.Plant{}).Where("id = ?", c.Param("id")).Updates(map[string]interface{}{
			"name":                  input.Name,
			"category":              input.Category,
			"price":                 input.Price,
			"stock":                 input.Stock,
			"description":           input.Description,
			"image_url":             input.ImageURL,
			"sunlight_requirements": input.SunlightRequirements,
			"watering_frequency":    input.WateringFrequency,
			"is_featured":           input.IsFeatured,
		})
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating plant details"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Plant not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Plant updated successfully"})
	}
}

// DELETE /admin/plants/:id
func DeletePlant(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := db.Where("id = ?", c.Param("id")).Delete(&models.Plant{})
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting plant"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Plant not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Plant deleted successfully"})
	}
}
