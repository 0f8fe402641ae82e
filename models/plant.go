package models

import "time"

type Plant struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	Name                 string    `gorm:"not null" json:"name"`
	Category             string    `gorm:"not null;index" json:"category"`
	Price                float64   `gorm:"not null" json:"price"`
	Stock                int       `json:"stock"`
	Description          string    `json:"description"`
	ImageURL             string    `json:"image_url"`
	SunlightRequirements string    `json:"sunlight_requirements"`
	WateringFrequency    string    `json:"watering_frequency"`
	IsFeatured           bool      `json:"is_featured"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}
