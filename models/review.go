package models

import "time"

// Review is attributed either to a registered user or to a free-form
// guest name; at least one must be present.
type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PlantID   uint      `gorm:"index;not null" json:"plant_id"`
	UserID    *uint     `json:"user_id,omitempty"`
	GuestName *string   `json:"guest_name,omitempty"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}
