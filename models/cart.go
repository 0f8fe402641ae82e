package models

import "time"

// Cart belongs to exactly one identity: a registered user or a guest.
// The unique indexes keep concurrent add-to-cart calls from racing a
// second cart into existence for the same identity.
type Cart struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     *uint      `gorm:"uniqueIndex" json:"user_id,omitempty"`
	GuestID    *string    `gorm:"uniqueIndex" json:"guest_id,omitempty"`
	TotalPrice float64    `json:"total_price"` // derived cache, recomputed after every mutation
	Items      []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// CartItem holds one plant per cart. Re-adding the same plant
// accumulates quantity and refreshes the price snapshot instead of
// duplicating the row, enforced by the composite unique index.
type CartItem struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	CartID   uint      `gorm:"index;uniqueIndex:idx_cart_plant" json:"cart_id"`
	PlantID  uint      `gorm:"uniqueIndex:idx_cart_plant" json:"plant_id"`
	Quantity int       `json:"quantity"`
	Price    float64   `json:"price"` // plant price at time of most recent add
	AddedAt  time.Time `json:"added_at"`
}
