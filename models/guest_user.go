package models

import "time"

// GuestUser is a short-lived identity issued to unauthenticated
// shoppers so their cart survives across requests.
type GuestUser struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	ExpiresAt time.Time `json:"expires_at"`
}
