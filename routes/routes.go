package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/plantstore-dev/plantstore-api/auth"
	"gorm.io/gorm"
)

// SetupRoutes is the single entry point that wires up every route group.
func SetupRoutes(r *gin.Engine, db *gorm.DB, otpStore auth.OTPStore) {
	// Public auth routes (rate-limited)
	SetupAuthRoutes(r, db, otpStore)

	// Cart routes: identity supplied by the caller, no middleware
	SetupCartRoutes(r, db)

	// Order routes
	SetupOrderRoutes(r, db)

	// Catalog + reviews (public reads)
	SetupPlantRoutes(r, db)

	// User routes (JWT-protected)
	SetupUserRoutes(r, db)

	// Admin routes (API-key-protected)
	SetupAdminRoutes(r, db)
}
