package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/plantstore-dev/plantstore-api/auth"
	"github.com/plantstore-dev/plantstore-api/middleware"
	"gorm.io/gorm"
)

// SetupAuthRoutes registers all "/auth/*" endpoints.
func SetupAuthRoutes(r *gin.Engine, db *gorm.DB, otpStore auth.OTPStore) {
	limiter := middleware.NewRateLimiter(5, 5)

	authGroup := r.Group("/auth")
	authGroup.Use(limiter.Limit())
	{
		authGroup.POST("/register", auth.Register(db, otpStore))
		authGroup.POST("/verify-otp", auth.VerifyOTP(db, otpStore))
		authGroup.POST("/login", auth.Login(db))
		authGroup.POST("/guest", auth.CreateGuestUser(db))
	}
}
