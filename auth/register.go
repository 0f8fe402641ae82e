package auth

import (
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/plantstore-dev/plantstore-api/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterInput struct {
	Name     string `json:"name" binding:"required,min=4"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=5"`
}

type VerifyOTPInput struct {
	Email    string `json:"email" binding:"required,email"`
	OTP      string `json:"otp" binding:"required"`
	Name     string `json:"name" binding:"required,min=4"`
	Password string `json:"password" binding:"required,min=5"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=5"`
}

// POST /auth/register. First registration step: checks the identity
// is free, then mails a short-lived code. No user row is written yet.
func Register(db *gorm.DB, store OTPStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input RegisterInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var existing models.User
		err := db.Where("email = ? OR username = ?", input.Email, input.Name).First(&existing).Error
		if err == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "User with this email or name already exists"})
			return
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error checking existing users"})
			return
		}

		otp := GenerateOTP()
		if err := store.Set(input.Email, otp, OTPTTL); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error storing OTP"})
			return
		}
		if err := SendEmailOTP(input.Email, otp); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error sending OTP"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "OTP is sent to the email for confirmation"})
	}
}

// POST /auth/verify-otp. Second step: the code is consumed on
// success, the password hashed and the verified user created.
func VerifyOTP(db *gorm.DB, store OTPStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input VerifyOTPInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		stored, err := store.Get(input.Email)
		if err != nil || stored != input.OTP {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid or expired OTP"})
			return
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error completing registration"})
			return
		}

		user := models.User{
			Username:   input.Name,
			Email:      input.Email,
			Password:   string(hashed),
			IsVerified: true,
		}
		if err := db.Create(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error completing registration"})
			return
		}

		// Single use: the code is gone once a registration succeeds.
		_ = store.Delete(input.Email)

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Registration successful"})
	}
}

// POST /auth/login
func Login(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var user models.User
		if err := db.Where("email = ?", input.Email).First(&user).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email not registered."})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Incorrect password"})
			return
		}

		token, err := issueUserToken(user)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Token generation failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "id": user.ID, "jwtToken": token})
	}
}

func issueUserToken(user models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"exp":      time.Now().Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}
