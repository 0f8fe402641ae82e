package auth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/plantstore-dev/plantstore-api/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// fakeOTPStore stands in for Redis: same single-use, expiring contract.
type fakeOTPStore struct {
	codes   map[string]string
	expires map[string]time.Time
}

func newFakeOTPStore() *fakeOTPStore {
	return &fakeOTPStore{codes: map[string]string{}, expires: map[string]time.Time{}}
}

func (s *fakeOTPStore) Set(email, code string, ttl time.Duration) error {
	s.codes[email] = code
	s.expires[email] = time.Now().Add(ttl)
	return nil
}

func (s *fakeOTPStore) Get(email string) (string, error) {
	code, ok := s.codes[email]
	if !ok || time.Now().After(s.expires[email]) {
		return "", fmt.Errorf("otp for %s not found", email)
	}
	return code, nil
}

func (s *fakeOTPStore) Delete(email string) error {
	delete(s.codes, email)
	delete(s.expires, email)
	return nil
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Cart{}, &models.CartItem{}, &models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

func postJSON(t *testing.T, router *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGenerateOTP(t *testing.T) {
	for i := 0; i < 100; i++ {
		otp := GenerateOTP()
		if len(otp) != 6 {
			t.Fatalf("expected 6 digits, got %q", otp)
		}
		for _, r := range otp {
			if r < '0' || r > '9' {
				t.Fatalf("expected digits only, got %q", otp)
			}
		}
	}
}

func TestVerifyOTPCreatesVerifiedUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := openTestDB(t)
	store := newFakeOTPStore()
	store.Set("rose@example.com", "123456", OTPTTL)

	router := gin.New()
	router.POST("/auth/verify-otp", VerifyOTP(db, store))

	w := postJSON(t, router, "/auth/verify-otp", map[string]string{
		"email":    "rose@example.com",
		"otp":      "123456",
		"name":     "rosegrower",
		"password": "secret1",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var user models.User
	if err := db.Where("email = ?", "rose@example.com").First(&user).Error; err != nil {
		t.Fatalf("expected user to exist: %v", err)
	}
	if !user.IsVerified {
		t.Fatal("expected user to be verified")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret1")); err != nil {
		t.Fatalf("stored password is not the bcrypt hash: %v", err)
	}

	// The code is single-use.
	if _, err := store.Get("rose@example.com"); err == nil {
		t.Fatal("expected OTP to be consumed")
	}
}

func TestVerifyOTPRejectsWrongCode(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := openTestDB(t)
	store := newFakeOTPStore()
	store.Set("rose@example.com", "123456", OTPTTL)

	router := gin.New()
	router.POST("/auth/verify-otp", VerifyOTP(db, store))

	w := postJSON(t, router, "/auth/verify-otp", map[string]string{
		"email":    "rose@example.com",
		"otp":      "654321",
		"name":     "rosegrower",
		"password": "secret1",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	var count int64
	db.Model(&models.User{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no user rows, got %d", count)
	}

	// A wrong guess must not burn the pending code.
	if _, err := store.Get("rose@example.com"); err != nil {
		t.Fatalf("expected OTP to survive a failed attempt: %v", err)
	}
}

func TestLogin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret")
	db := openTestDB(t)

	hashed, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("bcrypt failed: %v", err)
	}
	user := models.User{Username: "rosegrower", Email: "rose@example.com", Password: string(hashed), IsVerified: true}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	router := gin.New()
	router.POST("/auth/login", Login(db))

	t.Run("correct password", func(t *testing.T) {
		w := postJSON(t, router, "/auth/login", map[string]string{
			"email":    "rose@example.com",
			"password": "secret1",
		})
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var resp struct {
			Success  bool   `json:"success"`
			JWTToken string `json:"jwtToken"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if !resp.Success || resp.JWTToken == "" {
			t.Fatalf("expected a token, got %s", w.Body.String())
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		w := postJSON(t, router, "/auth/login", map[string]string{
			"email":    "rose@example.com",
			"password": "wrong-1",
		})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		w := postJSON(t, router, "/auth/login", map[string]string{
			"email":    "nobody@example.com",
			"password": "secret1",
		})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})
}
