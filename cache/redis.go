package cache

import (
	"context"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var ctx = context.Background()

// OTPStore keeps pending registration codes in Redis with a TTL, so
// verification state survives process restarts and is shared across
// instances.
type OTPStore struct {
	client *redis.Client
}

func NewOTPStore() *OTPStore {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})
	return &OTPStore{client: client}
}

func otpKey(email string) string {
	return "otp:" + email
}

func (s *OTPStore) Set(email, code string, ttl time.Duration) error {
	return s.client.Set(ctx, otpKey(email), code, ttl).Err()
}

func (s *OTPStore) Get(email string) (string, error) {
	return s.client.Get(ctx, otpKey(email)).Result()
}

func (s *OTPStore) Delete(email string) error {
	return s.client.Del(ctx, otpKey(email)).Err()
}
