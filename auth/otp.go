package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net/smtp"
	"os"
	"time"
)

// OTPTTL is how long a registration code stays valid.
const OTPTTL = 10 * time.Minute

// OTPStore holds short-lived, single-use verification codes keyed by
// email. Backed by Redis in production so pending registrations
// survive restarts and scale across instances.
type OTPStore interface {
	Set(email, code string, ttl time.Duration) error
	Get(email string) (string, error)
	Delete(email string) error
}

// GenerateOTP returns a random 6-digit code.
func GenerateOTP() string {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "000000"
	}
	return fmt.Sprintf("%06d", n.Int64()+100000)
}

// SendEmailOTP mails the code via the configured SMTP relay.
func SendEmailOTP(toEmail, otp string) error {
	from := os.Getenv("SMTP_USER")
	pass := os.Getenv("SMTP_PASS")
	smtpHost := os.Getenv("SMTP_HOST")
	smtpPort := os.Getenv("SMTP_PORT")
	if smtpHost == "" {
		smtpHost = "smtp.gmail.com"
	}
	if smtpPort == "" {
		smtpPort = "587"
	}

	msg := []byte("Subject: Your OTP for Registration\n\n" +
		"Your OTP for registering on Plants Store is: " + otp + ". It expires in 10 minutes.")

	authn := smtp.PlainAuth("", from, pass, smtpHost)
	return smtp.SendMail(smtpHost+":"+smtpPort, authn, from, []string{toEmail}, msg)
}
