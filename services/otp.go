package services

import (
	"crypto/rand"
	"math/big"
	"regexp"
	"time"
)

// OTPTTL is how long an emailed verification code stays valid.
const OTPTTL = 10 * time.Minute

var otpFormat = regexp.MustCompile(`^\d{6}$`)

// GenerateOTP returns a 6-digit verification code.
func GenerateOTP() string {
	code := ""
	for i := 0; i < 6; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			// Fallback to 0 in the unlikely event of entropy failure
			code += "0"
			continue
		}
		code += n.String()
	}
	return code
}

// OTPExpiration returns the expiry for a code issued now.
func OTPExpiration(now time.Time) time.Time {
	return now.Add(OTPTTL)
}

// IsOTPExpired reports whether the code's window has passed.
func IsOTPExpired(expires *time.Time, now time.Time) bool {
	return expires == nil || now.After(*expires)
}

// ValidOTPFormat reports whether otp is exactly six digits.
func ValidOTPFormat(otp string) bool {
	return otpFormat.MatchString(otp)
}
