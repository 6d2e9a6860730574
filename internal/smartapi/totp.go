package smartapi

import (
	"fmt"
	"time"

	"github.com/pquerna/otp/totp"
)

// TOTPCode derives the current 6-digit one-time code from a base32
// shared secret. The secret must use the base32 alphabet (letters A-Z,
// digits 2-7).
func TOTPCode(secret string) (string, error) {
	return totpCodeAt(secret, time.Now())
}

func totpCodeAt(secret string, t time.Time) (string, error) {
	code, err := totp.GenerateCode(secret, t)
	if err != nil {
		return "", fmt.Errorf("generate totp (secret should be a base32 string, letters A-Z and digits 2-7): %w", err)
	}
	return code, nil
}
