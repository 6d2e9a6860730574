// Package creds loads AngelOne SmartAPI credentials from the environment.
//
// All credentials are read from environment variables (with .env support)
// so nothing sensitive ends up in source control.
package creds

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Credentials holds everything needed to open a SmartAPI session.
type Credentials struct {
	APIKey     string
	ClientID   string
	Password   string
	TOTPSecret string
}

var requiredVars = []string{
	"ANGELONE_API_KEY",
	"ANGELONE_CLIENT_ID",
	"ANGELONE_PASSWORD",
	"ANGELONE_TOTP_SECRET",
}

// Load reads credentials from the environment, loading .env first if
// present. It returns an error naming every missing variable, not just
// the first one.
func Load() (Credentials, error) {
	_ = godotenv.Load()
	return fromEnv()
}

func fromEnv() (Credentials, error) {
	var missing []string
	for _, v := range requiredVars {
		if os.Getenv(v) == "" {
			missing = append(missing, v)
		}
	}
	if len(missing) > 0 {
		return Credentials{}, &MissingError{Vars: missing}
	}

	return Credentials{
		APIKey:     os.Getenv("ANGELONE_API_KEY"),
		ClientID:   os.Getenv("ANGELONE_CLIENT_ID"),
		Password:   os.Getenv("ANGELONE_PASSWORD"),
		TOTPSecret: os.Getenv("ANGELONE_TOTP_SECRET"),
	}, nil
}

// MissingError reports which credential variables are unset.
type MissingError struct {
	Vars []string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("missing credentials in environment: %s", strings.Join(e.Vars, ", "))
}

// Hint returns setup guidance printed by the CLIs when credentials are
// incomplete.
func (e *MissingError) Hint() string {
	var b strings.Builder
	b.WriteString("Missing credentials in .env file:\n")
	for _, v := range e.Vars {
		fmt.Fprintf(&b, "  - %s\n", v)
	}
	b.WriteString("\nCopy .env.example to .env and fill in your values:\n")
	b.WriteString("  cp .env.example .env")
	return b.String()
}
