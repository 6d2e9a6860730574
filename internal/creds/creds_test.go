package creds

import (
	"errors"
	"strings"
	"testing"
)

func setAll(t *testing.T) {
	t.Helper()
	t.Setenv("ANGELONE_API_KEY", "key")
	t.Setenv("ANGELONE_CLIENT_ID", "A12345678")
	t.Setenv("ANGELONE_PASSWORD", "1234")
	t.Setenv("ANGELONE_TOTP_SECRET", "GEZDGNBVGY3TQOJQ")
}

func TestLoadComplete(t *testing.T) {
	setAll(t)

	cr, err := fromEnv()
	if err != nil {
		t.Fatalf("fromEnv returned error: %v", err)
	}
	if cr.ClientID != "A12345678" || cr.APIKey != "key" {
		t.Errorf("credentials = %+v", cr)
	}
}

func TestLoadReportsAllMissing(t *testing.T) {
	setAll(t)
	t.Setenv("ANGELONE_PASSWORD", "")
	t.Setenv("ANGELONE_TOTP_SECRET", "")

	_, err := fromEnv()
	if err == nil {
		t.Fatal("expected error for missing credentials")
	}

	var missing *MissingError
	if !errors.As(err, &missing) {
		t.Fatalf("expected *MissingError, got %T", err)
	}
	if len(missing.Vars) != 2 {
		t.Fatalf("missing vars = %v, want 2 entries", missing.Vars)
	}
	for _, want := range []string{"ANGELONE_PASSWORD", "ANGELONE_TOTP_SECRET"} {
		found := false
		for _, v := range missing.Vars {
			if v == want {
				found = true
			}
		}
		if !found {
			t.Errorf("missing var %s not reported, got %v", want, missing.Vars)
		}
	}
}

func TestMissingErrorHint(t *testing.T) {
	err := &MissingError{Vars: []string{"ANGELONE_API_KEY"}}
	hint := err.Hint()
	if !strings.Contains(hint, "ANGELONE_API_KEY") {
		t.Errorf("hint does not name the variable:\n%s", hint)
	}
	if !strings.Contains(hint, ".env.example") {
		t.Errorf("hint does not mention .env.example:\n%s", hint)
	}
}
