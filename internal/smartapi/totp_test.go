package smartapi

import (
	"testing"
	"time"
)

func TestTOTPCodeKnownVectors(t *testing.T) {
	// RFC 6238 Appendix B vectors, truncated to 6 digits.
	tests := []struct {
		unix int64
		want string
	}{
		{59, "287082"},
		{1111111109, "081804"},
		{1234567890, "005924"},
	}

	for _, tt := range tests {
		code, err := totpCodeAt(testSecret, time.Unix(tt.unix, 0))
		if err != nil {
			t.Fatalf("totpCodeAt(%d) returned error: %v", tt.unix, err)
		}
		if code != tt.want {
			t.Errorf("totpCodeAt(%d) = %s, want %s", tt.unix, code, tt.want)
		}
	}
}

func TestTOTPCodeInvalidSecret(t *testing.T) {
	if _, err := TOTPCode("this is not base32!"); err == nil {
		t.Fatal("expected error for non-base32 secret")
	}
}

func TestTOTPCodeLength(t *testing.T) {
	code, err := TOTPCode(testSecret)
	if err != nil {
		t.Fatalf("TOTPCode returned error: %v", err)
	}
	if len(code) != 6 {
		t.Errorf("code = %q, want 6 digits", code)
	}
}
