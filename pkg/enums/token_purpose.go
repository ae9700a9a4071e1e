package enums

import (
	"fmt"
	"time"
)

// TokenPurpose distinguishes the single-use token flows and their lifetimes.
type TokenPurpose string

const (
	TokenPurposeInvitation    TokenPurpose = "invitation"
	TokenPurposeActivation    TokenPurpose = "activation"
	TokenPurposePasswordReset TokenPurpose = "password_reset"
)

var validTokenPurposes = []TokenPurpose{
	TokenPurposeInvitation,
	TokenPurposeActivation,
	TokenPurposePasswordReset,
}

// String implements fmt.Stringer.
func (t TokenPurpose) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TokenPurpose.
func (t TokenPurpose) IsValid() bool {
	for _, candidate := range validTokenPurposes {
		if candidate == t {
			return true
		}
	}
	return false
}

// TTL returns the absolute lifetime for tokens of this purpose.
func (t TokenPurpose) TTL() time.Duration {
	switch t {
	case TokenPurposeInvitation:
		return 14 * 24 * time.Hour
	case TokenPurposeActivation:
		return 7 * 24 * time.Hour
	case TokenPurposePasswordReset:
		return time.Hour
	}
	return 0
}

// ParseTokenPurpose converts raw input into a TokenPurpose.
func ParseTokenPurpose(value string) (TokenPurpose, error) {
	for _, candidate := range validTokenPurposes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid token purpose %q", value)
}
