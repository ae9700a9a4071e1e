// Package tokens issues and validates the single-use tokens backing the
// invitation, account activation and password reset flows.
package tokens

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"time"

	"github.com/coloriginz/supplier-onboarding-backend/pkg/enums"
	apperrors "github.com/coloriginz/supplier-onboarding-backend/pkg/errors"
)

const tokenBytes = 32

// Issued is a freshly generated token value with its absolute expiry.
type Issued struct {
	Value     string
	ExpiresAt time.Time
}

// Issuer generates and validates tokens. The clock and random source are
// injectable so tests can pin both.
type Issuer struct {
	now    func() time.Time
	random io.Reader
}

// Option configures an Issuer.
type Option func(*Issuer)

func WithClock(now func() time.Time) Option {
	return func(i *Issuer) { i.now = now }
}

func WithRandom(r io.Reader) Option {
	return func(i *Issuer) { i.random = r }
}

func NewIssuer(opts ...Option) *Issuer {
	issuer := &Issuer{
		now:    time.Now,
		random: rand.Reader,
	}
	for _, opt := range opts {
		opt(issuer)
	}
	return issuer
}

// Issue returns a new token for the given purpose. The value is URL-safe so
// it can travel in links without escaping.
func (i *Issuer) Issue(purpose enums.TokenPurpose) (Issued, error) {
	if !purpose.IsValid() {
		return Issued{}, fmt.Errorf("invalid token purpose %q", purpose)
	}

	buf := make([]byte, tokenBytes)
	if _, err := io.ReadFull(i.random, buf); err != nil {
		return Issued{}, fmt.Errorf("generating token: %w", err)
	}

	return Issued{
		Value:     base64.RawURLEncoding.EncodeToString(buf),
		ExpiresAt: i.now().Add(purpose.TTL()),
	}, nil
}

// Validate checks a presented token against the stored value and expiry. A
// nil stored value means the token was never issued or already consumed,
// which is reported as invalid rather than expired so callers can offer the
// right recovery path.
func (i *Issuer) Validate(presented string, stored *string, expiresAt *time.Time) error {
	if presented == "" || stored == nil || *stored != presented {
		return apperrors.New(apperrors.CodeTokenInvalid, "token is invalid")
	}
	if expiresAt == nil || i.now().After(*expiresAt) {
		return apperrors.New(apperrors.CodeTokenExpired, "token has expired")
	}
	return nil
}
