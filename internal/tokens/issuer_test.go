package tokens

import (
	"bytes"
	"testing"
	"time"

	"github.com/coloriginz/supplier-onboarding-backend/pkg/enums"
	apperrors "github.com/coloriginz/supplier-onboarding-backend/pkg/errors"
)

var frozen = time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

func frozenClock() func() time.Time {
	return func() time.Time { return frozen }
}

func TestIssueExpirations(t *testing.T) {
	issuer := NewIssuer(WithClock(frozenClock()))

	cases := []struct {
		purpose enums.TokenPurpose
		ttl     time.Duration
	}{
		{enums.TokenPurposeInvitation, 14 * 24 * time.Hour},
		{enums.TokenPurposeActivation, 7 * 24 * time.Hour},
		{enums.TokenPurposePasswordReset, time.Hour},
	}
	for _, tc := range cases {
		issued, err := issuer.Issue(tc.purpose)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.purpose, err)
		}
		if issued.Value == "" {
			t.Fatalf("%s: empty token value", tc.purpose)
		}
		if want := frozen.Add(tc.ttl); !issued.ExpiresAt.Equal(want) {
			t.Fatalf("%s: expiry %v, want %v", tc.purpose, issued.ExpiresAt, want)
		}
	}
}

func TestIssueRejectsUnknownPurpose(t *testing.T) {
	issuer := NewIssuer(WithClock(frozenClock()))
	if _, err := issuer.Issue(enums.TokenPurpose("session")); err == nil {
		t.Fatal("expected error for unknown purpose")
	}
}

func TestIssueValuesAreUnique(t *testing.T) {
	issuer := NewIssuer()
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		issued, err := issuer.Issue(enums.TokenPurposeInvitation)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if seen[issued.Value] {
			t.Fatalf("duplicate token value on iteration %d", i)
		}
		seen[issued.Value] = true
	}
}

func TestIssueDeterministicWithPinnedRandom(t *testing.T) {
	source := bytes.NewReader(bytes.Repeat([]byte{0x42}, tokenBytes*2))
	issuer := NewIssuer(WithClock(frozenClock()), WithRandom(source))

	first, err := issuer.Issue(enums.TokenPurposeInvitation)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := issuer.Issue(enums.TokenPurposeInvitation)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Value != second.Value {
		t.Fatal("identical random input should produce identical tokens")
	}
}

func TestValidate(t *testing.T) {
	issuer := NewIssuer(WithClock(frozenClock()))
	value := "tok-abc"
	future := frozen.Add(time.Hour)
	past := frozen.Add(-time.Minute)

	cases := []struct {
		name      string
		presented string
		stored    *string
		expiresAt *time.Time
		wantCode  apperrors.Code
	}{
		{"valid", value, &value, &future, ""},
		{"mismatch", "other", &value, &future, apperrors.CodeTokenInvalid},
		{"consumed", value, nil, &future, apperrors.CodeTokenInvalid},
		{"empty presented", "", &value, &future, apperrors.CodeTokenInvalid},
		{"expired", value, &value, &past, apperrors.CodeTokenExpired},
		{"no expiry on record", value, &value, nil, apperrors.CodeTokenExpired},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := issuer.Validate(tc.presented, tc.stored, tc.expiresAt)
			if tc.wantCode == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !apperrors.IsCode(err, tc.wantCode) {
				t.Fatalf("expected code %s, got %v", tc.wantCode, err)
			}
		})
	}
}
