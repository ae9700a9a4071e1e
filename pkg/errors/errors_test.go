package errors

import (
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	cases := []struct {
		code   Code
		status int
	}{
		{CodeMissingField, http.StatusBadRequest},
		{CodeForbiddenRole, http.StatusForbidden},
		{CodeInvalidStatus, http.StatusUnprocessableEntity},
		{CodeDuplicate, http.StatusConflict},
		{CodeTokenInvalid, http.StatusUnauthorized},
		{CodeTokenExpired, http.StatusGone},
		{CodeNotFound, http.StatusNotFound},
	}
	for _, tc := range cases {
		if got := MetadataFor(tc.code).HTTPStatus; got != tc.status {
			t.Fatalf("code %s: expected status %d got %d", tc.code, tc.status, got)
		}
	}
}

func TestMetadataForUnknownCodeFallsBack(t *testing.T) {
	meta := MetadataFor(Code("NOPE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal fallback, got %d", meta.HTTPStatus)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := Wrap(CodeDependency, cause, "sending mail")
	if err.Unwrap() != cause {
		t.Fatal("expected cause to unwrap")
	}
	if As(err) == nil {
		t.Fatal("expected typed error via As")
	}
	if !IsCode(err, CodeDependency) {
		t.Fatal("expected IsCode to match")
	}
}

func TestAsThroughWrapping(t *testing.T) {
	inner := New(CodeDuplicate, "creditor number taken")
	outer := fmt.Errorf("finance submit: %w", inner)
	typed := As(outer)
	if typed == nil || typed.Code() != CodeDuplicate {
		t.Fatalf("expected DUPLICATE_VALUE through wrap, got %v", typed)
	}
}
