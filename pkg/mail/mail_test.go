package mail

import (
	"strings"
	"testing"

	"github.com/coloriginz/supplier-onboarding-backend/pkg/enums"
)

func TestRenderBodySubstitutesVars(t *testing.T) {
	body := renderBody(enums.MailReminder, map[string]string{
		"company_name": "Bloemen BV",
		"days_open":    "9",
		"status":       "awaiting_purchaser",
		"request_url":  "https://example.test/requests/1",
	}, enums.LanguageEN)

	if !strings.Contains(body, "Bloemen BV") {
		t.Fatalf("expected company name in body, got %q", body)
	}
	if !strings.Contains(body, "9 days") {
		t.Fatalf("expected days_open in body, got %q", body)
	}
	if strings.Contains(body, "{{") {
		t.Fatalf("unresolved placeholder in body: %q", body)
	}
}

func TestRenderBodyBlanksMissingVars(t *testing.T) {
	body := renderBody(enums.MailSupplierInvitation, nil, enums.LanguageNL)
	if strings.Contains(body, "{{") {
		t.Fatalf("unresolved placeholder in body: %q", body)
	}
}

func TestSubjectUsesLanguage(t *testing.T) {
	vars := map[string]string{"company_name": "Bloemen BV"}

	nl := subjectFor(enums.MailAwaitingFinance, vars, enums.LanguageNL)
	en := subjectFor(enums.MailAwaitingFinance, vars, enums.LanguageEN)

	if nl == en {
		t.Fatalf("expected distinct subjects per language, both %q", nl)
	}
	if !strings.Contains(en, "Bloemen BV") {
		t.Fatalf("expected company name in subject, got %q", en)
	}
}

func TestUnknownLanguageFallsBackToDutch(t *testing.T) {
	body := renderBody(enums.MailSupplierConfirmation, map[string]string{"contact_name": "Jan"}, enums.Language("de"))
	if !strings.Contains(body, "Beste Jan") {
		t.Fatalf("expected dutch fallback, got %q", body)
	}
}

func TestBuildMessageHeaders(t *testing.T) {
	msg := string(buildMessage("noreply@example.test", "jan@example.test", "Hello", "Body"))
	for _, want := range []string{"From: noreply@example.test", "To: jan@example.test", "Subject: Hello", "\r\n\r\nBody"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message missing %q:\n%s", want, msg)
		}
	}
}
