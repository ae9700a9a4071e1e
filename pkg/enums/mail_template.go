package enums

import "fmt"

// MailTemplate identifies which rendered email a recipient receives. The
// dispatcher only picks template keys; rendering lives with the mail sender.
type MailTemplate string

const (
	MailSupplierInvitation   MailTemplate = "supplier_invitation"
	MailSupplierConfirmation MailTemplate = "supplier_confirmation"
	MailSupplierSubmitted    MailTemplate = "supplier_submitted"
	MailAwaitingFinance      MailTemplate = "awaiting_finance"
	MailAwaitingERP          MailTemplate = "awaiting_erp"
	MailRequestCompleted     MailTemplate = "request_completed"
	MailReminder             MailTemplate = "reminder"
	MailUserActivation       MailTemplate = "user_activation"
	MailPasswordReset        MailTemplate = "password_reset"
)

var validMailTemplates = []MailTemplate{
	MailSupplierInvitation,
	MailSupplierConfirmation,
	MailSupplierSubmitted,
	MailAwaitingFinance,
	MailAwaitingERP,
	MailRequestCompleted,
	MailReminder,
	MailUserActivation,
	MailPasswordReset,
}

// String implements fmt.Stringer.
func (m MailTemplate) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MailTemplate.
func (m MailTemplate) IsValid() bool {
	for _, candidate := range validMailTemplates {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMailTemplate converts raw input into a MailTemplate.
func ParseMailTemplate(value string) (MailTemplate, error) {
	for _, candidate := range validMailTemplates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid mail template %q", value)
}
