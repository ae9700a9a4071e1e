package enums

import "fmt"

// AuditAction names an event recorded on a request's audit trail.
type AuditAction string

const (
	AuditRequestCreated      AuditAction = "REQUEST_CREATED"
	AuditInvitationSent      AuditAction = "INVITATION_SENT"
	AuditInvitationResent    AuditAction = "INVITATION_RESENT"
	AuditSupplierSubmitted   AuditAction = "SUPPLIER_SUBMITTED"
	AuditPurchaserSubmitted  AuditAction = "PURCHASER_SUBMITTED"
	AuditFinanceSubmitted    AuditAction = "FINANCE_SUBMITTED"
	AuditERPSubmitted        AuditAction = "ERP_SUBMITTED"
	AuditSupplierTypeChanged AuditAction = "SUPPLIER_TYPE_CHANGED"
	AuditRequestCancelled    AuditAction = "REQUEST_CANCELLED"
	AuditRequestReopened     AuditAction = "REQUEST_REOPENED"
	AuditReminderSent        AuditAction = "REMINDER_SENT"
)

var validAuditActions = []AuditAction{
	AuditRequestCreated,
	AuditInvitationSent,
	AuditInvitationResent,
	AuditSupplierSubmitted,
	AuditPurchaserSubmitted,
	AuditFinanceSubmitted,
	AuditERPSubmitted,
	AuditSupplierTypeChanged,
	AuditRequestCancelled,
	AuditRequestReopened,
	AuditReminderSent,
}

// String implements fmt.Stringer.
func (a AuditAction) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AuditAction.
func (a AuditAction) IsValid() bool {
	for _, candidate := range validAuditActions {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAuditAction converts raw input into an AuditAction.
func ParseAuditAction(value string) (AuditAction, error) {
	for _, candidate := range validAuditActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid audit action %q", value)
}
