package notify

import (
	"context"

	"github.com/coloriginz/supplier-onboarding-backend/pkg/db/models"
)

// Event names a lifecycle outcome that triggers mail.
type Event string

const (
	EventInvitationSent    Event = "invitation_sent"
	EventSupplierSubmitted Event = "supplier_submitted"
	EventAwaitingFinance   Event = "awaiting_finance"
	EventAwaitingERP       Event = "awaiting_erp"
	EventCompleted         Event = "completed"
	EventReminder          Event = "reminder"
)

// Input carries everything the dispatcher needs to resolve recipients.
// InvitationToken is only set for invitation (re)sends, where the supplier
// mail embeds the portal link.
type Input struct {
	Event           Event
	Request         *models.SupplierRequest
	InvitationToken string
}

// Dispatcher resolves who gets which template for a lifecycle event and
// hands each recipient to the mail sender. Dispatch is best-effort: one
// failed recipient never blocks the others, and the aggregate error is for
// logging only.
type Dispatcher interface {
	Dispatch(ctx context.Context, input Input) error
}
