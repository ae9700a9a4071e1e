package enums

import "fmt"

// RequestStatus tracks the lifecycle of a supplier onboarding request.
type RequestStatus string

const (
	RequestStatusInvitationSent    RequestStatus = "invitation_sent"
	RequestStatusAwaitingPurchaser RequestStatus = "awaiting_purchaser"
	RequestStatusAwaitingFinance   RequestStatus = "awaiting_finance"
	RequestStatusAwaitingERP       RequestStatus = "awaiting_erp"
	RequestStatusCompleted         RequestStatus = "completed"
	RequestStatusCancelled         RequestStatus = "cancelled"
)

var validRequestStatuses = []RequestStatus{
	RequestStatusInvitationSent,
	RequestStatusAwaitingPurchaser,
	RequestStatusAwaitingFinance,
	RequestStatusAwaitingERP,
	RequestStatusCompleted,
	RequestStatusCancelled,
}

// String implements fmt.Stringer.
func (r RequestStatus) String() string {
	return string(r)
}

// IsValid reports whether the value is a known RequestStatus.
func (r RequestStatus) IsValid() bool {
	for _, candidate := range validRequestStatuses {
		if candidate == r {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible except reopen.
func (r RequestStatus) IsTerminal() bool {
	return r == RequestStatusCompleted || r == RequestStatusCancelled
}

// ParseRequestStatus converts raw input into a RequestStatus.
func ParseRequestStatus(value string) (RequestStatus, error) {
	for _, candidate := range validRequestStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid request status %q", value)
}
