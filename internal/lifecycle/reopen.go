package lifecycle

import (
	"github.com/coloriginz/supplier-onboarding-backend/pkg/db/models"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/enums"
)

// recomputeStatus derives a reopened request's position in the pipeline from
// which fields are populated. This is a heuristic, not a replay of the audit
// trail: it can misclassify a request whose fields were set out of the usual
// order. Deriving the status from the last pre-cancellation audit entry
// would be more robust; the field heuristic is kept as the default behavior.
func recomputeStatus(request *models.SupplierRequest) enums.RequestStatus {
	switch {
	case request.KbtCode != nil:
		return enums.RequestStatusCompleted
	case request.CreditorNumber != nil:
		return enums.RequestStatusAwaitingERP
	case hasPurchaserData(request):
		return enums.RequestStatusAwaitingFinance
	case request.SelfFill || request.SupplierSubmittedAt != nil:
		return enums.RequestStatusAwaitingPurchaser
	default:
		return enums.RequestStatusInvitationSent
	}
}

func hasPurchaserData(request *models.SupplierRequest) bool {
	return request.Incoterm != nil || request.AccountManager != nil || request.PaymentTerm != nil
}
