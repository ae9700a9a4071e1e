package lifecycle

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/coloriginz/supplier-onboarding-backend/pkg/db/models"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/enums"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/pagination"
)

// Actor is the authenticated principal attempting a transition. Roles are a
// set; a transition is allowed when the set intersects the transition's
// allowed roles. System marks internal callers such as the reminder worker,
// which bypass role checks and audit with a nil user id.
type Actor struct {
	UserID uuid.UUID
	Roles  enums.RoleSet
	Labels []enums.Label
	System bool
}

// SystemActor is the principal used by background jobs.
func SystemActor() Actor {
	return Actor{System: true}
}

func (a Actor) userIDPtr() *uuid.UUID {
	if a.System || a.UserID == uuid.Nil {
		return nil
	}
	id := a.UserID
	return &id
}

func (a Actor) canSeeLabel(label enums.Label) bool {
	if a.System {
		return true
	}
	for _, candidate := range a.Labels {
		if candidate == label {
			return true
		}
	}
	return false
}

// FileMeta describes an already-stored upload to attach to a request.
type FileMeta struct {
	FileType    enums.FileType
	FileName    string
	StoragePath string
}

// CreateInput starts a new onboarding case. Contact details are mandatory
// unless the purchaser fills the form on the supplier's behalf.
type CreateInput struct {
	SupplierType enums.SupplierType
	Region       enums.Region
	Label        enums.Label
	SelfFill     bool
	CompanyName  *string
	ContactName  *string
	ContactEmail *string
}

// SupplierSubmitInput carries the supplier's portal submission.
type SupplierSubmitInput struct {
	CompanyName  string
	Street       string
	PostalCode   string
	City         string
	Country      string
	ContactName  string
	ContactEmail string
	ContactPhone *string

	CocNumber *string
	VATNumber *string
	IBAN      *string
	BankName  *string

	DirectorName      *string
	DirectorBirthDate *time.Time

	AuctionNumber   *string
	AuctionLocation *string

	Files []FileMeta
}

// PurchaserSubmitInput carries the purchasing review fields.
type PurchaserSubmitInput struct {
	Incoterm          *string
	PaymentTerm       *string
	AccountManager    *string
	CommissionPercent *decimal.Decimal
	Files             []FileMeta
}

// FinanceSubmitInput assigns the accounting identifier.
type FinanceSubmitInput struct {
	CreditorNumber string
}

// ERPSubmitInput assigns the ERP identifier, completing the request.
type ERPSubmitInput struct {
	KbtCode string
}

// ChangeTypeInput reclassifies the supplier.
type ChangeTypeInput struct {
	SupplierType enums.SupplierType
}

// ListInput filters the staff listing.
type ListInput struct {
	Status *enums.RequestStatus
	Page   pagination.Params
}

// Service owns the request state machine. Each transition validates the
// actor's roles and the status precondition before mutating, writes its
// audit entries in the same transaction as the state change, and dispatches
// notifications best-effort after commit.
type Service interface {
	Create(ctx context.Context, actor Actor, input CreateInput) (*models.SupplierRequest, error)
	Get(ctx context.Context, actor Actor, id uuid.UUID) (*models.SupplierRequest, error)
	List(ctx context.Context, actor Actor, input ListInput) (pagination.Page[models.SupplierRequest], error)

	// GetByInvitationToken serves the unauthenticated supplier portal.
	GetByInvitationToken(ctx context.Context, token string) (*models.SupplierRequest, error)
	SupplierSubmit(ctx context.Context, token string, input SupplierSubmitInput) (*models.SupplierRequest, error)

	PurchaserSubmit(ctx context.Context, actor Actor, id uuid.UUID, input PurchaserSubmitInput) (*models.SupplierRequest, error)
	FinanceSubmit(ctx context.Context, actor Actor, id uuid.UUID, input FinanceSubmitInput) (*models.SupplierRequest, error)
	ERPSubmit(ctx context.Context, actor Actor, id uuid.UUID, input ERPSubmitInput) (*models.SupplierRequest, error)

	ChangeType(ctx context.Context, actor Actor, id uuid.UUID, input ChangeTypeInput) (*models.SupplierRequest, error)
	Cancel(ctx context.Context, actor Actor, id uuid.UUID) (*models.SupplierRequest, error)
	Reopen(ctx context.Context, actor Actor, id uuid.UUID) (*models.SupplierRequest, error)
	ResendInvitation(ctx context.Context, actor Actor, id uuid.UUID) (*models.SupplierRequest, error)
	SendReminder(ctx context.Context, actor Actor, id uuid.UUID) error
}
