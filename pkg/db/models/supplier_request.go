package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/coloriginz/supplier-onboarding-backend/pkg/enums"
)

// SupplierRequest is the aggregate root of one onboarding case. It owns its
// files and audit trail; cancellation never clears previously filled data.
type SupplierRequest struct {
	ID           uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	SupplierType enums.SupplierType  `gorm:"column:supplier_type;type:text;not null"`
	Region       enums.Region        `gorm:"column:region;type:text;not null"`
	Label        enums.Label         `gorm:"column:label;type:text;not null"`
	Status       enums.RequestStatus `gorm:"column:status;type:text;not null"`

	CreatedByID uuid.UUID `gorm:"column:created_by_id;type:uuid;not null"`
	SelfFill    bool      `gorm:"column:self_fill;not null;default:false"`

	// Supplier-submitted fields.
	CompanyName  *string `gorm:"column:company_name"`
	Street       *string `gorm:"column:street"`
	PostalCode   *string `gorm:"column:postal_code"`
	City         *string `gorm:"column:city"`
	Country      *string `gorm:"column:country"`
	ContactName  *string `gorm:"column:contact_name"`
	ContactEmail *string `gorm:"column:contact_email"`
	ContactPhone *string `gorm:"column:contact_phone"`

	// Financial identifiers (hidden for auction growers).
	CocNumber *string `gorm:"column:coc_number"`
	VATNumber *string `gorm:"column:vat_number"`
	IBAN      *string `gorm:"column:iban"`
	BankName  *string `gorm:"column:bank_name"`

	// Director details, required outside the EU.
	DirectorName      *string    `gorm:"column:director_name"`
	DirectorBirthDate *time.Time `gorm:"column:director_birth_date"`

	// Auction details, required for auction growers only.
	AuctionNumber   *string `gorm:"column:auction_number"`
	AuctionLocation *string `gorm:"column:auction_location"`

	// Purchaser-added fields.
	Incoterm          *string          `gorm:"column:incoterm"`
	PaymentTerm       *string          `gorm:"column:payment_term"`
	AccountManager    *string          `gorm:"column:account_manager"`
	CommissionPercent *decimal.Decimal `gorm:"column:commission_percent;type:numeric(5,2)"`

	// Finance- and ERP-added identifiers. Partial unique indexes exclude
	// cancelled requests, so a value can be reused after cancellation.
	CreditorNumber *string `gorm:"column:creditor_number"`
	KbtCode        *string `gorm:"column:kbt_code"`

	InvitationToken     *string    `gorm:"column:invitation_token"`
	InvitationExpiresAt *time.Time `gorm:"column:invitation_expires_at"`
	InvitationSentAt    *time.Time `gorm:"column:invitation_sent_at"`
	SupplierSubmittedAt *time.Time `gorm:"column:supplier_submitted_at"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Files []SupplierFile `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE"`
}
