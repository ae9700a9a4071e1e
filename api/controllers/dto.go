package controllers

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/coloriginz/supplier-onboarding-backend/internal/typerules"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/db/models"
)

type fileResponse struct {
	ID          uuid.UUID `json:"id"`
	FileType    string    `json:"file_type"`
	FileName    string    `json:"file_name"`
	StoragePath string    `json:"storage_path"`
	CreatedAt   time.Time `json:"created_at"`
}

// requestResponse is the staff view of an onboarding case. The invitation
// token itself never leaves the backend; only its lifecycle timestamps do.
type requestResponse struct {
	ID           uuid.UUID `json:"id"`
	SupplierType string    `json:"supplier_type"`
	Region       string    `json:"region"`
	Label        string    `json:"label"`
	Status       string    `json:"status"`
	SelfFill     bool      `json:"self_fill"`
	CreatedByID  uuid.UUID `json:"created_by_id"`

	CompanyName  *string `json:"company_name,omitempty"`
	Street       *string `json:"street,omitempty"`
	PostalCode   *string `json:"postal_code,omitempty"`
	City         *string `json:"city,omitempty"`
	Country      *string `json:"country,omitempty"`
	ContactName  *string `json:"contact_name,omitempty"`
	ContactEmail *string `json:"contact_email,omitempty"`
	ContactPhone *string `json:"contact_phone,omitempty"`

	CocNumber *string `json:"coc_number,omitempty"`
	VATNumber *string `json:"vat_number,omitempty"`
	IBAN      *string `json:"iban,omitempty"`
	BankName  *string `json:"bank_name,omitempty"`

	DirectorName      *string    `json:"director_name,omitempty"`
	DirectorBirthDate *time.Time `json:"director_birth_date,omitempty"`

	AuctionNumber   *string `json:"auction_number,omitempty"`
	AuctionLocation *string `json:"auction_location,omitempty"`

	Incoterm          *string          `json:"incoterm,omitempty"`
	PaymentTerm       *string          `json:"payment_term,omitempty"`
	AccountManager    *string          `json:"account_manager,omitempty"`
	CommissionPercent *decimal.Decimal `json:"commission_percent,omitempty"`

	CreditorNumber *string `json:"creditor_number,omitempty"`
	KbtCode        *string `json:"kbt_code,omitempty"`

	InvitationSentAt    *time.Time `json:"invitation_sent_at,omitempty"`
	InvitationExpiresAt *time.Time `json:"invitation_expires_at,omitempty"`
	SupplierSubmittedAt *time.Time `json:"supplier_submitted_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Files []fileResponse `json:"files,omitempty"`
}

func toRequestResponse(m *models.SupplierRequest) requestResponse {
	resp := requestResponse{
		ID:                  m.ID,
		SupplierType:        string(m.SupplierType),
		Region:              string(m.Region),
		Label:               string(m.Label),
		Status:              string(m.Status),
		SelfFill:            m.SelfFill,
		CreatedByID:         m.CreatedByID,
		CompanyName:         m.CompanyName,
		Street:              m.Street,
		PostalCode:          m.PostalCode,
		City:                m.City,
		Country:             m.Country,
		ContactName:         m.ContactName,
		ContactEmail:        m.ContactEmail,
		ContactPhone:        m.ContactPhone,
		CocNumber:           m.CocNumber,
		VATNumber:           m.VATNumber,
		IBAN:                m.IBAN,
		BankName:            m.BankName,
		DirectorName:        m.DirectorName,
		DirectorBirthDate:   m.DirectorBirthDate,
		AuctionNumber:       m.AuctionNumber,
		AuctionLocation:     m.AuctionLocation,
		Incoterm:            m.Incoterm,
		PaymentTerm:         m.PaymentTerm,
		AccountManager:      m.AccountManager,
		CommissionPercent:   m.CommissionPercent,
		CreditorNumber:      m.CreditorNumber,
		KbtCode:             m.KbtCode,
		InvitationSentAt:    m.InvitationSentAt,
		InvitationExpiresAt: m.InvitationExpiresAt,
		SupplierSubmittedAt: m.SupplierSubmittedAt,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
	for _, file := range m.Files {
		resp.Files = append(resp.Files, fileResponse{
			ID:          file.ID,
			FileType:    string(file.FileType),
			FileName:    file.FileName,
			StoragePath: file.StoragePath,
			CreatedAt:   file.CreatedAt,
		})
	}
	return resp
}

func toRequestResponses(rows []models.SupplierRequest) []requestResponse {
	out := make([]requestResponse, len(rows))
	for i := range rows {
		out[i] = toRequestResponse(&rows[i])
	}
	return out
}

// formSections tells the portal frontend which field groups to render for
// this supplier type and region.
type formSections struct {
	Financial  bool `json:"financial"`
	Director   bool `json:"director"`
	Auction    bool `json:"auction"`
	BankUpload bool `json:"bank_upload"`
}

// portalResponse is the supplier's own view of the case: prefilled contact
// details plus the form layout, without internal fields like label, creditor
// number or commission.
type portalResponse struct {
	SupplierType string       `json:"supplier_type"`
	Region       string       `json:"region"`
	Status       string       `json:"status"`
	CompanyName  *string      `json:"company_name,omitempty"`
	ContactName  *string      `json:"contact_name,omitempty"`
	ContactEmail *string      `json:"contact_email,omitempty"`
	ExpiresAt    *time.Time   `json:"expires_at,omitempty"`
	Sections     formSections `json:"sections"`
}

func toPortalResponse(m *models.SupplierRequest) portalResponse {
	return portalResponse{
		SupplierType: string(m.SupplierType),
		Region:       string(m.Region),
		Status:       string(m.Status),
		CompanyName:  m.CompanyName,
		ContactName:  m.ContactName,
		ContactEmail: m.ContactEmail,
		ExpiresAt:    m.InvitationExpiresAt,
		Sections: formSections{
			Financial:  typerules.ShowFinancial(m.SupplierType),
			Director:   typerules.ShowDirector(m.SupplierType, m.Region),
			Auction:    typerules.ShowAuction(m.SupplierType),
			BankUpload: typerules.ShowBankUpload(m.SupplierType),
		},
	}
}

type auditResponse struct {
	ID        uuid.UUID       `json:"id"`
	Action    string          `json:"action"`
	Details   json.RawMessage `json:"details,omitempty"`
	UserID    *uuid.UUID      `json:"user_id,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

func toAuditResponses(rows []models.AuditLog) []auditResponse {
	out := make([]auditResponse, len(rows))
	for i, row := range rows {
		out[i] = auditResponse{
			ID:        row.ID,
			Action:    string(row.Action),
			Details:   row.Details,
			UserID:    row.UserID,
			CreatedAt: row.CreatedAt,
		}
	}
	return out
}

type userResponse struct {
	ID                uuid.UUID  `json:"id"`
	Email             string     `json:"email"`
	Name              string     `json:"name"`
	Roles             []string   `json:"roles"`
	Labels            []string   `json:"labels"`
	IsActive          bool       `json:"is_active"`
	ReceiveEmails     bool       `json:"receive_emails"`
	Language          string     `json:"language"`
	PendingActivation bool       `json:"pending_activation"`
	LastLoginAt       *time.Time `json:"last_login_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

func toUserResponse(m *models.User) userResponse {
	return userResponse{
		ID:                m.ID,
		Email:             m.Email,
		Name:              m.Name,
		Roles:             m.Roles,
		Labels:            m.Labels,
		IsActive:          m.IsActive,
		ReceiveEmails:     m.ReceiveEmails,
		Language:          string(m.Language),
		PendingActivation: m.IsPendingActivation(),
		LastLoginAt:       m.LastLoginAt,
		CreatedAt:         m.CreatedAt,
	}
}

func toUserResponses(rows []models.User) []userResponse {
	out := make([]userResponse, len(rows))
	for i := range rows {
		out[i] = toUserResponse(&rows[i])
	}
	return out
}
