package lifecycle

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coloriginz/supplier-onboarding-backend/internal/audit"
	"github.com/coloriginz/supplier-onboarding-backend/internal/notify"
	"github.com/coloriginz/supplier-onboarding-backend/internal/requests"
	"github.com/coloriginz/supplier-onboarding-backend/internal/typerules"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/db"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/db/models"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/enums"
	apperrors "github.com/coloriginz/supplier-onboarding-backend/pkg/errors"
)

func (s *service) Create(ctx context.Context, actor Actor, input CreateInput) (*models.SupplierRequest, error) {
	if err := requireRole(actor, enums.UserRoleInkoper); err != nil {
		return nil, err
	}
	if !input.SupplierType.IsValid() {
		return nil, apperrors.New(apperrors.CodeValidation, "invalid supplier type")
	}
	if !input.Region.IsValid() {
		return nil, apperrors.New(apperrors.CodeValidation, "invalid region")
	}
	if !input.Label.IsValid() {
		return nil, apperrors.New(apperrors.CodeValidation, "invalid label")
	}
	if !actor.canSeeLabel(input.Label) {
		return nil, apperrors.New(apperrors.CodeForbiddenRole, "actor has no access to this label")
	}

	request := &models.SupplierRequest{
		ID:           uuid.New(),
		SupplierType: input.SupplierType,
		Region:       input.Region,
		Label:        input.Label,
		CreatedByID:  actor.UserID,
		SelfFill:     input.SelfFill,
		CompanyName:  trimPtr(input.CompanyName),
		ContactName:  trimPtr(input.ContactName),
		ContactEmail: trimPtr(input.ContactEmail),
	}

	var invitationToken string
	if input.SelfFill {
		request.Status = enums.RequestStatusAwaitingPurchaser
	} else {
		if request.ContactEmail == nil {
			return nil, missingField("contactEmail")
		}
		issued, err := s.issuer.Issue(enums.TokenPurposeInvitation)
		if err != nil {
			return nil, err
		}
		invitationToken = issued.Value
		sentAt := s.now()
		request.Status = enums.RequestStatusInvitationSent
		request.InvitationToken = &issued.Value
		request.InvitationExpiresAt = &issued.ExpiresAt
		request.InvitationSentAt = &sentAt
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.WithTx(tx).Create(ctx, request); err != nil {
			return err
		}
		entry := audit.Entry{
			RequestID: request.ID,
			Action:    enums.AuditRequestCreated,
			Details: map[string]any{
				"supplierType": request.SupplierType,
				"region":       request.Region,
				"label":        request.Label,
				"selfFill":     request.SelfFill,
			},
			UserID: actor.userIDPtr(),
		}
		if err := s.audit.Record(ctx, tx, entry); err != nil {
			return err
		}
		if invitationToken != "" {
			return s.audit.Record(ctx, tx, audit.Entry{
				RequestID: request.ID,
				Action:    enums.AuditInvitationSent,
				UserID:    actor.userIDPtr(),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if invitationToken != "" {
		s.dispatch(ctx, notify.Input{
			Event:           notify.EventInvitationSent,
			Request:         request,
			InvitationToken: invitationToken,
		})
	}
	return request, nil
}

func (s *service) GetByInvitationToken(ctx context.Context, token string) (*models.SupplierRequest, error) {
	request, err := s.findByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := s.issuer.Validate(token, request.InvitationToken, request.InvitationExpiresAt); err != nil {
		return nil, err
	}
	if err := requireStatus(request, enums.RequestStatusInvitationSent); err != nil {
		return nil, err
	}
	return request, nil
}

func (s *service) SupplierSubmit(ctx context.Context, token string, input SupplierSubmitInput) (*models.SupplierRequest, error) {
	request, err := s.findByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := s.issuer.Validate(token, request.InvitationToken, request.InvitationExpiresAt); err != nil {
		return nil, err
	}
	if err := requireStatus(request, enums.RequestStatusInvitationSent); err != nil {
		return nil, err
	}
	if err := validateSupplierFields(request, &input); err != nil {
		return nil, err
	}

	submittedAt := s.now()
	patch := requests.Patch{
		"status":                enums.RequestStatusAwaitingPurchaser,
		"company_name":          input.CompanyName,
		"street":                input.Street,
		"postal_code":           input.PostalCode,
		"city":                  input.City,
		"country":               input.Country,
		"contact_name":          input.ContactName,
		"contact_email":         input.ContactEmail,
		"contact_phone":         input.ContactPhone,
		"coc_number":            input.CocNumber,
		"vat_number":            input.VATNumber,
		"iban":                  input.IBAN,
		"bank_name":             input.BankName,
		"director_name":         input.DirectorName,
		"director_birth_date":   input.DirectorBirthDate,
		"auction_number":        input.AuctionNumber,
		"auction_location":      input.AuctionLocation,
		"invitation_token":      nil,
		"supplier_submitted_at": submittedAt,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		matched, err := repo.UpdateWhereStatus(ctx, request.ID, enums.RequestStatusInvitationSent, patch)
		if err != nil {
			return err
		}
		if !matched {
			return casConflict()
		}
		if err := s.attachFiles(ctx, repo, request.ID, nil, input.Files); err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, audit.Entry{
			RequestID: request.ID,
			Action:    enums.AuditSupplierSubmitted,
			Details:   map[string]any{"companyName": input.CompanyName},
		})
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.FindByIDWithFiles(ctx, request.ID)
	if err != nil {
		return nil, err
	}
	s.dispatch(ctx, notify.Input{Event: notify.EventSupplierSubmitted, Request: updated})
	return updated, nil
}

func (s *service) PurchaserSubmit(ctx context.Context, actor Actor, id uuid.UUID, input PurchaserSubmitInput) (*models.SupplierRequest, error) {
	if err := requireRole(actor, enums.UserRoleInkoper); err != nil {
		return nil, err
	}
	request, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := requireStatus(request, enums.RequestStatusAwaitingPurchaser); err != nil {
		return nil, err
	}
	if typerules.RequiresIncoterm(request.SupplierType) && isBlank(input.Incoterm) {
		return nil, missingField("incoterm")
	}

	patch := requests.Patch{
		"status":             enums.RequestStatusAwaitingFinance,
		"incoterm":           trimPtr(input.Incoterm),
		"payment_term":       trimPtr(input.PaymentTerm),
		"account_manager":    trimPtr(input.AccountManager),
		"commission_percent": input.CommissionPercent,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		matched, err := repo.UpdateWhereStatus(ctx, request.ID, enums.RequestStatusAwaitingPurchaser, patch)
		if err != nil {
			return err
		}
		if !matched {
			return casConflict()
		}
		if err := s.attachFiles(ctx, repo, request.ID, actor.userIDPtr(), input.Files); err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, audit.Entry{
			RequestID: request.ID,
			Action:    enums.AuditPurchaserSubmitted,
			Details: map[string]any{
				"incoterm":       input.Incoterm,
				"paymentTerm":    input.PaymentTerm,
				"accountManager": input.AccountManager,
			},
			UserID: actor.userIDPtr(),
		})
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.FindByIDWithFiles(ctx, request.ID)
	if err != nil {
		return nil, err
	}
	s.dispatch(ctx, notify.Input{Event: notify.EventAwaitingFinance, Request: updated})
	return updated, nil
}

func (s *service) FinanceSubmit(ctx context.Context, actor Actor, id uuid.UUID, input FinanceSubmitInput) (*models.SupplierRequest, error) {
	if err := requireRole(actor, enums.UserRoleFinance); err != nil {
		return nil, err
	}
	request, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := requireStatus(request, enums.RequestStatusAwaitingFinance); err != nil {
		return nil, err
	}

	creditorNumber := strings.TrimSpace(input.CreditorNumber)
	if creditorNumber == "" {
		return nil, missingField("creditorNumber")
	}
	if err := s.requireUnique(ctx, s.repo.CountCreditorNumber, creditorNumber, request.ID, "creditorNumber"); err != nil {
		return nil, err
	}

	patch := requests.Patch{
		"status":          enums.RequestStatusAwaitingERP,
		"creditor_number": creditorNumber,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		matched, err := s.repo.WithTx(tx).UpdateWhereStatus(ctx, request.ID, enums.RequestStatusAwaitingFinance, patch)
		if err != nil {
			return err
		}
		if !matched {
			return casConflict()
		}
		return s.audit.Record(ctx, tx, audit.Entry{
			RequestID: request.ID,
			Action:    enums.AuditFinanceSubmitted,
			Details:   map[string]any{"creditorNumber": creditorNumber},
			UserID:    actor.userIDPtr(),
		})
	})
	if err != nil {
		return nil, duplicateOr(err, "creditorNumber")
	}

	updated, err := s.repo.FindByIDWithFiles(ctx, request.ID)
	if err != nil {
		return nil, err
	}
	s.dispatch(ctx, notify.Input{Event: notify.EventAwaitingERP, Request: updated})
	return updated, nil
}

func (s *service) ERPSubmit(ctx context.Context, actor Actor, id uuid.UUID, input ERPSubmitInput) (*models.SupplierRequest, error) {
	if err := requireRole(actor, enums.UserRoleERP); err != nil {
		return nil, err
	}
	request, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := requireStatus(request, enums.RequestStatusAwaitingERP); err != nil {
		return nil, err
	}

	kbtCode := strings.TrimSpace(input.KbtCode)
	if kbtCode == "" {
		return nil, missingField("kbtCode")
	}
	if err := s.requireUnique(ctx, s.repo.CountKbtCode, kbtCode, request.ID, "kbtCode"); err != nil {
		return nil, err
	}

	patch := requests.Patch{
		"status":   enums.RequestStatusCompleted,
		"kbt_code": kbtCode,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		matched, err := s.repo.WithTx(tx).UpdateWhereStatus(ctx, request.ID, enums.RequestStatusAwaitingERP, patch)
		if err != nil {
			return err
		}
		if !matched {
			return casConflict()
		}
		return s.audit.Record(ctx, tx, audit.Entry{
			RequestID: request.ID,
			Action:    enums.AuditERPSubmitted,
			Details:   map[string]any{"kbtCode": kbtCode},
			UserID:    actor.userIDPtr(),
		})
	})
	if err != nil {
		return nil, duplicateOr(err, "kbtCode")
	}

	updated, err := s.repo.FindByIDWithFiles(ctx, request.ID)
	if err != nil {
		return nil, err
	}
	s.dispatch(ctx, notify.Input{Event: notify.EventCompleted, Request: updated})
	return updated, nil
}

func (s *service) findByToken(ctx context.Context, token string) (*models.SupplierRequest, error) {
	if strings.TrimSpace(token) == "" {
		return nil, apperrors.New(apperrors.CodeTokenInvalid, "token is invalid")
	}
	request, err := s.repo.FindByInvitationToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeTokenInvalid, "token is invalid")
		}
		return nil, err
	}
	return request, nil
}

func (s *service) attachFiles(ctx context.Context, repo requests.Repository, requestID uuid.UUID, uploadedBy *uuid.UUID, files []FileMeta) error {
	for _, meta := range files {
		if !meta.FileType.IsValid() {
			return apperrors.New(apperrors.CodeValidation, "invalid file type").
				WithDetails(map[string]any{"fileType": meta.FileType})
		}
		file := &models.SupplierFile{
			RequestID:    requestID,
			FileType:     meta.FileType,
			FileName:     meta.FileName,
			StoragePath:  meta.StoragePath,
			UploadedByID: uploadedBy,
		}
		if _, err := repo.CreateFile(ctx, file); err != nil {
			return err
		}
	}
	return nil
}

type countFunc func(ctx context.Context, value string, excludeID uuid.UUID) (int64, error)

// requireUnique pre-checks an identifier against non-cancelled requests. The
// partial unique index remains the authority; this check just produces a
// friendly rejection before opening a transaction.
func (s *service) requireUnique(ctx context.Context, count countFunc, value string, excludeID uuid.UUID, field string) error {
	n, err := count(ctx, value, excludeID)
	if err != nil {
		return err
	}
	if n > 0 {
		return duplicateField(field)
	}
	return nil
}

// duplicateOr maps a unique index violation raced past the pre-check onto
// the same rejection the pre-check would have produced.
func duplicateOr(err error, field string) error {
	if db.IsUniqueViolation(err, "") {
		return duplicateField(field)
	}
	return err
}

func duplicateField(field string) error {
	return apperrors.New(apperrors.CodeDuplicate, "value is already in use").
		WithDetails(map[string]any{"field": field})
}

func validateSupplierFields(request *models.SupplierRequest, input *SupplierSubmitInput) error {
	required := []struct {
		name  string
		value string
	}{
		{"companyName", input.CompanyName},
		{"street", input.Street},
		{"postalCode", input.PostalCode},
		{"city", input.City},
		{"country", input.Country},
		{"contactName", input.ContactName},
		{"contactEmail", input.ContactEmail},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return missingField(field.name)
		}
	}

	if typerules.ShowFinancial(request.SupplierType) {
		if isBlank(input.CocNumber) {
			return missingField("cocNumber")
		}
		if isBlank(input.VATNumber) {
			return missingField("vatNumber")
		}
		if isBlank(input.IBAN) {
			return missingField("iban")
		}
	}
	if typerules.ShowDirector(request.SupplierType, request.Region) {
		if isBlank(input.DirectorName) {
			return missingField("directorName")
		}
		if input.DirectorBirthDate == nil {
			return missingField("directorBirthDate")
		}
	}
	if typerules.ShowAuction(request.SupplierType) {
		if isBlank(input.AuctionNumber) {
			return missingField("auctionNumber")
		}
	}
	return nil
}

func isBlank(value *string) bool {
	return value == nil || strings.TrimSpace(*value) == ""
}

func trimPtr(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
