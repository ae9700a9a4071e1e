package lifecycle

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coloriginz/supplier-onboarding-backend/internal/audit"
	"github.com/coloriginz/supplier-onboarding-backend/internal/notify"
	"github.com/coloriginz/supplier-onboarding-backend/internal/requests"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/db/models"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/enums"
	apperrors "github.com/coloriginz/supplier-onboarding-backend/pkg/errors"
)

func (s *service) ChangeType(ctx context.Context, actor Actor, id uuid.UUID, input ChangeTypeInput) (*models.SupplierRequest, error) {
	if err := requireRole(actor, enums.UserRoleInkoper); err != nil {
		return nil, err
	}
	if !input.SupplierType.IsValid() {
		return nil, apperrors.New(apperrors.CodeValidation, "invalid supplier type")
	}
	request, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if request.Status.IsTerminal() {
		return nil, apperrors.New(apperrors.CodeInvalidStatus, "cannot change type of a closed request")
	}
	if request.SupplierType == input.SupplierType {
		return request, nil
	}

	oldType := request.SupplierType
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		matched, err := s.repo.WithTx(tx).UpdateWhereStatus(ctx, request.ID, request.Status, requests.Patch{
			"supplier_type": input.SupplierType,
		})
		if err != nil {
			return err
		}
		if !matched {
			return casConflict()
		}
		return s.audit.Record(ctx, tx, audit.Entry{
			RequestID: request.ID,
			Action:    enums.AuditSupplierTypeChanged,
			Details:   map[string]any{"old": oldType, "new": input.SupplierType},
			UserID:    actor.userIDPtr(),
		})
	})
	if err != nil {
		return nil, err
	}

	return s.repo.FindByIDWithFiles(ctx, request.ID)
}

func (s *service) Cancel(ctx context.Context, actor Actor, id uuid.UUID) (*models.SupplierRequest, error) {
	if err := requireAnyRole(actor); err != nil {
		return nil, err
	}
	request, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if request.Status.IsTerminal() {
		return nil, apperrors.New(apperrors.CodeInvalidStatus, "request is already closed")
	}

	// Cancellation keeps every previously filled field; only the status moves.
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		matched, err := s.repo.WithTx(tx).UpdateWhereStatus(ctx, request.ID, request.Status, requests.Patch{
			"status": enums.RequestStatusCancelled,
		})
		if err != nil {
			return err
		}
		if !matched {
			return casConflict()
		}
		return s.audit.Record(ctx, tx, audit.Entry{
			RequestID: request.ID,
			Action:    enums.AuditRequestCancelled,
			Details:   map[string]any{"previousStatus": request.Status},
			UserID:    actor.userIDPtr(),
		})
	})
	if err != nil {
		return nil, err
	}

	return s.repo.FindByIDWithFiles(ctx, request.ID)
}

func (s *service) Reopen(ctx context.Context, actor Actor, id uuid.UUID) (*models.SupplierRequest, error) {
	if err := requireAnyRole(actor); err != nil {
		return nil, err
	}
	request, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := requireStatus(request, enums.RequestStatusCancelled); err != nil {
		return nil, err
	}

	reopened := recomputeStatus(request)

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		matched, err := s.repo.WithTx(tx).UpdateWhereStatus(ctx, request.ID, enums.RequestStatusCancelled, requests.Patch{
			"status": reopened,
		})
		if err != nil {
			return err
		}
		if !matched {
			return casConflict()
		}
		return s.audit.Record(ctx, tx, audit.Entry{
			RequestID: request.ID,
			Action:    enums.AuditRequestReopened,
			Details:   map[string]any{"status": reopened},
			UserID:    actor.userIDPtr(),
		})
	})
	if err != nil {
		return nil, err
	}

	return s.repo.FindByIDWithFiles(ctx, request.ID)
}

func (s *service) ResendInvitation(ctx context.Context, actor Actor, id uuid.UUID) (*models.SupplierRequest, error) {
	if err := requireAnyRole(actor); err != nil {
		return nil, err
	}
	request, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := requireStatus(request, enums.RequestStatusInvitationSent); err != nil {
		return nil, err
	}
	if request.ContactEmail == nil {
		return nil, missingField("contactEmail")
	}

	issued, err := s.issuer.Issue(enums.TokenPurposeInvitation)
	if err != nil {
		return nil, err
	}
	sentAt := s.now()

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		matched, err := s.repo.WithTx(tx).UpdateWhereStatus(ctx, request.ID, enums.RequestStatusInvitationSent, requests.Patch{
			"invitation_token":      issued.Value,
			"invitation_expires_at": issued.ExpiresAt,
			"invitation_sent_at":    sentAt,
		})
		if err != nil {
			return err
		}
		if !matched {
			return casConflict()
		}
		return s.audit.Record(ctx, tx, audit.Entry{
			RequestID: request.ID,
			Action:    enums.AuditInvitationResent,
			UserID:    actor.userIDPtr(),
		})
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.FindByIDWithFiles(ctx, request.ID)
	if err != nil {
		return nil, err
	}
	s.dispatch(ctx, notify.Input{
		Event:           notify.EventInvitationSent,
		Request:         updated,
		InvitationToken: issued.Value,
	})
	return updated, nil
}

func (s *service) SendReminder(ctx context.Context, actor Actor, id uuid.UUID) error {
	if err := requireAnyRole(actor); err != nil {
		return err
	}
	request, err := s.load(ctx, actor, id)
	if err != nil {
		return err
	}
	if request.Status.IsTerminal() {
		return apperrors.New(apperrors.CodeInvalidStatus, "request is already closed")
	}

	if err := s.audit.Record(ctx, nil, audit.Entry{
		RequestID: request.ID,
		Action:    enums.AuditReminderSent,
		Details:   map[string]any{"status": request.Status},
		UserID:    actor.userIDPtr(),
	}); err != nil {
		return err
	}

	s.dispatch(ctx, notify.Input{Event: notify.EventReminder, Request: request})
	return nil
}
