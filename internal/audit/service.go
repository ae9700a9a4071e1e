package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coloriginz/supplier-onboarding-backend/pkg/db/models"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/pagination"
)

type service struct {
	repo Repository
}

// Params wires the audit service dependencies.
type Params struct {
	Repo Repository
}

// NewService builds the audit service.
func NewService(params Params) (Service, error) {
	if params.Repo == nil {
		return nil, errors.New("audit repository is required")
	}
	return &service{repo: params.Repo}, nil
}

func (s *service) Record(ctx context.Context, tx *gorm.DB, entry Entry) error {
	if entry.RequestID == uuid.Nil {
		return errors.New("audit entry requires a request id")
	}
	if !entry.Action.IsValid() {
		return fmt.Errorf("invalid audit action %q", entry.Action)
	}

	var details json.RawMessage
	if entry.Details != nil {
		encoded, err := json.Marshal(entry.Details)
		if err != nil {
			return fmt.Errorf("encoding audit details: %w", err)
		}
		details = encoded
	}

	log := &models.AuditLog{
		RequestID: entry.RequestID,
		Action:    entry.Action,
		Details:   details,
		UserID:    entry.UserID,
	}
	return s.repo.WithTx(tx).Append(ctx, log)
}

func (s *service) List(ctx context.Context, requestID uuid.UUID, params pagination.Params) (pagination.Page[models.AuditLog], error) {
	logs, err := s.repo.ListByRequest(ctx, requestID, params)
	if err != nil {
		return pagination.Page[models.AuditLog]{}, err
	}
	return pagination.TrimPage(logs, params.Limit, func(log models.AuditLog) pagination.Cursor {
		return pagination.Cursor{CreatedAt: log.CreatedAt, ID: log.ID}
	}), nil
}
