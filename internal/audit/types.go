package audit

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coloriginz/supplier-onboarding-backend/pkg/db/models"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/enums"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/pagination"
)

// Entry is one event to append to a request's trail. Details is marshalled
// to JSON; a nil value stores a null details column.
type Entry struct {
	RequestID uuid.UUID
	Action    enums.AuditAction
	Details   any
	UserID    *uuid.UUID
}

// Repository is the append side of the trail. There is no update or delete.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Append(ctx context.Context, log *models.AuditLog) error
	ListByRequest(ctx context.Context, requestID uuid.UUID, params pagination.Params) ([]models.AuditLog, error)
}

// Service records and lists audit events.
type Service interface {
	// Record appends one entry. When tx is non-nil the write joins that
	// transaction so the trail commits atomically with the transition.
	Record(ctx context.Context, tx *gorm.DB, entry Entry) error
	List(ctx context.Context, requestID uuid.UUID, params pagination.Params) (pagination.Page[models.AuditLog], error)
}
