package requests

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coloriginz/supplier-onboarding-backend/pkg/db/models"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/enums"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/pagination"
)

// Patch is a partial column update applied together with a status change.
// Map form so columns can be set to NULL, which struct updates silently skip.
type Patch map[string]any

// ListFilter narrows a request listing. Labels scope the listing to what the
// caller may see; an empty slice yields nothing rather than everything.
type ListFilter struct {
	Labels []enums.Label
	Status *enums.RequestStatus
	Cursor *pagination.Cursor
	Limit  int
}

// Repository is the persistence surface for supplier requests and their files.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, request *models.SupplierRequest) (*models.SupplierRequest, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.SupplierRequest, error)
	FindByIDWithFiles(ctx context.Context, id uuid.UUID) (*models.SupplierRequest, error)
	FindByInvitationToken(ctx context.Context, token string) (*models.SupplierRequest, error)

	// UpdateWhereStatus applies the patch only when the row still carries
	// expectedStatus, and reports whether any row matched. A false return
	// with a nil error means the request moved on concurrently.
	UpdateWhereStatus(ctx context.Context, id uuid.UUID, expectedStatus enums.RequestStatus, patch Patch) (bool, error)

	CountCreditorNumber(ctx context.Context, value string, excludeID uuid.UUID) (int64, error)
	CountKbtCode(ctx context.Context, value string, excludeID uuid.UUID) (int64, error)

	CreateFile(ctx context.Context, file *models.SupplierFile) (*models.SupplierFile, error)
	ListFiles(ctx context.Context, requestID uuid.UUID) ([]models.SupplierFile, error)

	List(ctx context.Context, filter ListFilter) ([]models.SupplierRequest, error)
	ListStale(ctx context.Context, updatedBefore time.Time) ([]models.SupplierRequest, error)
}
