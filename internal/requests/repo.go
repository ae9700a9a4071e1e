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

type repository struct {
	db *gorm.DB
}

// NewRepository builds a requests repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, request *models.SupplierRequest) (*models.SupplierRequest, error) {
	if err := r.db.WithContext(ctx).Create(request).Error; err != nil {
		return nil, err
	}
	return request, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.SupplierRequest, error) {
	var request models.SupplierRequest
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *repository) FindByIDWithFiles(ctx context.Context, id uuid.UUID) (*models.SupplierRequest, error) {
	var request models.SupplierRequest
	err := r.db.WithContext(ctx).
		Preload("Files").
		Where("id = ?", id).
		First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *repository) FindByInvitationToken(ctx context.Context, token string) (*models.SupplierRequest, error) {
	var request models.SupplierRequest
	err := r.db.WithContext(ctx).
		Where("invitation_token = ?", token).
		First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *repository) UpdateWhereStatus(ctx context.Context, id uuid.UUID, expectedStatus enums.RequestStatus, patch Patch) (bool, error) {
	if len(patch) == 0 {
		return false, nil
	}
	patch["updated_at"] = time.Now().UTC()

	result := r.db.WithContext(ctx).
		Model(&models.SupplierRequest{}).
		Where("id = ? AND status = ?", id, expectedStatus).
		Updates(map[string]any(patch))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) CountCreditorNumber(ctx context.Context, value string, excludeID uuid.UUID) (int64, error) {
	return r.countActiveIdentifier(ctx, "creditor_number", value, excludeID)
}

func (r *repository) CountKbtCode(ctx context.Context, value string, excludeID uuid.UUID) (int64, error) {
	return r.countActiveIdentifier(ctx, "kbt_code", value, excludeID)
}

func (r *repository) countActiveIdentifier(ctx context.Context, column, value string, excludeID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SupplierRequest{}).
		Where(column+" = ? AND status <> ? AND id <> ?", value, enums.RequestStatusCancelled, excludeID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) CreateFile(ctx context.Context, file *models.SupplierFile) (*models.SupplierFile, error) {
	if err := r.db.WithContext(ctx).Create(file).Error; err != nil {
		return nil, err
	}
	return file, nil
}

func (r *repository) ListFiles(ctx context.Context, requestID uuid.UUID) ([]models.SupplierFile, error) {
	var files []models.SupplierFile
	err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("created_at ASC").
		Find(&files).Error
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]models.SupplierRequest, error) {
	if len(filter.Labels) == 0 {
		return nil, nil
	}

	query := r.db.WithContext(ctx).
		Model(&models.SupplierRequest{}).
		Where("label IN ?", filter.Labels)

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			filter.Cursor.CreatedAt, filter.Cursor.CreatedAt, filter.Cursor.ID,
		)
	}

	var rows []models.SupplierRequest
	err := query.
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(filter.Limit)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListStale(ctx context.Context, updatedBefore time.Time) ([]models.SupplierRequest, error) {
	var rows []models.SupplierRequest
	err := r.db.WithContext(ctx).
		Where("status IN ?", []enums.RequestStatus{
			enums.RequestStatusInvitationSent,
			enums.RequestStatusAwaitingPurchaser,
			enums.RequestStatusAwaitingFinance,
			enums.RequestStatusAwaitingERP,
		}).
		Where("updated_at < ?", updatedBefore).
		Order("updated_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
