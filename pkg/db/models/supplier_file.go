package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/coloriginz/supplier-onboarding-backend/pkg/enums"
)

// SupplierFile is one uploaded document owned by a SupplierRequest. Files are
// only created as a side effect of a submission and are never deleted in the
// normal flow.
type SupplierFile struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	RequestID    uuid.UUID      `gorm:"column:request_id;type:uuid;not null;index"`
	FileType     enums.FileType `gorm:"column:file_type;type:text;not null"`
	FileName     string         `gorm:"column:file_name;not null"`
	StoragePath  string         `gorm:"column:storage_path;not null"`
	UploadedByID *uuid.UUID     `gorm:"column:uploaded_by_id;type:uuid"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
}
