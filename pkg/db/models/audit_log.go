package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/coloriginz/supplier-onboarding-backend/pkg/enums"
)

// AuditLog is an immutable event record on a request's trail. UserID is nil
// for system-triggered actions such as an unauthenticated supplier submit.
// Rows are append-only; nothing edits or deletes them.
type AuditLog struct {
	ID        uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	RequestID uuid.UUID         `gorm:"column:request_id;type:uuid;not null;index"`
	Action    enums.AuditAction `gorm:"column:action;type:text;not null"`
	Details   json.RawMessage   `gorm:"column:details;type:jsonb"`
	UserID    *uuid.UUID        `gorm:"column:user_id;type:uuid"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
}
