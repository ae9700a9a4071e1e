package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/coloriginz/supplier-onboarding-backend/pkg/enums"
)

// User is a staff actor. Roles and labels are sets; deactivation is soft and
// users are never hard-deleted.
type User struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email         string         `gorm:"type:text;not null;uniqueIndex"`
	Name          string         `gorm:"column:name;not null"`
	PasswordHash  *string        `gorm:"column:password_hash"`
	Roles         pq.StringArray `gorm:"column:roles;type:text[];not null;default:ARRAY[]::text[]"`
	Labels        pq.StringArray `gorm:"column:labels;type:text[];not null;default:ARRAY[]::text[]"`
	IsActive      bool           `gorm:"column:is_active;not null;default:true"`
	ReceiveEmails bool           `gorm:"column:receive_emails;not null;default:true"`
	Language      enums.Language `gorm:"column:language;type:text;not null;default:'en'"`

	// Activation and reset tokens are single-use; consumed tokens are cleared.
	ActivationToken     *string    `gorm:"column:activation_token"`
	ActivationExpiresAt *time.Time `gorm:"column:activation_expires_at"`
	ResetToken          *string    `gorm:"column:reset_token"`
	ResetExpiresAt      *time.Time `gorm:"column:reset_expires_at"`

	LastLoginAt *time.Time `gorm:"column:last_login_at"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// RoleSet parses the stored role strings, skipping unknown values.
func (u User) RoleSet() enums.RoleSet {
	set := make(enums.RoleSet, 0, len(u.Roles))
	for _, raw := range u.Roles {
		role, err := enums.ParseUserRole(raw)
		if err != nil {
			continue
		}
		if !set.Has(role) {
			set = append(set, role)
		}
	}
	return set
}

// HasLabel reports whether the user may see requests under the given label.
func (u User) HasLabel(label enums.Label) bool {
	for _, raw := range u.Labels {
		if raw == string(label) {
			return true
		}
	}
	return false
}

// IsPendingActivation reports whether the account has not yet set a password.
func (u User) IsPendingActivation() bool {
	return u.PasswordHash == nil
}
