package users

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coloriginz/supplier-onboarding-backend/pkg/db/models"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/enums"
)

// Repository is the persistence surface for staff accounts.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, user *models.User) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByActivationToken(ctx context.Context, token string) (*models.User, error)
	FindByResetToken(ctx context.Context, token string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)

	// ListActiveByRole returns active users holding the role. Recipients
	// for notifications additionally require receive_emails.
	ListActiveByRole(ctx context.Context, role enums.UserRole, optedInOnly bool) ([]models.User, error)
}

// CreateInput is an admin's new-account request. The account starts without
// a password; an activation token is issued and mailed.
type CreateInput struct {
	Email    string
	Name     string
	Roles    []string
	Labels   []string
	Language string
}

// UpdateInput patches mutable account fields. Nil means "leave unchanged".
type UpdateInput struct {
	Name          *string
	Roles         []string
	Labels        []string
	ReceiveEmails *bool
	Language      *string
}

// Service manages staff accounts on behalf of admins.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.User, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.User, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	Reactivate(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
}
