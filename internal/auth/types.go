package auth

import (
	"context"

	"github.com/coloriginz/supplier-onboarding-backend/pkg/db/models"
)

// LoginResult carries the signed access token together with the account it
// was minted for.
type LoginResult struct {
	Token string
	User  *models.User
}

// Service handles staff credential flows: login, account activation and
// password resets. Supplier portal access is token-based and lives with the
// request lifecycle, not here.
type Service interface {
	Login(ctx context.Context, email, password string) (LoginResult, error)

	// Activate consumes an activation token and sets the account's first
	// password.
	Activate(ctx context.Context, token, password string) (*models.User, error)

	// RequestPasswordReset issues a reset token and mails it. Unknown email
	// addresses are not reported back to the caller.
	RequestPasswordReset(ctx context.Context, email string) error

	ResetPassword(ctx context.Context, token, password string) (*models.User, error)
}
