package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coloriginz/supplier-onboarding-backend/internal/tokens"
	"github.com/coloriginz/supplier-onboarding-backend/internal/users"
	pkgauth "github.com/coloriginz/supplier-onboarding-backend/pkg/auth"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/config"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/db/models"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/enums"
	apperrors "github.com/coloriginz/supplier-onboarding-backend/pkg/errors"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/logger"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/mail"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/security"
)

const minPasswordLength = 8

type service struct {
	repo    users.Repository
	issuer  *tokens.Issuer
	sender  mail.Sender
	logg    *logger.Logger
	jwt     config.JWTConfig
	pwd     config.PasswordConfig
	baseURL string
	now     func() time.Time
}

// Params wires the auth service dependencies.
type Params struct {
	Repo     users.Repository
	Issuer   *tokens.Issuer
	Sender   mail.Sender
	Logger   *logger.Logger
	JWT      config.JWTConfig
	Password config.PasswordConfig
	BaseURL  string
	Clock    func() time.Time
}

// NewService builds the auth service.
func NewService(params Params) (Service, error) {
	if params.Repo == nil {
		return nil, errors.New("users repository is required")
	}
	if params.Issuer == nil {
		return nil, errors.New("token issuer is required")
	}
	if params.Sender == nil {
		return nil, errors.New("mail sender is required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if params.JWT.Secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	now := params.Clock
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:    params.Repo,
		issuer:  params.Issuer,
		sender:  params.Sender,
		logg:    params.Logger,
		jwt:     params.JWT,
		pwd:     params.Password,
		baseURL: strings.TrimRight(params.BaseURL, "/"),
		now:     now,
	}, nil
}

func (s *service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return LoginResult{}, invalidCredentials()
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LoginResult{}, invalidCredentials()
		}
		return LoginResult{}, err
	}
	if !user.IsActive || user.IsPendingActivation() {
		return LoginResult{}, invalidCredentials()
	}

	match, err := security.VerifyPassword(password, *user.PasswordHash)
	if err != nil {
		return LoginResult{}, fmt.Errorf("verifying password: %w", err)
	}
	if !match {
		return LoginResult{}, invalidCredentials()
	}

	token, err := pkgauth.MintAccessToken(s.jwt, s.now(), pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Roles:  user.Roles,
		Labels: user.Labels,
		JTI:    uuid.NewString(),
	})
	if err != nil {
		return LoginResult{}, fmt.Errorf("minting access token: %w", err)
	}

	loginAt := s.now()
	user.LastLoginAt = &loginAt
	if err := s.repo.Update(ctx, user); err != nil {
		ctx = s.logg.WithUserID(ctx, user.ID.String())
		s.logg.Warn(ctx, "recording last login failed")
	}

	return LoginResult{Token: token, User: user}, nil
}

func (s *service) Activate(ctx context.Context, token, password string) (*models.User, error) {
	if err := checkPassword(password); err != nil {
		return nil, err
	}

	user, err := s.findByToken(ctx, token, s.repo.FindByActivationToken)
	if err != nil {
		return nil, err
	}
	if err := s.issuer.Validate(token, user.ActivationToken, user.ActivationExpiresAt); err != nil {
		return nil, err
	}

	hash, err := security.HashPassword(password, s.pwd)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user.PasswordHash = &hash
	user.ActivationToken = nil
	user.ActivationExpiresAt = nil
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *service) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Do not reveal which addresses have accounts.
			return nil
		}
		return err
	}
	if !user.IsActive {
		return nil
	}

	issued, err := s.issuer.Issue(enums.TokenPurposePasswordReset)
	if err != nil {
		return fmt.Errorf("issuing reset token: %w", err)
	}
	user.ResetToken = &issued.Value
	user.ResetExpiresAt = &issued.ExpiresAt
	if err := s.repo.Update(ctx, user); err != nil {
		return err
	}

	vars := map[string]string{
		"name":      user.Name,
		"reset_url": s.baseURL + "/reset-password?token=" + issued.Value,
	}
	if err := s.sender.Send(ctx, user.Email, enums.MailPasswordReset, vars, user.Language); err != nil {
		ctx = s.logg.WithUserID(ctx, user.ID.String())
		s.logg.Warn(ctx, "password reset email delivery failed")
	}
	return nil
}

func (s *service) ResetPassword(ctx context.Context, token, password string) (*models.User, error) {
	if err := checkPassword(password); err != nil {
		return nil, err
	}

	user, err := s.findByToken(ctx, token, s.repo.FindByResetToken)
	if err != nil {
		return nil, err
	}
	if err := s.issuer.Validate(token, user.ResetToken, user.ResetExpiresAt); err != nil {
		return nil, err
	}

	hash, err := security.HashPassword(password, s.pwd)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user.PasswordHash = &hash
	user.ResetToken = nil
	user.ResetExpiresAt = nil
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *service) findByToken(ctx context.Context, token string, find func(context.Context, string) (*models.User, error)) (*models.User, error) {
	if strings.TrimSpace(token) == "" {
		return nil, apperrors.New(apperrors.CodeTokenInvalid, "token is required")
	}
	user, err := find(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeTokenInvalid, "token not recognized")
		}
		return nil, err
	}
	return user, nil
}

func checkPassword(password string) error {
	if len(password) < minPasswordLength {
		return apperrors.New(apperrors.CodeValidation,
			fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	return nil
}

func invalidCredentials() error {
	return apperrors.New(apperrors.CodeUnauthorized, "invalid credentials")
}
