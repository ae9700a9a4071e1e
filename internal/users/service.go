package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coloriginz/supplier-onboarding-backend/internal/tokens"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/db"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/db/models"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/enums"
	apperrors "github.com/coloriginz/supplier-onboarding-backend/pkg/errors"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/logger"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/mail"
)

type service struct {
	repo    Repository
	issuer  *tokens.Issuer
	sender  mail.Sender
	logg    *logger.Logger
	baseURL string
}

// Params wires the users service dependencies.
type Params struct {
	Repo    Repository
	Issuer  *tokens.Issuer
	Sender  mail.Sender
	Logger  *logger.Logger
	BaseURL string
}

// NewService builds the users service.
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
	return &service{
		repo:    params.Repo,
		issuer:  params.Issuer,
		sender:  params.Sender,
		logg:    params.Logger,
		baseURL: strings.TrimRight(params.BaseURL, "/"),
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperrors.New(apperrors.CodeValidation, "a valid email address is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "name is required")
	}

	roles, err := enums.ParseRoleSet(input.Roles)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeValidation, err, "invalid roles")
	}
	if len(roles) == 0 {
		return nil, apperrors.New(apperrors.CodeValidation, "at least one role is required")
	}
	labels, err := parseLabels(input.Labels)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeValidation, err, "invalid labels")
	}

	language := enums.LanguageEN
	if input.Language != "" {
		language, err = enums.ParseLanguage(input.Language)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeValidation, err, "invalid language")
		}
	}

	token, err := s.issuer.Issue(enums.TokenPurposeActivation)
	if err != nil {
		return nil, fmt.Errorf("issuing activation token: %w", err)
	}

	user := &models.User{
		Email:               email,
		Name:                strings.TrimSpace(input.Name),
		Roles:               roles.Strings(),
		Labels:              labels,
		IsActive:            true,
		ReceiveEmails:       true,
		Language:            language,
		ActivationToken:     &token.Value,
		ActivationExpiresAt: &token.ExpiresAt,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if db.IsUniqueViolation(err, "idx_users_email") {
			return nil, apperrors.New(apperrors.CodeDuplicate, "a user with this email already exists")
		}
		return nil, err
	}

	s.sendActivationMail(ctx, created, token.Value)
	return created, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.User, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, apperrors.New(apperrors.CodeValidation, "name cannot be empty")
		}
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Roles != nil {
		roles, err := enums.ParseRoleSet(input.Roles)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeValidation, err, "invalid roles")
		}
		if len(roles) == 0 {
			return nil, apperrors.New(apperrors.CodeValidation, "at least one role is required")
		}
		user.Roles = roles.Strings()
	}
	if input.Labels != nil {
		labels, err := parseLabels(input.Labels)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeValidation, err, "invalid labels")
		}
		user.Labels = labels
	}
	if input.ReceiveEmails != nil {
		user.ReceiveEmails = *input.ReceiveEmails
	}
	if input.Language != nil {
		language, err := enums.ParseLanguage(*input.Language)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeValidation, err, "invalid language")
		}
		user.Language = language
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *service) Deactivate(ctx context.Context, id uuid.UUID) error {
	user, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if !user.IsActive {
		return nil
	}
	user.IsActive = false
	return s.repo.Update(ctx, user)
}

func (s *service) Reactivate(ctx context.Context, id uuid.UUID) error {
	user, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if user.IsActive {
		return nil
	}
	user.IsActive = true
	return s.repo.Update(ctx, user)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.find(ctx, id)
}

func (s *service) List(ctx context.Context) ([]models.User, error) {
	return s.repo.List(ctx)
}

func (s *service) find(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "user not found")
		}
		return nil, err
	}
	return user, nil
}

func (s *service) sendActivationMail(ctx context.Context, user *models.User, token string) {
	vars := map[string]string{
		"name":           user.Name,
		"activation_url": s.baseURL + "/activate?token=" + token,
	}
	if user.ActivationExpiresAt != nil {
		vars["expires_at"] = user.ActivationExpiresAt.Format("2006-01-02")
	}
	if err := s.sender.Send(ctx, user.Email, enums.MailUserActivation, vars, user.Language); err != nil {
		ctx = s.logg.WithUserID(ctx, user.ID.String())
		s.logg.Warn(ctx, "activation email delivery failed")
	}
}

func parseLabels(raw []string) ([]string, error) {
	out := make([]string, 0, len(raw))
	for _, value := range raw {
		label, err := enums.ParseLabel(value)
		if err != nil {
			return nil, err
		}
		duplicate := false
		for _, existing := range out {
			if existing == string(label) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			out = append(out, string(label))
		}
	}
	return out, nil
}
