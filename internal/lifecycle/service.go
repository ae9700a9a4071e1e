package lifecycle

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coloriginz/supplier-onboarding-backend/internal/audit"
	"github.com/coloriginz/supplier-onboarding-backend/internal/notify"
	"github.com/coloriginz/supplier-onboarding-backend/internal/requests"
	"github.com/coloriginz/supplier-onboarding-backend/internal/tokens"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/db/models"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/enums"
	apperrors "github.com/coloriginz/supplier-onboarding-backend/pkg/errors"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/logger"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo       requests.Repository
	tx         txRunner
	audit      audit.Service
	dispatcher notify.Dispatcher
	issuer     *tokens.Issuer
	logg       *logger.Logger
	now        func() time.Time
}

// Params wires the lifecycle service dependencies.
type Params struct {
	Repo       requests.Repository
	Tx         txRunner
	Audit      audit.Service
	Dispatcher notify.Dispatcher
	Issuer     *tokens.Issuer
	Logger     *logger.Logger
	Clock      func() time.Time
}

// NewService builds the lifecycle service.
func NewService(params Params) (Service, error) {
	if params.Repo == nil {
		return nil, errors.New("requests repository is required")
	}
	if params.Tx == nil {
		return nil, errors.New("transaction runner is required")
	}
	if params.Audit == nil {
		return nil, errors.New("audit service is required")
	}
	if params.Dispatcher == nil {
		return nil, errors.New("notification dispatcher is required")
	}
	if params.Issuer == nil {
		return nil, errors.New("token issuer is required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger is required")
	}
	now := params.Clock
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:       params.Repo,
		tx:         params.Tx,
		audit:      params.Audit,
		dispatcher: params.Dispatcher,
		issuer:     params.Issuer,
		logg:       params.Logger,
		now:        now,
	}, nil
}

func (s *service) Get(ctx context.Context, actor Actor, id uuid.UUID) (*models.SupplierRequest, error) {
	return s.load(ctx, actor, id)
}

func (s *service) List(ctx context.Context, actor Actor, input ListInput) (pagination.Page[models.SupplierRequest], error) {
	cursor, err := pagination.ParseCursor(input.Page.Cursor)
	if err != nil {
		return pagination.Page[models.SupplierRequest]{}, apperrors.Wrap(apperrors.CodeValidation, err, "invalid cursor")
	}

	rows, err := s.repo.List(ctx, requests.ListFilter{
		Labels: actor.Labels,
		Status: input.Status,
		Cursor: cursor,
		Limit:  input.Page.Limit,
	})
	if err != nil {
		return pagination.Page[models.SupplierRequest]{}, err
	}

	return pagination.TrimPage(rows, input.Page.Limit, func(row models.SupplierRequest) pagination.Cursor {
		return pagination.Cursor{CreatedAt: row.CreatedAt, ID: row.ID}
	}), nil
}

// load fetches a request and enforces label visibility. Requests outside the
// actor's label scope read as absent rather than forbidden.
func (s *service) load(ctx context.Context, actor Actor, id uuid.UUID) (*models.SupplierRequest, error) {
	request, err := s.repo.FindByIDWithFiles(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "request not found")
		}
		return nil, err
	}
	if !actor.canSeeLabel(request.Label) {
		return nil, apperrors.New(apperrors.CodeNotFound, "request not found")
	}
	return request, nil
}

func requireRole(actor Actor, allowed ...enums.UserRole) error {
	if actor.System {
		return nil
	}
	if !actor.Roles.Intersects(allowed...) {
		return apperrors.New(apperrors.CodeForbiddenRole, "actor lacks the required role")
	}
	return nil
}

func requireAnyRole(actor Actor) error {
	if actor.System {
		return nil
	}
	if len(actor.Roles) == 0 {
		return apperrors.New(apperrors.CodeForbiddenRole, "actor holds no roles")
	}
	return nil
}

func requireStatus(request *models.SupplierRequest, expected enums.RequestStatus) error {
	if request.Status != expected {
		return apperrors.New(apperrors.CodeInvalidStatus, "action not valid for status "+string(request.Status)).
			WithDetails(map[string]any{"status": request.Status, "expected": expected})
	}
	return nil
}

// casConflict is returned when the conditional update matched no row, which
// means a concurrent transition won the race after our precondition check.
func casConflict() error {
	return apperrors.New(apperrors.CodeInvalidStatus, "request status changed concurrently")
}

// dispatch sends lifecycle notifications after a committed transition.
// Failures are logged and never surfaced to the caller.
func (s *service) dispatch(ctx context.Context, input notify.Input) {
	if err := s.dispatcher.Dispatch(ctx, input); err != nil {
		ctx = s.logg.WithSupplierRequestID(ctx, input.Request.ID.String())
		s.logg.Error(ctx, "notification dispatch failed", err)
	}
}

func missingField(field string) error {
	return apperrors.New(apperrors.CodeMissingField, "required field is missing").
		WithDetails(map[string]any{"field": field})
}
