package reminders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/coloriginz/supplier-onboarding-backend/internal/lifecycle"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/db/models"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/logger"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/metrics"
)

// JobName labels the sweep in logs and metrics.
const JobName = "stale_request_reminders"

// staleLister is the slice of the requests repository the sweep reads from.
type staleLister interface {
	ListStale(ctx context.Context, cutoff time.Time) ([]models.SupplierRequest, error)
}

// reminderSender is the slice of the lifecycle service the sweep acts on.
type reminderSender interface {
	SendReminder(ctx context.Context, actor lifecycle.Actor, id uuid.UUID) error
}

// Job sweeps open requests that have not moved for the configured period and
// nudges whoever the request is waiting on.
type Job struct {
	repo       staleLister
	svc        reminderSender
	logg       *logger.Logger
	metrics    *metrics.JobMetrics
	staleAfter time.Duration
	now        func() time.Time
}

// JobParams wires the sweep dependencies.
type JobParams struct {
	Repo       staleLister
	Lifecycle  reminderSender
	Logger     *logger.Logger
	Metrics    *metrics.JobMetrics
	StaleAfter time.Duration
	Clock      func() time.Time
}

// NewJob builds the stale-request sweep.
func NewJob(params JobParams) (*Job, error) {
	if params.Repo == nil {
		return nil, errors.New("requests repository is required")
	}
	if params.Lifecycle == nil {
		return nil, errors.New("lifecycle service is required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if params.StaleAfter <= 0 {
		return nil, errors.New("stale-after duration must be positive")
	}
	now := params.Clock
	if now == nil {
		now = time.Now
	}
	return &Job{
		repo:       params.Repo,
		svc:        params.Lifecycle,
		logg:       params.Logger,
		metrics:    params.Metrics,
		staleAfter: params.StaleAfter,
		now:        now,
	}, nil
}

// Name returns the job label.
func (j *Job) Name() string { return JobName }

// Run sends one reminder per stale request. A failure on one request does
// not stop the sweep; the combined error is reported at the end.
func (j *Job) Run(ctx context.Context) error {
	cutoff := j.now().Add(-j.staleAfter)
	stale, err := j.repo.ListStale(ctx, cutoff)
	if err != nil {
		return err
	}

	var errs error
	sent := 0
	for _, request := range stale {
		reqCtx := j.logg.WithSupplierRequestID(ctx, request.ID.String())
		if err := j.svc.SendReminder(reqCtx, lifecycle.SystemActor(), request.ID); err != nil {
			j.logg.Error(reqCtx, "reminder failed", err)
			errs = multierr.Append(errs, err)
			continue
		}
		sent++
	}

	if j.metrics != nil {
		j.metrics.AddRemindersSent(sent)
	}
	ctx = j.logg.WithField(ctx, "stale", len(stale))
	ctx = j.logg.WithField(ctx, "sent", sent)
	j.logg.Info(ctx, "reminder sweep complete")
	return errs
}
