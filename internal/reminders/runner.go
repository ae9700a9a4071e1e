package reminders

import (
	"context"
	"fmt"
	"time"

	"github.com/coloriginz/supplier-onboarding-backend/pkg/logger"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/metrics"
)

const defaultInterval = 24 * time.Hour

// RunnerParams configure the reminder worker loop.
type RunnerParams struct {
	Logger   *logger.Logger
	Job      *Job
	Lock     Lock
	Metrics  *metrics.JobMetrics
	Interval time.Duration
}

// Runner executes the reminder sweep on a fixed cadence, guarded by a
// distributed lock so concurrent worker replicas stay idle.
type Runner struct {
	logg     *logger.Logger
	job      *Job
	lock     Lock
	metrics  *metrics.JobMetrics
	interval time.Duration
}

// NewRunner builds a reminder worker loop.
func NewRunner(params RunnerParams) (*Runner, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Job == nil {
		return nil, fmt.Errorf("job required")
	}
	if params.Lock == nil {
		return nil, fmt.Errorf("lock required")
	}
	interval := params.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Runner{
		logg:     params.Logger,
		job:      params.Job,
		lock:     params.Lock,
		metrics:  params.Metrics,
		interval: interval,
	}, nil
}

// Run starts the loop until the context is canceled. The first sweep runs
// immediately rather than waiting a full interval.
func (r *Runner) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := r.runCycle(ctx); err != nil {
		r.logg.Error(ctx, "reminder cycle failed", err)
	}
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logg.Info(ctx, "reminder worker context canceled")
			return ctx.Err()
		case <-ticker.C:
			if err := r.runCycle(ctx); err != nil {
				r.logg.Error(ctx, "reminder cycle failed", err)
			}
		}
	}
}

func (r *Runner) runCycle(ctx context.Context) error {
	locked, err := r.lock.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("lock acquire: %w", err)
	}
	if !locked {
		r.logg.Info(ctx, "another worker holds the reminder lock; skipping this cycle")
		return nil
	}
	defer func() {
		if relErr := r.lock.Release(ctx); relErr != nil {
			r.logg.Error(ctx, "failed to release reminder lock", relErr)
		}
	}()

	jobCtx := r.logg.WithField(ctx, "job", r.job.Name())
	r.logg.Info(jobCtx, "job start")
	start := time.Now()
	err = r.job.Run(jobCtx)
	duration := time.Since(start)
	if r.metrics != nil {
		r.metrics.ObserveDuration(r.job.Name(), duration)
	}
	jobCtx = r.logg.WithField(jobCtx, "duration_ms", duration.Milliseconds())
	if err != nil {
		r.logg.Error(jobCtx, "job failed", err)
		if r.metrics != nil {
			r.metrics.IncFailure(r.job.Name())
		}
		return nil
	}
	r.logg.Info(jobCtx, "job completed")
	if r.metrics != nil {
		r.metrics.IncSuccess(r.job.Name())
	}
	return nil
}
