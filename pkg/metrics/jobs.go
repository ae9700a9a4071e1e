package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// JobMetrics records outcomes of background jobs such as the reminder sweep.
type JobMetrics struct {
	duration  *prometheus.HistogramVec
	success   *prometheus.CounterVec
	failure   *prometheus.CounterVec
	reminders prometheus.Counter
}

// NewJobMetrics registers the job metrics on the provided registerer. A nil
// registerer yields a no-op instance, which keeps tests and one-shot
// commands free of metric plumbing.
func NewJobMetrics(reg prometheus.Registerer) *JobMetrics {
	if reg == nil {
		return &JobMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "onboard",
		Name:      "job_duration_seconds",
		Help:      "Duration of background jobs in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"job"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "onboard",
		Name:      "job_success_total",
		Help:      "Successful background job executions.",
	}, []string{"job"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "onboard",
		Name:      "job_failure_total",
		Help:      "Failed background job executions.",
	}, []string{"job"})
	reminders := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "onboard",
		Name:      "reminder_emails_total",
		Help:      "Reminder emails sent for stale supplier requests.",
	})
	reg.MustRegister(duration, success, failure, reminders)
	return &JobMetrics{
		duration:  duration,
		success:   success,
		failure:   failure,
		reminders: reminders,
	}
}

// ObserveDuration records the duration for the named job.
func (m *JobMetrics) ObserveDuration(job string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(job)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named job.
func (m *JobMetrics) IncSuccess(job string) {
	if m == nil || m.success == nil {
		return
	}
	m.success.WithLabelValues(normalizeLabel(job)).Inc()
}

// IncFailure increments the failure counter for the named job.
func (m *JobMetrics) IncFailure(job string) {
	if m == nil || m.failure == nil {
		return
	}
	m.failure.WithLabelValues(normalizeLabel(job)).Inc()
}

// AddRemindersSent counts reminder emails delivered by the sweep job.
func (m *JobMetrics) AddRemindersSent(n int) {
	if m == nil || m.reminders == nil || n <= 0 {
		return
	}
	m.reminders.Add(float64(n))
}

func normalizeLabel(job string) string {
	if job == "" {
		return "unknown"
	}
	return job
}
