// Package metrics holds the Prometheus collectors for form submissions and
// outbound mail. A nil *FormMetrics is a no-op.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Outcome labels for submissions.
const (
	OutcomeSuccess     = "success"
	OutcomeInvalid     = "invalid"
	OutcomeBot         = "bot"
	OutcomeRateLimited = "rate_limited"
	OutcomeFailed      = "failed"
)

// FormMetrics exposes counters for form submissions and outbound mail.
type FormMetrics struct {
	submissions *prometheus.CounterVec
	mailSent    *prometheus.CounterVec
	rejections  prometheus.Counter
	latency     *prometheus.HistogramVec
}

// NewFormMetrics registers the collectors on reg, or on the default
// registerer when reg is nil.
func NewFormMetrics(reg prometheus.Registerer) *FormMetrics {
	m := &FormMetrics{
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "labforms",
			Name:      "submissions_total",
			Help:      "Form submissions by outcome",
		}, []string{"form", "outcome"}),
		mailSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "labforms",
			Name:      "mail_sent_total",
			Help:      "Outbound emails by kind and delivery status",
		}, []string{"kind", "status"}),
		rejections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "labforms",
			Name:      "rate_limit_rejections_total",
			Help:      "Contact submissions rejected by the rate limiter",
		}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "labforms",
			Name:      "submission_duration_seconds",
			Help:      "Time spent handling a form submission",
			Buckets:   prometheus.DefBuckets,
		}, []string{"form"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissions, m.mailSent, m.rejections, m.latency)
	return m
}

// ObserveSubmission counts one submission of form with the given outcome.
// Rate-limited outcomes also count as limiter rejections.
func (m *FormMetrics) ObserveSubmission(form, outcome string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(form, outcome).Inc()
	if outcome == OutcomeRateLimited {
		m.rejections.Inc()
	}
}

// ObserveMail counts one delivery attempt of kind as sent or failed.
func (m *FormMetrics) ObserveMail(kind string, err error) {
	if m == nil {
		return
	}
	status := "sent"
	if err != nil {
		status = "failed"
	}
	m.mailSent.WithLabelValues(kind, status).Inc()
}

// ObserveLatency records how long handling a submission of form took.
func (m *FormMetrics) ObserveLatency(form string, seconds float64) {
	if m == nil {
		return
	}
	m.latency.WithLabelValues(form).Observe(seconds)
}
