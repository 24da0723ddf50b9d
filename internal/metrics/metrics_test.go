package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if matches(m, labels) {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func matches(m *dto.Metric, labels map[string]string) bool {
	found := 0
	for _, lp := range m.GetLabel() {
		if v, ok := labels[lp.GetName()]; ok && v == lp.GetValue() {
			found++
		}
	}
	return found == len(labels)
}

func TestFormMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewFormMetrics(reg)

	m.ObserveSubmission("contact", OutcomeSuccess)
	m.ObserveSubmission("contact", OutcomeRateLimited)
	m.ObserveSubmission("contact", OutcomeRateLimited)
	m.ObserveMail("confirmation", errors.New("smtp down"))
	m.ObserveMail("contact", nil)
	m.ObserveLatency("booking", 0.2)

	assert.Equal(t, 1.0, counterValue(t, reg, "labforms_submissions_total", map[string]string{"form": "contact", "outcome": "success"}))
	assert.Equal(t, 2.0, counterValue(t, reg, "labforms_rate_limit_rejections_total", nil))
	assert.Equal(t, 1.0, counterValue(t, reg, "labforms_mail_sent_total", map[string]string{"kind": "confirmation", "status": "failed"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "labforms_mail_sent_total", map[string]string{"kind": "contact", "status": "sent"}))
}

func TestFormMetricsNilSafe(t *testing.T) {
	var m *FormMetrics
	m.ObserveSubmission("contact", OutcomeSuccess)
	m.ObserveMail("contact", nil)
	m.ObserveLatency("contact", 0.1)
}
