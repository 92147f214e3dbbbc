package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RegistersOnGivenRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg, "hospital")

	m.InvoiceNumberRetries.Inc()
	m.NotificationsDispatched.WithLabelValues("invoice_issued", "sent").Inc()

	families, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
		if f.GetName() == "hospital_billing_invoice_number_retries_total" {
			assert.Equal(t, 1.0, f.GetMetric()[0].GetCounter().GetValue())
		}
	}
	assert.True(t, names["hospital_billing_invoice_number_retries_total"])
	assert.True(t, names["hospital_notification_dispatched_total"])
}

func TestNew_TwoRegistriesDoNotCollide(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry(), "hospital")
		New(prometheus.NewRegistry(), "hospital")
	})
}
