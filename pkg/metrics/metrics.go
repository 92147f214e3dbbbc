package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the domain-level counters; HTTP metrics live with the router.
type Metrics struct {
	NotificationsDispatched *prometheus.CounterVec
	NotificationLatency     *prometheus.HistogramVec
	InvoiceNumberRetries    prometheus.Counter
	InvoicesIssued          prometheus.Counter
	PaymentsProcessed       *prometheus.CounterVec
	AppointmentsBooked      prometheus.Counter
	AppointmentConflicts    prometheus.Counter
	WorkerMessages          *prometheus.CounterVec
	BreakerState            *prometheus.GaugeVec
}

// New registers every metric on reg. Pass a fresh prometheus.NewRegistry in tests.
func New(reg prometheus.Registerer, namespace string) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		NotificationsDispatched: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notification",
			Name:      "dispatched_total",
			Help:      "Notifications handed to a dispatcher, by kind and outcome",
		}, []string{"kind", "status"}),
		NotificationLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "notification",
			Name:      "dispatch_duration_seconds",
			Help:      "Time spent delivering a notification",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"kind"}),
		InvoiceNumberRetries: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "billing",
			Name:      "invoice_number_retries_total",
			Help:      "Invoice inserts retried after an invoice number collision",
		}),
		InvoicesIssued: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "billing",
			Name:      "invoices_issued_total",
			Help:      "Invoices generated",
		}),
		PaymentsProcessed: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "billing",
			Name:      "payments_processed_total",
			Help:      "Payments recorded, by resulting invoice status",
		}, []string{"invoice_status"}),
		AppointmentsBooked: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "appointment",
			Name:      "booked_total",
			Help:      "Appointments created",
		}),
		AppointmentConflicts: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "appointment",
			Name:      "conflicts_total",
			Help:      "Bookings rejected because the doctor was not available",
		}),
		WorkerMessages: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "messages_total",
			Help:      "Queued notifications consumed by the worker, by outcome",
		}, []string{"status"}),
		BreakerState: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "circuit_breaker",
			Name:      "state",
			Help:      "Circuit breaker state (0 closed, 1 half-open, 2 open)",
		}, []string{"name"}),
	}
}

// NewNop returns metrics registered on a throwaway registry.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry(), "hospital")
}
