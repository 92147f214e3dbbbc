package notification

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/hospital-api/internal/email"
	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/pkg/clock"
	"github.com/jwalitptl/hospital-api/pkg/messaging"
	"github.com/jwalitptl/hospital-api/pkg/metrics"
)

const (
	ModeEmail  = "email"
	ModeBroker = "broker"

	DefaultChannel = "hospital:notifications"

	appointmentTimeLayout = "2006-01-02 15:04"
	defaultDoctorName     = "Doctor"
)

// Notifier tells patients about workflow events. Calls never block on delivery
// and never report failures; those are logged.
type Notifier interface {
	NotifyAppointmentConfirmed(ctx context.Context, to, patientName string, at time.Time, doctorName string)
	NotifyInvoiceIssued(ctx context.Context, to, patientName, invoiceNumber string, total float64)
	NotifyLabResultReady(ctx context.Context, to, patientName, resultType string)
}

// Dispatcher hands a built notification to a delivery path.
type Dispatcher interface {
	Dispatch(ctx context.Context, n *model.Notification) error
}

type EmailDispatcher struct {
	sender email.Sender
}

func NewEmailDispatcher(sender email.Sender) *EmailDispatcher {
	return &EmailDispatcher{sender: sender}
}

func (d *EmailDispatcher) Dispatch(ctx context.Context, n *model.Notification) error {
	return d.sender.Send(ctx, n.Recipient, n.Subject, n.Body)
}

// BrokerDispatcher queues notifications for the worker process.
type BrokerDispatcher struct {
	broker  messaging.Publisher
	channel string
}

func NewBrokerDispatcher(broker messaging.Publisher, channel string) *BrokerDispatcher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &BrokerDispatcher{broker: broker, channel: channel}
}

func (d *BrokerDispatcher) Dispatch(ctx context.Context, n *model.Notification) error {
	return d.broker.Publish(ctx, d.channel, n)
}

type Service struct {
	dispatcher Dispatcher
	clock      clock.Clock
	metrics    *metrics.Metrics
	timeout    time.Duration
	wg         sync.WaitGroup
}

func NewService(dispatcher Dispatcher, clk clock.Clock, m *metrics.Metrics, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Service{
		dispatcher: dispatcher,
		clock:      clk,
		metrics:    m,
		timeout:    timeout,
	}
}

func (s *Service) NotifyAppointmentConfirmed(ctx context.Context, to, patientName string, at time.Time, doctorName string) {
	if strings.TrimSpace(doctorName) == "" {
		doctorName = defaultDoctorName
	}
	body := fmt.Sprintf(
		"Dear %s,\n\nYour appointment with %s has been confirmed for %s.\n\nPlease arrive 15 minutes early.\n",
		patientName, doctorName, at.Format(appointmentTimeLayout),
	)
	s.send(ctx, model.NotificationAppointmentConfirmed, to, "Appointment Confirmation", body)
}

func (s *Service) NotifyInvoiceIssued(ctx context.Context, to, patientName, invoiceNumber string, total float64) {
	body := fmt.Sprintf(
		"Dear %s,\n\nInvoice %s has been issued for a total of %.2f.\n\nThank you.\n",
		patientName, invoiceNumber, total,
	)
	s.send(ctx, model.NotificationInvoiceIssued, to, "Invoice from Hospital", body)
}

func (s *Service) NotifyLabResultReady(ctx context.Context, to, patientName, resultType string) {
	body := fmt.Sprintf(
		"Dear %s,\n\nYour %s lab results are now available.\n\nPlease contact your doctor to discuss them.\n",
		patientName, resultType,
	)
	s.send(ctx, model.NotificationLabResultReady, to, "Lab Results Available", body)
}

// Wait blocks until in-flight notifications have finished.
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) send(ctx context.Context, kind model.NotificationKind, to, subject, body string) {
	if strings.TrimSpace(to) == "" {
		return
	}

	n := &model.Notification{
		ID:        uuid.New(),
		Kind:      kind,
		Recipient: to,
		Subject:   subject,
		Body:      body,
		CreatedAt: s.clock.Now(),
	}

	// detach from the request so delivery outlives the response
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Str("kind", string(kind)).Msg("Notification dispatch panicked")
				s.metrics.NotificationsDispatched.WithLabelValues(string(kind), "failed").Inc()
			}
		}()

		start := time.Now()
		err := s.dispatcher.Dispatch(sendCtx, n)
		s.metrics.NotificationLatency.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())

		if err != nil {
			s.metrics.NotificationsDispatched.WithLabelValues(string(kind), "failed").Inc()
			log.Error().
				Err(err).
				Str("notification_id", n.ID.String()).
				Str("kind", string(kind)).
				Str("recipient", to).
				Msg("Failed to send notification")
			return
		}

		s.metrics.NotificationsDispatched.WithLabelValues(string(kind), "sent").Inc()
		log.Debug().
			Str("notification_id", n.ID.String()).
			Str("kind", string(kind)).
			Msg("Notification sent")
	}()
}
