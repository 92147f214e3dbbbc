package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	"github.com/jwalitptl/hospital-api/internal/service"
	"github.com/jwalitptl/hospital-api/internal/service/notification"
	"github.com/jwalitptl/hospital-api/pkg/clock"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
	"github.com/jwalitptl/hospital-api/pkg/metrics"
)

// MaxNumberAttempts bounds invoice inserts that collide on invoice_number.
const MaxNumberAttempts = 5

type Service struct {
	invoices repository.InvoiceRepository
	patients repository.PatientRepository
	numbers  *NumberGenerator
	clock    clock.Clock
	notifier notification.Notifier
	metrics  *metrics.Metrics
}

func NewService(
	invoices repository.InvoiceRepository,
	patients repository.PatientRepository,
	clk clock.Clock,
	notifier notification.Notifier,
	m *metrics.Metrics,
) *Service {
	return &Service{
		invoices: invoices,
		patients: patients,
		numbers:  NewNumberGenerator(clk, invoices),
		clock:    clk,
		notifier: notifier,
		metrics:  m,
	}
}

func (s *Service) GenerateInvoice(ctx context.Context, req model.CreateInvoiceRequest) (*model.Invoice, error) {
	if service.Cents(req.Total) <= 0 {
		return nil, apperrors.BadRequest("total must be greater than zero")
	}

	patient, err := s.patients.GetByID(ctx, req.PatientID)
	if service.IsNotFound(err) {
		return nil, apperrors.BadRequest("patient not found")
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	var inv *model.Invoice
	for attempt := 1; attempt <= MaxNumberAttempts; attempt++ {
		number, err := s.numbers.Next(ctx)
		if err != nil {
			return nil, apperrors.Internal(err)
		}

		candidate := &model.Invoice{
			InvoiceNumber: number,
			Total:         service.RoundMoney(req.Total),
			Description:   service.TrimmedPtr(req.Description),
			Status:        model.InvoiceStatusPending,
			DateIssued:    s.clock.Now(),
			PatientID:     patient.ID,
		}

		err = s.invoices.Create(ctx, candidate)
		if err == nil {
			inv = candidate
			break
		}
		if service.IsDuplicate(err) {
			s.metrics.InvoiceNumberRetries.Inc()
			log.Warn().Str("invoice_number", number).Int("attempt", attempt).Msg("Invoice number taken, regenerating")
			continue
		}
		if service.IsReferenced(err) {
			return nil, apperrors.BadRequest("patient not found")
		}
		return nil, apperrors.Internal(err)
	}
	if inv == nil {
		return nil, apperrors.BadRequest("invoice number conflict, please retry")
	}

	s.metrics.InvoicesIssued.Inc()
	if to := patient.ContactEmail(); to != "" {
		s.notifier.NotifyInvoiceIssued(ctx, to, patient.Name, inv.InvoiceNumber, inv.Total)
	}

	return s.reload(ctx, inv.ID)
}

func (s *Service) GetInvoice(ctx context.Context, id int) (*model.Invoice, error) {
	inv, err := service.Optional(s.invoices.GetByID(ctx, id))
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return inv, nil
}

func (s *Service) ListInvoices(ctx context.Context) ([]*model.Invoice, error) {
	invoices, err := s.invoices.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return invoices, nil
}

func (s *Service) ListInvoicesByPatient(ctx context.Context, patientID int) ([]*model.Invoice, error) {
	invoices, err := s.invoices.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return invoices, nil
}

// UpdateInvoiceStatus stamps the paid time on the move to Paid and clears it on
// any other status. A missing invoice yields nil with no error.
func (s *Service) UpdateInvoiceStatus(ctx context.Context, id int, status model.InvoiceStatus) (*model.Invoice, error) {
	if !status.Valid() {
		return nil, apperrors.BadRequest(fmt.Sprintf("invalid invoice status %q", status))
	}

	inv, err := service.Optional(s.invoices.GetByID(ctx, id))
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if inv == nil {
		return nil, nil
	}

	var datePaid *time.Time
	if status == model.InvoiceStatusPaid {
		datePaid = inv.DatePaid
		if datePaid == nil {
			now := s.clock.Now()
			datePaid = &now
		}
	}

	err = s.invoices.UpdateStatus(ctx, id, status, datePaid)
	if service.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return s.reload(ctx, id)
}

// ProcessPayment records a payment and settles the invoice in one unit.
func (s *Service) ProcessPayment(ctx context.Context, req model.ProcessPaymentRequest) (*model.Payment, error) {
	amount := service.RoundMoney(req.Amount)
	if service.Cents(amount) <= 0 {
		return nil, apperrors.BadRequest("payment amount must be greater than zero")
	}
	method := strings.TrimSpace(req.PaymentMethod)
	if method == "" {
		return nil, apperrors.BadRequest("payment method is required")
	}

	now := s.clock.Now()
	payment := &model.Payment{
		Amount:        amount,
		PaymentMethod: method,
		TransactionID: service.TrimmedPtr(req.TransactionID),
		PaymentDate:   now,
	}

	inv, err := s.invoices.ApplyPayment(ctx, req.InvoiceID, payment, func(inv *model.Invoice, paid float64) error {
		return settle(inv, paid, now)
	})
	if appErr, ok := apperrors.As(err); ok {
		return nil, appErr
	}
	if service.IsNotFound(err) {
		return nil, apperrors.BadRequest("invoice not found")
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	s.metrics.PaymentsProcessed.WithLabelValues(string(inv.Status)).Inc()
	return payment, nil
}

// settle derives the invoice status from the total paid including the new payment.
func settle(inv *model.Invoice, paid float64, now time.Time) error {
	switch inv.Status {
	case model.InvoiceStatusCancelled:
		return apperrors.BadRequest("cannot pay a cancelled invoice")
	case model.InvoiceStatusPaid:
		return apperrors.BadRequest("invoice is already paid")
	}

	if service.Cents(paid) >= service.Cents(inv.Total) {
		inv.Status = model.InvoiceStatusPaid
		if inv.DatePaid == nil {
			inv.DatePaid = &now
		}
		return nil
	}
	inv.Status = model.InvoiceStatusPartiallyPaid
	inv.DatePaid = nil
	return nil
}

// GetPaymentsByInvoice returns payments newest first.
func (s *Service) GetPaymentsByInvoice(ctx context.Context, invoiceID int) ([]model.Payment, error) {
	inv, err := service.Optional(s.invoices.GetByID(ctx, invoiceID))
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if inv == nil {
		return nil, apperrors.NotFound("invoice")
	}
	payments, err := s.invoices.ListPayments(ctx, invoiceID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return payments, nil
}

func (s *Service) reload(ctx context.Context, id int) (*model.Invoice, error) {
	inv, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return inv, nil
}
