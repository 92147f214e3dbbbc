package billing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	"github.com/jwalitptl/hospital-api/internal/repository/repotest"
	"github.com/jwalitptl/hospital-api/internal/service/notification"
	"github.com/jwalitptl/hospital-api/pkg/clock"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
	"github.com/jwalitptl/hospital-api/pkg/metrics"
)

type fixture struct {
	repos    *repotest.Repos
	clock    *clock.Simulated
	notifier *notification.Recorder
	svc      *Service
	patient  *model.Patient
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repos := repotest.NewRepos()
	clk := clock.NewSimulated(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	rec := &notification.Recorder{}

	email := "ana@example.com"
	patient := &model.Patient{Name: "Ana", Age: 34, Insurance: "Acme", Email: &email}
	require.NoError(t, repos.Patients.Create(context.Background(), patient))

	return &fixture{
		repos:    repos,
		clock:    clk,
		notifier: rec,
		svc:      NewService(repos.Invoices, repos.Patients, clk, rec, metrics.NewNop()),
		patient:  patient,
	}
}

func (f *fixture) invoice(t *testing.T, total float64) *model.Invoice {
	t.Helper()
	inv, err := f.svc.GenerateInvoice(context.Background(), model.CreateInvoiceRequest{PatientID: f.patient.ID, Total: total})
	require.NoError(t, err)
	return inv
}

func TestGenerateInvoice_NumbersSequencePerMonth(t *testing.T) {
	f := newFixture(t)

	first := f.invoice(t, 100)
	second := f.invoice(t, 50)

	assert.Equal(t, "INV-202503-000001", first.InvoiceNumber)
	assert.Equal(t, "INV-202503-000002", second.InvoiceNumber)
	assert.Equal(t, model.InvoiceStatusPending, first.Status)
	assert.Equal(t, "Ana", first.PatientName)
	assert.Nil(t, first.DatePaid)

	f.clock.Set(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))
	april := f.invoice(t, 10)
	assert.Equal(t, "INV-202504-000001", april.InvoiceNumber)
}

func TestGenerateInvoice_NotifiesPatient(t *testing.T) {
	f := newFixture(t)
	inv := f.invoice(t, 120.5)

	sent := f.notifier.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "invoice", sent[0].Kind)
	assert.Equal(t, "ana@example.com", sent[0].To)
	assert.Equal(t, inv.InvoiceNumber, sent[0].Detail)
	assert.InDelta(t, 120.5, sent[0].Total, 0.001)
}

func TestGenerateInvoice_UnknownPatient(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.GenerateInvoice(context.Background(), model.CreateInvoiceRequest{PatientID: 999, Total: 10})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrBadRequest))
	assert.Equal(t, 0, f.repos.Store.Counts()["invoices"])
}

func TestGenerateInvoice_RetriesOnNumberCollision(t *testing.T) {
	f := newFixture(t)
	f.repos.Store.FailNext("Invoice.Create", repository.ErrDuplicate, repository.ErrDuplicate)

	inv := f.invoice(t, 40)
	assert.Equal(t, "INV-202503-000001", inv.InvoiceNumber)
	assert.Equal(t, 1, f.repos.Store.Counts()["invoices"])
}

func TestGenerateInvoice_GivesUpAfterMaxAttempts(t *testing.T) {
	f := newFixture(t)
	errs := make([]error, MaxNumberAttempts)
	for i := range errs {
		errs[i] = repository.ErrDuplicate
	}
	f.repos.Store.FailNext("Invoice.Create", errs...)

	_, err := f.svc.GenerateInvoice(context.Background(), model.CreateInvoiceRequest{PatientID: f.patient.ID, Total: 40})
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrBadRequest, appErr.Code)
	assert.Equal(t, "invoice number conflict, please retry", appErr.Message)
	assert.Empty(t, f.notifier.Sent())
}

func TestNumberGenerator_SkipsMalformedSuffixes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, n := range []string{"INV-202503-000007", "INV-202503-abc", "INV-202503-", "INV-202502-000099"} {
		require.NoError(t, f.repos.Invoices.Create(ctx, &model.Invoice{
			InvoiceNumber: n, Total: 1, Status: model.InvoiceStatusPending, PatientID: f.patient.ID,
		}))
	}

	next, err := NewNumberGenerator(f.clock, f.repos.Invoices).Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "INV-202503-000008", next)
}

func TestProcessPayment_PartialThenFull(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	inv := f.invoice(t, 100)

	p1, err := f.svc.ProcessPayment(ctx, model.ProcessPaymentRequest{InvoiceID: inv.ID, Amount: 40, PaymentMethod: "card"})
	require.NoError(t, err)
	assert.Equal(t, inv.ID, p1.InvoiceID)

	got, err := f.svc.GetInvoice(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusPartiallyPaid, got.Status)
	assert.Nil(t, got.DatePaid)

	f.clock.Advance(time.Hour)
	_, err = f.svc.ProcessPayment(ctx, model.ProcessPaymentRequest{InvoiceID: inv.ID, Amount: 60, PaymentMethod: "cash"})
	require.NoError(t, err)

	got, err = f.svc.GetInvoice(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusPaid, got.Status)
	require.NotNil(t, got.DatePaid)
	assert.Equal(t, f.clock.Now(), *got.DatePaid)

	payments, err := f.svc.GetPaymentsByInvoice(ctx, inv.ID)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.Equal(t, "cash", payments[0].PaymentMethod)
}

func TestProcessPayment_OverpaymentSettles(t *testing.T) {
	f := newFixture(t)
	inv := f.invoice(t, 30)

	_, err := f.svc.ProcessPayment(context.Background(), model.ProcessPaymentRequest{InvoiceID: inv.ID, Amount: 45, PaymentMethod: "card"})
	require.NoError(t, err)

	got, err := f.svc.GetInvoice(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusPaid, got.Status)
}

func TestProcessPayment_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	paid := f.invoice(t, 10)
	_, err := f.svc.ProcessPayment(ctx, model.ProcessPaymentRequest{InvoiceID: paid.ID, Amount: 10, PaymentMethod: "card"})
	require.NoError(t, err)

	cancelled := f.invoice(t, 10)
	_, err = f.svc.UpdateInvoiceStatus(ctx, cancelled.ID, model.InvoiceStatusCancelled)
	require.NoError(t, err)

	tests := []struct {
		name    string
		req     model.ProcessPaymentRequest
		message string
	}{
		{"already paid", model.ProcessPaymentRequest{InvoiceID: paid.ID, Amount: 1, PaymentMethod: "card"}, "invoice is already paid"},
		{"cancelled", model.ProcessPaymentRequest{InvoiceID: cancelled.ID, Amount: 1, PaymentMethod: "card"}, "cannot pay a cancelled invoice"},
		{"missing invoice", model.ProcessPaymentRequest{InvoiceID: 999, Amount: 1, PaymentMethod: "card"}, "invoice not found"},
		{"zero amount", model.ProcessPaymentRequest{InvoiceID: paid.ID, Amount: 0.001, PaymentMethod: "card"}, "payment amount must be greater than zero"},
		{"blank method", model.ProcessPaymentRequest{InvoiceID: paid.ID, Amount: 1, PaymentMethod: "  "}, "payment method is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.ProcessPayment(ctx, tt.req)
			require.Error(t, err)
			appErr, ok := apperrors.As(err)
			require.True(t, ok)
			assert.Equal(t, apperrors.ErrBadRequest, appErr.Code)
			assert.Equal(t, tt.message, appErr.Message)
		})
	}
	assert.Equal(t, 1, f.repos.Store.Counts()["payments"])
}

func TestUpdateInvoiceStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	inv := f.invoice(t, 10)

	got, err := f.svc.UpdateInvoiceStatus(ctx, inv.ID, model.InvoiceStatusPaid)
	require.NoError(t, err)
	require.NotNil(t, got.DatePaid)
	stamped := *got.DatePaid

	f.clock.Advance(24 * time.Hour)
	got, err = f.svc.UpdateInvoiceStatus(ctx, inv.ID, model.InvoiceStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, stamped, *got.DatePaid)

	got, err = f.svc.UpdateInvoiceStatus(ctx, inv.ID, model.InvoiceStatusOverdue)
	require.NoError(t, err)
	assert.Nil(t, got.DatePaid)

	got, err = f.svc.UpdateInvoiceStatus(ctx, 999, model.InvoiceStatusPaid)
	assert.NoError(t, err)
	assert.Nil(t, got)

	_, err = f.svc.UpdateInvoiceStatus(ctx, inv.ID, model.InvoiceStatus("Refunded"))
	assert.True(t, apperrors.HasCode(err, apperrors.ErrBadRequest))
}

func TestGetPaymentsByInvoice_MissingInvoice(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.GetPaymentsByInvoice(context.Background(), 42)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrNotFound))
}
