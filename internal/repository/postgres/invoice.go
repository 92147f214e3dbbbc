package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

type invoiceRepository struct {
	BaseRepository
}

func NewInvoiceRepository(base BaseRepository) repository.InvoiceRepository {
	return &invoiceRepository{base}
}

const invoiceSelect = `
	SELECT i.id, i.invoice_number, i.total, i.description, i.status, i.date_issued,
		i.date_paid, i.patient_id, p.name AS patient_name
	FROM invoices i
	JOIN patients p ON p.id = i.patient_id
`

const paymentColumns = `id, amount, payment_method, transaction_id, payment_date, invoice_id`

func (r *invoiceRepository) Create(ctx context.Context, inv *model.Invoice) error {
	query := `
		INSERT INTO invoices (invoice_number, total, description, status, date_issued, date_paid, patient_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.db.QueryRowxContext(ctx, query,
		inv.InvoiceNumber,
		inv.Total,
		inv.Description,
		inv.Status,
		inv.DateIssued,
		inv.DatePaid,
		inv.PatientID,
	).Scan(&inv.ID)
	return mapError("failed to create invoice", err)
}

func (r *invoiceRepository) GetByID(ctx context.Context, id int) (*model.Invoice, error) {
	var inv model.Invoice
	if err := r.db.GetContext(ctx, &inv, invoiceSelect+` WHERE i.id = $1`, id); err != nil {
		return nil, mapError("failed to get invoice", err)
	}
	payments, err := r.ListPayments(ctx, id)
	if err != nil {
		return nil, err
	}
	inv.Payments = payments
	return &inv, nil
}

func (r *invoiceRepository) List(ctx context.Context) ([]*model.Invoice, error) {
	return r.list(ctx, invoiceSelect+` ORDER BY i.date_issued DESC, i.id DESC`)
}

func (r *invoiceRepository) ListByPatient(ctx context.Context, patientID int) ([]*model.Invoice, error) {
	return r.list(ctx, invoiceSelect+` WHERE i.patient_id = $1 ORDER BY i.date_issued DESC, i.id DESC`, patientID)
}

func (r *invoiceRepository) list(ctx context.Context, query string, args ...interface{}) ([]*model.Invoice, error) {
	var invoices []*model.Invoice
	if err := r.db.SelectContext(ctx, &invoices, query, args...); err != nil {
		return nil, mapError("failed to list invoices", err)
	}
	if len(invoices) == 0 {
		return invoices, nil
	}

	ids := make([]int64, len(invoices))
	byID := make(map[int]*model.Invoice, len(invoices))
	for i, inv := range invoices {
		ids[i] = int64(inv.ID)
		inv.Payments = []model.Payment{}
		byID[inv.ID] = inv
	}

	var payments []model.Payment
	err := r.db.SelectContext(ctx, &payments,
		`SELECT `+paymentColumns+` FROM payments WHERE invoice_id = ANY($1) ORDER BY payment_date DESC, id DESC`,
		pq.Array(ids),
	)
	if err != nil {
		return nil, mapError("failed to list payments", err)
	}
	for _, p := range payments {
		if inv, ok := byID[p.InvoiceID]; ok {
			inv.Payments = append(inv.Payments, p)
		}
	}
	return invoices, nil
}

func (r *invoiceRepository) ListNumbersWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	var numbers []string
	err := r.db.SelectContext(ctx, &numbers,
		`SELECT invoice_number FROM invoices WHERE invoice_number LIKE $1`, prefix+"%")
	if err != nil {
		return nil, mapError("failed to list invoice numbers", err)
	}
	return numbers, nil
}

func (r *invoiceRepository) UpdateStatus(ctx context.Context, id int, status model.InvoiceStatus, datePaid *time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE invoices SET status = $1, date_paid = $2 WHERE id = $3`, status, datePaid, id)
	if err != nil {
		return mapError("failed to update invoice", err)
	}
	return expectAffected("failed to update invoice", res)
}

func (r *invoiceRepository) ApplyPayment(
	ctx context.Context,
	invoiceID int,
	payment *model.Payment,
	settle func(inv *model.Invoice, paid float64) error,
) (*model.Invoice, error) {
	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		var inv model.Invoice
		err := tx.GetContext(ctx, &inv, `
			SELECT id, invoice_number, total, description, status, date_issued, date_paid, patient_id
			FROM invoices WHERE id = $1 FOR UPDATE`, invoiceID)
		if err != nil {
			return mapError("failed to lock invoice", err)
		}

		var paid float64
		if err := tx.GetContext(ctx, &paid,
			`SELECT COALESCE(SUM(amount), 0) FROM payments WHERE invoice_id = $1`, invoiceID); err != nil {
			return mapError("failed to sum payments", err)
		}

		if err := settle(&inv, paid+payment.Amount); err != nil {
			return err
		}

		payment.InvoiceID = invoiceID
		if err := tx.QueryRowxContext(ctx, `
			INSERT INTO payments (amount, payment_method, transaction_id, payment_date, invoice_id)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id`,
			payment.Amount, payment.PaymentMethod, payment.TransactionID, payment.PaymentDate, invoiceID,
		).Scan(&payment.ID); err != nil {
			return mapError("failed to create payment", err)
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE invoices SET status = $1, date_paid = $2 WHERE id = $3`,
			inv.Status, inv.DatePaid, invoiceID); err != nil {
			return mapError("failed to update invoice", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, invoiceID)
}

func (r *invoiceRepository) ListPayments(ctx context.Context, invoiceID int) ([]model.Payment, error) {
	payments := []model.Payment{}
	err := r.db.SelectContext(ctx, &payments,
		`SELECT `+paymentColumns+` FROM payments WHERE invoice_id = $1 ORDER BY payment_date DESC, id DESC`,
		invoiceID)
	if err != nil {
		return nil, mapError("failed to list payments", err)
	}
	return payments, nil
}
