package model

import (
	"time"
)

type InvoiceStatus string

const (
	InvoiceStatusPending       InvoiceStatus = "Pending"
	InvoiceStatusPaid          InvoiceStatus = "Paid"
	InvoiceStatusPartiallyPaid InvoiceStatus = "Partially Paid"
	InvoiceStatusOverdue       InvoiceStatus = "Overdue"
	InvoiceStatusCancelled     InvoiceStatus = "Cancelled"
)

func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusPaid, InvoiceStatusPartiallyPaid,
		InvoiceStatusOverdue, InvoiceStatusCancelled:
		return true
	}
	return false
}

// Invoice amounts are stored as NUMERIC(18,2).
type Invoice struct {
	ID            int           `db:"id" json:"invoiceId"`
	InvoiceNumber string        `db:"invoice_number" json:"invoiceNumber"`
	Total         float64       `db:"total" json:"total"`
	Description   *string       `db:"description" json:"description"`
	Status        InvoiceStatus `db:"status" json:"status"`
	DateIssued    time.Time     `db:"date_issued" json:"dateIssued"`
	DatePaid      *time.Time    `db:"date_paid" json:"datePaid"`
	PatientID     int           `db:"patient_id" json:"patientId"`
	PatientName   string        `db:"patient_name" json:"patientName"`
	Payments      []Payment     `db:"-" json:"payments"`
}

type Payment struct {
	ID            int       `db:"id" json:"paymentId"`
	Amount        float64   `db:"amount" json:"amount"`
	PaymentMethod string    `db:"payment_method" json:"paymentMethod"`
	TransactionID *string   `db:"transaction_id" json:"transactionId"`
	PaymentDate   time.Time `db:"payment_date" json:"paymentDate"`
	InvoiceID     int       `db:"invoice_id" json:"invoiceId"`
}

type CreateInvoiceRequest struct {
	PatientID   int     `json:"patientId" binding:"required,gt=0"`
	Total       float64 `json:"total" binding:"required,gt=0"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
}

type UpdateInvoiceStatusRequest struct {
	Status InvoiceStatus `json:"status" binding:"required,invoicestatus"`
}

type ProcessPaymentRequest struct {
	InvoiceID     int     `json:"invoiceId" binding:"required,gt=0"`
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	PaymentMethod string  `json:"paymentMethod" binding:"required,max=50"`
	TransactionID *string `json:"transactionId" binding:"omitempty,max=100"`
}
