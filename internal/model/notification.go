package model

import (
	"time"

	"github.com/google/uuid"
)

type NotificationKind string

const (
	NotificationAppointmentConfirmed NotificationKind = "appointment_confirmed"
	NotificationInvoiceIssued        NotificationKind = "invoice_issued"
	NotificationLabResultReady       NotificationKind = "lab_result_ready"
)

// Notification is the unit handed to a dispatcher and, in broker mode, the queued message body.
type Notification struct {
	ID        uuid.UUID        `json:"id"`
	Kind      NotificationKind `json:"kind"`
	Recipient string           `json:"recipient"`
	Subject   string           `json:"subject"`
	Body      string           `json:"body"`
	CreatedAt time.Time        `json:"createdAt"`
}
