package notification

import (
	"context"
	"sync"
	"time"
)

// Sent is one call captured by Recorder.
type Sent struct {
	Kind        string
	To          string
	PatientName string
	Detail      string
	At          time.Time
	Total       float64
}

// Recorder is a synchronous Notifier that keeps every call, for tests and dry runs.
type Recorder struct {
	mu   sync.Mutex
	sent []Sent
}

func (r *Recorder) NotifyAppointmentConfirmed(_ context.Context, to, patientName string, at time.Time, doctorName string) {
	r.add(Sent{Kind: "appointment", To: to, PatientName: patientName, Detail: doctorName, At: at})
}

func (r *Recorder) NotifyInvoiceIssued(_ context.Context, to, patientName, invoiceNumber string, total float64) {
	r.add(Sent{Kind: "invoice", To: to, PatientName: patientName, Detail: invoiceNumber, Total: total})
}

func (r *Recorder) NotifyLabResultReady(_ context.Context, to, patientName, resultType string) {
	r.add(Sent{Kind: "lab_result", To: to, PatientName: patientName, Detail: resultType})
}

func (r *Recorder) add(s Sent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, s)
}

func (r *Recorder) Sent() []Sent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Sent, len(r.sent))
	copy(out, r.sent)
	return out
}

var (
	_ Notifier = (*Service)(nil)
	_ Notifier = (*Recorder)(nil)
)
