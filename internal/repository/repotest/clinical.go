package repotest

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jwalitptl/hospital-api/internal/model"
)

type AppointmentRepository struct{ s *Store }

func NewAppointmentRepository(s *Store) *AppointmentRepository {
	if s == nil {
		s = NewStore()
	}
	return &AppointmentRepository{s: s}
}

func (r *AppointmentRepository) view(a model.Appointment) *model.Appointment {
	a.PatientName = r.s.patientName(a.PatientID)
	d := r.s.doctors[a.DoctorID]
	a.DoctorName = d.Name
	a.DoctorSpecialization = d.Specialization
	return &a
}

func (r *AppointmentRepository) Create(_ context.Context, a *model.Appointment) error {
	err := r.s.lock("Appointment.Create")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	if _, ok := r.s.patients[a.PatientID]; !ok {
		return referenced("failed to create appointment")
	}
	if _, ok := r.s.doctors[a.DoctorID]; !ok {
		return referenced("failed to create appointment")
	}
	if r.slotTaken(*a) {
		return duplicate("failed to create appointment")
	}
	a.ID = r.s.nextID()
	r.s.appointments[a.ID] = *a
	return nil
}

func (r *AppointmentRepository) GetByID(_ context.Context, id int) (*model.Appointment, error) {
	err := r.s.lock("Appointment.GetByID")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	a, ok := r.s.appointments[id]
	if !ok {
		return nil, notFound("failed to get appointment")
	}
	return r.view(a), nil
}

func (r *AppointmentRepository) List(_ context.Context) ([]*model.Appointment, error) {
	return r.filter("Appointment.List", func(model.Appointment) bool { return true })
}

func (r *AppointmentRepository) ListByPatient(_ context.Context, patientID int) ([]*model.Appointment, error) {
	return r.filter("Appointment.ListByPatient", func(a model.Appointment) bool { return a.PatientID == patientID })
}

func (r *AppointmentRepository) ListByDoctor(_ context.Context, doctorID int) ([]*model.Appointment, error) {
	return r.filter("Appointment.ListByDoctor", func(a model.Appointment) bool { return a.DoctorID == doctorID })
}

func (r *AppointmentRepository) filter(op string, keep func(model.Appointment) bool) ([]*model.Appointment, error) {
	err := r.s.lock(op)
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	out := []*model.Appointment{}
	for _, id := range sortedKeys(r.s.appointments) {
		if a := r.s.appointments[id]; keep(a) {
			out = append(out, r.view(a))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out, nil
}

func (r *AppointmentRepository) Update(_ context.Context, a *model.Appointment) error {
	err := r.s.lock("Appointment.Update")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	existing, ok := r.s.appointments[a.ID]
	if !ok {
		return notFound("failed to update appointment")
	}
	existing.Time, existing.Status, existing.Reason = a.Time, a.Status, a.Reason
	if r.slotTaken(existing) {
		return duplicate("failed to update appointment")
	}
	r.s.appointments[a.ID] = existing
	return nil
}

// slotTaken mirrors idx_appointments_doctor_live: a live appointment may not
// share its doctor and time with another live one.
func (r *AppointmentRepository) slotTaken(a model.Appointment) bool {
	if a.Status == model.AppointmentStatusCancelled {
		return false
	}
	for id, other := range r.s.appointments {
		if id != a.ID && other.DoctorID == a.DoctorID && other.Time.Equal(a.Time) &&
			other.Status != model.AppointmentStatusCancelled {
			return true
		}
	}
	return false
}

func (r *AppointmentRepository) HasConflict(_ context.Context, doctorID int, t time.Time) (bool, error) {
	err := r.s.lock("Appointment.HasConflict")
	defer r.s.mu.Unlock()
	if err != nil {
		return false, err
	}
	for _, a := range r.s.appointments {
		if a.DoctorID == doctorID && a.Time.Equal(t) && a.Status != model.AppointmentStatusCancelled {
			return true, nil
		}
	}
	return false, nil
}

type InvoiceRepository struct{ s *Store }

func NewInvoiceRepository(s *Store) *InvoiceRepository {
	if s == nil {
		s = NewStore()
	}
	return &InvoiceRepository{s: s}
}

func (r *InvoiceRepository) view(inv model.Invoice) *model.Invoice {
	inv.PatientName = r.s.patientName(inv.PatientID)
	inv.Payments = r.s.paymentsFor(inv.ID)
	return &inv
}

func (s *Store) paymentsFor(invoiceID int) []model.Payment {
	out := []model.Payment{}
	for _, id := range sortedKeys(s.payments) {
		if p := s.payments[id]; p.InvoiceID == invoiceID {
			out = append(out, p)
		}
	}
	// newest first, later ids win ties
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].PaymentDate.Equal(out[j].PaymentDate) {
			return out[i].ID > out[j].ID
		}
		return out[i].PaymentDate.After(out[j].PaymentDate)
	})
	return out
}

func (r *InvoiceRepository) Create(_ context.Context, inv *model.Invoice) error {
	err := r.s.lock("Invoice.Create")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	if _, ok := r.s.patients[inv.PatientID]; !ok {
		return referenced("failed to create invoice")
	}
	for _, existing := range r.s.invoices {
		if existing.InvoiceNumber == inv.InvoiceNumber {
			return duplicate("failed to create invoice")
		}
	}
	inv.ID = r.s.nextID()
	stored := *inv
	stored.Payments = nil
	r.s.invoices[inv.ID] = stored
	return nil
}

func (r *InvoiceRepository) GetByID(_ context.Context, id int) (*model.Invoice, error) {
	err := r.s.lock("Invoice.GetByID")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	inv, ok := r.s.invoices[id]
	if !ok {
		return nil, notFound("failed to get invoice")
	}
	return r.view(inv), nil
}

func (r *InvoiceRepository) List(_ context.Context) ([]*model.Invoice, error) {
	return r.filter("Invoice.List", func(model.Invoice) bool { return true })
}

func (r *InvoiceRepository) ListByPatient(_ context.Context, patientID int) ([]*model.Invoice, error) {
	return r.filter("Invoice.ListByPatient", func(inv model.Invoice) bool { return inv.PatientID == patientID })
}

func (r *InvoiceRepository) filter(op string, keep func(model.Invoice) bool) ([]*model.Invoice, error) {
	err := r.s.lock(op)
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	out := []*model.Invoice{}
	keys := sortedKeys(r.s.invoices)
	for i := len(keys) - 1; i >= 0; i-- {
		if inv := r.s.invoices[keys[i]]; keep(inv) {
			out = append(out, r.view(inv))
		}
	}
	return out, nil
}

func (r *InvoiceRepository) ListNumbersWithPrefix(_ context.Context, prefix string) ([]string, error) {
	err := r.s.lock("Invoice.ListNumbersWithPrefix")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	out := []string{}
	for _, inv := range r.s.invoices {
		if strings.HasPrefix(inv.InvoiceNumber, prefix) {
			out = append(out, inv.InvoiceNumber)
		}
	}
	return out, nil
}

func (r *InvoiceRepository) UpdateStatus(_ context.Context, id int, status model.InvoiceStatus, datePaid *time.Time) error {
	err := r.s.lock("Invoice.UpdateStatus")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	inv, ok := r.s.invoices[id]
	if !ok {
		return notFound("failed to update invoice")
	}
	inv.Status, inv.DatePaid = status, datePaid
	r.s.invoices[id] = inv
	return nil
}

func (r *InvoiceRepository) ApplyPayment(
	_ context.Context,
	invoiceID int,
	payment *model.Payment,
	settle func(inv *model.Invoice, paid float64) error,
) (*model.Invoice, error) {
	err := r.s.lock("Invoice.ApplyPayment")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	inv, ok := r.s.invoices[invoiceID]
	if !ok {
		return nil, notFound("failed to lock invoice")
	}
	paid := payment.Amount
	for _, p := range r.s.payments {
		if p.InvoiceID == invoiceID {
			paid += p.Amount
		}
	}
	if err := settle(&inv, paid); err != nil {
		return nil, err
	}
	payment.InvoiceID = invoiceID
	payment.ID = r.s.nextID()
	r.s.payments[payment.ID] = *payment
	r.s.invoices[invoiceID] = inv
	return r.view(inv), nil
}

func (r *InvoiceRepository) ListPayments(_ context.Context, invoiceID int) ([]model.Payment, error) {
	err := r.s.lock("Invoice.ListPayments")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return r.s.paymentsFor(invoiceID), nil
}

type LabResultRepository struct{ s *Store }

func NewLabResultRepository(s *Store) *LabResultRepository {
	if s == nil {
		s = NewStore()
	}
	return &LabResultRepository{s: s}
}

func (r *LabResultRepository) view(l model.LabResult) *model.LabResult {
	l.PatientName = r.s.patientName(l.PatientID)
	l.DoctorName = r.s.doctorName(l.DoctorID)
	l.NurseName = r.s.nurseName(l.NurseID)
	return &l
}

func (r *LabResultRepository) Create(_ context.Context, l *model.LabResult) error {
	err := r.s.lock("LabResult.Create")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	if _, ok := r.s.patients[l.PatientID]; !ok {
		return referenced("failed to create lab result")
	}
	if l.DoctorID != nil {
		if _, ok := r.s.doctors[*l.DoctorID]; !ok {
			return referenced("failed to create lab result")
		}
	}
	if l.NurseID != nil {
		if _, ok := r.s.nurses[*l.NurseID]; !ok {
			return referenced("failed to create lab result")
		}
	}
	l.ID = r.s.nextID()
	r.s.labResults[l.ID] = *l
	return nil
}

func (r *LabResultRepository) GetByID(_ context.Context, id int) (*model.LabResult, error) {
	err := r.s.lock("LabResult.GetByID")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	l, ok := r.s.labResults[id]
	if !ok {
		return nil, notFound("failed to get lab result")
	}
	return r.view(l), nil
}

func (r *LabResultRepository) List(_ context.Context) ([]*model.LabResult, error) {
	return r.filter("LabResult.List", func(model.LabResult) bool { return true })
}

func (r *LabResultRepository) ListByPatient(_ context.Context, patientID int) ([]*model.LabResult, error) {
	return r.filter("LabResult.ListByPatient", func(l model.LabResult) bool { return l.PatientID == patientID })
}

func (r *LabResultRepository) filter(op string, keep func(model.LabResult) bool) ([]*model.LabResult, error) {
	err := r.s.lock(op)
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	out := []*model.LabResult{}
	for _, id := range sortedKeys(r.s.labResults) {
		if l := r.s.labResults[id]; keep(l) {
			out = append(out, r.view(l))
		}
	}
	return out, nil
}

func (r *LabResultRepository) Update(_ context.Context, l *model.LabResult) error {
	err := r.s.lock("LabResult.Update")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	existing, ok := r.s.labResults[l.ID]
	if !ok {
		return notFound("failed to update lab result")
	}
	existing.ResultData, existing.ResultDate = l.ResultData, l.ResultDate
	existing.Diagnosis, existing.Treatment = l.Diagnosis, l.Treatment
	r.s.labResults[l.ID] = existing
	return nil
}

func (r *LabResultRepository) Delete(_ context.Context, id int) error {
	err := r.s.lock("LabResult.Delete")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	if _, ok := r.s.labResults[id]; !ok {
		return notFound("failed to delete lab result")
	}
	delete(r.s.labResults, id)
	return nil
}

type MedicalRecordRepository struct{ s *Store }

func NewMedicalRecordRepository(s *Store) *MedicalRecordRepository {
	if s == nil {
		s = NewStore()
	}
	return &MedicalRecordRepository{s: s}
}

func (r *MedicalRecordRepository) view(m model.MedicalRecord) *model.MedicalRecord {
	m.PatientName = r.s.patientName(m.PatientID)
	m.ClinicalEntries = r.s.entriesFor(m.ID)
	return &m
}

func (s *Store) entriesFor(recordID int) []model.ClinicalEntry {
	out := []model.ClinicalEntry{}
	for _, id := range sortedKeys(s.entries) {
		if e := s.entries[id]; e.RecordID == recordID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].ID > out[j].ID
		}
		return out[i].Date.After(out[j].Date)
	})
	return out
}

func (r *MedicalRecordRepository) Create(_ context.Context, m *model.MedicalRecord) error {
	err := r.s.lock("MedicalRecord.Create")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	if _, ok := r.s.patients[m.PatientID]; !ok {
		return referenced("failed to create medical record")
	}
	for _, existing := range r.s.records {
		if existing.PatientID == m.PatientID {
			return duplicate("failed to create medical record")
		}
	}
	m.ID = r.s.nextID()
	stored := *m
	stored.ClinicalEntries = nil
	r.s.records[m.ID] = stored
	return nil
}

func (r *MedicalRecordRepository) GetByID(_ context.Context, id int) (*model.MedicalRecord, error) {
	err := r.s.lock("MedicalRecord.GetByID")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	m, ok := r.s.records[id]
	if !ok {
		return nil, notFound("failed to get medical record")
	}
	return r.view(m), nil
}

func (r *MedicalRecordRepository) GetByPatient(_ context.Context, patientID int) (*model.MedicalRecord, error) {
	err := r.s.lock("MedicalRecord.GetByPatient")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	for _, m := range r.s.records {
		if m.PatientID == patientID {
			return r.view(m), nil
		}
	}
	return nil, notFound("failed to get medical record")
}

func (r *MedicalRecordRepository) Update(_ context.Context, m *model.MedicalRecord) error {
	err := r.s.lock("MedicalRecord.Update")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	existing, ok := r.s.records[m.ID]
	if !ok {
		return notFound("failed to update medical record")
	}
	existing.Diagnosis, existing.Treatment = m.Diagnosis, m.Treatment
	r.s.records[m.ID] = existing
	return nil
}

func (r *MedicalRecordRepository) CreateEntry(_ context.Context, e *model.ClinicalEntry) error {
	err := r.s.lock("MedicalRecord.CreateEntry")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	if _, ok := r.s.records[e.RecordID]; !ok {
		return referenced("failed to create clinical entry")
	}
	e.ID = r.s.nextID()
	r.s.entries[e.ID] = *e
	return nil
}

func (r *MedicalRecordRepository) ListEntries(_ context.Context, recordID int) ([]model.ClinicalEntry, error) {
	err := r.s.lock("MedicalRecord.ListEntries")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return r.s.entriesFor(recordID), nil
}

type PrescriptionRepository struct{ s *Store }

func NewPrescriptionRepository(s *Store) *PrescriptionRepository {
	if s == nil {
		s = NewStore()
	}
	return &PrescriptionRepository{s: s}
}

func (r *PrescriptionRepository) view(p model.Prescription) *model.Prescription {
	p.PatientName = r.s.patientName(p.PatientID)
	p.DoctorName = r.s.doctors[p.DoctorID].Name
	return &p
}

func (r *PrescriptionRepository) Create(_ context.Context, p *model.Prescription) error {
	err := r.s.lock("Prescription.Create")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	if _, ok := r.s.patients[p.PatientID]; !ok {
		return referenced("failed to create prescription")
	}
	if _, ok := r.s.doctors[p.DoctorID]; !ok {
		return referenced("failed to create prescription")
	}
	p.ID = r.s.nextID()
	r.s.prescriptions[p.ID] = *p
	return nil
}

func (r *PrescriptionRepository) GetByID(_ context.Context, id int) (*model.Prescription, error) {
	err := r.s.lock("Prescription.GetByID")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	p, ok := r.s.prescriptions[id]
	if !ok {
		return nil, notFound("failed to get prescription")
	}
	return r.view(p), nil
}

func (r *PrescriptionRepository) List(_ context.Context) ([]*model.Prescription, error) {
	return r.filter("Prescription.List", func(model.Prescription) bool { return true })
}

func (r *PrescriptionRepository) ListByPatient(_ context.Context, patientID int) ([]*model.Prescription, error) {
	return r.filter("Prescription.ListByPatient", func(p model.Prescription) bool { return p.PatientID == patientID })
}

func (r *PrescriptionRepository) ListByDoctor(_ context.Context, doctorID int) ([]*model.Prescription, error) {
	return r.filter("Prescription.ListByDoctor", func(p model.Prescription) bool { return p.DoctorID == doctorID })
}

func (r *PrescriptionRepository) filter(op string, keep func(model.Prescription) bool) ([]*model.Prescription, error) {
	err := r.s.lock(op)
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	out := []*model.Prescription{}
	for _, id := range sortedKeys(r.s.prescriptions) {
		if p := r.s.prescriptions[id]; keep(p) {
			out = append(out, r.view(p))
		}
	}
	return out, nil
}

func (r *PrescriptionRepository) Update(_ context.Context, p *model.Prescription) error {
	err := r.s.lock("Prescription.Update")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	existing, ok := r.s.prescriptions[p.ID]
	if !ok {
		return notFound("failed to update prescription")
	}
	existing.Instructions, existing.Medication = p.Instructions, p.Medication
	existing.Dosage, existing.ExpiryDate = p.Dosage, p.ExpiryDate
	r.s.prescriptions[p.ID] = existing
	return nil
}

func (r *PrescriptionRepository) Delete(_ context.Context, id int) error {
	err := r.s.lock("Prescription.Delete")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	if _, ok := r.s.prescriptions[id]; !ok {
		return notFound("failed to delete prescription")
	}
	delete(r.s.prescriptions, id)
	return nil
}
