package patient

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository/repotest"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
)

type world struct {
	repos  *repotest.Repos
	svc    *Service
	doctor *model.Doctor
}

func newWorld(t *testing.T) *world {
	t.Helper()
	ctx := context.Background()
	repos := repotest.NewRepos()
	dept := &model.Department{Name: "General"}
	require.NoError(t, repos.Departments.Create(ctx, dept))
	doctor := &model.Doctor{Name: "Dr. Grey", Specialization: "GP", DepartmentID: dept.ID}
	require.NoError(t, repos.Doctors.Create(ctx, doctor))
	return &world{repos: repos, svc: NewService(repos.Patients, repos.Doctors), doctor: doctor}
}

// seedHistory gives the patient one row in every dependent table. Each patient
// gets its own hour so the shared doctor is never double-booked.
func (w *world) seedHistory(t *testing.T, patientID int) {
	t.Helper()
	ctx := context.Background()
	at := time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC).Add(time.Duration(patientID) * time.Hour)

	require.NoError(t, w.repos.Appointments.Create(ctx, &model.Appointment{
		Time: at, Status: model.AppointmentStatusScheduled, PatientID: patientID, DoctorID: w.doctor.ID,
	}))
	inv := &model.Invoice{InvoiceNumber: fmt.Sprintf("INV-202503-%06d", patientID), Total: 100,
		Status: model.InvoiceStatusPending, DateIssued: at, PatientID: patientID}
	require.NoError(t, w.repos.Invoices.Create(ctx, inv))
	_, err := w.repos.Invoices.ApplyPayment(ctx, inv.ID, &model.Payment{Amount: 40, PaymentMethod: "card", PaymentDate: at},
		func(i *model.Invoice, _ float64) error {
			i.Status = model.InvoiceStatusPartiallyPaid
			return nil
		})
	require.NoError(t, err)
	require.NoError(t, w.repos.LabResults.Create(ctx, &model.LabResult{Type: "CBC", TestDate: at, PatientID: patientID}))
	require.NoError(t, w.repos.Prescriptions.Create(ctx, &model.Prescription{
		Instructions: "daily", Medication: "Aspirin", Dosage: "81mg", IssuedDate: at, DoctorID: w.doctor.ID, PatientID: patientID,
	}))
	record := &model.MedicalRecord{CreatedAt: at, PatientID: patientID}
	require.NoError(t, w.repos.Records.Create(ctx, record))
	require.NoError(t, w.repos.Records.CreateEntry(ctx, &model.ClinicalEntry{RecordID: record.ID, Date: at, Notes: "seen"}))
}

func TestCreatePatient(t *testing.T) {
	w := newWorld(t)
	email := " ana@example.com "
	p, err := w.svc.CreatePatient(context.Background(), model.CreatePatientRequest{
		Name: "Ana", Age: 30, Insurance: "X", Email: &email, DoctorID: &w.doctor.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", *p.Email)
	require.NotNil(t, p.DoctorName)
	assert.Equal(t, "Dr. Grey", *p.DoctorName)

	missing := 999
	_, err = w.svc.CreatePatient(context.Background(), model.CreatePatientRequest{
		Name: "Bo", Insurance: "Y", DoctorID: &missing,
	})
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, "doctor not found", appErr.Message)
}

func TestUpdatePatient_Partial(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	p, err := w.svc.CreatePatient(ctx, model.CreatePatientRequest{Name: "Ana", Age: 30, Insurance: "X"})
	require.NoError(t, err)

	age := 31
	got, err := w.svc.UpdatePatient(ctx, p.ID, model.UpdatePatientRequest{Age: &age})
	require.NoError(t, err)
	assert.Equal(t, 31, got.Age)
	assert.Equal(t, "Ana", got.Name)
	assert.Equal(t, "X", got.Insurance)

	missing, err := w.svc.UpdatePatient(ctx, 999, model.UpdatePatientRequest{Age: &age})
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestDeletePatient_RemovesDependents(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()

	ana, err := w.svc.CreatePatient(ctx, model.CreatePatientRequest{Name: "Ana", Age: 30, Insurance: "X"})
	require.NoError(t, err)
	bo, err := w.svc.CreatePatient(ctx, model.CreatePatientRequest{Name: "Bo", Age: 40, Insurance: "Y"})
	require.NoError(t, err)
	w.seedHistory(t, ana.ID)
	w.seedHistory(t, bo.ID)

	require.NoError(t, w.svc.DeletePatient(ctx, ana.ID))

	counts := w.repos.Store.Counts()
	assert.Equal(t, 1, counts["patients"])
	for _, table := range []string{"appointments", "invoices", "payments", "lab_results", "prescriptions", "records", "entries"} {
		assert.Equal(t, 1, counts[table], table)
	}

	got, err := w.svc.GetPatient(ctx, ana.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDeletePatient_StoreErrorIsInternal(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	ana, err := w.svc.CreatePatient(ctx, model.CreatePatientRequest{Name: "Ana", Age: 30, Insurance: "X"})
	require.NoError(t, err)
	w.seedHistory(t, ana.ID)

	w.repos.Store.FailNext("Patient.Delete", errors.New("deadlock detected"))
	err = w.svc.DeletePatient(ctx, ana.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrInternal))
}

func TestDeletePatient_FailureAfterFirstStepRollsBack(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	ana, err := w.svc.CreatePatient(ctx, model.CreatePatientRequest{Name: "Ana", Age: 30, Insurance: "X"})
	require.NoError(t, err)
	w.seedHistory(t, ana.ID)
	before := w.repos.Store.Counts()
	require.Equal(t, 1, before["appointments"])

	w.repos.Store.FailNext("Patient.Delete.invoices", errors.New("deadlock detected"))
	err = w.svc.DeletePatient(ctx, ana.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrInternal))
	assert.Equal(t, before, w.repos.Store.Counts())

	apts, err := w.repos.Appointments.ListByPatient(ctx, ana.ID)
	require.NoError(t, err)
	assert.Len(t, apts, 1)
}

func TestDeletePatient_Missing(t *testing.T) {
	w := newWorld(t)
	err := w.svc.DeletePatient(context.Background(), 42)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrNotFound))
}
