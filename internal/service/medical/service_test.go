package medical

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository/repotest"
	"github.com/jwalitptl/hospital-api/pkg/clock"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
)

func setup(t *testing.T) (*Service, *repotest.Repos, *clock.Simulated, *model.Patient) {
	t.Helper()
	repos := repotest.NewRepos()
	patient := &model.Patient{Name: "Ana", Age: 30, Insurance: "X"}
	require.NoError(t, repos.Patients.Create(context.Background(), patient))

	clk := clock.NewSimulated(time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC))
	return NewService(repos.Records, repos.Patients, clk), repos, clk, patient
}

func TestCreateMedicalRecord_OnePerPatient(t *testing.T) {
	svc, _, clk, patient := setup(t)
	ctx := context.Background()

	diagnosis := "Hypertension"
	record, err := svc.CreateMedicalRecord(ctx, model.CreateMedicalRecordRequest{PatientID: patient.ID, Diagnosis: &diagnosis})
	require.NoError(t, err)
	assert.Equal(t, "Ana", record.PatientName)
	assert.Equal(t, clk.Now(), record.CreatedAt)
	assert.Empty(t, record.ClinicalEntries)

	_, err = svc.CreateMedicalRecord(ctx, model.CreateMedicalRecordRequest{PatientID: patient.ID})
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrBadRequest, appErr.Code)
	assert.Equal(t, "patient already has a medical record", appErr.Message)
}

func TestCreateMedicalRecord_UnknownPatient(t *testing.T) {
	svc, _, _, _ := setup(t)
	_, err := svc.CreateMedicalRecord(context.Background(), model.CreateMedicalRecordRequest{PatientID: 404})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrBadRequest))
}

func TestClinicalEntries_NewestFirst(t *testing.T) {
	svc, _, clk, patient := setup(t)
	ctx := context.Background()

	record, err := svc.CreateMedicalRecord(ctx, model.CreateMedicalRecordRequest{PatientID: patient.ID})
	require.NoError(t, err)

	first, err := svc.AddClinicalEntry(ctx, model.CreateClinicalEntryRequest{RecordID: record.ID, Notes: "Initial visit"})
	require.NoError(t, err)
	assert.Equal(t, clk.Now(), first.Date)

	clk.Advance(48 * time.Hour)
	second, err := svc.AddClinicalEntry(ctx, model.CreateClinicalEntryRequest{RecordID: record.ID, Notes: "Follow-up"})
	require.NoError(t, err)

	entries, err := svc.GetClinicalEntriesByRecord(ctx, record.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, second.ID, entries[0].ID)
	assert.Equal(t, first.ID, entries[1].ID)

	byPatient, err := svc.GetByPatient(ctx, patient.ID)
	require.NoError(t, err)
	require.Len(t, byPatient.ClinicalEntries, 2)
	assert.Equal(t, "Follow-up", byPatient.ClinicalEntries[0].Notes)
}

func TestAddClinicalEntry_MissingRecord(t *testing.T) {
	svc, repos, _, _ := setup(t)

	_, err := svc.AddClinicalEntry(context.Background(), model.CreateClinicalEntryRequest{RecordID: 77, Notes: "orphan"})
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, "medical record not found", appErr.Message)
	assert.Equal(t, 0, repos.Store.Counts()["entries"])

	_, err = svc.GetClinicalEntriesByRecord(context.Background(), 77)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrNotFound))
}

func TestUpdateMedicalRecord(t *testing.T) {
	svc, _, _, patient := setup(t)
	ctx := context.Background()

	record, err := svc.CreateMedicalRecord(ctx, model.CreateMedicalRecordRequest{PatientID: patient.ID})
	require.NoError(t, err)

	treatment := "ACE inhibitors"
	got, err := svc.UpdateMedicalRecord(ctx, record.ID, model.UpdateMedicalRecordRequest{Treatment: &treatment})
	require.NoError(t, err)
	assert.Equal(t, "ACE inhibitors", *got.Treatment)
	assert.Nil(t, got.Diagnosis)

	missing, err := svc.UpdateMedicalRecord(ctx, 999, model.UpdateMedicalRecordRequest{Treatment: &treatment})
	assert.NoError(t, err)
	assert.Nil(t, missing)
}
