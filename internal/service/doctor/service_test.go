package doctor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository/repotest"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
)

func setup(t *testing.T) (*Service, *repotest.Repos, *model.Department) {
	t.Helper()
	repos := repotest.NewRepos()
	dept := &model.Department{Name: "Cardiology"}
	require.NoError(t, repos.Departments.Create(context.Background(), dept))
	return NewService(repos.Doctors, repos.Departments, repos.Appointments), repos, dept
}

func TestCreateDoctor(t *testing.T) {
	svc, _, dept := setup(t)
	ctx := context.Background()

	d, err := svc.CreateDoctor(ctx, model.CreateDoctorRequest{
		Name: " Dr. Yang ", Specialization: "Cardiothoracic", ConsultationFee: 250, DepartmentID: dept.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Dr. Yang", d.Name)
	assert.Equal(t, "Cardiology", d.DepartmentName)

	_, err = svc.CreateDoctor(ctx, model.CreateDoctorRequest{Name: "Dr. X", Specialization: "GP", DepartmentID: 999})
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, "department not found", appErr.Message)
}

func TestUpdateDoctor_Partial(t *testing.T) {
	svc, _, dept := setup(t)
	ctx := context.Background()
	d, err := svc.CreateDoctor(ctx, model.CreateDoctorRequest{Name: "Dr. Yang", Specialization: "Cardio", DepartmentID: dept.ID})
	require.NoError(t, err)

	fee := 300
	got, err := svc.UpdateDoctor(ctx, d.ID, model.UpdateDoctorRequest{ConsultationFee: &fee})
	require.NoError(t, err)
	assert.Equal(t, 300, got.ConsultationFee)
	assert.Equal(t, "Cardio", got.Specialization)

	missing, err := svc.UpdateDoctor(ctx, 999, model.UpdateDoctorRequest{ConsultationFee: &fee})
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestDeleteDoctor(t *testing.T) {
	svc, repos, dept := setup(t)
	ctx := context.Background()
	d, err := svc.CreateDoctor(ctx, model.CreateDoctorRequest{Name: "Dr. Yang", Specialization: "Cardio", DepartmentID: dept.ID})
	require.NoError(t, err)

	patient := &model.Patient{Name: "Ana", Age: 30, Insurance: "X", DoctorID: &d.ID}
	require.NoError(t, repos.Patients.Create(ctx, patient))
	require.NoError(t, repos.Appointments.Create(ctx, &model.Appointment{
		Time: time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC), Status: model.AppointmentStatusScheduled,
		PatientID: patient.ID, DoctorID: d.ID,
	}))

	err = svc.DeleteDoctor(ctx, d.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrBadRequest))

	other, err := svc.CreateDoctor(ctx, model.CreateDoctorRequest{Name: "Dr. Free", Specialization: "GP", DepartmentID: dept.ID})
	require.NoError(t, err)
	patient.DoctorID = &other.ID
	require.NoError(t, repos.Patients.Update(ctx, patient))

	require.NoError(t, svc.DeleteDoctor(ctx, other.ID))
	got, err := repos.Patients.GetByID(ctx, patient.ID)
	require.NoError(t, err)
	assert.Nil(t, got.DoctorID)

	err = svc.DeleteDoctor(ctx, other.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrNotFound))
}

func TestCheckAvailability(t *testing.T) {
	svc, repos, dept := setup(t)
	ctx := context.Background()
	d, err := svc.CreateDoctor(ctx, model.CreateDoctorRequest{Name: "Dr. Yang", Specialization: "Cardio", DepartmentID: dept.ID})
	require.NoError(t, err)
	patient := &model.Patient{Name: "Ana", Age: 30, Insurance: "X"}
	require.NoError(t, repos.Patients.Create(ctx, patient))

	at := time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repos.Appointments.Create(ctx, &model.Appointment{
		Time: at, Status: model.AppointmentStatusScheduled, PatientID: patient.ID, DoctorID: d.ID,
	}))

	res, err := svc.CheckAvailability(ctx, d.ID, at)
	require.NoError(t, err)
	assert.False(t, res.Available)

	res, err = svc.CheckAvailability(ctx, d.ID, at.Add(30*time.Minute))
	require.NoError(t, err)
	assert.True(t, res.Available)

	_, err = svc.CheckAvailability(ctx, 999, at)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrNotFound))
}
