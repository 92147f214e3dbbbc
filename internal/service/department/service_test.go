package department

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository/repotest"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
)

type staffed struct {
	dept    *model.Department
	doctor  *model.Doctor
	nurse   *model.Nurse
	patient *model.Patient
	lab     *model.LabResult
}

func seed(t *testing.T, repos *repotest.Repos, name string) staffed {
	t.Helper()
	ctx := context.Background()
	at := time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC)

	dept := &model.Department{Name: name}
	require.NoError(t, repos.Departments.Create(ctx, dept))
	doctor := &model.Doctor{Name: "Dr. " + name, Specialization: "GP", DepartmentID: dept.ID}
	require.NoError(t, repos.Doctors.Create(ctx, doctor))
	nurse := &model.Nurse{Name: "Nurse " + name, Ward: "A", DepartmentID: dept.ID}
	require.NoError(t, repos.Nurses.Create(ctx, nurse))
	require.NoError(t, repos.Rooms.Create(ctx, &model.Room{Type: "Ward", Available: true, DepartmentID: dept.ID}))

	patient := &model.Patient{Name: "Patient " + name, Age: 50, Insurance: "X", DoctorID: &doctor.ID}
	require.NoError(t, repos.Patients.Create(ctx, patient))
	require.NoError(t, repos.Appointments.Create(ctx, &model.Appointment{
		Time: at, Status: model.AppointmentStatusScheduled, PatientID: patient.ID, DoctorID: doctor.ID,
	}))
	require.NoError(t, repos.Prescriptions.Create(ctx, &model.Prescription{
		Instructions: "daily", Medication: "Statin", Dosage: "10mg", IssuedDate: at, DoctorID: doctor.ID, PatientID: patient.ID,
	}))
	lab := &model.LabResult{Type: "Lipids", TestDate: at, PatientID: patient.ID, DoctorID: &doctor.ID, NurseID: &nurse.ID}
	require.NoError(t, repos.LabResults.Create(ctx, lab))

	return staffed{dept: dept, doctor: doctor, nurse: nurse, patient: patient, lab: lab}
}

func TestDepartmentCounts(t *testing.T) {
	repos := repotest.NewRepos()
	svc := NewService(repos.Departments, repos.Rooms)
	s := seed(t, repos, "Cardiology")

	got, err := svc.GetDepartment(context.Background(), s.dept.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.DoctorCount)
	assert.Equal(t, 1, got.NurseCount)
	assert.Equal(t, 1, got.RoomCount)

	rooms, err := svc.Rooms(context.Background(), s.dept.ID)
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, "Cardiology", rooms[0].DepartmentName)

	_, err = svc.Rooms(context.Background(), 999)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrNotFound))
}

func TestDeleteDepartment_FansOut(t *testing.T) {
	ctx := context.Background()
	repos := repotest.NewRepos()
	svc := NewService(repos.Departments, repos.Rooms)
	gone := seed(t, repos, "Cardiology")
	kept := seed(t, repos, "Oncology")

	require.NoError(t, svc.DeleteDepartment(ctx, gone.dept.ID))

	counts := repos.Store.Counts()
	assert.Equal(t, 1, counts["departments"])
	assert.Equal(t, 1, counts["doctors"])
	assert.Equal(t, 1, counts["nurses"])
	assert.Equal(t, 1, counts["rooms"])
	assert.Equal(t, 1, counts["appointments"])
	assert.Equal(t, 1, counts["prescriptions"])
	assert.Equal(t, 2, counts["patients"])
	assert.Equal(t, 2, counts["lab_results"])

	lab, err := repos.LabResults.GetByID(ctx, gone.lab.ID)
	require.NoError(t, err)
	assert.Nil(t, lab.DoctorID)
	assert.Nil(t, lab.NurseID)

	patient, err := repos.Patients.GetByID(ctx, gone.patient.ID)
	require.NoError(t, err)
	assert.Nil(t, patient.DoctorID)

	untouched, err := repos.Patients.GetByID(ctx, kept.patient.ID)
	require.NoError(t, err)
	require.NotNil(t, untouched.DoctorID)
	assert.Equal(t, kept.doctor.ID, *untouched.DoctorID)
}

func TestDeleteDepartment_StoreErrors(t *testing.T) {
	repos := repotest.NewRepos()
	svc := NewService(repos.Departments, repos.Rooms)
	s := seed(t, repos, "Cardiology")

	repos.Store.FailNext("Department.Delete", errors.New("serialization failure"))
	err := svc.DeleteDepartment(context.Background(), s.dept.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrInternal))

	err = svc.DeleteDepartment(context.Background(), 999)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrNotFound))
}

func TestDeleteDepartment_FailureAfterFirstStepRollsBack(t *testing.T) {
	ctx := context.Background()
	repos := repotest.NewRepos()
	svc := NewService(repos.Departments, repos.Rooms)
	s := seed(t, repos, "Cardiology")
	before := repos.Store.Counts()
	require.Equal(t, 1, before["appointments"])

	repos.Store.FailNext("Department.Delete.prescriptions", errors.New("serialization failure"))
	err := svc.DeleteDepartment(ctx, s.dept.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrInternal))
	assert.Equal(t, before, repos.Store.Counts())

	apts, err := repos.Appointments.ListByDoctor(ctx, s.doctor.ID)
	require.NoError(t, err)
	assert.Len(t, apts, 1)
	got, err := svc.GetDepartment(ctx, s.dept.ID)
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestUpdateDepartment(t *testing.T) {
	ctx := context.Background()
	repos := repotest.NewRepos()
	svc := NewService(repos.Departments, repos.Rooms)

	d, err := svc.CreateDepartment(ctx, model.CreateDepartmentRequest{Name: "Radiology"})
	require.NoError(t, err)

	name := "Imaging"
	got, err := svc.UpdateDepartment(ctx, d.ID, model.UpdateDepartmentRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Imaging", got.Name)

	blank := "  "
	_, err = svc.UpdateDepartment(ctx, d.ID, model.UpdateDepartmentRequest{Name: &blank})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrBadRequest))
}
