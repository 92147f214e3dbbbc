package nurse

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

func TestNurseLifecycle(t *testing.T) {
	ctx := context.Background()
	repos := repotest.NewRepos()
	icu := &model.Department{Name: "ICU"}
	er := &model.Department{Name: "ER"}
	require.NoError(t, repos.Departments.Create(ctx, icu))
	require.NoError(t, repos.Departments.Create(ctx, er))
	svc := NewService(repos.Nurses, repos.Departments)

	n, err := svc.CreateNurse(ctx, model.CreateNurseRequest{Name: "Joy", Ward: "3B", DepartmentID: icu.ID})
	require.NoError(t, err)
	assert.Equal(t, "ICU", n.DepartmentName)

	got, err := svc.UpdateNurse(ctx, n.ID, model.UpdateNurseRequest{DepartmentID: &er.ID})
	require.NoError(t, err)
	assert.Equal(t, "ER", got.DepartmentName)
	assert.Equal(t, "3B", got.Ward)

	inER, err := svc.ListByDepartment(ctx, er.ID)
	require.NoError(t, err)
	require.Len(t, inER, 1)

	patient := &model.Patient{Name: "Ana", Age: 30, Insurance: "X"}
	require.NoError(t, repos.Patients.Create(ctx, patient))
	lab := &model.LabResult{Type: "CBC", TestDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), PatientID: patient.ID, NurseID: &n.ID}
	require.NoError(t, repos.LabResults.Create(ctx, lab))

	require.NoError(t, svc.DeleteNurse(ctx, n.ID))
	kept, err := repos.LabResults.GetByID(ctx, lab.ID)
	require.NoError(t, err)
	assert.Nil(t, kept.NurseID)

	err = svc.DeleteNurse(ctx, n.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrNotFound))
}

func TestCreateNurse_UnknownDepartment(t *testing.T) {
	repos := repotest.NewRepos()
	svc := NewService(repos.Nurses, repos.Departments)

	_, err := svc.CreateNurse(context.Background(), model.CreateNurseRequest{Name: "Joy", Ward: "3B", DepartmentID: 5})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrBadRequest))
}
