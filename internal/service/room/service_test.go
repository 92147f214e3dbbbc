package room

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository/repotest"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
)

func TestRoomLifecycle(t *testing.T) {
	ctx := context.Background()
	repos := repotest.NewRepos()
	dept := &model.Department{Name: "Surgery"}
	require.NoError(t, repos.Departments.Create(ctx, dept))
	svc := NewService(repos.Rooms, repos.Departments)

	rm, err := svc.CreateRoom(ctx, model.CreateRoomRequest{Type: "Operating", DepartmentID: dept.ID})
	require.NoError(t, err)
	assert.True(t, rm.Available)
	assert.Equal(t, "Surgery", rm.DepartmentName)

	occupied := false
	got, err := svc.UpdateRoom(ctx, rm.ID, model.UpdateRoomRequest{Available: &occupied})
	require.NoError(t, err)
	assert.False(t, got.Available)
	assert.Equal(t, "Operating", got.Type)

	missingDept := 404
	_, err = svc.UpdateRoom(ctx, rm.ID, model.UpdateRoomRequest{DepartmentID: &missingDept})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrBadRequest))

	require.NoError(t, svc.DeleteRoom(ctx, rm.ID))
	err = svc.DeleteRoom(ctx, rm.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrNotFound))
}

func TestCreateRoom_ExplicitlyOccupied(t *testing.T) {
	ctx := context.Background()
	repos := repotest.NewRepos()
	dept := &model.Department{Name: "Surgery"}
	require.NoError(t, repos.Departments.Create(ctx, dept))
	svc := NewService(repos.Rooms, repos.Departments)

	occupied := false
	rm, err := svc.CreateRoom(ctx, model.CreateRoomRequest{Type: "Recovery", Available: &occupied, DepartmentID: dept.ID})
	require.NoError(t, err)
	assert.False(t, rm.Available)
}
