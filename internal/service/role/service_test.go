package role

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository/repotest"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
)

func TestRoleService(t *testing.T) {
	ctx := context.Background()
	repos := repotest.NewRepos()
	svc := NewService(repos.Roles)

	require.NoError(t, repos.Users.Create(ctx, &model.User{Username: "house", Email: "h@example.com", Role: model.UserRoleDoctor, IsActive: true}))

	r, err := svc.CreateRole(ctx, model.CreateRoleRequest{RoleName: "doctor", Permissions: "read:patients"})
	require.NoError(t, err)
	assert.Equal(t, 1, r.UserCount)

	_, err = svc.CreateRole(ctx, model.CreateRoleRequest{RoleName: "Doctor"})
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, "role already exists", appErr.Message)

	other, err := svc.CreateRole(ctx, model.CreateRoleRequest{RoleName: "Auditor"})
	require.NoError(t, err)
	assert.Equal(t, 0, other.UserCount)

	taken := "DOCTOR"
	_, err = svc.UpdateRole(ctx, other.ID, model.UpdateRoleRequest{RoleName: &taken})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrBadRequest))

	perms := "read:all"
	got, err := svc.UpdateRole(ctx, r.ID, model.UpdateRoleRequest{RoleName: &taken, Permissions: &perms})
	require.NoError(t, err)
	assert.Equal(t, "DOCTOR", got.RoleName)
	assert.Equal(t, "read:all", got.Permissions)

	require.NoError(t, svc.DeleteRole(ctx, other.ID))
	err = svc.DeleteRole(ctx, other.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrNotFound))

	missing, err := svc.UpdateRole(ctx, 999, model.UpdateRoleRequest{Permissions: &perms})
	assert.NoError(t, err)
	assert.Nil(t, missing)
}
