package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository/repotest"
)

type countingRoles struct {
	*repotest.RoleRepository
	gets  int
	lists int
}

func (c *countingRoles) GetByID(ctx context.Context, id int) (*model.Role, error) {
	c.gets++
	return c.RoleRepository.GetByID(ctx, id)
}

func (c *countingRoles) List(ctx context.Context) ([]*model.Role, error) {
	c.lists++
	return c.RoleRepository.List(ctx)
}

func TestRoleRepository_CachesReads(t *testing.T) {
	ctx := context.Background()
	inner := &countingRoles{RoleRepository: repotest.NewRoleRepository(nil)}
	repo := NewRoleRepository(inner, time.Minute)

	role := &model.Role{RoleName: "Auditor", Permissions: "read"}
	require.NoError(t, repo.Create(ctx, role))

	for i := 0; i < 3; i++ {
		got, err := repo.GetByID(ctx, role.ID)
		require.NoError(t, err)
		assert.Equal(t, "Auditor", got.RoleName)
	}
	assert.Equal(t, 1, inner.gets)

	_, err := repo.List(ctx)
	require.NoError(t, err)
	_, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.lists)
}

func TestRoleRepository_WriteInvalidates(t *testing.T) {
	ctx := context.Background()
	inner := &countingRoles{RoleRepository: repotest.NewRoleRepository(nil)}
	repo := NewRoleRepository(inner, time.Minute)

	role := &model.Role{RoleName: "Auditor"}
	require.NoError(t, repo.Create(ctx, role))
	_, err := repo.GetByID(ctx, role.ID)
	require.NoError(t, err)

	role.Permissions = "read,write"
	require.NoError(t, repo.Update(ctx, role))

	got, err := repo.GetByID(ctx, role.ID)
	require.NoError(t, err)
	assert.Equal(t, "read,write", got.Permissions)
	assert.Equal(t, 2, inner.gets)
}

func TestRoleRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewRoleRepository(repotest.NewRoleRepository(nil), time.Minute)

	role := &model.Role{RoleName: "Auditor"}
	require.NoError(t, repo.Create(ctx, role))

	got, err := repo.GetByID(ctx, role.ID)
	require.NoError(t, err)
	got.RoleName = "mutated"

	again, err := repo.GetByID(ctx, role.ID)
	require.NoError(t, err)
	assert.Equal(t, "Auditor", again.RoleName)
}
