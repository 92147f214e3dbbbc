package cache

import (
	"context"
	"strconv"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

const (
	roleListKey   = "roles:all"
	roleIDPrefix  = "roles:id:"
	roleNameIndex = "roles:name:"
)

// RoleRepository serves role reads from memory and drops every cached entry on writes.
type RoleRepository struct {
	next  repository.RoleRepository
	cache *gocache.Cache
}

func NewRoleRepository(next repository.RoleRepository, ttl time.Duration) *RoleRepository {
	return &RoleRepository{
		next:  next,
		cache: gocache.New(ttl, 2*ttl),
	}
}

func (r *RoleRepository) Create(ctx context.Context, role *model.Role) error {
	if err := r.next.Create(ctx, role); err != nil {
		return err
	}
	r.cache.Flush()
	return nil
}

func (r *RoleRepository) GetByID(ctx context.Context, id int) (*model.Role, error) {
	key := roleIDPrefix + strconv.Itoa(id)
	if v, ok := r.cache.Get(key); ok {
		role := *v.(*model.Role)
		return &role, nil
	}
	role, err := r.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.store(key, role)
	return role, nil
}

func (r *RoleRepository) GetByName(ctx context.Context, name string) (*model.Role, error) {
	key := roleNameIndex + strings.ToLower(name)
	if v, ok := r.cache.Get(key); ok {
		role := *v.(*model.Role)
		return &role, nil
	}
	role, err := r.next.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	r.store(key, role)
	return role, nil
}

func (r *RoleRepository) List(ctx context.Context) ([]*model.Role, error) {
	if v, ok := r.cache.Get(roleListKey); ok {
		return copyRoles(v.([]*model.Role)), nil
	}
	roles, err := r.next.List(ctx)
	if err != nil {
		return nil, err
	}
	r.cache.SetDefault(roleListKey, copyRoles(roles))
	return roles, nil
}

func (r *RoleRepository) Update(ctx context.Context, role *model.Role) error {
	if err := r.next.Update(ctx, role); err != nil {
		return err
	}
	r.cache.Flush()
	return nil
}

func (r *RoleRepository) Delete(ctx context.Context, id int) error {
	if err := r.next.Delete(ctx, id); err != nil {
		return err
	}
	r.cache.Flush()
	return nil
}

// Invalidate drops cached roles; user writes change userCount.
func (r *RoleRepository) Invalidate() {
	r.cache.Flush()
}

func (r *RoleRepository) store(key string, role *model.Role) {
	cp := *role
	r.cache.SetDefault(key, &cp)
}

func copyRoles(roles []*model.Role) []*model.Role {
	out := make([]*model.Role, len(roles))
	for i, role := range roles {
		cp := *role
		out[i] = &cp
	}
	return out
}
