package repotest

import (
	"context"
	"strings"

	"github.com/jwalitptl/hospital-api/internal/model"
)

type UserRepository struct{ s *Store }

func NewUserRepository(s *Store) *UserRepository {
	if s == nil {
		s = NewStore()
	}
	return &UserRepository{s: s}
}

func (r *UserRepository) Create(_ context.Context, user *model.User) error {
	err := r.s.lock("User.Create")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	for _, u := range r.s.users {
		if u.Username == user.Username || strings.EqualFold(u.Email, user.Email) {
			return duplicate("failed to create user")
		}
	}
	user.ID = r.s.nextID()
	r.s.users[user.ID] = *user
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id int) (*model.User, error) {
	err := r.s.lock("User.GetByID")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	u, ok := r.s.users[id]
	if !ok {
		return nil, notFound("failed to get user")
	}
	return &u, nil
}

func (r *UserRepository) GetByUsername(_ context.Context, username string) (*model.User, error) {
	err := r.s.lock("User.GetByUsername")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	for _, u := range r.s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, notFound("failed to get user")
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*model.User, error) {
	err := r.s.lock("User.GetByEmail")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, notFound("failed to get user")
}

func (r *UserRepository) List(_ context.Context) ([]*model.User, error) {
	err := r.s.lock("User.List")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	out := []*model.User{}
	for _, id := range sortedKeys(r.s.users) {
		u := r.s.users[id]
		out = append(out, &u)
	}
	return out, nil
}

func (r *UserRepository) UpdateActive(_ context.Context, id int, active bool) error {
	err := r.s.lock("User.UpdateActive")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	u, ok := r.s.users[id]
	if !ok {
		return notFound("failed to update user")
	}
	u.IsActive = active
	r.s.users[id] = u
	return nil
}

type RoleRepository struct{ s *Store }

func NewRoleRepository(s *Store) *RoleRepository {
	if s == nil {
		s = NewStore()
	}
	return &RoleRepository{s: s}
}

func (r *RoleRepository) Create(_ context.Context, role *model.Role) error {
	err := r.s.lock("Role.Create")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	for _, existing := range r.s.roles {
		if strings.EqualFold(existing.RoleName, role.RoleName) {
			return duplicate("failed to create role")
		}
	}
	role.ID = r.s.nextID()
	r.s.roles[role.ID] = *role
	return nil
}

func (r *RoleRepository) GetByID(_ context.Context, id int) (*model.Role, error) {
	err := r.s.lock("Role.GetByID")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	role, ok := r.s.roles[id]
	if !ok {
		return nil, notFound("failed to get role")
	}
	role.UserCount = r.s.userCount(role.RoleName)
	return &role, nil
}

func (r *RoleRepository) GetByName(_ context.Context, name string) (*model.Role, error) {
	err := r.s.lock("Role.GetByName")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	for _, role := range r.s.roles {
		if strings.EqualFold(role.RoleName, name) {
			role.UserCount = r.s.userCount(role.RoleName)
			return &role, nil
		}
	}
	return nil, notFound("failed to get role")
}

func (r *RoleRepository) List(_ context.Context) ([]*model.Role, error) {
	err := r.s.lock("Role.List")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	out := []*model.Role{}
	for _, id := range sortedKeys(r.s.roles) {
		role := r.s.roles[id]
		role.UserCount = r.s.userCount(role.RoleName)
		out = append(out, &role)
	}
	return out, nil
}

func (r *RoleRepository) Update(_ context.Context, role *model.Role) error {
	err := r.s.lock("Role.Update")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	if _, ok := r.s.roles[role.ID]; !ok {
		return notFound("failed to update role")
	}
	for id, existing := range r.s.roles {
		if id != role.ID && strings.EqualFold(existing.RoleName, role.RoleName) {
			return duplicate("failed to update role")
		}
	}
	r.s.roles[role.ID] = *role
	return nil
}

func (r *RoleRepository) Delete(_ context.Context, id int) error {
	err := r.s.lock("Role.Delete")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	if _, ok := r.s.roles[id]; !ok {
		return notFound("failed to delete role")
	}
	delete(r.s.roles, id)
	return nil
}
