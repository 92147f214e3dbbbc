package postgres

import (
	"context"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

type roleRepository struct {
	BaseRepository
}

func NewRoleRepository(base BaseRepository) repository.RoleRepository {
	return &roleRepository{base}
}

// userCount matches User.role by name only; there is no foreign key between them.
const roleSelect = `
	SELECT r.id, r.role_name, r.permissions,
		(SELECT COUNT(*) FROM users u WHERE LOWER(u.role) = LOWER(r.role_name)) AS user_count
	FROM roles r
`

func (r *roleRepository) Create(ctx context.Context, role *model.Role) error {
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO roles (role_name, permissions) VALUES ($1, $2) RETURNING id`,
		role.RoleName, role.Permissions,
	).Scan(&role.ID)
	return mapError("failed to create role", err)
}

func (r *roleRepository) GetByID(ctx context.Context, id int) (*model.Role, error) {
	var role model.Role
	if err := r.db.GetContext(ctx, &role, roleSelect+` WHERE r.id = $1`, id); err != nil {
		return nil, mapError("failed to get role", err)
	}
	return &role, nil
}

func (r *roleRepository) GetByName(ctx context.Context, name string) (*model.Role, error) {
	var role model.Role
	if err := r.db.GetContext(ctx, &role, roleSelect+` WHERE LOWER(r.role_name) = LOWER($1)`, name); err != nil {
		return nil, mapError("failed to get role", err)
	}
	return &role, nil
}

func (r *roleRepository) List(ctx context.Context) ([]*model.Role, error) {
	var roles []*model.Role
	if err := r.db.SelectContext(ctx, &roles, roleSelect+` ORDER BY r.role_name`); err != nil {
		return nil, mapError("failed to list roles", err)
	}
	return roles, nil
}

func (r *roleRepository) Update(ctx context.Context, role *model.Role) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE roles SET role_name = $1, permissions = $2 WHERE id = $3`,
		role.RoleName, role.Permissions, role.ID,
	)
	if err != nil {
		return mapError("failed to update role", err)
	}
	return expectAffected("failed to update role", res)
}

func (r *roleRepository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		return mapError("failed to delete role", err)
	}
	return expectAffected("failed to delete role", res)
}
