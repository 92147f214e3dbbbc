package postgres

import (
	"context"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

type userRepository struct {
	BaseRepository
}

func NewUserRepository(base BaseRepository) repository.UserRepository {
	return &userRepository{base}
}

const userColumns = `id, username, email, password_hash, role, is_active, created_at`

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (username, email, password_hash, role, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.db.QueryRowxContext(ctx, query,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.IsActive,
		user.CreatedAt,
	).Scan(&user.ID)
	return mapError("failed to create user", err)
}

func (r *userRepository) GetByID(ctx context.Context, id int) (*model.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)`, email)
}

func (r *userRepository) getOne(ctx context.Context, query string, arg interface{}) (*model.User, error) {
	var user model.User
	if err := r.db.GetContext(ctx, &user, query, arg); err != nil {
		return nil, mapError("failed to get user", err)
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]*model.User, error) {
	var users []*model.User
	if err := r.db.SelectContext(ctx, &users, `SELECT `+userColumns+` FROM users ORDER BY username`); err != nil {
		return nil, mapError("failed to list users", err)
	}
	return users, nil
}

func (r *userRepository) UpdateActive(ctx context.Context, id int, active bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET is_active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return mapError("failed to update user", err)
	}
	return expectAffected("failed to update user", res)
}
