package role

import (
	"context"
	"strings"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	"github.com/jwalitptl/hospital-api/internal/service"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
)

type RoleService interface {
	CreateRole(ctx context.Context, req model.CreateRoleRequest) (*model.Role, error)
	GetRole(ctx context.Context, id int) (*model.Role, error)
	ListRoles(ctx context.Context) ([]*model.Role, error)
	UpdateRole(ctx context.Context, id int, req model.UpdateRoleRequest) (*model.Role, error)
	DeleteRole(ctx context.Context, id int) error
}

type Service struct {
	repo repository.RoleRepository
}

func NewService(repo repository.RoleRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateRole(ctx context.Context, req model.CreateRoleRequest) (*model.Role, error) {
	name := strings.TrimSpace(req.RoleName)
	if name == "" {
		return nil, apperrors.BadRequest("role name is required")
	}

	if err := s.ensureNameFree(ctx, name, 0); err != nil {
		return nil, err
	}

	r := &model.Role{RoleName: name, Permissions: strings.TrimSpace(req.Permissions)}
	if err := s.repo.Create(ctx, r); err != nil {
		if service.IsDuplicate(err) {
			return nil, apperrors.BadRequest("role already exists")
		}
		return nil, apperrors.Internal(err)
	}
	return s.GetRole(ctx, r.ID)
}

func (s *Service) GetRole(ctx context.Context, id int) (*model.Role, error) {
	r, err := service.Optional(s.repo.GetByID(ctx, id))
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return r, nil
}

func (s *Service) ListRoles(ctx context.Context) ([]*model.Role, error) {
	roles, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return roles, nil
}

func (s *Service) UpdateRole(ctx context.Context, id int, req model.UpdateRoleRequest) (*model.Role, error) {
	r, err := service.Optional(s.repo.GetByID(ctx, id))
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if r == nil {
		return nil, nil
	}

	if req.RoleName != nil {
		name := strings.TrimSpace(*req.RoleName)
		if name == "" {
			return nil, apperrors.BadRequest("role name is required")
		}
		if err := s.ensureNameFree(ctx, name, id); err != nil {
			return nil, err
		}
		r.RoleName = name
	}
	if req.Permissions != nil {
		r.Permissions = strings.TrimSpace(*req.Permissions)
	}

	if err := s.repo.Update(ctx, r); err != nil {
		switch {
		case service.IsNotFound(err):
			return nil, nil
		case service.IsDuplicate(err):
			return nil, apperrors.BadRequest("role already exists")
		}
		return nil, apperrors.Internal(err)
	}
	return s.GetRole(ctx, id)
}

func (s *Service) DeleteRole(ctx context.Context, id int) error {
	err := s.repo.Delete(ctx, id)
	if service.IsNotFound(err) {
		return apperrors.NotFound("role")
	}
	if err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

// ensureNameFree rejects a name held by any role other than self.
func (s *Service) ensureNameFree(ctx context.Context, name string, self int) error {
	existing, err := service.Optional(s.repo.GetByName(ctx, name))
	if err != nil {
		return apperrors.Internal(err)
	}
	if existing != nil && existing.ID != self {
		return apperrors.BadRequest("role already exists")
	}
	return nil
}
