package nurse

import (
	"context"
	"strings"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	"github.com/jwalitptl/hospital-api/internal/service"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
)

type Service struct {
	repo        repository.NurseRepository
	departments repository.DepartmentRepository
}

func NewService(repo repository.NurseRepository, departments repository.DepartmentRepository) *Service {
	return &Service{repo: repo, departments: departments}
}

func (s *Service) CreateNurse(ctx context.Context, req model.CreateNurseRequest) (*model.Nurse, error) {
	n := &model.Nurse{
		Name:         strings.TrimSpace(req.Name),
		Ward:         strings.TrimSpace(req.Ward),
		Email:        service.TrimmedPtr(req.Email),
		Phone:        service.TrimmedPtr(req.Phone),
		DepartmentID: req.DepartmentID,
	}
	if err := s.validate(ctx, n); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, n); err != nil {
		if service.IsReferenced(err) {
			return nil, apperrors.BadRequest("department not found")
		}
		return nil, apperrors.Internal(err)
	}
	return s.GetNurse(ctx, n.ID)
}

func (s *Service) GetNurse(ctx context.Context, id int) (*model.Nurse, error) {
	n, err := service.Optional(s.repo.GetByID(ctx, id))
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return n, nil
}

func (s *Service) ListNurses(ctx context.Context) ([]*model.Nurse, error) {
	nurses, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return nurses, nil
}

func (s *Service) ListByDepartment(ctx context.Context, departmentID int) ([]*model.Nurse, error) {
	nurses, err := s.repo.ListByDepartment(ctx, departmentID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return nurses, nil
}

func (s *Service) UpdateNurse(ctx context.Context, id int, req model.UpdateNurseRequest) (*model.Nurse, error) {
	n, err := service.Optional(s.repo.GetByID(ctx, id))
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if n == nil {
		return nil, nil
	}

	if req.Name != nil {
		n.Name = strings.TrimSpace(*req.Name)
	}
	if req.Ward != nil {
		n.Ward = strings.TrimSpace(*req.Ward)
	}
	if req.Email != nil {
		n.Email = service.TrimmedPtr(req.Email)
	}
	if req.Phone != nil {
		n.Phone = service.TrimmedPtr(req.Phone)
	}
	if req.DepartmentID != nil {
		n.DepartmentID = *req.DepartmentID
	}
	if err := s.validate(ctx, n); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, n); err != nil {
		switch {
		case service.IsNotFound(err):
			return nil, nil
		case service.IsReferenced(err):
			return nil, apperrors.BadRequest("department not found")
		}
		return nil, apperrors.Internal(err)
	}
	return s.GetNurse(ctx, id)
}

// DeleteNurse detaches the nurse from lab results before removing them.
func (s *Service) DeleteNurse(ctx context.Context, id int) error {
	err := s.repo.Delete(ctx, id)
	if service.IsNotFound(err) {
		return apperrors.NotFound("nurse")
	}
	if err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func (s *Service) validate(ctx context.Context, n *model.Nurse) error {
	if n.Name == "" {
		return apperrors.BadRequest("name is required")
	}
	if n.Ward == "" {
		return apperrors.BadRequest("ward is required")
	}
	if _, err := s.departments.GetByID(ctx, n.DepartmentID); err != nil {
		if service.IsNotFound(err) {
			return apperrors.BadRequest("department not found")
		}
		return apperrors.Internal(err)
	}
	return nil
}
