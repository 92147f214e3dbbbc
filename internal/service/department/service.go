package department

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	"github.com/jwalitptl/hospital-api/internal/service"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
)

type Service struct {
	repo  repository.DepartmentRepository
	rooms repository.RoomRepository
}

func NewService(repo repository.DepartmentRepository, rooms repository.RoomRepository) *Service {
	return &Service{repo: repo, rooms: rooms}
}

func (s *Service) CreateDepartment(ctx context.Context, req model.CreateDepartmentRequest) (*model.Department, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.BadRequest("name is required")
	}

	d := &model.Department{Name: name}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, apperrors.Internal(err)
	}
	return s.GetDepartment(ctx, d.ID)
}

func (s *Service) GetDepartment(ctx context.Context, id int) (*model.Department, error) {
	d, err := service.Optional(s.repo.GetByID(ctx, id))
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return d, nil
}

func (s *Service) ListDepartments(ctx context.Context) ([]*model.Department, error) {
	departments, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return departments, nil
}

func (s *Service) UpdateDepartment(ctx context.Context, id int, req model.UpdateDepartmentRequest) (*model.Department, error) {
	d, err := service.Optional(s.repo.GetByID(ctx, id))
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if d == nil {
		return nil, nil
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.BadRequest("name is required")
		}
		d.Name = name
	}

	if err := s.repo.Update(ctx, d); err != nil {
		if service.IsNotFound(err) {
			return nil, nil
		}
		return nil, apperrors.Internal(err)
	}
	return s.GetDepartment(ctx, id)
}

// Rooms lists the rooms of an existing department.
func (s *Service) Rooms(ctx context.Context, id int) ([]*model.Room, error) {
	d, err := s.GetDepartment(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, apperrors.NotFound("department")
	}
	rooms, err := s.rooms.ListByDepartment(ctx, id)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return rooms, nil
}

// DeleteDepartment removes the department with its doctors, nurses and rooms.
// Doctors take their appointments and prescriptions with them; lab results
// and patients that pointed at removed staff are detached.
func (s *Service) DeleteDepartment(ctx context.Context, id int) error {
	err := s.repo.Delete(ctx, id)
	if service.IsNotFound(err) {
		return apperrors.NotFound("department")
	}
	if err != nil {
		return apperrors.Internal(err)
	}
	log.Info().Int("department_id", id).Msg("Department deleted")
	return nil
}
