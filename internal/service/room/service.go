package room

import (
	"context"
	"strings"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	"github.com/jwalitptl/hospital-api/internal/service"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
)

type Service struct {
	repo        repository.RoomRepository
	departments repository.DepartmentRepository
}

func NewService(repo repository.RoomRepository, departments repository.DepartmentRepository) *Service {
	return &Service{repo: repo, departments: departments}
}

// CreateRoom marks the room available unless the request says otherwise.
func (s *Service) CreateRoom(ctx context.Context, req model.CreateRoomRequest) (*model.Room, error) {
	rm := &model.Room{
		Type:         strings.TrimSpace(req.Type),
		Available:    true,
		DepartmentID: req.DepartmentID,
	}
	if req.Available != nil {
		rm.Available = *req.Available
	}
	if err := s.validate(ctx, rm); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, rm); err != nil {
		if service.IsReferenced(err) {
			return nil, apperrors.BadRequest("department not found")
		}
		return nil, apperrors.Internal(err)
	}
	return s.GetRoom(ctx, rm.ID)
}

func (s *Service) GetRoom(ctx context.Context, id int) (*model.Room, error) {
	rm, err := service.Optional(s.repo.GetByID(ctx, id))
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return rm, nil
}

func (s *Service) ListRooms(ctx context.Context) ([]*model.Room, error) {
	rooms, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return rooms, nil
}

func (s *Service) ListByDepartment(ctx context.Context, departmentID int) ([]*model.Room, error) {
	rooms, err := s.repo.ListByDepartment(ctx, departmentID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return rooms, nil
}

func (s *Service) UpdateRoom(ctx context.Context, id int, req model.UpdateRoomRequest) (*model.Room, error) {
	rm, err := service.Optional(s.repo.GetByID(ctx, id))
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if rm == nil {
		return nil, nil
	}

	if req.Type != nil {
		rm.Type = strings.TrimSpace(*req.Type)
	}
	if req.Available != nil {
		rm.Available = *req.Available
	}
	if req.DepartmentID != nil {
		rm.DepartmentID = *req.DepartmentID
	}
	if err := s.validate(ctx, rm); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, rm); err != nil {
		switch {
		case service.IsNotFound(err):
			return nil, nil
		case service.IsReferenced(err):
			return nil, apperrors.BadRequest("department not found")
		}
		return nil, apperrors.Internal(err)
	}
	return s.GetRoom(ctx, id)
}

func (s *Service) DeleteRoom(ctx context.Context, id int) error {
	err := s.repo.Delete(ctx, id)
	if service.IsNotFound(err) {
		return apperrors.NotFound("room")
	}
	if err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func (s *Service) validate(ctx context.Context, rm *model.Room) error {
	if rm.Type == "" {
		return apperrors.BadRequest("type is required")
	}
	if _, err := s.departments.GetByID(ctx, rm.DepartmentID); err != nil {
		if service.IsNotFound(err) {
			return apperrors.BadRequest("department not found")
		}
		return apperrors.Internal(err)
	}
	return nil
}
