package doctor

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	"github.com/jwalitptl/hospital-api/internal/service"
	"github.com/jwalitptl/hospital-api/internal/service/appointment"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
)

type Service struct {
	repo         repository.DoctorRepository
	departments  repository.DepartmentRepository
	appointments repository.AppointmentRepository
}

func NewService(
	repo repository.DoctorRepository,
	departments repository.DepartmentRepository,
	appointments repository.AppointmentRepository,
) *Service {
	return &Service{
		repo:         repo,
		departments:  departments,
		appointments: appointments,
	}
}

func (s *Service) CreateDoctor(ctx context.Context, req model.CreateDoctorRequest) (*model.Doctor, error) {
	d := &model.Doctor{
		Name:            strings.TrimSpace(req.Name),
		Specialization:  strings.TrimSpace(req.Specialization),
		ConsultationFee: req.ConsultationFee,
		Email:           service.TrimmedPtr(req.Email),
		Phone:           service.TrimmedPtr(req.Phone),
		Availability:    service.TrimmedPtr(req.Availability),
		DepartmentID:    req.DepartmentID,
	}
	if err := s.validate(ctx, d); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, d); err != nil {
		if service.IsReferenced(err) {
			return nil, apperrors.BadRequest("department not found")
		}
		return nil, apperrors.Internal(err)
	}
	return s.GetDoctor(ctx, d.ID)
}

func (s *Service) GetDoctor(ctx context.Context, id int) (*model.Doctor, error) {
	d, err := service.Optional(s.repo.GetByID(ctx, id))
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return d, nil
}

func (s *Service) ListDoctors(ctx context.Context) ([]*model.Doctor, error) {
	doctors, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return doctors, nil
}

func (s *Service) ListByDepartment(ctx context.Context, departmentID int) ([]*model.Doctor, error) {
	doctors, err := s.repo.ListByDepartment(ctx, departmentID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return doctors, nil
}

func (s *Service) UpdateDoctor(ctx context.Context, id int, req model.UpdateDoctorRequest) (*model.Doctor, error) {
	d, err := service.Optional(s.repo.GetByID(ctx, id))
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if d == nil {
		return nil, nil
	}

	if req.Name != nil {
		d.Name = strings.TrimSpace(*req.Name)
	}
	if req.Specialization != nil {
		d.Specialization = strings.TrimSpace(*req.Specialization)
	}
	if req.ConsultationFee != nil {
		d.ConsultationFee = *req.ConsultationFee
	}
	if req.Email != nil {
		d.Email = service.TrimmedPtr(req.Email)
	}
	if req.Phone != nil {
		d.Phone = service.TrimmedPtr(req.Phone)
	}
	if req.Availability != nil {
		d.Availability = service.TrimmedPtr(req.Availability)
	}
	if req.DepartmentID != nil {
		d.DepartmentID = *req.DepartmentID
	}
	if err := s.validate(ctx, d); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, d); err != nil {
		switch {
		case service.IsNotFound(err):
			return nil, nil
		case service.IsReferenced(err):
			return nil, apperrors.BadRequest("department not found")
		}
		return nil, apperrors.Internal(err)
	}
	return s.GetDoctor(ctx, id)
}

// DeleteDoctor refuses while appointments or prescriptions still name the
// doctor; lab results and primary-care links are detached.
func (s *Service) DeleteDoctor(ctx context.Context, id int) error {
	err := s.repo.Delete(ctx, id)
	switch {
	case service.IsNotFound(err):
		return apperrors.NotFound("doctor")
	case service.IsReferenced(err):
		return apperrors.BadRequestf(err, "doctor still has appointments or prescriptions")
	case err != nil:
		return apperrors.Internal(err)
	}
	log.Info().Int("doctor_id", id).Msg("Doctor deleted")
	return nil
}

func (s *Service) CheckAvailability(ctx context.Context, id int, t time.Time) (*model.AvailabilityResponse, error) {
	d, err := s.GetDoctor(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, apperrors.NotFound("doctor")
	}

	at := appointment.NormalizeTime(t)
	conflict, err := s.appointments.HasConflict(ctx, id, at)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &model.AvailabilityResponse{DoctorID: id, Time: at, Available: !conflict}, nil
}

func (s *Service) validate(ctx context.Context, d *model.Doctor) error {
	if d.Name == "" {
		return apperrors.BadRequest("name is required")
	}
	if d.Specialization == "" {
		return apperrors.BadRequest("specialization is required")
	}
	if d.ConsultationFee < 0 {
		return apperrors.BadRequest("consultation fee must not be negative")
	}
	if _, err := s.departments.GetByID(ctx, d.DepartmentID); err != nil {
		if service.IsNotFound(err) {
			return apperrors.BadRequest("department not found")
		}
		return apperrors.Internal(err)
	}
	return nil
}
