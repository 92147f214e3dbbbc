package patient

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
	repo    repository.PatientRepository
	doctors repository.DoctorRepository
}

func NewService(repo repository.PatientRepository, doctors repository.DoctorRepository) *Service {
	return &Service{
		repo:    repo,
		doctors: doctors,
	}
}

func (s *Service) CreatePatient(ctx context.Context, req model.CreatePatientRequest) (*model.Patient, error) {
	p := &model.Patient{
		Name:        strings.TrimSpace(req.Name),
		Age:         req.Age,
		Insurance:   strings.TrimSpace(req.Insurance),
		Address:     service.TrimmedPtr(req.Address),
		Phone:       service.TrimmedPtr(req.Phone),
		Email:       service.TrimmedPtr(req.Email),
		DateOfBirth: service.UTCPtr(req.DateOfBirth),
		DoctorID:    req.DoctorID,
	}
	if err := s.validate(ctx, p); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, p); err != nil {
		if service.IsReferenced(err) {
			return nil, apperrors.BadRequest("doctor not found")
		}
		return nil, apperrors.Internal(err)
	}
	return s.reload(ctx, p.ID)
}

func (s *Service) GetPatient(ctx context.Context, id int) (*model.Patient, error) {
	p, err := service.Optional(s.repo.GetByID(ctx, id))
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return p, nil
}

func (s *Service) ListPatients(ctx context.Context) ([]*model.Patient, error) {
	patients, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return patients, nil
}

func (s *Service) UpdatePatient(ctx context.Context, id int, req model.UpdatePatientRequest) (*model.Patient, error) {
	p, err := service.Optional(s.repo.GetByID(ctx, id))
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if p == nil {
		return nil, nil
	}

	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.Age != nil {
		p.Age = *req.Age
	}
	if req.Insurance != nil {
		p.Insurance = strings.TrimSpace(*req.Insurance)
	}
	if req.Address != nil {
		p.Address = service.TrimmedPtr(req.Address)
	}
	if req.Phone != nil {
		p.Phone = service.TrimmedPtr(req.Phone)
	}
	if req.Email != nil {
		p.Email = service.TrimmedPtr(req.Email)
	}
	if req.DateOfBirth != nil {
		p.DateOfBirth = service.UTCPtr(req.DateOfBirth)
	}
	if req.DoctorID != nil {
		p.DoctorID = req.DoctorID
	}
	if err := s.validate(ctx, p); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, p); err != nil {
		switch {
		case service.IsNotFound(err):
			return nil, nil
		case service.IsReferenced(err):
			return nil, apperrors.BadRequest("doctor not found")
		}
		return nil, apperrors.Internal(err)
	}
	return s.GetPatient(ctx, id)
}

// DeletePatient removes the patient together with every appointment, invoice,
// payment, lab result and prescription that references them, as one unit.
func (s *Service) DeletePatient(ctx context.Context, id int) error {
	err := s.repo.Delete(ctx, id)
	if service.IsNotFound(err) {
		return apperrors.NotFound("patient")
	}
	if err != nil {
		return apperrors.Internal(err)
	}
	log.Info().Int("patient_id", id).Msg("Patient deleted")
	return nil
}

func (s *Service) validate(ctx context.Context, p *model.Patient) error {
	if p.Name == "" {
		return apperrors.BadRequest("name is required")
	}
	if p.Insurance == "" {
		return apperrors.BadRequest("insurance is required")
	}
	if p.Age < 0 {
		return apperrors.BadRequest("age must not be negative")
	}
	if p.DoctorID == nil {
		return nil
	}
	if _, err := s.doctors.GetByID(ctx, *p.DoctorID); err != nil {
		if service.IsNotFound(err) {
			return apperrors.BadRequest("doctor not found")
		}
		return apperrors.Internal(err)
	}
	return nil
}

func (s *Service) reload(ctx context.Context, id int) (*model.Patient, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return p, nil
}
