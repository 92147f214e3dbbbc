package prescription

import (
	"context"
	"strings"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	"github.com/jwalitptl/hospital-api/internal/service"
	"github.com/jwalitptl/hospital-api/pkg/clock"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
)

type Service struct {
	repo     repository.PrescriptionRepository
	patients repository.PatientRepository
	doctors  repository.DoctorRepository
	clock    clock.Clock
}

func NewService(
	repo repository.PrescriptionRepository,
	patients repository.PatientRepository,
	doctors repository.DoctorRepository,
	clk clock.Clock,
) *Service {
	return &Service{
		repo:     repo,
		patients: patients,
		doctors:  doctors,
		clock:    clk,
	}
}

// CreatePrescription stamps the issue time from the clock unless one is given.
func (s *Service) CreatePrescription(ctx context.Context, req model.CreatePrescriptionRequest) (*model.Prescription, error) {
	p := &model.Prescription{
		Instructions: strings.TrimSpace(req.Instructions),
		Medication:   strings.TrimSpace(req.Medication),
		Dosage:       strings.TrimSpace(req.Dosage),
		IssuedDate:   s.clock.Now(),
		ExpiryDate:   service.UTCPtr(req.ExpiryDate),
		DoctorID:     req.DoctorID,
		PatientID:    req.PatientID,
	}
	if req.IssuedDate != nil {
		p.IssuedDate = req.IssuedDate.UTC()
	}
	if err := validate(p); err != nil {
		return nil, err
	}

	if _, err := s.patients.GetByID(ctx, p.PatientID); err != nil {
		if service.IsNotFound(err) {
			return nil, apperrors.BadRequest("patient not found")
		}
		return nil, apperrors.Internal(err)
	}
	if _, err := s.doctors.GetByID(ctx, p.DoctorID); err != nil {
		if service.IsNotFound(err) {
			return nil, apperrors.BadRequest("doctor not found")
		}
		return nil, apperrors.Internal(err)
	}

	if err := s.repo.Create(ctx, p); err != nil {
		if service.IsReferenced(err) {
			return nil, apperrors.BadRequest("patient or doctor not found")
		}
		return nil, apperrors.Internal(err)
	}
	return s.GetPrescription(ctx, p.ID)
}

func (s *Service) GetPrescription(ctx context.Context, id int) (*model.Prescription, error) {
	p, err := service.Optional(s.repo.GetByID(ctx, id))
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return p, nil
}

func (s *Service) ListPrescriptions(ctx context.Context) ([]*model.Prescription, error) {
	out, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return out, nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID int) ([]*model.Prescription, error) {
	out, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return out, nil
}

func (s *Service) ListByDoctor(ctx context.Context, doctorID int) ([]*model.Prescription, error) {
	out, err := s.repo.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return out, nil
}

func (s *Service) UpdatePrescription(ctx context.Context, id int, req model.UpdatePrescriptionRequest) (*model.Prescription, error) {
	p, err := service.Optional(s.repo.GetByID(ctx, id))
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if p == nil {
		return nil, nil
	}

	if req.Instructions != nil {
		p.Instructions = strings.TrimSpace(*req.Instructions)
	}
	if req.Medication != nil {
		p.Medication = strings.TrimSpace(*req.Medication)
	}
	if req.Dosage != nil {
		p.Dosage = strings.TrimSpace(*req.Dosage)
	}
	if req.ExpiryDate != nil {
		p.ExpiryDate = service.UTCPtr(req.ExpiryDate)
	}
	if err := validate(p); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, p); err != nil {
		if service.IsNotFound(err) {
			return nil, nil
		}
		return nil, apperrors.Internal(err)
	}
	return s.GetPrescription(ctx, id)
}

func (s *Service) DeletePrescription(ctx context.Context, id int) error {
	err := s.repo.Delete(ctx, id)
	if service.IsNotFound(err) {
		return apperrors.NotFound("prescription")
	}
	if err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func validate(p *model.Prescription) error {
	switch {
	case p.Instructions == "":
		return apperrors.BadRequest("instructions are required")
	case p.Medication == "":
		return apperrors.BadRequest("medication is required")
	case p.Dosage == "":
		return apperrors.BadRequest("dosage is required")
	case p.ExpiryDate != nil && p.ExpiryDate.Before(p.IssuedDate):
		return apperrors.BadRequest("expiry date must not precede the issue date")
	}
	return nil
}
