package labresult

import (
	"context"
	"strings"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	"github.com/jwalitptl/hospital-api/internal/service"
	"github.com/jwalitptl/hospital-api/internal/service/notification"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
)

type Service struct {
	repo     repository.LabResultRepository
	patients repository.PatientRepository
	doctors  repository.DoctorRepository
	nurses   repository.NurseRepository
	notifier notification.Notifier
}

func NewService(
	repo repository.LabResultRepository,
	patients repository.PatientRepository,
	doctors repository.DoctorRepository,
	nurses repository.NurseRepository,
	notifier notification.Notifier,
) *Service {
	return &Service{
		repo:     repo,
		patients: patients,
		doctors:  doctors,
		nurses:   nurses,
		notifier: notifier,
	}
}

func (s *Service) AddLabResult(ctx context.Context, req model.CreateLabResultRequest) (*model.LabResult, error) {
	resultType := strings.TrimSpace(req.Type)
	if resultType == "" {
		return nil, apperrors.BadRequest("type is required")
	}

	patient, err := s.patients.GetByID(ctx, req.PatientID)
	if service.IsNotFound(err) {
		return nil, apperrors.BadRequest("patient not found")
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if req.DoctorID != nil {
		if _, err := s.doctors.GetByID(ctx, *req.DoctorID); err != nil {
			if service.IsNotFound(err) {
				return nil, apperrors.BadRequest("doctor not found")
			}
			return nil, apperrors.Internal(err)
		}
	}
	if req.NurseID != nil {
		if _, err := s.nurses.GetByID(ctx, *req.NurseID); err != nil {
			if service.IsNotFound(err) {
				return nil, apperrors.BadRequest("nurse not found")
			}
			return nil, apperrors.Internal(err)
		}
	}

	result := &model.LabResult{
		Type:       resultType,
		ResultData: req.ResultData,
		TestDate:   req.TestDate.UTC(),
		ResultDate: service.UTCPtr(req.ResultDate),
		Diagnosis:  service.TrimmedPtr(req.Diagnosis),
		Treatment:  service.TrimmedPtr(req.Treatment),
		PatientID:  patient.ID,
		DoctorID:   req.DoctorID,
		NurseID:    req.NurseID,
	}
	if err := s.repo.Create(ctx, result); err != nil {
		if service.IsReferenced(err) {
			return nil, apperrors.BadRequest("referenced patient, doctor or nurse not found")
		}
		return nil, apperrors.Internal(err)
	}

	if to := patient.ContactEmail(); to != "" {
		s.notifier.NotifyLabResultReady(ctx, to, patient.Name, result.Type)
	}

	return s.reload(ctx, result.ID)
}

func (s *Service) GetLabResult(ctx context.Context, id int) (*model.LabResult, error) {
	result, err := service.Optional(s.repo.GetByID(ctx, id))
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return result, nil
}

func (s *Service) ListLabResults(ctx context.Context) ([]*model.LabResult, error) {
	results, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return results, nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID int) ([]*model.LabResult, error) {
	results, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return results, nil
}

// UpdateLabResult patches the result fields only; type and patient are fixed.
func (s *Service) UpdateLabResult(ctx context.Context, id int, req model.UpdateLabResultRequest) (*model.LabResult, error) {
	result, err := service.Optional(s.repo.GetByID(ctx, id))
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if result == nil {
		return nil, nil
	}

	if req.ResultData != nil {
		result.ResultData = req.ResultData
	}
	if req.ResultDate != nil {
		result.ResultDate = service.UTCPtr(req.ResultDate)
	}
	if req.Diagnosis != nil {
		result.Diagnosis = service.TrimmedPtr(req.Diagnosis)
	}
	if req.Treatment != nil {
		result.Treatment = service.TrimmedPtr(req.Treatment)
	}

	if err := s.repo.Update(ctx, result); err != nil {
		if service.IsNotFound(err) {
			return nil, nil
		}
		return nil, apperrors.Internal(err)
	}
	return s.GetLabResult(ctx, id)
}

func (s *Service) DeleteLabResult(ctx context.Context, id int) error {
	err := s.repo.Delete(ctx, id)
	if service.IsNotFound(err) {
		return apperrors.NotFound("lab result")
	}
	if err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func (s *Service) reload(ctx context.Context, id int) (*model.LabResult, error) {
	result, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return result, nil
}
