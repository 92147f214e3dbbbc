package medical

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	"github.com/jwalitptl/hospital-api/internal/service"
	"github.com/jwalitptl/hospital-api/pkg/clock"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
)

type Service struct {
	repo     repository.MedicalRecordRepository
	patients repository.PatientRepository
	clock    clock.Clock
}

func NewService(repo repository.MedicalRecordRepository, patients repository.PatientRepository, clk clock.Clock) *Service {
	return &Service{
		repo:     repo,
		patients: patients,
		clock:    clk,
	}
}

// CreateMedicalRecord opens the single record a patient may have.
func (s *Service) CreateMedicalRecord(ctx context.Context, req model.CreateMedicalRecordRequest) (*model.MedicalRecord, error) {
	if _, err := s.patients.GetByID(ctx, req.PatientID); err != nil {
		if service.IsNotFound(err) {
			return nil, apperrors.BadRequest("patient not found")
		}
		return nil, apperrors.Internal(err)
	}

	existing, err := service.Optional(s.repo.GetByPatient(ctx, req.PatientID))
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if existing != nil {
		return nil, apperrors.BadRequest("patient already has a medical record")
	}

	record := &model.MedicalRecord{
		CreatedAt: s.clock.Now(),
		Diagnosis: service.TrimmedPtr(req.Diagnosis),
		Treatment: service.TrimmedPtr(req.Treatment),
		PatientID: req.PatientID,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		switch {
		case service.IsDuplicate(err):
			return nil, apperrors.BadRequest("patient already has a medical record")
		case service.IsReferenced(err):
			return nil, apperrors.BadRequest("patient not found")
		}
		return nil, apperrors.Internal(err)
	}

	return s.reload(ctx, record.ID)
}

func (s *Service) GetMedicalRecord(ctx context.Context, id int) (*model.MedicalRecord, error) {
	record, err := service.Optional(s.repo.GetByID(ctx, id))
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return record, nil
}

func (s *Service) GetByPatient(ctx context.Context, patientID int) (*model.MedicalRecord, error) {
	record, err := service.Optional(s.repo.GetByPatient(ctx, patientID))
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return record, nil
}

func (s *Service) UpdateMedicalRecord(ctx context.Context, id int, req model.UpdateMedicalRecordRequest) (*model.MedicalRecord, error) {
	record, err := service.Optional(s.repo.GetByID(ctx, id))
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if record == nil {
		return nil, nil
	}

	if req.Diagnosis != nil {
		record.Diagnosis = service.TrimmedPtr(req.Diagnosis)
	}
	if req.Treatment != nil {
		record.Treatment = service.TrimmedPtr(req.Treatment)
	}

	if err := s.repo.Update(ctx, record); err != nil {
		if service.IsNotFound(err) {
			return nil, nil
		}
		return nil, apperrors.Internal(err)
	}
	return s.GetMedicalRecord(ctx, id)
}

// AddClinicalEntry appends a dated note to an existing record.
func (s *Service) AddClinicalEntry(ctx context.Context, req model.CreateClinicalEntryRequest) (*model.ClinicalEntry, error) {
	notes := strings.TrimSpace(req.Notes)
	if notes == "" {
		return nil, apperrors.BadRequest("notes are required")
	}

	if _, err := s.repo.GetByID(ctx, req.RecordID); err != nil {
		if service.IsNotFound(err) {
			return nil, apperrors.BadRequest("medical record not found")
		}
		return nil, apperrors.Internal(err)
	}

	entry := &model.ClinicalEntry{
		RecordID:  req.RecordID,
		Date:      s.clock.Now(),
		Notes:     notes,
		Diagnosis: service.TrimmedPtr(req.Diagnosis),
	}
	if err := s.repo.CreateEntry(ctx, entry); err != nil {
		if service.IsReferenced(err) {
			return nil, apperrors.BadRequest("medical record not found")
		}
		return nil, apperrors.Internal(err)
	}

	log.Debug().Int("record_id", entry.RecordID).Int("entry_id", entry.ID).Msg("Clinical entry added")
	return entry, nil
}

// GetClinicalEntriesByRecord returns entries newest first.
func (s *Service) GetClinicalEntriesByRecord(ctx context.Context, recordID int) ([]model.ClinicalEntry, error) {
	record, err := service.Optional(s.repo.GetByID(ctx, recordID))
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if record == nil {
		return nil, apperrors.NotFound("medical record")
	}

	entries, err := s.repo.ListEntries(ctx, recordID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return entries, nil
}

func (s *Service) reload(ctx context.Context, id int) (*model.MedicalRecord, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return record, nil
}
