package postgres

import (
	"context"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

type medicalRecordRepository struct {
	BaseRepository
}

func NewMedicalRecordRepository(base BaseRepository) repository.MedicalRecordRepository {
	return &medicalRecordRepository{base}
}

const medicalRecordSelect = `
	SELECT m.id, m.created_at, m.diagnosis, m.treatment, m.patient_id, p.name AS patient_name
	FROM medical_records m
	JOIN patients p ON p.id = m.patient_id
`

func (r *medicalRecordRepository) Create(ctx context.Context, record *model.MedicalRecord) error {
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO medical_records (created_at, diagnosis, treatment, patient_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		record.CreatedAt, record.Diagnosis, record.Treatment, record.PatientID,
	).Scan(&record.ID)
	return mapError("failed to create medical record", err)
}

func (r *medicalRecordRepository) GetByID(ctx context.Context, id int) (*model.MedicalRecord, error) {
	return r.getOne(ctx, medicalRecordSelect+` WHERE m.id = $1`, id)
}

func (r *medicalRecordRepository) GetByPatient(ctx context.Context, patientID int) (*model.MedicalRecord, error) {
	return r.getOne(ctx, medicalRecordSelect+` WHERE m.patient_id = $1`, patientID)
}

func (r *medicalRecordRepository) getOne(ctx context.Context, query string, arg int) (*model.MedicalRecord, error) {
	var record model.MedicalRecord
	if err := r.db.GetContext(ctx, &record, query, arg); err != nil {
		return nil, mapError("failed to get medical record", err)
	}
	entries, err := r.ListEntries(ctx, record.ID)
	if err != nil {
		return nil, err
	}
	record.ClinicalEntries = entries
	return &record, nil
}

func (r *medicalRecordRepository) Update(ctx context.Context, record *model.MedicalRecord) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE medical_records SET diagnosis = $1, treatment = $2 WHERE id = $3`,
		record.Diagnosis, record.Treatment, record.ID,
	)
	if err != nil {
		return mapError("failed to update medical record", err)
	}
	return expectAffected("failed to update medical record", res)
}

func (r *medicalRecordRepository) CreateEntry(ctx context.Context, entry *model.ClinicalEntry) error {
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO clinical_entries (record_id, date, notes, diagnosis)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		entry.RecordID, entry.Date, entry.Notes, entry.Diagnosis,
	).Scan(&entry.ID)
	return mapError("failed to create clinical entry", err)
}

func (r *medicalRecordRepository) ListEntries(ctx context.Context, recordID int) ([]model.ClinicalEntry, error) {
	entries := []model.ClinicalEntry{}
	err := r.db.SelectContext(ctx, &entries, `
		SELECT id, record_id, date, notes, diagnosis
		FROM clinical_entries
		WHERE record_id = $1
		ORDER BY date DESC, id DESC`, recordID)
	if err != nil {
		return nil, mapError("failed to list clinical entries", err)
	}
	return entries, nil
}
