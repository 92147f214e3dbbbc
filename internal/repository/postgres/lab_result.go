package postgres

import (
	"context"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

type labResultRepository struct {
	BaseRepository
}

func NewLabResultRepository(base BaseRepository) repository.LabResultRepository {
	return &labResultRepository{base}
}

const labResultSelect = `
	SELECT l.id, l.type, l.result_data, l.test_date, l.result_date, l.diagnosis, l.treatment,
		l.patient_id, p.name AS patient_name,
		l.doctor_id, d.name AS doctor_name,
		l.nurse_id, n.name AS nurse_name
	FROM lab_results l
	JOIN patients p ON p.id = l.patient_id
	LEFT JOIN doctors d ON d.id = l.doctor_id
	LEFT JOIN nurses n ON n.id = l.nurse_id
`

func (r *labResultRepository) Create(ctx context.Context, result *model.LabResult) error {
	query := `
		INSERT INTO lab_results (type, result_data, test_date, result_date, diagnosis, treatment,
			patient_id, doctor_id, nurse_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	err := r.db.QueryRowxContext(ctx, query,
		result.Type,
		result.ResultData,
		result.TestDate,
		result.ResultDate,
		result.Diagnosis,
		result.Treatment,
		result.PatientID,
		result.DoctorID,
		result.NurseID,
	).Scan(&result.ID)
	return mapError("failed to create lab result", err)
}

func (r *labResultRepository) GetByID(ctx context.Context, id int) (*model.LabResult, error) {
	var result model.LabResult
	if err := r.db.GetContext(ctx, &result, labResultSelect+` WHERE l.id = $1`, id); err != nil {
		return nil, mapError("failed to get lab result", err)
	}
	return &result, nil
}

func (r *labResultRepository) List(ctx context.Context) ([]*model.LabResult, error) {
	var results []*model.LabResult
	if err := r.db.SelectContext(ctx, &results, labResultSelect+` ORDER BY l.test_date DESC, l.id DESC`); err != nil {
		return nil, mapError("failed to list lab results", err)
	}
	return results, nil
}

func (r *labResultRepository) ListByPatient(ctx context.Context, patientID int) ([]*model.LabResult, error) {
	var results []*model.LabResult
	err := r.db.SelectContext(ctx, &results,
		labResultSelect+` WHERE l.patient_id = $1 ORDER BY l.test_date DESC, l.id DESC`, patientID)
	if err != nil {
		return nil, mapError("failed to list lab results", err)
	}
	return results, nil
}

// Update writes only the mutable columns; type and patient are fixed at creation.
func (r *labResultRepository) Update(ctx context.Context, result *model.LabResult) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE lab_results
		SET result_data = $1, result_date = $2, diagnosis = $3, treatment = $4
		WHERE id = $5`,
		result.ResultData, result.ResultDate, result.Diagnosis, result.Treatment, result.ID,
	)
	if err != nil {
		return mapError("failed to update lab result", err)
	}
	return expectAffected("failed to update lab result", res)
}

func (r *labResultRepository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM lab_results WHERE id = $1`, id)
	if err != nil {
		return mapError("failed to delete lab result", err)
	}
	return expectAffected("failed to delete lab result", res)
}
