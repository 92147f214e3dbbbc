package postgres

import (
	"context"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

type prescriptionRepository struct {
	BaseRepository
}

func NewPrescriptionRepository(base BaseRepository) repository.PrescriptionRepository {
	return &prescriptionRepository{base}
}

const prescriptionSelect = `
	SELECT rx.id, rx.instructions, rx.medication, rx.dosage, rx.issued_date, rx.expiry_date,
		rx.doctor_id, d.name AS doctor_name, rx.patient_id, p.name AS patient_name
	FROM prescriptions rx
	JOIN doctors d ON d.id = rx.doctor_id
	JOIN patients p ON p.id = rx.patient_id
`

func (r *prescriptionRepository) Create(ctx context.Context, p *model.Prescription) error {
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO prescriptions (instructions, medication, dosage, issued_date, expiry_date, doctor_id, patient_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		p.Instructions, p.Medication, p.Dosage, p.IssuedDate, p.ExpiryDate, p.DoctorID, p.PatientID,
	).Scan(&p.ID)
	return mapError("failed to create prescription", err)
}

func (r *prescriptionRepository) GetByID(ctx context.Context, id int) (*model.Prescription, error) {
	var p model.Prescription
	if err := r.db.GetContext(ctx, &p, prescriptionSelect+` WHERE rx.id = $1`, id); err != nil {
		return nil, mapError("failed to get prescription", err)
	}
	return &p, nil
}

func (r *prescriptionRepository) List(ctx context.Context) ([]*model.Prescription, error) {
	return r.list(ctx, prescriptionSelect+` ORDER BY rx.issued_date DESC, rx.id DESC`)
}

func (r *prescriptionRepository) ListByPatient(ctx context.Context, patientID int) ([]*model.Prescription, error) {
	return r.list(ctx, prescriptionSelect+` WHERE rx.patient_id = $1 ORDER BY rx.issued_date DESC, rx.id DESC`, patientID)
}

func (r *prescriptionRepository) ListByDoctor(ctx context.Context, doctorID int) ([]*model.Prescription, error) {
	return r.list(ctx, prescriptionSelect+` WHERE rx.doctor_id = $1 ORDER BY rx.issued_date DESC, rx.id DESC`, doctorID)
}

func (r *prescriptionRepository) list(ctx context.Context, query string, args ...interface{}) ([]*model.Prescription, error) {
	var out []*model.Prescription
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, mapError("failed to list prescriptions", err)
	}
	return out, nil
}

func (r *prescriptionRepository) Update(ctx context.Context, p *model.Prescription) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE prescriptions SET instructions = $1, medication = $2, dosage = $3, expiry_date = $4
		WHERE id = $5`,
		p.Instructions, p.Medication, p.Dosage, p.ExpiryDate, p.ID,
	)
	if err != nil {
		return mapError("failed to update prescription", err)
	}
	return expectAffected("failed to update prescription", res)
}

func (r *prescriptionRepository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM prescriptions WHERE id = $1`, id)
	if err != nil {
		return mapError("failed to delete prescription", err)
	}
	return expectAffected("failed to delete prescription", res)
}
