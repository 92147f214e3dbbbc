package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

type patientRepository struct {
	BaseRepository
}

func NewPatientRepository(base BaseRepository) repository.PatientRepository {
	return &patientRepository{base}
}

const patientSelect = `
	SELECT p.id, p.name, p.age, p.insurance, p.address, p.phone, p.email,
		p.date_of_birth, p.doctor_id, d.name AS doctor_name
	FROM patients p
	LEFT JOIN doctors d ON d.id = p.doctor_id
`

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	query := `
		INSERT INTO patients (name, age, insurance, address, phone, email, date_of_birth, doctor_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err := r.db.QueryRowxContext(ctx, query,
		patient.Name,
		patient.Age,
		patient.Insurance,
		patient.Address,
		patient.Phone,
		patient.Email,
		patient.DateOfBirth,
		patient.DoctorID,
	).Scan(&patient.ID)
	return mapError("failed to create patient", err)
}

func (r *patientRepository) GetByID(ctx context.Context, id int) (*model.Patient, error) {
	var patient model.Patient
	if err := r.db.GetContext(ctx, &patient, patientSelect+` WHERE p.id = $1`, id); err != nil {
		return nil, mapError("failed to get patient", err)
	}
	return &patient, nil
}

func (r *patientRepository) List(ctx context.Context) ([]*model.Patient, error) {
	var patients []*model.Patient
	if err := r.db.SelectContext(ctx, &patients, patientSelect+` ORDER BY p.id`); err != nil {
		return nil, mapError("failed to list patients", err)
	}
	return patients, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	query := `
		UPDATE patients
		SET name = $1, age = $2, insurance = $3, address = $4, phone = $5,
			email = $6, date_of_birth = $7, doctor_id = $8
		WHERE id = $9
	`
	res, err := r.db.ExecContext(ctx, query,
		patient.Name,
		patient.Age,
		patient.Insurance,
		patient.Address,
		patient.Phone,
		patient.Email,
		patient.DateOfBirth,
		patient.DoctorID,
		patient.ID,
	)
	if err != nil {
		return mapError("failed to update patient", err)
	}
	return expectAffected("failed to update patient", res)
}

// Delete clears every restrict-bound child before the patient row. The medical
// record and its clinical entries go by cascade.
func (r *patientRepository) Delete(ctx context.Context, id int) error {
	steps := []struct {
		op    string
		query string
	}{
		{"failed to delete patient appointments", `DELETE FROM appointments WHERE patient_id = $1`},
		{"failed to delete patient payments", `DELETE FROM payments WHERE invoice_id IN (SELECT id FROM invoices WHERE patient_id = $1)`},
		{"failed to delete patient invoices", `DELETE FROM invoices WHERE patient_id = $1`},
		{"failed to delete patient lab results", `DELETE FROM lab_results WHERE patient_id = $1`},
		{"failed to delete patient prescriptions", `DELETE FROM prescriptions WHERE patient_id = $1`},
	}

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		for _, step := range steps {
			if _, err := tx.ExecContext(ctx, step.query, id); err != nil {
				return mapError(step.op, err)
			}
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM patients WHERE id = $1`, id)
		if err != nil {
			return mapError("failed to delete patient", err)
		}
		return expectAffected("failed to delete patient", res)
	})
}
