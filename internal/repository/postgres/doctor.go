package postgres

import (
	"context"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

type doctorRepository struct {
	BaseRepository
}

func NewDoctorRepository(base BaseRepository) repository.DoctorRepository {
	return &doctorRepository{base}
}

const doctorSelect = `
	SELECT d.id, d.name, d.specialization, d.consultation_fee, d.email, d.phone,
		d.availability, d.department_id, dep.name AS department_name
	FROM doctors d
	JOIN departments dep ON dep.id = d.department_id
`

func (r *doctorRepository) Create(ctx context.Context, doctor *model.Doctor) error {
	query := `
		INSERT INTO doctors (name, specialization, consultation_fee, email, phone, availability, department_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.db.QueryRowxContext(ctx, query,
		doctor.Name,
		doctor.Specialization,
		doctor.ConsultationFee,
		doctor.Email,
		doctor.Phone,
		doctor.Availability,
		doctor.DepartmentID,
	).Scan(&doctor.ID)
	return mapError("failed to create doctor", err)
}

func (r *doctorRepository) GetByID(ctx context.Context, id int) (*model.Doctor, error) {
	var doctor model.Doctor
	if err := r.db.GetContext(ctx, &doctor, doctorSelect+` WHERE d.id = $1`, id); err != nil {
		return nil, mapError("failed to get doctor", err)
	}
	return &doctor, nil
}

func (r *doctorRepository) List(ctx context.Context) ([]*model.Doctor, error) {
	var doctors []*model.Doctor
	if err := r.db.SelectContext(ctx, &doctors, doctorSelect+` ORDER BY d.id`); err != nil {
		return nil, mapError("failed to list doctors", err)
	}
	return doctors, nil
}

func (r *doctorRepository) ListByDepartment(ctx context.Context, departmentID int) ([]*model.Doctor, error) {
	var doctors []*model.Doctor
	if err := r.db.SelectContext(ctx, &doctors, doctorSelect+` WHERE d.department_id = $1 ORDER BY d.id`, departmentID); err != nil {
		return nil, mapError("failed to list doctors", err)
	}
	return doctors, nil
}

func (r *doctorRepository) Update(ctx context.Context, doctor *model.Doctor) error {
	query := `
		UPDATE doctors
		SET name = $1, specialization = $2, consultation_fee = $3, email = $4,
			phone = $5, availability = $6, department_id = $7
		WHERE id = $8
	`
	res, err := r.db.ExecContext(ctx, query,
		doctor.Name,
		doctor.Specialization,
		doctor.ConsultationFee,
		doctor.Email,
		doctor.Phone,
		doctor.Availability,
		doctor.DepartmentID,
		doctor.ID,
	)
	if err != nil {
		return mapError("failed to update doctor", err)
	}
	return expectAffected("failed to update doctor", res)
}

// Delete relies on the schema: appointments and prescriptions block it, lab
// results and patients lose the reference.
func (r *doctorRepository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM doctors WHERE id = $1`, id)
	if err != nil {
		return mapError("failed to delete doctor", err)
	}
	return expectAffected("failed to delete doctor", res)
}
