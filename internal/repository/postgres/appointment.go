package postgres

import (
	"context"
	"time"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

type appointmentRepository struct {
	BaseRepository
}

func NewAppointmentRepository(base BaseRepository) repository.AppointmentRepository {
	return &appointmentRepository{base}
}

const appointmentSelect = `
	SELECT a.id, a.time, a.status, a.reason, a.created_at,
		a.patient_id, p.name AS patient_name,
		a.doctor_id, d.name AS doctor_name, d.specialization AS doctor_specialization
	FROM appointments a
	JOIN patients p ON p.id = a.patient_id
	JOIN doctors d ON d.id = a.doctor_id
`

func (r *appointmentRepository) Create(ctx context.Context, appt *model.Appointment) error {
	query := `
		INSERT INTO appointments (time, status, reason, created_at, patient_id, doctor_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.db.QueryRowxContext(ctx, query,
		appt.Time,
		appt.Status,
		appt.Reason,
		appt.CreatedAt,
		appt.PatientID,
		appt.DoctorID,
	).Scan(&appt.ID)
	return mapError("failed to create appointment", err)
}

func (r *appointmentRepository) GetByID(ctx context.Context, id int) (*model.Appointment, error) {
	var appt model.Appointment
	if err := r.db.GetContext(ctx, &appt, appointmentSelect+` WHERE a.id = $1`, id); err != nil {
		return nil, mapError("failed to get appointment", err)
	}
	return &appt, nil
}

func (r *appointmentRepository) List(ctx context.Context) ([]*model.Appointment, error) {
	return r.list(ctx, appointmentSelect+` ORDER BY a.time, a.id`)
}

func (r *appointmentRepository) ListByPatient(ctx context.Context, patientID int) ([]*model.Appointment, error) {
	return r.list(ctx, appointmentSelect+` WHERE a.patient_id = $1 ORDER BY a.time, a.id`, patientID)
}

func (r *appointmentRepository) ListByDoctor(ctx context.Context, doctorID int) ([]*model.Appointment, error) {
	return r.list(ctx, appointmentSelect+` WHERE a.doctor_id = $1 ORDER BY a.time, a.id`, doctorID)
}

func (r *appointmentRepository) list(ctx context.Context, query string, args ...interface{}) ([]*model.Appointment, error) {
	var appts []*model.Appointment
	if err := r.db.SelectContext(ctx, &appts, query, args...); err != nil {
		return nil, mapError("failed to list appointments", err)
	}
	return appts, nil
}

func (r *appointmentRepository) Update(ctx context.Context, appt *model.Appointment) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE appointments SET time = $1, status = $2, reason = $3 WHERE id = $4`,
		appt.Time, appt.Status, appt.Reason, appt.ID,
	)
	if err != nil {
		return mapError("failed to update appointment", err)
	}
	return expectAffected("failed to update appointment", res)
}

func (r *appointmentRepository) HasConflict(ctx context.Context, doctorID int, t time.Time) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE doctor_id = $1 AND time = $2 AND status <> $3
		)`, doctorID, t, model.AppointmentStatusCancelled)
	if err != nil {
		return false, mapError("failed to check appointment conflict", err)
	}
	return exists, nil
}
