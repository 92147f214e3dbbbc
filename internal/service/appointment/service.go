package appointment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	"github.com/jwalitptl/hospital-api/internal/service"
	"github.com/jwalitptl/hospital-api/internal/service/notification"
	"github.com/jwalitptl/hospital-api/pkg/clock"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
	"github.com/jwalitptl/hospital-api/pkg/metrics"
)

type Service struct {
	repo     repository.AppointmentRepository
	patients repository.PatientRepository
	doctors  repository.DoctorRepository
	clock    clock.Clock
	notifier notification.Notifier
	metrics  *metrics.Metrics
}

func NewService(
	repo repository.AppointmentRepository,
	patients repository.PatientRepository,
	doctors repository.DoctorRepository,
	clk clock.Clock,
	notifier notification.Notifier,
	m *metrics.Metrics,
) *Service {
	return &Service{
		repo:     repo,
		patients: patients,
		doctors:  doctors,
		clock:    clk,
		notifier: notifier,
		metrics:  m,
	}
}

// NormalizeTime puts appointment times on the precision Postgres stores, so
// exact-time conflict checks agree between memory and the database.
func NormalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

func (s *Service) CreateAppointment(ctx context.Context, req model.CreateAppointmentRequest) (*model.Appointment, error) {
	if req.Time.IsZero() {
		return nil, apperrors.BadRequest("appointment time is required")
	}
	at := NormalizeTime(req.Time)

	patient, err := s.patients.GetByID(ctx, req.PatientID)
	if service.IsNotFound(err) {
		return nil, apperrors.BadRequest("patient not found")
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	doctor, err := s.doctors.GetByID(ctx, req.DoctorID)
	if service.IsNotFound(err) {
		return nil, apperrors.BadRequest("doctor not found")
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	conflict, err := s.repo.HasConflict(ctx, doctor.ID, at)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if conflict {
		s.metrics.AppointmentConflicts.Inc()
		return nil, apperrors.BadRequest("doctor not available")
	}

	apt := &model.Appointment{
		Time:      at,
		Status:    model.AppointmentStatusScheduled,
		Reason:    strings.TrimSpace(req.Reason),
		CreatedAt: s.clock.Now(),
		PatientID: patient.ID,
		DoctorID:  doctor.ID,
	}
	if err := s.repo.Create(ctx, apt); err != nil {
		if service.IsDuplicate(err) {
			s.metrics.AppointmentConflicts.Inc()
			return nil, apperrors.BadRequest("doctor not available")
		}
		if service.IsReferenced(err) {
			return nil, apperrors.BadRequest("patient or doctor not found")
		}
		return nil, apperrors.Internal(err)
	}

	s.metrics.AppointmentsBooked.Inc()
	log.Info().
		Int("appointment_id", apt.ID).
		Int("doctor_id", doctor.ID).
		Time("time", at).
		Msg("Appointment booked")

	if to := patient.ContactEmail(); to != "" {
		s.notifier.NotifyAppointmentConfirmed(ctx, to, patient.Name, at, doctor.Name)
	}

	created, err := s.repo.GetByID(ctx, apt.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return created, nil
}

// CheckAvailability reports whether the doctor has no live appointment at t.
func (s *Service) CheckAvailability(ctx context.Context, doctorID int, t time.Time) (bool, error) {
	conflict, err := s.repo.HasConflict(ctx, doctorID, NormalizeTime(t))
	if err != nil {
		return false, apperrors.Internal(err)
	}
	return !conflict, nil
}

func (s *Service) GetAppointment(ctx context.Context, id int) (*model.Appointment, error) {
	apt, err := service.Optional(s.repo.GetByID(ctx, id))
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return apt, nil
}

func (s *Service) ListAppointments(ctx context.Context) ([]*model.Appointment, error) {
	apts, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return apts, nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID int) ([]*model.Appointment, error) {
	apts, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return apts, nil
}

func (s *Service) ListByDoctor(ctx context.Context, doctorID int) ([]*model.Appointment, error) {
	apts, err := s.repo.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return apts, nil
}

// UpdateAppointment patches the supplied fields. A missing appointment yields
// nil. A change that would leave two live appointments in one doctor slot is
// rejected by the store.
func (s *Service) UpdateAppointment(ctx context.Context, id int, req model.UpdateAppointmentRequest) (*model.Appointment, error) {
	apt, err := service.Optional(s.repo.GetByID(ctx, id))
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if apt == nil {
		return nil, nil
	}

	if req.Time != nil {
		apt.Time = NormalizeTime(*req.Time)
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, apperrors.BadRequest(fmt.Sprintf("invalid appointment status %q", *req.Status))
		}
		apt.Status = *req.Status
	}
	if req.Reason != nil {
		apt.Reason = strings.TrimSpace(*req.Reason)
	}

	if err := s.repo.Update(ctx, apt); err != nil {
		if service.IsNotFound(err) {
			return nil, nil
		}
		if service.IsDuplicate(err) {
			s.metrics.AppointmentConflicts.Inc()
			return nil, apperrors.BadRequest("doctor not available")
		}
		return nil, apperrors.Internal(err)
	}
	return s.GetAppointment(ctx, id)
}

// CancelAppointment is a no-op for an already cancelled appointment and
// refuses completed ones.
func (s *Service) CancelAppointment(ctx context.Context, id int) error {
	apt, err := service.Optional(s.repo.GetByID(ctx, id))
	if err != nil {
		return apperrors.Internal(err)
	}
	if apt == nil {
		return apperrors.NotFound("appointment")
	}

	switch apt.Status {
	case model.AppointmentStatusCancelled:
		return nil
	case model.AppointmentStatusCompleted:
		return apperrors.BadRequest("cannot cancel a completed appointment")
	}

	apt.Status = model.AppointmentStatusCancelled
	if err := s.repo.Update(ctx, apt); err != nil {
		if service.IsNotFound(err) {
			return apperrors.NotFound("appointment")
		}
		return apperrors.Internal(err)
	}
	log.Info().Int("appointment_id", id).Msg("Appointment cancelled")
	return nil
}
