package appointment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	"github.com/jwalitptl/hospital-api/internal/repository/repotest"
	"github.com/jwalitptl/hospital-api/internal/service/notification"
	"github.com/jwalitptl/hospital-api/pkg/clock"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
	"github.com/jwalitptl/hospital-api/pkg/metrics"
)

type fixture struct {
	repos    *repotest.Repos
	clock    *clock.Simulated
	notifier *notification.Recorder
	svc      *Service
	patient  *model.Patient
	doctor   *model.Doctor
}

func newFixture(t *testing.T, withEmail bool) *fixture {
	t.Helper()
	ctx := context.Background()
	repos := repotest.NewRepos()

	dept := &model.Department{Name: "Cardiology"}
	require.NoError(t, repos.Departments.Create(ctx, dept))
	doctor := &model.Doctor{Name: "Dr. House", Specialization: "Diagnostics", DepartmentID: dept.ID}
	require.NoError(t, repos.Doctors.Create(ctx, doctor))

	patient := &model.Patient{Name: "Ana", Age: 30, Insurance: "X"}
	if withEmail {
		email := "ana@example.com"
		patient.Email = &email
	}
	require.NoError(t, repos.Patients.Create(ctx, patient))

	clk := clock.NewSimulated(time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC))
	rec := &notification.Recorder{}
	return &fixture{
		repos:    repos,
		clock:    clk,
		notifier: rec,
		svc:      NewService(repos.Appointments, repos.Patients, repos.Doctors, clk, rec, metrics.NewNop()),
		patient:  patient,
		doctor:   doctor,
	}
}

func (f *fixture) book(at time.Time) (*model.Appointment, error) {
	return f.svc.CreateAppointment(context.Background(), model.CreateAppointmentRequest{
		Time:      at,
		Reason:    "checkup",
		PatientID: f.patient.ID,
		DoctorID:  f.doctor.ID,
	})
}

func TestCreateAppointment(t *testing.T) {
	f := newFixture(t, true)
	at := time.Date(2025, 3, 12, 9, 30, 0, 0, time.UTC)

	apt, err := f.book(at)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusScheduled, apt.Status)
	assert.Equal(t, f.clock.Now(), apt.CreatedAt)
	assert.Equal(t, "Ana", apt.PatientName)
	assert.Equal(t, "Dr. House", apt.DoctorName)
	assert.Equal(t, "Diagnostics", apt.DoctorSpecialization)

	sent := f.notifier.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "appointment", sent[0].Kind)
	assert.Equal(t, "Dr. House", sent[0].Detail)
	assert.True(t, at.Equal(sent[0].At))
}

func TestCreateAppointment_NoEmailNoNotification(t *testing.T) {
	f := newFixture(t, false)
	_, err := f.book(time.Date(2025, 3, 12, 9, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, f.notifier.Sent())
}

func TestCreateAppointment_DoubleBooking(t *testing.T) {
	f := newFixture(t, false)
	at := time.Date(2025, 3, 12, 9, 30, 0, 0, time.UTC)

	first, err := f.book(at)
	require.NoError(t, err)

	_, err = f.book(at.In(time.FixedZone("CET", 3600)))
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, "doctor not available", appErr.Message)

	require.NoError(t, f.svc.CancelAppointment(context.Background(), first.ID))
	_, err = f.book(at)
	assert.NoError(t, err)
}

// gatedAppointments holds every HasConflict caller until n of them have
// checked, so concurrent bookings all see a free slot.
type gatedAppointments struct {
	*repotest.AppointmentRepository
	checked sync.WaitGroup
}

func (g *gatedAppointments) HasConflict(ctx context.Context, doctorID int, t time.Time) (bool, error) {
	conflict, err := g.AppointmentRepository.HasConflict(ctx, doctorID, t)
	g.checked.Done()
	g.checked.Wait()
	return conflict, err
}

var _ repository.AppointmentRepository = (*gatedAppointments)(nil)

func TestCreateAppointment_ConcurrentBookingsOneWins(t *testing.T) {
	f := newFixture(t, false)
	gated := &gatedAppointments{AppointmentRepository: f.repos.Appointments}
	gated.checked.Add(2)
	svc := NewService(gated, f.repos.Patients, f.repos.Doctors, f.clock, f.notifier, metrics.NewNop())
	at := time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CreateAppointment(context.Background(), model.CreateAppointmentRequest{
				Time:      at,
				PatientID: f.patient.ID,
				DoctorID:  f.doctor.ID,
			})
		}(i)
	}
	wg.Wait()

	failed := 0
	for _, err := range errs {
		if err == nil {
			continue
		}
		failed++
		appErr, ok := apperrors.As(err)
		require.True(t, ok)
		assert.Equal(t, "doctor not available", appErr.Message)
	}
	assert.Equal(t, 1, failed)

	apts, err := f.repos.Appointments.ListByDoctor(context.Background(), f.doctor.ID)
	require.NoError(t, err)
	assert.Len(t, apts, 1)
}

func TestUpdateAppointment_RestoreIntoTakenSlot(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	at := time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC)

	first, err := f.book(at)
	require.NoError(t, err)
	require.NoError(t, f.svc.CancelAppointment(ctx, first.ID))
	_, err = f.book(at)
	require.NoError(t, err)

	scheduled := model.AppointmentStatusScheduled
	_, err = f.svc.UpdateAppointment(ctx, first.ID, model.UpdateAppointmentRequest{Status: &scheduled})
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, "doctor not available", appErr.Message)

	got, err := f.svc.GetAppointment(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCancelled, got.Status)
}

func TestUpdateAppointment_MoveIntoTakenSlot(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	at := time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC)

	_, err := f.book(at)
	require.NoError(t, err)
	other, err := f.book(at.Add(time.Hour))
	require.NoError(t, err)

	_, err = f.svc.UpdateAppointment(ctx, other.ID, model.UpdateAppointmentRequest{Time: &at})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrBadRequest))
}

func TestCreateAppointment_MissingReferences(t *testing.T) {
	f := newFixture(t, false)
	at := time.Date(2025, 3, 12, 9, 30, 0, 0, time.UTC)

	_, err := f.svc.CreateAppointment(context.Background(), model.CreateAppointmentRequest{Time: at, PatientID: 999, DoctorID: f.doctor.ID})
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, "patient not found", appErr.Message)

	_, err = f.svc.CreateAppointment(context.Background(), model.CreateAppointmentRequest{Time: at, PatientID: f.patient.ID, DoctorID: 999})
	appErr, ok = apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, "doctor not found", appErr.Message)
	assert.Equal(t, 0, f.repos.Store.Counts()["appointments"])
}

func TestCheckAvailability(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	at := time.Date(2025, 3, 12, 9, 30, 0, 0, time.UTC)

	free, err := f.svc.CheckAvailability(ctx, f.doctor.ID, at)
	require.NoError(t, err)
	assert.True(t, free)

	_, err = f.book(at)
	require.NoError(t, err)

	free, err = f.svc.CheckAvailability(ctx, f.doctor.ID, at)
	require.NoError(t, err)
	assert.False(t, free)

	free, err = f.svc.CheckAvailability(ctx, f.doctor.ID, at.Add(time.Minute))
	require.NoError(t, err)
	assert.True(t, free)
}

func TestCancelAppointment(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	apt, err := f.book(time.Date(2025, 3, 12, 9, 30, 0, 0, time.UTC))
	require.NoError(t, err)

	require.NoError(t, f.svc.CancelAppointment(ctx, apt.ID))
	require.NoError(t, f.svc.CancelAppointment(ctx, apt.ID))

	got, err := f.svc.GetAppointment(ctx, apt.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCancelled, got.Status)

	err = f.svc.CancelAppointment(ctx, 999)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrNotFound))
}

func TestCancelAppointment_Completed(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	apt, err := f.book(time.Date(2025, 3, 12, 9, 30, 0, 0, time.UTC))
	require.NoError(t, err)

	completed := model.AppointmentStatusCompleted
	_, err = f.svc.UpdateAppointment(ctx, apt.ID, model.UpdateAppointmentRequest{Status: &completed})
	require.NoError(t, err)

	err = f.svc.CancelAppointment(ctx, apt.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrBadRequest))
}

func TestUpdateAppointment(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	apt, err := f.book(time.Date(2025, 3, 12, 9, 30, 0, 0, time.UTC))
	require.NoError(t, err)

	moved := time.Date(2025, 3, 13, 11, 0, 0, 0, time.UTC)
	reason := "  follow-up "
	got, err := f.svc.UpdateAppointment(ctx, apt.ID, model.UpdateAppointmentRequest{Time: &moved, Reason: &reason})
	require.NoError(t, err)
	assert.True(t, moved.Equal(got.Time))
	assert.Equal(t, "follow-up", got.Reason)
	assert.Equal(t, model.AppointmentStatusScheduled, got.Status)

	bogus := model.AppointmentStatus("Rescheduled")
	_, err = f.svc.UpdateAppointment(ctx, apt.ID, model.UpdateAppointmentRequest{Status: &bogus})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrBadRequest))

	missing, err := f.svc.UpdateAppointment(ctx, 999, model.UpdateAppointmentRequest{Reason: &reason})
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestListAppointments_StoreFailure(t *testing.T) {
	f := newFixture(t, false)
	f.repos.Store.FailNext("Appointment.List", errors.New("connection reset"))

	_, err := f.svc.ListAppointments(context.Background())
	assert.True(t, apperrors.HasCode(err, apperrors.ErrInternal))
}
