package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

func newMockBase(t *testing.T) (BaseRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewBaseRepository(sqlx.NewDb(db, "postgres")), mock
}

func TestPatientDelete_FanOutCommits(t *testing.T) {
	base, mock := newMockBase(t)
	repo := NewPatientRepository(base)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM appointments WHERE patient_id = $1`)).
		WithArgs(7).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM payments WHERE invoice_id IN`)).
		WithArgs(7).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM invoices WHERE patient_id = $1`)).
		WithArgs(7).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM lab_results WHERE patient_id = $1`)).
		WithArgs(7).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM prescriptions WHERE patient_id = $1`)).
		WithArgs(7).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM patients WHERE id = $1`)).
		WithArgs(7).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), 7))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPatientDelete_RollsBackOnFailure(t *testing.T) {
	base, mock := newMockBase(t)
	repo := NewPatientRepository(base)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM appointments WHERE patient_id = $1`)).
		WithArgs(7).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM payments WHERE invoice_id IN`)).
		WithArgs(7).WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), 7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to delete patient payments")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPatientDelete_MissingPatientRollsBack(t *testing.T) {
	base, mock := newMockBase(t)
	repo := NewPatientRepository(base)

	mock.ExpectBegin()
	for i := 0; i < 5; i++ {
		mock.ExpectExec(`DELETE FROM`).WithArgs(99).WillReturnResult(sqlmock.NewResult(0, 0))
	}
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM patients WHERE id = $1`)).
		WithArgs(99).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), 99)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDepartmentDelete_FanOut(t *testing.T) {
	base, mock := newMockBase(t)
	repo := NewDepartmentRepository(base)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM doctors WHERE department_id = $1`)).
		WithArgs(3).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM appointments WHERE doctor_id = $1`)).
		WithArgs(11).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM prescriptions WHERE doctor_id = $1`)).
		WithArgs(11).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE lab_results SET doctor_id = NULL WHERE doctor_id = $1`)).
		WithArgs(11).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE patients SET doctor_id = NULL WHERE doctor_id = $1`)).
		WithArgs(11).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM doctors WHERE id = $1`)).
		WithArgs(11).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM nurses WHERE department_id = $1`)).
		WithArgs(3).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(21))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE lab_results SET nurse_id = NULL WHERE nurse_id = $1`)).
		WithArgs(21).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM nurses WHERE id = $1`)).
		WithArgs(21).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM rooms WHERE department_id = $1`)).
		WithArgs(3).WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM departments WHERE id = $1`)).
		WithArgs(3).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), 3))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDepartmentDelete_RollsBackWhenDoctorStepFails(t *testing.T) {
	base, mock := newMockBase(t)
	repo := NewDepartmentRepository(base)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM doctors WHERE department_id = $1`)).
		WithArgs(3).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM appointments WHERE doctor_id = $1`)).
		WithArgs(11).WillReturnError(&pq.Error{Code: pqForeignKeyViolation})
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), 3)
	assert.ErrorIs(t, err, repository.ErrReferenced)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvoiceCreate_DuplicateNumber(t *testing.T) {
	base, mock := newMockBase(t)
	repo := NewInvoiceRepository(base)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO invoices`)).
		WillReturnError(&pq.Error{Code: pqUniqueViolation, Constraint: "idx_invoices_invoice_number"})

	err := repo.Create(context.Background(), &model.Invoice{
		InvoiceNumber: "INV-202503-000001",
		Total:         100,
		Status:        model.InvoiceStatusPending,
		DateIssued:    time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		PatientID:     1,
	})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvoiceApplyPayment_SettleErrorRollsBack(t *testing.T) {
	base, mock := newMockBase(t)
	repo := NewInvoiceRepository(base)
	issued := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WithArgs(5).WillReturnRows(
		sqlmock.NewRows([]string{"id", "invoice_number", "total", "description", "status", "date_issued", "date_paid", "patient_id"}).
			AddRow(5, "INV-202503-000001", 100.0, nil, "Cancelled", issued, nil, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COALESCE(SUM(amount), 0) FROM payments`)).
		WithArgs(5).WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(0.0))
	mock.ExpectRollback()

	settleErr := errors.New("cannot pay")
	_, err := repo.ApplyPayment(context.Background(), 5, &model.Payment{Amount: 10}, func(inv *model.Invoice, paid float64) error {
		assert.Equal(t, model.InvoiceStatusCancelled, inv.Status)
		assert.InDelta(t, 10.0, paid, 0.001)
		return settleErr
	})
	assert.ErrorIs(t, err, settleErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentHasConflict(t *testing.T) {
	base, mock := newMockBase(t)
	repo := NewAppointmentRepository(base)
	at := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(2, at, model.AppointmentStatusCancelled).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	conflict, err := repo.HasConflict(context.Background(), 2, at)
	require.NoError(t, err)
	assert.True(t, conflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentCreate_LiveSlotTaken(t *testing.T) {
	base, mock := newMockBase(t)
	repo := NewAppointmentRepository(base)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO appointments`)).
		WillReturnError(&pq.Error{Code: pqUniqueViolation, Constraint: "idx_appointments_doctor_live"})

	err := repo.Create(context.Background(), &model.Appointment{
		Time:      time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC),
		Status:    model.AppointmentStatusScheduled,
		CreatedAt: time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC),
		PatientID: 1,
		DoctorID:  2,
	})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigratorLoad_LiveSlotIndex(t *testing.T) {
	migrations, err := NewMigrator(nil).Load()
	require.NoError(t, err)
	require.Len(t, migrations, 2)

	assert.Equal(t, 1, migrations[0].Version)
	assert.Equal(t, 2, migrations[1].Version)
	assert.Contains(t, migrations[1].SQL, "idx_appointments_doctor_live")
	assert.Contains(t, migrations[1].SQL, "WHERE status <> 'Cancelled'")
}

func TestGetByID_NotFound(t *testing.T) {
	base, mock := newMockBase(t)
	repo := NewDoctorRepository(base)

	mock.ExpectQuery(`FROM doctors d`).WithArgs(42).WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
