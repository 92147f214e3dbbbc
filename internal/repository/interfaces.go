package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jwalitptl/hospital-api/internal/model"
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrDuplicate  = errors.New("duplicate record")
	ErrReferenced = errors.New("record is referenced or references a missing row")
)

// All repository interfaces in one file
type (
	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		GetByID(ctx context.Context, id int) (*model.User, error)
		GetByUsername(ctx context.Context, username string) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		List(ctx context.Context) ([]*model.User, error)
		UpdateActive(ctx context.Context, id int, active bool) error
	}

	RoleRepository interface {
		Create(ctx context.Context, role *model.Role) error
		GetByID(ctx context.Context, id int) (*model.Role, error)
		GetByName(ctx context.Context, name string) (*model.Role, error)
		List(ctx context.Context) ([]*model.Role, error)
		Update(ctx context.Context, role *model.Role) error
		Delete(ctx context.Context, id int) error
	}

	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		GetByID(ctx context.Context, id int) (*model.Patient, error)
		List(ctx context.Context) ([]*model.Patient, error)
		Update(ctx context.Context, patient *model.Patient) error
		// Delete removes the patient and every restrict-bound child in one transaction.
		Delete(ctx context.Context, id int) error
	}

	DoctorRepository interface {
		Create(ctx context.Context, doctor *model.Doctor) error
		GetByID(ctx context.Context, id int) (*model.Doctor, error)
		List(ctx context.Context) ([]*model.Doctor, error)
		ListByDepartment(ctx context.Context, departmentID int) ([]*model.Doctor, error)
		Update(ctx context.Context, doctor *model.Doctor) error
		Delete(ctx context.Context, id int) error
	}

	NurseRepository interface {
		Create(ctx context.Context, nurse *model.Nurse) error
		GetByID(ctx context.Context, id int) (*model.Nurse, error)
		List(ctx context.Context) ([]*model.Nurse, error)
		ListByDepartment(ctx context.Context, departmentID int) ([]*model.Nurse, error)
		Update(ctx context.Context, nurse *model.Nurse) error
		Delete(ctx context.Context, id int) error
	}

	DepartmentRepository interface {
		Create(ctx context.Context, dept *model.Department) error
		GetByID(ctx context.Context, id int) (*model.Department, error)
		List(ctx context.Context) ([]*model.Department, error)
		Update(ctx context.Context, dept *model.Department) error
		// Delete removes the department with its staff and rooms in one transaction.
		Delete(ctx context.Context, id int) error
	}

	RoomRepository interface {
		Create(ctx context.Context, room *model.Room) error
		GetByID(ctx context.Context, id int) (*model.Room, error)
		List(ctx context.Context) ([]*model.Room, error)
		ListByDepartment(ctx context.Context, departmentID int) ([]*model.Room, error)
		Update(ctx context.Context, room *model.Room) error
		Delete(ctx context.Context, id int) error
	}

	AppointmentRepository interface {
		Create(ctx context.Context, appt *model.Appointment) error
		GetByID(ctx context.Context, id int) (*model.Appointment, error)
		List(ctx context.Context) ([]*model.Appointment, error)
		ListByPatient(ctx context.Context, patientID int) ([]*model.Appointment, error)
		ListByDoctor(ctx context.Context, doctorID int) ([]*model.Appointment, error)
		Update(ctx context.Context, appt *model.Appointment) error
		// HasConflict reports whether a non-cancelled appointment exists for the doctor at exactly t.
		HasConflict(ctx context.Context, doctorID int, t time.Time) (bool, error)
	}

	InvoiceRepository interface {
		Create(ctx context.Context, inv *model.Invoice) error
		GetByID(ctx context.Context, id int) (*model.Invoice, error)
		List(ctx context.Context) ([]*model.Invoice, error)
		ListByPatient(ctx context.Context, patientID int) ([]*model.Invoice, error)
		ListNumbersWithPrefix(ctx context.Context, prefix string) ([]string, error)
		UpdateStatus(ctx context.Context, id int, status model.InvoiceStatus, datePaid *time.Time) error
		// ApplyPayment locks the invoice, lets settle adjust it given the total paid
		// including the new payment, then stores both. A settle error aborts the
		// whole unit.
		ApplyPayment(ctx context.Context, invoiceID int, payment *model.Payment, settle func(inv *model.Invoice, paid float64) error) (*model.Invoice, error)
		ListPayments(ctx context.Context, invoiceID int) ([]model.Payment, error)
	}

	LabResultRepository interface {
		Create(ctx context.Context, result *model.LabResult) error
		GetByID(ctx context.Context, id int) (*model.LabResult, error)
		List(ctx context.Context) ([]*model.LabResult, error)
		ListByPatient(ctx context.Context, patientID int) ([]*model.LabResult, error)
		Update(ctx context.Context, result *model.LabResult) error
		Delete(ctx context.Context, id int) error
	}

	MedicalRecordRepository interface {
		Create(ctx context.Context, record *model.MedicalRecord) error
		GetByID(ctx context.Context, id int) (*model.MedicalRecord, error)
		GetByPatient(ctx context.Context, patientID int) (*model.MedicalRecord, error)
		Update(ctx context.Context, record *model.MedicalRecord) error
		CreateEntry(ctx context.Context, entry *model.ClinicalEntry) error
		ListEntries(ctx context.Context, recordID int) ([]model.ClinicalEntry, error)
	}

	PrescriptionRepository interface {
		Create(ctx context.Context, p *model.Prescription) error
		GetByID(ctx context.Context, id int) (*model.Prescription, error)
		List(ctx context.Context) ([]*model.Prescription, error)
		ListByPatient(ctx context.Context, patientID int) ([]*model.Prescription, error)
		ListByDoctor(ctx context.Context, doctorID int) ([]*model.Prescription, error)
		Update(ctx context.Context, p *model.Prescription) error
		Delete(ctx context.Context, id int) error
	}
)
