package repotest

import (
	"github.com/jwalitptl/hospital-api/internal/repository"
)

// Repos bundles one fake of every repository over a single Store.
type Repos struct {
	Store         *Store
	Users         *UserRepository
	Roles         *RoleRepository
	Patients      *PatientRepository
	Doctors       *DoctorRepository
	Nurses        *NurseRepository
	Departments   *DepartmentRepository
	Rooms         *RoomRepository
	Appointments  *AppointmentRepository
	Invoices      *InvoiceRepository
	LabResults    *LabResultRepository
	Records       *MedicalRecordRepository
	Prescriptions *PrescriptionRepository
}

func NewRepos() *Repos {
	s := NewStore()
	return &Repos{
		Store:         s,
		Users:         NewUserRepository(s),
		Roles:         NewRoleRepository(s),
		Patients:      NewPatientRepository(s),
		Doctors:       NewDoctorRepository(s),
		Nurses:        NewNurseRepository(s),
		Departments:   NewDepartmentRepository(s),
		Rooms:         NewRoomRepository(s),
		Appointments:  NewAppointmentRepository(s),
		Invoices:      NewInvoiceRepository(s),
		LabResults:    NewLabResultRepository(s),
		Records:       NewMedicalRecordRepository(s),
		Prescriptions: NewPrescriptionRepository(s),
	}
}

var (
	_ repository.UserRepository          = (*UserRepository)(nil)
	_ repository.RoleRepository          = (*RoleRepository)(nil)
	_ repository.PatientRepository       = (*PatientRepository)(nil)
	_ repository.DoctorRepository        = (*DoctorRepository)(nil)
	_ repository.NurseRepository         = (*NurseRepository)(nil)
	_ repository.DepartmentRepository    = (*DepartmentRepository)(nil)
	_ repository.RoomRepository          = (*RoomRepository)(nil)
	_ repository.AppointmentRepository   = (*AppointmentRepository)(nil)
	_ repository.InvoiceRepository       = (*InvoiceRepository)(nil)
	_ repository.LabResultRepository     = (*LabResultRepository)(nil)
	_ repository.MedicalRecordRepository = (*MedicalRecordRepository)(nil)
	_ repository.PrescriptionRepository  = (*PrescriptionRepository)(nil)
)
