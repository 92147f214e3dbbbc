package model

import (
	"time"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "Scheduled"
	AppointmentStatusCancelled AppointmentStatus = "Cancelled"
	AppointmentStatusCompleted AppointmentStatus = "Completed"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusCancelled, AppointmentStatusCompleted:
		return true
	}
	return false
}

// Appointment carries the patient and doctor names joined in on reads.
type Appointment struct {
	ID                   int               `db:"id" json:"appointmentId"`
	Time                 time.Time         `db:"time" json:"time"`
	Status               AppointmentStatus `db:"status" json:"status"`
	Reason               string            `db:"reason" json:"reason"`
	CreatedAt            time.Time         `db:"created_at" json:"createdAt"`
	PatientID            int               `db:"patient_id" json:"patientId"`
	PatientName          string            `db:"patient_name" json:"patientName"`
	DoctorID             int               `db:"doctor_id" json:"doctorId"`
	DoctorName           string            `db:"doctor_name" json:"doctorName"`
	DoctorSpecialization string            `db:"doctor_specialization" json:"doctorSpecialization"`
}

type CreateAppointmentRequest struct {
	Time      time.Time `json:"time" binding:"required"`
	Reason    string    `json:"reason" binding:"max=500"`
	PatientID int       `json:"patientId" binding:"required,gt=0"`
	DoctorID  int       `json:"doctorId" binding:"required,gt=0"`
}

type UpdateAppointmentRequest struct {
	Time   *time.Time         `json:"time"`
	Status *AppointmentStatus `json:"status" binding:"omitempty,appointmentstatus"`
	Reason *string            `json:"reason" binding:"omitempty,max=500"`
}

type AvailabilityResponse struct {
	DoctorID  int       `json:"doctorId"`
	Time      time.Time `json:"time"`
	Available bool      `json:"available"`
}
