package model

import (
	"time"
)

type Prescription struct {
	ID           int        `db:"id" json:"prescriptionId"`
	Instructions string     `db:"instructions" json:"instructions"`
	Medication   string     `db:"medication" json:"medication"`
	Dosage       string     `db:"dosage" json:"dosage"`
	IssuedDate   time.Time  `db:"issued_date" json:"issuedDate"`
	ExpiryDate   *time.Time `db:"expiry_date" json:"expiryDate"`
	DoctorID     int        `db:"doctor_id" json:"doctorId"`
	DoctorName   string     `db:"doctor_name" json:"doctorName"`
	PatientID    int        `db:"patient_id" json:"patientId"`
	PatientName  string     `db:"patient_name" json:"patientName"`
}

type CreatePrescriptionRequest struct {
	Instructions string     `json:"instructions" binding:"required"`
	Medication   string     `json:"medication" binding:"required,max=200"`
	Dosage       string     `json:"dosage" binding:"required,max=100"`
	IssuedDate   *time.Time `json:"issuedDate"`
	ExpiryDate   *time.Time `json:"expiryDate"`
	DoctorID     int        `json:"doctorId" binding:"required,gt=0"`
	PatientID    int        `json:"patientId" binding:"required,gt=0"`
}

type UpdatePrescriptionRequest struct {
	Instructions *string    `json:"instructions" binding:"omitempty,min=1"`
	Medication   *string    `json:"medication" binding:"omitempty,min=1,max=200"`
	Dosage       *string    `json:"dosage" binding:"omitempty,min=1,max=100"`
	ExpiryDate   *time.Time `json:"expiryDate"`
}
