package model

import (
	"time"
)

type MedicalRecord struct {
	ID              int             `db:"id" json:"recordId"`
	CreatedAt       time.Time       `db:"created_at" json:"createdAt"`
	Diagnosis       *string         `db:"diagnosis" json:"diagnosis"`
	Treatment       *string         `db:"treatment" json:"treatment"`
	PatientID       int             `db:"patient_id" json:"patientId"`
	PatientName     string          `db:"patient_name" json:"patientName"`
	ClinicalEntries []ClinicalEntry `db:"-" json:"clinicalEntries"`
}

type ClinicalEntry struct {
	ID        int       `db:"id" json:"entryId"`
	RecordID  int       `db:"record_id" json:"recordId"`
	Date      time.Time `db:"date" json:"date"`
	Notes     string    `db:"notes" json:"notes"`
	Diagnosis *string   `db:"diagnosis" json:"diagnosis"`
}

type CreateMedicalRecordRequest struct {
	PatientID int     `json:"patientId" binding:"required,gt=0"`
	Diagnosis *string `json:"diagnosis"`
	Treatment *string `json:"treatment"`
}

type UpdateMedicalRecordRequest struct {
	Diagnosis *string `json:"diagnosis"`
	Treatment *string `json:"treatment"`
}

type CreateClinicalEntryRequest struct {
	RecordID  int     `json:"recordId" binding:"required,gt=0"`
	Notes     string  `json:"notes" binding:"required"`
	Diagnosis *string `json:"diagnosis"`
}
