package model

import (
	"time"
)

type LabResult struct {
	ID          int        `db:"id" json:"resultId"`
	Type        string     `db:"type" json:"type"`
	ResultData  *string    `db:"result_data" json:"resultData"`
	TestDate    time.Time  `db:"test_date" json:"testDate"`
	ResultDate  *time.Time `db:"result_date" json:"resultDate"`
	Diagnosis   *string    `db:"diagnosis" json:"diagnosis"`
	Treatment   *string    `db:"treatment" json:"treatment"`
	PatientID   int        `db:"patient_id" json:"patientId"`
	PatientName string     `db:"patient_name" json:"patientName"`
	DoctorID    *int       `db:"doctor_id" json:"doctorId"`
	DoctorName  *string    `db:"doctor_name" json:"doctorName"`
	NurseID     *int       `db:"nurse_id" json:"nurseId"`
	NurseName   *string    `db:"nurse_name" json:"nurseName"`
}

type CreateLabResultRequest struct {
	PatientID  int        `json:"patientId" binding:"required,gt=0"`
	Type       string     `json:"type" binding:"required,max=100"`
	ResultData *string    `json:"resultData"`
	TestDate   time.Time  `json:"testDate" binding:"required"`
	ResultDate *time.Time `json:"resultDate"`
	Diagnosis  *string    `json:"diagnosis"`
	Treatment  *string    `json:"treatment"`
	DoctorID   *int       `json:"doctorId" binding:"omitempty,gt=0"`
	NurseID    *int       `json:"nurseId" binding:"omitempty,gt=0"`
}

// UpdateLabResultRequest has no type or patient: both are fixed once created.
type UpdateLabResultRequest struct {
	ResultData *string    `json:"resultData"`
	ResultDate *time.Time `json:"resultDate"`
	Diagnosis  *string    `json:"diagnosis"`
	Treatment  *string    `json:"treatment"`
}
