package model

import (
	"time"
)

type Patient struct {
	ID          int        `db:"id" json:"patientId"`
	Name        string     `db:"name" json:"name"`
	Age         int        `db:"age" json:"age"`
	Insurance   string     `db:"insurance" json:"insurance"`
	Address     *string    `db:"address" json:"address"`
	Phone       *string    `db:"phone" json:"phone"`
	Email       *string    `db:"email" json:"email"`
	DateOfBirth *time.Time `db:"date_of_birth" json:"dateOfBirth"`
	DoctorID    *int       `db:"doctor_id" json:"doctorId"`
	DoctorName  *string    `db:"doctor_name" json:"doctorName"`
}

// ContactEmail returns the patient's email, or "" when none is on file.
func (p *Patient) ContactEmail() string {
	if p == nil || p.Email == nil {
		return ""
	}
	return *p.Email
}

type CreatePatientRequest struct {
	Name        string     `json:"name" binding:"required,max=200"`
	Age         int        `json:"age" binding:"gte=0,lte=150"`
	Insurance   string     `json:"insurance" binding:"required,max=200"`
	Address     *string    `json:"address" binding:"omitempty,max=500"`
	Phone       *string    `json:"phone" binding:"omitempty,phone"`
	Email       *string    `json:"email" binding:"omitempty,email"`
	DateOfBirth *time.Time `json:"dateOfBirth"`
	DoctorID    *int       `json:"doctorId" binding:"omitempty,gt=0"`
}

type UpdatePatientRequest struct {
	Name        *string    `json:"name" binding:"omitempty,min=1,max=200"`
	Age         *int       `json:"age" binding:"omitempty,gte=0,lte=150"`
	Insurance   *string    `json:"insurance" binding:"omitempty,min=1,max=200"`
	Address     *string    `json:"address" binding:"omitempty,max=500"`
	Phone       *string    `json:"phone" binding:"omitempty,phone"`
	Email       *string    `json:"email" binding:"omitempty,email"`
	DateOfBirth *time.Time `json:"dateOfBirth"`
	DoctorID    *int       `json:"doctorId" binding:"omitempty,gt=0"`
}
