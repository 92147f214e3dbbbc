package model

type Doctor struct {
	ID              int     `db:"id" json:"doctorId"`
	Name            string  `db:"name" json:"name"`
	Specialization  string  `db:"specialization" json:"specialization"`
	ConsultationFee int     `db:"consultation_fee" json:"consultationFee"`
	Email           *string `db:"email" json:"email"`
	Phone           *string `db:"phone" json:"phone"`
	Availability    *string `db:"availability" json:"availability"`
	DepartmentID    int     `db:"department_id" json:"departmentId"`
	DepartmentName  string  `db:"department_name" json:"departmentName"`
}

type CreateDoctorRequest struct {
	Name            string  `json:"name" binding:"required,max=200"`
	Specialization  string  `json:"specialization" binding:"required,max=200"`
	ConsultationFee int     `json:"consultationFee" binding:"gte=0"`
	Email           *string `json:"email" binding:"omitempty,email"`
	Phone           *string `json:"phone" binding:"omitempty,phone"`
	Availability    *string `json:"availability" binding:"omitempty,max=500"`
	DepartmentID    int     `json:"departmentId" binding:"required,gt=0"`
}

type UpdateDoctorRequest struct {
	Name            *string `json:"name" binding:"omitempty,min=1,max=200"`
	Specialization  *string `json:"specialization" binding:"omitempty,min=1,max=200"`
	ConsultationFee *int    `json:"consultationFee" binding:"omitempty,gte=0"`
	Email           *string `json:"email" binding:"omitempty,email"`
	Phone           *string `json:"phone" binding:"omitempty,phone"`
	Availability    *string `json:"availability" binding:"omitempty,max=500"`
	DepartmentID    *int    `json:"departmentId" binding:"omitempty,gt=0"`
}

type Nurse struct {
	ID             int     `db:"id" json:"nurseId"`
	Name           string  `db:"name" json:"name"`
	Ward           string  `db:"ward" json:"ward"`
	Email          *string `db:"email" json:"email"`
	Phone          *string `db:"phone" json:"phone"`
	DepartmentID   int     `db:"department_id" json:"departmentId"`
	DepartmentName string  `db:"department_name" json:"departmentName"`
}

type CreateNurseRequest struct {
	Name         string  `json:"name" binding:"required,max=200"`
	Ward         string  `json:"ward" binding:"required,max=200"`
	Email        *string `json:"email" binding:"omitempty,email"`
	Phone        *string `json:"phone" binding:"omitempty,phone"`
	DepartmentID int     `json:"departmentId" binding:"required,gt=0"`
}

type UpdateNurseRequest struct {
	Name         *string `json:"name" binding:"omitempty,min=1,max=200"`
	Ward         *string `json:"ward" binding:"omitempty,min=1,max=200"`
	Email        *string `json:"email" binding:"omitempty,email"`
	Phone        *string `json:"phone" binding:"omitempty,phone"`
	DepartmentID *int    `json:"departmentId" binding:"omitempty,gt=0"`
}
