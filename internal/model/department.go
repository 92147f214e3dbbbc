package model

type Department struct {
	ID          int    `db:"id" json:"departmentId"`
	Name        string `db:"name" json:"name"`
	DoctorCount int    `db:"doctor_count" json:"doctorCount"`
	NurseCount  int    `db:"nurse_count" json:"nurseCount"`
	RoomCount   int    `db:"room_count" json:"roomCount"`
}

type CreateDepartmentRequest struct {
	Name string `json:"name" binding:"required,max=200"`
}

type UpdateDepartmentRequest struct {
	Name *string `json:"name" binding:"omitempty,min=1,max=200"`
}

// Room.Available maps to the "status" flag clients already use: true means free.
type Room struct {
	ID             int    `db:"id" json:"roomId"`
	Type           string `db:"type" json:"type"`
	Available      bool   `db:"available" json:"status"`
	DepartmentID   int    `db:"department_id" json:"departmentId"`
	DepartmentName string `db:"department_name" json:"departmentName"`
}

type CreateRoomRequest struct {
	Type         string `json:"type" binding:"required,max=100"`
	Available    *bool  `json:"status"`
	DepartmentID int    `json:"departmentId" binding:"required,gt=0"`
}

type UpdateRoomRequest struct {
	Type         *string `json:"type" binding:"omitempty,min=1,max=100"`
	Available    *bool   `json:"status"`
	DepartmentID *int    `json:"departmentId" binding:"omitempty,gt=0"`
}
