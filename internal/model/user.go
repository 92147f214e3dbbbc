package model

import (
	"strings"
	"time"
)

type UserRole string

const (
	UserRoleAdmin   UserRole = "Admin"
	UserRoleDoctor  UserRole = "Doctor"
	UserRoleNurse   UserRole = "Nurse"
	UserRolePatient UserRole = "Patient"
)

func (r UserRole) Valid() bool {
	switch r {
	case UserRoleAdmin, UserRoleDoctor, UserRoleNurse, UserRolePatient:
		return true
	}
	return false
}

// ParseUserRole accepts any casing of a known role.
func ParseUserRole(s string) (UserRole, bool) {
	for _, r := range []UserRole{UserRoleAdmin, UserRoleDoctor, UserRoleNurse, UserRolePatient} {
		if strings.EqualFold(string(r), s) {
			return r, true
		}
	}
	return "", false
}

type User struct {
	ID           int       `db:"id" json:"userId"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         UserRole  `db:"role" json:"role"`
	IsActive     bool      `db:"is_active" json:"isActive"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

type RegisterRequest struct {
	Username string   `json:"username" binding:"required,min=3,max=50"`
	Email    string   `json:"email" binding:"required,email"`
	Password string   `json:"password" binding:"required,min=8"`
	Role     UserRole `json:"role" binding:"required,userrole"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Username  string    `json:"username"`
	Role      UserRole  `json:"role"`
	User      *User     `json:"user"`
}

type SetUserActiveRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

// Role is an administrative grouping; User.Role is not a reference to it.
type Role struct {
	ID          int    `db:"id" json:"roleId"`
	RoleName    string `db:"role_name" json:"roleName"`
	Permissions string `db:"permissions" json:"permissions"`
	UserCount   int    `db:"user_count" json:"userCount"`
}

type CreateRoleRequest struct {
	RoleName    string `json:"roleName" binding:"required,max=50"`
	Permissions string `json:"permissions" binding:"max=1000"`
}

type UpdateRoleRequest struct {
	RoleName    *string `json:"roleName" binding:"omitempty,min=1,max=50"`
	Permissions *string `json:"permissions" binding:"omitempty,max=1000"`
}
