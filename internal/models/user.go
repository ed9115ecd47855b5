package models

import "time"

const (
	RolePatient = "patient"
	RoleDoctor  = "doctor"
)

const (
	DoctorStatusPending   = "pending"
	DoctorStatusApproved  = "approved"
	DoctorStatusSuspended = "suspended"
)

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Phone        string `gorm:"size:20" json:"phone"`
	Role         string `gorm:"size:20;default:'patient'" json:"role"`

	// DoctorStatus only carries meaning when Role is doctor.
	DoctorStatus string `gorm:"size:20" json:"doctor_status,omitempty"`
	Specialty    string `gorm:"size:100" json:"specialty,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) IsApprovedDoctor() bool {
	return u.Role == RoleDoctor && u.DoctorStatus == DoctorStatusApproved
}
