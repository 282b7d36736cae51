package models

import (
	"gorm.io/gorm"
)

// User roles. A student becomes a trainer only by passing the
// qualification test; there is no other path to TRAINER.
const (
	RoleAdmin   = "ADMIN"
	RoleTrainer = "TRAINER"
	RoleStudent = "STUDENT"
	RoleClient  = "CLIENT"
)

type User struct {
	gorm.Model
	Email     string `json:"email" gorm:"unique;not null"`
	Password  string `json:"-" gorm:"not null"`
	FirstName string `json:"first_name" gorm:"default:''"`
	LastName  string `json:"last_name" gorm:"default:''"`
	Phone     string `json:"phone" gorm:"default:''"`
	Role      string `json:"role" gorm:"default:'STUDENT'"` // ADMIN, TRAINER, STUDENT, CLIENT
	IsActive  bool   `json:"is_active" gorm:"default:true"`
}

// FullName is the display name used on certificates and in chat.
func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleTrainer, RoleStudent, RoleClient:
		return true
	}
	return false
}
