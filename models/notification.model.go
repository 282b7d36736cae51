package models

import "gorm.io/gorm"

// Notification categories
const (
	NotificationCourse   = "COURSE"
	NotificationQuote    = "QUOTE"
	NotificationWorksite = "WORKSITE"
	NotificationMessage  = "MESSAGE"
	NotificationSystem   = "SYSTEM"
)

type Notification struct {
	gorm.Model
	UserID  uint   `json:"user_id" gorm:"index;not null"`
	Title   string `json:"title" gorm:"not null"`
	Message string `json:"message" gorm:"not null"`
	Type    string `json:"type" gorm:"default:'SYSTEM'"` // COURSE, QUOTE, WORKSITE, MESSAGE, SYSTEM
	Link    string `json:"link"`                         // deep link to the related resource
	IsRead  bool   `json:"is_read" gorm:"default:false"`
}
