package site

import (
	"time"

	"gorm.io/gorm"
)

// Worksite statuses
const (
	WorksitePending    = "PENDING"
	WorksiteInProgress = "IN_PROGRESS"
	WorksitePaused     = "PAUSED"
	WorksiteCompleted  = "COMPLETED"
	WorksiteCancelled  = "CANCELLED"
)

// Worksite is a client's job site. Progress updates are appended as
// WorksiteUpdate rows and cascade-deleted with the site.
type Worksite struct {
	gorm.Model
	Title       string           `json:"title" gorm:"not null"`
	Description string           `json:"description"`
	Address     string           `json:"address"`
	StartDate   *time.Time       `json:"start_date"`
	EndDate     *time.Time       `json:"end_date"`
	Status      string           `json:"status" gorm:"default:'PENDING'"`
	Progress    float64          `json:"progress" gorm:"default:0"` // percent
	Budget      float64          `json:"budget" gorm:"default:0"`
	Image       string           `json:"image"`
	ClientID    uint             `json:"client_id" gorm:"index;not null"`
	Updates     []WorksiteUpdate `json:"updates,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}

type WorksiteUpdate struct {
	gorm.Model
	WorksiteID  uint    `json:"worksite_id" gorm:"index;not null"`
	Title       string  `json:"title" gorm:"not null"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Progress    float64 `json:"progress" gorm:"default:0"` // new overall percent
}

// ValidWorksiteStatus reports whether s is a known worksite status.
func ValidWorksiteStatus(s string) bool {
	switch s {
	case WorksitePending, WorksiteInProgress, WorksitePaused, WorksiteCompleted, WorksiteCancelled:
		return true
	}
	return false
}
