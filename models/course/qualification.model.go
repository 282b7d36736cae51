package course

import (
	"time"

	"gorm.io/datatypes"
)

// Qualification test statuses
const (
	TestPending = "PENDING"
	TestPassed  = "PASSED"
	TestFailed  = "FAILED"
)

// QualificationTest holds a user's latest attempt at the trainer aptitude
// test. One row per user, updated in place on retakes; once PASSED the row
// is frozen and resubmission is rejected.
type QualificationTest struct {
	ID        uint           `json:"id" gorm:"primarykey"`
	UserID    uint           `json:"user_id" gorm:"not null;uniqueIndex"`
	Score     int            `json:"score" gorm:"default:0"`
	Status    string         `json:"status" gorm:"default:'PENDING'"`
	Answers   datatypes.JSON `json:"answers"` // raw submitted answers
	PassedAt  *time.Time     `json:"passed_at"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
