package course

import (
	"time"

	"gorm.io/datatypes"
)

// Enrollment statuses. COMPLETED is terminal; ABANDONED is only reachable
// from IN_PROGRESS.
const (
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
	StatusAbandoned  = "ABANDONED"
)

// Enrollment binds one student to one course. The composite unique index
// enforces at most one enrollment per (student, course) pair at the storage
// layer; rows are hard-deleted on removal so the index stays authoritative.
type Enrollment struct {
	ID               uint           `json:"id" gorm:"primarykey"`
	StudentID        uint           `json:"student_id" gorm:"not null;uniqueIndex:idx_enrollment_pair"`
	CourseID         uint           `json:"course_id" gorm:"not null;uniqueIndex:idx_enrollment_pair"`
	Status           string         `json:"status" gorm:"default:'IN_PROGRESS'"`
	Progress         float64        `json:"progress" gorm:"default:0"` // 0-100, caller supplied
	CompletedLessons datatypes.JSON `json:"completed_lessons"`         // lesson id array
	FinalScore       *float64       `json:"final_score"`               // out of 20
	TimeSpent        int            `json:"time_spent" gorm:"default:0"` // minutes
	EnrolledAt       time.Time      `json:"enrolled_at"`
	CompletedAt      *time.Time     `json:"completed_at"` // stamped once, never overwritten
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// LessonProgress is the per (student, lesson) completion record. It is
// created lazily on the first completion event and updated in place after.
type LessonProgress struct {
	ID          uint       `json:"id" gorm:"primarykey"`
	StudentID   uint       `json:"student_id" gorm:"not null;uniqueIndex:idx_lesson_progress_pair"`
	LessonID    uint       `json:"lesson_id" gorm:"not null;uniqueIndex:idx_lesson_progress_pair"`
	IsCompleted bool       `json:"is_completed" gorm:"default:false"`
	TimeWatched int        `json:"time_watched" gorm:"default:0"` // seconds
	Score       *float64   `json:"score"`                         // quiz score, optional
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
