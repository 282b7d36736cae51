package course

import "gorm.io/gorm"

// Lesson kinds
const (
	LessonVideo    = "VIDEO"
	LessonDocument = "DOCUMENT"
	LessonQuiz     = "QUIZ"
	LessonText     = "TEXT"
)

// Course is a training course authored by exactly one trainer. Modules and
// lessons are owned transitively and removed with the course.
type Course struct {
	gorm.Model
	Title         string   `json:"title" gorm:"not null"`
	Description   string   `json:"description"`
	Category      string   `json:"category"`
	Duration      int64    `json:"duration" gorm:"default:0"` // duration in hours
	Price         float64  `json:"price" gorm:"default:0"`
	ThumbnailURL  string   `json:"thumbnail_url"`
	TrainerID     uint     `json:"trainer_id" gorm:"index;not null"`
	EnrolledCount uint     `json:"enrolled_count" gorm:"default:0"`
	IsPublished   bool     `json:"is_published" gorm:"default:false"`
	Modules       []Module `json:"modules,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}

type Module struct {
	gorm.Model
	CourseID    uint     `json:"course_id" gorm:"index;not null"`
	Title       string   `json:"title" gorm:"not null"`
	Description string   `json:"description"`
	Order       int      `json:"order" gorm:"column:display_order;default:0"`
	Lessons     []Lesson `json:"lessons,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}

type Lesson struct {
	gorm.Model
	ModuleID uint   `json:"module_id" gorm:"index;not null"`
	Title    string `json:"title" gorm:"not null"`
	Type     string `json:"type" gorm:"default:'TEXT'"` // VIDEO, DOCUMENT, QUIZ, TEXT
	Content  string `json:"content"`
	VideoURL string `json:"video_url"`
	FileURL  string `json:"file_url"`
	Duration int    `json:"duration" gorm:"default:0"` // minutes
	Order    int    `json:"order" gorm:"column:display_order;default:0"`
}

// ValidLessonType reports whether t is a known lesson kind.
func ValidLessonType(t string) bool {
	switch t {
	case LessonVideo, LessonDocument, LessonQuiz, LessonText:
		return true
	}
	return false
}
