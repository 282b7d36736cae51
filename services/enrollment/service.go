package enrollment

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"ibuild/models"
	courseModels "ibuild/models/course"
	"ibuild/services/errs"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// sqlite (tests) without error translation
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key")
}

// Enroll creates an enrollment for a student on a course. Uniqueness of the
// (student, course) pair is enforced by the composite unique index, not by
// the existence check alone; the counter increment is atomic at the storage
// layer.
func (s *Service) Enroll(studentID, courseID uint) (*courseModels.Enrollment, error) {
	var student models.User
	if err := s.db.Where("id = ? AND role = ?", studentID, models.RoleStudent).
		First(&student).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errs.NotFound("student not found")
		}
		return nil, err
	}

	var crs courseModels.Course
	if err := s.db.First(&crs, courseID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errs.NotFound("course not found")
		}
		return nil, err
	}

	enrollment := courseModels.Enrollment{
		StudentID:        studentID,
		CourseID:         courseID,
		Status:           courseModels.StatusInProgress,
		Progress:         0,
		CompletedLessons: datatypes.JSON([]byte("[]")),
		EnrolledAt:       time.Now(),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&enrollment).Error; err != nil {
			if isDuplicateKey(err) {
				return errs.Conflict("student already enrolled in this course")
			}
			return err
		}
		return tx.Model(&courseModels.Course{}).Where("id = ?", courseID).
			UpdateColumn("enrolled_count", gorm.Expr("enrolled_count + 1")).Error
	})
	if err != nil {
		return nil, err
	}

	return &enrollment, nil
}

// Get returns one enrollment by id.
func (s *Service) Get(enrollmentID uint) (*courseModels.Enrollment, error) {
	var enrollment courseModels.Enrollment
	if err := s.db.First(&enrollment, enrollmentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errs.NotFound("enrollment not found")
		}
		return nil, err
	}
	return &enrollment, nil
}

// UpdateProgress sets the caller-supplied progress percentage. Reaching 100
// flips the enrollment to COMPLETED and stamps the completion date exactly
// once; a completed enrollment never leaves that status. The completed
// lesson set, when given, replaces the stored one.
func (s *Service) UpdateProgress(enrollmentID uint, progress float64, completedLessonIDs []uint) (*courseModels.Enrollment, error) {
	if progress < 0 || progress > 100 {
		return nil, errs.Validation("progress must be between 0 and 100")
	}

	enrollment, err := s.Get(enrollmentID)
	if err != nil {
		return nil, err
	}

	enrollment.Progress = progress

	if completedLessonIDs != nil {
		raw, err := json.Marshal(completedLessonIDs)
		if err != nil {
			return nil, err
		}
		enrollment.CompletedLessons = datatypes.JSON(raw)
	}

	if progress >= 100 && enrollment.Status != courseModels.StatusCompleted {
		enrollment.Status = courseModels.StatusCompleted
		if enrollment.CompletedAt == nil {
			now := time.Now()
			enrollment.CompletedAt = &now
		}
	}

	if err := s.db.Save(enrollment).Error; err != nil {
		return nil, err
	}
	return enrollment, nil
}

// UpdateStatus applies an explicit status transition. COMPLETED is sticky:
// once entered it cannot be left, so ABANDONED only applies to an
// in-progress enrollment.
func (s *Service) UpdateStatus(enrollmentID uint, status string) (*courseModels.Enrollment, error) {
	switch status {
	case courseModels.StatusInProgress, courseModels.StatusCompleted, courseModels.StatusAbandoned:
	default:
		return nil, errs.Validation("unknown enrollment status")
	}

	enrollment, err := s.Get(enrollmentID)
	if err != nil {
		return nil, err
	}

	if enrollment.Status == courseModels.StatusCompleted && status != courseModels.StatusCompleted {
		return nil, errs.Conflict("enrollment already completed")
	}

	enrollment.Status = status
	if status == courseModels.StatusCompleted && enrollment.CompletedAt == nil {
		now := time.Now()
		enrollment.CompletedAt = &now
	}

	if err := s.db.Save(enrollment).Error; err != nil {
		return nil, err
	}
	return enrollment, nil
}

// MarkLessonComplete upserts the per (student, lesson) progress record.
// Re-marking an already completed lesson updates the row in place. It does
// not touch the enrollment's aggregate progress; the caller drives that
// through UpdateProgress.
func (s *Service) MarkLessonComplete(studentID, lessonID uint, timeWatched *int, score *float64) (*courseModels.LessonProgress, error) {
	var lesson courseModels.Lesson
	if err := s.db.First(&lesson, lessonID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errs.NotFound("lesson not found")
		}
		return nil, err
	}

	var progress courseModels.LessonProgress
	err := s.db.Where("student_id = ? AND lesson_id = ?", studentID, lessonID).
		First(&progress).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, err
	}
	if err == gorm.ErrRecordNotFound {
		progress = courseModels.LessonProgress{
			StudentID: studentID,
			LessonID:  lessonID,
		}
	}

	now := time.Now()
	progress.IsCompleted = true
	progress.CompletedAt = &now
	if timeWatched != nil {
		progress.TimeWatched = *timeWatched
	}
	if score != nil {
		progress.Score = score
	}

	if err := s.db.Save(&progress).Error; err != nil {
		if isDuplicateKey(err) {
			// concurrent first-completion; the other writer's row stands
			if err := s.db.Where("student_id = ? AND lesson_id = ?", studentID, lessonID).
				First(&progress).Error; err != nil {
				return nil, err
			}
			return &progress, nil
		}
		return nil, err
	}
	return &progress, nil
}

// GetLessonProgress lists a student's lesson completion records for one
// course.
func (s *Service) GetLessonProgress(studentID, courseID uint) ([]courseModels.LessonProgress, error) {
	var records []courseModels.LessonProgress
	err := s.db.
		Joins("JOIN lessons ON lessons.id = lesson_progresses.lesson_id").
		Joins("JOIN modules ON modules.id = lessons.module_id").
		Where("lesson_progresses.student_id = ? AND modules.course_id = ?", studentID, courseID).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Remove deletes an enrollment and decrements the course counter, floored
// at zero by the guarded update.
func (s *Service) Remove(enrollmentID uint) error {
	enrollment, err := s.Get(enrollmentID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&courseModels.Enrollment{}, enrollment.ID).Error; err != nil {
			return err
		}
		return tx.Model(&courseModels.Course{}).
			Where("id = ? AND enrolled_count > 0", enrollment.CourseID).
			UpdateColumn("enrolled_count", gorm.Expr("enrolled_count - 1")).Error
	})
}

// ListByStudent returns a student's enrollments, newest first.
func (s *Service) ListByStudent(studentID uint) ([]courseModels.Enrollment, error) {
	var enrollments []courseModels.Enrollment
	err := s.db.Where("student_id = ?", studentID).
		Order("created_at desc").Find(&enrollments).Error
	if err != nil {
		return nil, err
	}
	return enrollments, nil
}

// ListByTrainer returns all enrollments across a trainer's courses, newest
// first.
func (s *Service) ListByTrainer(trainerID uint) ([]courseModels.Enrollment, error) {
	var enrollments []courseModels.Enrollment
	err := s.db.
		Joins("JOIN courses ON courses.id = enrollments.course_id").
		Where("courses.trainer_id = ?", trainerID).
		Order("enrollments.created_at desc").
		Find(&enrollments).Error
	if err != nil {
		return nil, err
	}
	return enrollments, nil
}

// StudentsForCourse returns the enrollments of one course, newest first.
func (s *Service) StudentsForCourse(courseID uint) ([]courseModels.Enrollment, error) {
	var enrollments []courseModels.Enrollment
	err := s.db.Where("course_id = ?", courseID).
		Order("created_at desc").Find(&enrollments).Error
	if err != nil {
		return nil, err
	}
	return enrollments, nil
}

// AbandonStale flips in-progress enrollments untouched for longer than
// maxIdle to ABANDONED. Returns the number of rows changed. Used by the
// daily sweep.
func (s *Service) AbandonStale(maxIdle time.Duration) (int64, error) {
	cutoff := time.Now().Add(-maxIdle)
	res := s.db.Model(&courseModels.Enrollment{}).
		Where("status = ? AND updated_at < ?", courseModels.StatusInProgress, cutoff).
		Update("status", courseModels.StatusAbandoned)
	return res.RowsAffected, res.Error
}
