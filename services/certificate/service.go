package certificate

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ibuild/models"
	courseModels "ibuild/models/course"
	"ibuild/services/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	dir string // directory artifacts are written to
}

func NewService(db *gorm.DB, dir string) *Service {
	return &Service{db: db, dir: dir}
}

func isDuplicateKey(err error) bool {
	if err == gorm.ErrDuplicatedKey {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key")
}

// Issue returns the certificate for a completed enrollment, rendering and
// persisting it on first request. Repeated calls return the same artifact;
// the unique index on enrollment_id makes the first concurrent writer win.
func (s *Service) Issue(enrollmentID uint) (*courseModels.Certificate, error) {
	var existing courseModels.Certificate
	err := s.db.Where("enrollment_id = ?", enrollmentID).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	var enrollment courseModels.Enrollment
	if err := s.db.First(&enrollment, enrollmentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errs.NotFound("enrollment not found")
		}
		return nil, err
	}

	if enrollment.Progress < 100 {
		return nil, errs.Validation("course must be fully completed before a certificate can be issued")
	}

	var student models.User
	if err := s.db.First(&student, enrollment.StudentID).Error; err != nil {
		return nil, errs.NotFound("student not found")
	}

	var crs courseModels.Course
	if err := s.db.First(&crs, enrollment.CourseID).Error; err != nil {
		return nil, errs.NotFound("course not found")
	}

	var trainer models.User
	if err := s.db.First(&trainer, crs.TrainerID).Error; err != nil {
		return nil, errs.NotFound("trainer not found")
	}

	completedAt := time.Now()
	if enrollment.CompletedAt != nil {
		completedAt = *enrollment.CompletedAt
	}

	data := Data{
		StudentName:    student.FullName(),
		CourseTitle:    crs.Title,
		TrainerName:    trainer.FullName(),
		CompletionDate: completedAt,
		Duration:       crs.Duration,
		Score:          enrollment.FinalScore,
		EnrollmentID:   enrollment.ID,
	}

	png, err := Render(data)
	if err != nil {
		return nil, fmt.Errorf("render certificate: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return nil, fmt.Errorf("create certificate dir: %w", err)
	}

	filename := fmt.Sprintf("certificate-%d-%d.png", enrollment.ID, time.Now().Unix())
	if err := os.WriteFile(filepath.Join(s.dir, filename), png, 0644); err != nil {
		return nil, fmt.Errorf("write certificate: %w", err)
	}

	cert := courseModels.Certificate{
		EnrollmentID:      enrollment.ID,
		StudentID:         enrollment.StudentID,
		CourseID:          enrollment.CourseID,
		CertificateNumber: uuid.NewString(),
		FilePath:          "/uploads/certificates/" + filename,
		IssuedAt:          time.Now(),
	}

	if err := s.db.Create(&cert).Error; err != nil {
		if isDuplicateKey(err) {
			// lost the race; return the winner's artifact and drop ours
			if rmErr := os.Remove(filepath.Join(s.dir, filename)); rmErr != nil {
				log.Printf("Failed to remove orphan certificate file %s: %v", filename, rmErr)
			}
			if err := s.db.Where("enrollment_id = ?", enrollmentID).
				First(&existing).Error; err != nil {
				return nil, err
			}
			return &existing, nil
		}
		return nil, err
	}

	return &cert, nil
}

// ListByStudent returns a student's issued certificates, newest first.
func (s *Service) ListByStudent(studentID uint) ([]courseModels.Certificate, error) {
	var certs []courseModels.Certificate
	err := s.db.Where("student_id = ?", studentID).
		Order("issued_at desc").Find(&certs).Error
	if err != nil {
		return nil, err
	}
	return certs, nil
}
