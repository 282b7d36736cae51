package certificate

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ibuild/models"
	courseModels "ibuild/models/course"
	"ibuild/services/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&courseModels.Course{},
		&courseModels.Enrollment{},
		&courseModels.Certificate{},
	))
	return db
}

// seedEnrollment creates a trainer, a student, a course and one enrollment
// at the given progress.
func seedEnrollment(t *testing.T, db *gorm.DB, progress float64) *courseModels.Enrollment {
	t.Helper()

	trainer := models.User{FirstName: "Marc", LastName: "Dubois", Email: "marc@example.com", Password: "x", Role: models.RoleTrainer, IsActive: true}
	require.NoError(t, db.Create(&trainer).Error)
	student := models.User{FirstName: "Julie", LastName: "Bernard", Email: "julie@example.com", Password: "x", Role: models.RoleStudent, IsActive: true}
	require.NoError(t, db.Create(&student).Error)

	crs := courseModels.Course{Title: "Masonry 101", Duration: 40, TrainerID: trainer.ID, IsPublished: true}
	require.NoError(t, db.Create(&crs).Error)

	enrollment := courseModels.Enrollment{
		StudentID:  student.ID,
		CourseID:   crs.ID,
		Status:     courseModels.StatusInProgress,
		Progress:   progress,
		EnrolledAt: time.Now(),
	}
	if progress >= 100 {
		now := time.Now()
		enrollment.Status = courseModels.StatusCompleted
		enrollment.CompletedAt = &now
	}
	require.NoError(t, db.Create(&enrollment).Error)
	return &enrollment
}

func TestIssue(t *testing.T) {
	db := newTestDB(t)
	dir := t.TempDir()
	svc := NewService(db, dir)
	enrollment := seedEnrollment(t, db, 100)

	cert, err := svc.Issue(enrollment.ID)
	require.NoError(t, err)

	assert.Equal(t, enrollment.ID, cert.EnrollmentID)
	assert.Equal(t, enrollment.StudentID, cert.StudentID)
	assert.NotEmpty(t, cert.CertificateNumber)
	assert.True(t, strings.HasPrefix(cert.FilePath, "/uploads/certificates/certificate-"))
	assert.False(t, cert.IssuedAt.IsZero())

	// the PNG artifact exists on disk
	png, err := os.ReadFile(filepath.Join(dir, filepath.Base(cert.FilePath)))
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), png[:4])
}

func TestIssueIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, t.TempDir())
	enrollment := seedEnrollment(t, db, 100)

	first, err := svc.Issue(enrollment.ID)
	require.NoError(t, err)

	second, err := svc.Issue(enrollment.ID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.CertificateNumber, second.CertificateNumber)

	var count int64
	require.NoError(t, db.Model(&courseModels.Certificate{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestIssueRequiresFullProgress(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, t.TempDir())
	enrollment := seedEnrollment(t, db, 85)

	_, err := svc.Issue(enrollment.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrValidation))
}

func TestIssueUnknownEnrollment(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, t.TempDir())

	_, err := svc.Issue(999)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrNotFound))
}

func TestListByStudent(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, t.TempDir())
	enrollment := seedEnrollment(t, db, 100)

	_, err := svc.Issue(enrollment.ID)
	require.NoError(t, err)

	certs, err := svc.ListByStudent(enrollment.StudentID)
	require.NoError(t, err)
	require.Len(t, certs, 1)

	none, err := svc.ListByStudent(4242)
	require.NoError(t, err)
	assert.Empty(t, none)
}
