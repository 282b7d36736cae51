package enrollment

import (
	"encoding/json"
	"errors"
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
		&courseModels.Module{},
		&courseModels.Lesson{},
		&courseModels.Enrollment{},
		&courseModels.LessonProgress{},
	))
	return db
}

func createUser(t *testing.T, db *gorm.DB, role, email string) *models.User {
	t.Helper()
	user := models.User{
		FirstName: "Test",
		LastName:  "User",
		Email:     email,
		Password:  "hashed",
		Role:      role,
		IsActive:  true,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createCourse(t *testing.T, db *gorm.DB, trainerID uint, title string) *courseModels.Course {
	t.Helper()
	crs := courseModels.Course{
		Title:       title,
		Description: "Bricklaying from the ground up",
		Category:    "Masonry",
		Duration:    40,
		TrainerID:   trainerID,
		IsPublished: true,
	}
	require.NoError(t, db.Create(&crs).Error)
	return &crs
}

func createLesson(t *testing.T, db *gorm.DB, courseID uint) *courseModels.Lesson {
	t.Helper()
	module := courseModels.Module{CourseID: courseID, Title: "Foundations", Order: 1}
	require.NoError(t, db.Create(&module).Error)
	lesson := courseModels.Lesson{ModuleID: module.ID, Title: "Mixing mortar", Type: courseModels.LessonVideo, Order: 1}
	require.NoError(t, db.Create(&lesson).Error)
	return &lesson
}

func TestEnroll(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	trainer := createUser(t, db, models.RoleTrainer, "trainer@example.com")
	student := createUser(t, db, models.RoleStudent, "student@example.com")
	crs := createCourse(t, db, trainer.ID, "Masonry 101")

	enr, err := svc.Enroll(student.ID, crs.ID)
	require.NoError(t, err)

	assert.Equal(t, courseModels.StatusInProgress, enr.Status)
	assert.Equal(t, float64(0), enr.Progress)
	assert.False(t, enr.EnrolledAt.IsZero())

	var reloaded courseModels.Course
	require.NoError(t, db.First(&reloaded, crs.ID).Error)
	assert.Equal(t, uint(1), reloaded.EnrolledCount)
}

func TestEnrollTwiceIsConflict(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	trainer := createUser(t, db, models.RoleTrainer, "trainer@example.com")
	student := createUser(t, db, models.RoleStudent, "student@example.com")
	crs := createCourse(t, db, trainer.ID, "Masonry 101")

	_, err := svc.Enroll(student.ID, crs.ID)
	require.NoError(t, err)

	_, err = svc.Enroll(student.ID, crs.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrConflict))

	// failed attempt must not bump the counter
	var reloaded courseModels.Course
	require.NoError(t, db.First(&reloaded, crs.ID).Error)
	assert.Equal(t, uint(1), reloaded.EnrolledCount)
}

func TestEnrollRequiresStudentRole(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	trainer := createUser(t, db, models.RoleTrainer, "trainer@example.com")
	crs := createCourse(t, db, trainer.ID, "Masonry 101")

	_, err := svc.Enroll(trainer.ID, crs.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrNotFound))
}

func TestEnrollUnknownCourse(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	student := createUser(t, db, models.RoleStudent, "student@example.com")

	_, err := svc.Enroll(student.ID, 999)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrNotFound))
}

func TestUpdateProgress(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	trainer := createUser(t, db, models.RoleTrainer, "trainer@example.com")
	student := createUser(t, db, models.RoleStudent, "student@example.com")
	crs := createCourse(t, db, trainer.ID, "Masonry 101")

	enr, err := svc.Enroll(student.ID, crs.ID)
	require.NoError(t, err)

	updated, err := svc.UpdateProgress(enr.ID, 45, []uint{1, 2})
	require.NoError(t, err)
	assert.Equal(t, float64(45), updated.Progress)
	assert.Equal(t, courseModels.StatusInProgress, updated.Status)
	assert.Nil(t, updated.CompletedAt)

	var lessons []uint
	require.NoError(t, json.Unmarshal(updated.CompletedLessons, &lessons))
	assert.Equal(t, []uint{1, 2}, lessons)
}

func TestUpdateProgressRejectsOutOfRange(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	_, err := svc.UpdateProgress(1, -1, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrValidation))

	_, err = svc.UpdateProgress(1, 101, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrValidation))
}

func TestUpdateProgressCompletionStampedOnce(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	trainer := createUser(t, db, models.RoleTrainer, "trainer@example.com")
	student := createUser(t, db, models.RoleStudent, "student@example.com")
	crs := createCourse(t, db, trainer.ID, "Masonry 101")

	enr, err := svc.Enroll(student.ID, crs.ID)
	require.NoError(t, err)

	first, err := svc.UpdateProgress(enr.ID, 100, nil)
	require.NoError(t, err)
	assert.Equal(t, courseModels.StatusCompleted, first.Status)
	require.NotNil(t, first.CompletedAt)
	stamp := *first.CompletedAt

	second, err := svc.UpdateProgress(enr.ID, 100, nil)
	require.NoError(t, err)
	require.NotNil(t, second.CompletedAt)
	assert.True(t, stamp.Equal(*second.CompletedAt))
	assert.Equal(t, courseModels.StatusCompleted, second.Status)
}

func TestUpdateStatusCompletedIsSticky(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	trainer := createUser(t, db, models.RoleTrainer, "trainer@example.com")
	student := createUser(t, db, models.RoleStudent, "student@example.com")
	crs := createCourse(t, db, trainer.ID, "Masonry 101")

	enr, err := svc.Enroll(student.ID, crs.ID)
	require.NoError(t, err)

	_, err = svc.UpdateProgress(enr.ID, 100, nil)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(enr.ID, courseModels.StatusAbandoned)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrConflict))
}

func TestUpdateStatusAbandon(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	trainer := createUser(t, db, models.RoleTrainer, "trainer@example.com")
	student := createUser(t, db, models.RoleStudent, "student@example.com")
	crs := createCourse(t, db, trainer.ID, "Masonry 101")

	enr, err := svc.Enroll(student.ID, crs.ID)
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(enr.ID, courseModels.StatusAbandoned)
	require.NoError(t, err)
	assert.Equal(t, courseModels.StatusAbandoned, updated.Status)

	_, err = svc.UpdateStatus(enr.ID, "LOST")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrValidation))
}

func TestMarkLessonComplete(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	trainer := createUser(t, db, models.RoleTrainer, "trainer@example.com")
	student := createUser(t, db, models.RoleStudent, "student@example.com")
	crs := createCourse(t, db, trainer.ID, "Masonry 101")
	lesson := createLesson(t, db, crs.ID)

	watched := 12
	score := 17.5
	record, err := svc.MarkLessonComplete(student.ID, lesson.ID, &watched, &score)
	require.NoError(t, err)
	assert.True(t, record.IsCompleted)
	assert.Equal(t, 12, record.TimeWatched)
	require.NotNil(t, record.Score)
	assert.Equal(t, 17.5, *record.Score)

	// re-marking updates in place, no second row
	watched = 20
	again, err := svc.MarkLessonComplete(student.ID, lesson.ID, &watched, nil)
	require.NoError(t, err)
	assert.Equal(t, record.ID, again.ID)
	assert.Equal(t, 20, again.TimeWatched)

	var count int64
	require.NoError(t, db.Model(&courseModels.LessonProgress{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestMarkLessonCompleteUnknownLesson(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	student := createUser(t, db, models.RoleStudent, "student@example.com")

	_, err := svc.MarkLessonComplete(student.ID, 999, nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrNotFound))
}

func TestGetLessonProgressScopedToCourse(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	trainer := createUser(t, db, models.RoleTrainer, "trainer@example.com")
	student := createUser(t, db, models.RoleStudent, "student@example.com")
	crsA := createCourse(t, db, trainer.ID, "Masonry 101")
	crsB := createCourse(t, db, trainer.ID, "Roofing 101")
	lessonA := createLesson(t, db, crsA.ID)
	lessonB := createLesson(t, db, crsB.ID)

	_, err := svc.MarkLessonComplete(student.ID, lessonA.ID, nil, nil)
	require.NoError(t, err)
	_, err = svc.MarkLessonComplete(student.ID, lessonB.ID, nil, nil)
	require.NoError(t, err)

	records, err := svc.GetLessonProgress(student.ID, crsA.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, lessonA.ID, records[0].LessonID)
}

func TestRemoveDecrementsCounter(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	trainer := createUser(t, db, models.RoleTrainer, "trainer@example.com")
	student := createUser(t, db, models.RoleStudent, "student@example.com")
	crs := createCourse(t, db, trainer.ID, "Masonry 101")

	enr, err := svc.Enroll(student.ID, crs.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Remove(enr.ID))

	var reloaded courseModels.Course
	require.NoError(t, db.First(&reloaded, crs.ID).Error)
	assert.Equal(t, uint(0), reloaded.EnrolledCount)

	err = svc.Remove(enr.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrNotFound))
}

func TestRemoveThenReenroll(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	trainer := createUser(t, db, models.RoleTrainer, "trainer@example.com")
	student := createUser(t, db, models.RoleStudent, "student@example.com")
	crs := createCourse(t, db, trainer.ID, "Masonry 101")

	enr, err := svc.Enroll(student.ID, crs.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Remove(enr.ID))

	// hard delete frees the (student, course) pair for a fresh enrollment
	_, err = svc.Enroll(student.ID, crs.ID)
	require.NoError(t, err)
}

func TestListByTrainer(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	trainer := createUser(t, db, models.RoleTrainer, "trainer@example.com")
	other := createUser(t, db, models.RoleTrainer, "other@example.com")
	student := createUser(t, db, models.RoleStudent, "student@example.com")
	crs := createCourse(t, db, trainer.ID, "Masonry 101")
	otherCrs := createCourse(t, db, other.ID, "Roofing 101")

	_, err := svc.Enroll(student.ID, crs.ID)
	require.NoError(t, err)
	_, err = svc.Enroll(student.ID, otherCrs.ID)
	require.NoError(t, err)

	enrollments, err := svc.ListByTrainer(trainer.ID)
	require.NoError(t, err)
	require.Len(t, enrollments, 1)
	assert.Equal(t, crs.ID, enrollments[0].CourseID)
}

func TestAbandonStale(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	trainer := createUser(t, db, models.RoleTrainer, "trainer@example.com")
	student := createUser(t, db, models.RoleStudent, "student@example.com")
	fresh := createUser(t, db, models.RoleStudent, "fresh@example.com")
	crs := createCourse(t, db, trainer.ID, "Masonry 101")

	stale, err := svc.Enroll(student.ID, crs.ID)
	require.NoError(t, err)
	recent, err := svc.Enroll(fresh.ID, crs.ID)
	require.NoError(t, err)

	old := time.Now().Add(-120 * 24 * time.Hour)
	require.NoError(t, db.Model(&courseModels.Enrollment{}).Where("id = ?", stale.ID).
		UpdateColumn("updated_at", old).Error)

	n, err := svc.AbandonStale(90 * 24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	reloaded, err := svc.Get(stale.ID)
	require.NoError(t, err)
	assert.Equal(t, courseModels.StatusAbandoned, reloaded.Status)

	untouched, err := svc.Get(recent.ID)
	require.NoError(t, err)
	assert.Equal(t, courseModels.StatusInProgress, untouched.Status)
}

func TestGetStatsForInstructor(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	trainer := createUser(t, db, models.RoleTrainer, "trainer@example.com")
	alice := createUser(t, db, models.RoleStudent, "alice@example.com")
	bob := createUser(t, db, models.RoleStudent, "bob@example.com")
	crsA := createCourse(t, db, trainer.ID, "Masonry 101")
	crsB := createCourse(t, db, trainer.ID, "Roofing 101")

	e1, err := svc.Enroll(alice.ID, crsA.ID)
	require.NoError(t, err)
	_, err = svc.Enroll(alice.ID, crsB.ID)
	require.NoError(t, err)
	_, err = svc.Enroll(bob.ID, crsA.ID)
	require.NoError(t, err)

	_, err = svc.UpdateProgress(e1.ID, 100, nil)
	require.NoError(t, err)

	stats, err := svc.GetStatsForInstructor(trainer.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalCourses)
	assert.Equal(t, 2, stats.TotalStudents)
	assert.Equal(t, 3, stats.TotalEnrollments)
	assert.Equal(t, 2, stats.ActiveEnrollments)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 33, stats.AverageProgress) // (100+0+0)/3
	assert.Equal(t, 33, stats.CompletionRate)
	require.Len(t, stats.PopularCourses, 2)
	assert.Equal(t, crsA.ID, stats.PopularCourses[0].ID)
	assert.Equal(t, uint(2), stats.PopularCourses[0].EnrolledCount)
}

func TestGetStatsForInstructorEmpty(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	trainer := createUser(t, db, models.RoleTrainer, "trainer@example.com")

	stats, err := svc.GetStatsForInstructor(trainer.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalEnrollments)
	assert.Equal(t, 0, stats.AverageProgress)
	assert.Equal(t, 0, stats.CompletionRate)
}
