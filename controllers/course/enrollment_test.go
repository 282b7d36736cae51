package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	controllers "ibuild/controllers/course"
	"ibuild/database"
	"ibuild/models"
	courseModels "ibuild/models/course"
	"ibuild/services/certificate"
	"ibuild/services/enrollment"
	"ibuild/services/notification"
	"ibuild/services/qualification"
	courseValidator "ibuild/validators/course"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newLessonCompleteApp wires the real validator and handler chain over an
// in-memory database, with the authenticated user injected the way the JWT
// middleware would.
func newLessonCompleteApp(t *testing.T) (*fiber.App, *gorm.DB, *models.User, *courseModels.Lesson) {
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
		&models.Notification{},
		&courseModels.Course{},
		&courseModels.Module{},
		&courseModels.Lesson{},
		&courseModels.Enrollment{},
		&courseModels.LessonProgress{},
	))
	database.Database = database.DbInstance{Db: db}

	controllers.Setup(
		enrollment.NewService(db),
		qualification.NewService(db),
		certificate.NewService(db, t.TempDir()),
		notification.NewService(db, nil),
	)

	trainer := models.User{FirstName: "Marc", LastName: "Dubois", Email: "marc@example.com", Password: "x", Role: models.RoleTrainer, IsActive: true}
	require.NoError(t, db.Create(&trainer).Error)
	student := models.User{FirstName: "Julie", LastName: "Bernard", Email: "julie@example.com", Password: "x", Role: models.RoleStudent, IsActive: true}
	require.NoError(t, db.Create(&student).Error)

	crs := courseModels.Course{Title: "Masonry 101", TrainerID: trainer.ID, IsPublished: true}
	require.NoError(t, db.Create(&crs).Error)
	module := courseModels.Module{CourseID: crs.ID, Title: "Foundations", Order: 1}
	require.NoError(t, db.Create(&module).Error)
	lesson := courseModels.Lesson{ModuleID: module.ID, Title: "Mixing mortar", Type: courseModels.LessonVideo, Order: 1}
	require.NoError(t, db.Create(&lesson).Error)

	app := fiber.New()
	app.Post("/enrollment/lesson/complete",
		func(c *fiber.Ctx) error {
			c.Locals("userId", student.ID)
			return c.Next()
		},
		courseValidator.LessonComplete(),
		controllers.MarkLessonComplete,
	)

	return app, db, &student, &lesson
}

func postJSON(t *testing.T, app *fiber.App, path string, payload any) int {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestMarkLessonCompleteForwardsTimeAndScore(t *testing.T) {
	app, db, student, lesson := newLessonCompleteApp(t)

	status := postJSON(t, app, "/enrollment/lesson/complete", fiber.Map{
		"lesson_id":    lesson.ID,
		"time_watched": 340,
		"score":        15.5,
	})
	assert.Equal(t, fiber.StatusOK, status)

	var record courseModels.LessonProgress
	require.NoError(t, db.Where("student_id = ? AND lesson_id = ?", student.ID, lesson.ID).
		First(&record).Error)
	assert.True(t, record.IsCompleted)
	assert.Equal(t, 340, record.TimeWatched)
	require.NotNil(t, record.Score)
	assert.Equal(t, 15.5, *record.Score)
}

func TestMarkLessonCompleteOptionalFieldsOmitted(t *testing.T) {
	app, db, student, lesson := newLessonCompleteApp(t)

	status := postJSON(t, app, "/enrollment/lesson/complete", fiber.Map{
		"lesson_id": lesson.ID,
	})
	assert.Equal(t, fiber.StatusOK, status)

	var record courseModels.LessonProgress
	require.NoError(t, db.Where("student_id = ? AND lesson_id = ?", student.ID, lesson.ID).
		First(&record).Error)
	assert.Equal(t, 0, record.TimeWatched)
	assert.Nil(t, record.Score)
}

func TestMarkLessonCompleteRejectsNegativeValues(t *testing.T) {
	app, _, _, lesson := newLessonCompleteApp(t)

	status := postJSON(t, app, "/enrollment/lesson/complete", fiber.Map{
		"lesson_id":    lesson.ID,
		"time_watched": -5,
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)

	status = postJSON(t, app, "/enrollment/lesson/complete", fiber.Map{
		"lesson_id": lesson.ID,
		"score":     21.0,
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
}
