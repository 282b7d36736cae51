package courseRoutes

import (
	controllers "ibuild/controllers/course"
	"ibuild/middleware"
	"ibuild/models"
	validators "ibuild/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up course, enrollment, qualification and
// certificate routes
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	// Catalogue
	courseGroup.Get("/list", middleware.JWTMiddleware, controllers.GetAllCourses)
	courseGroup.Get("/mine", middleware.JWTMiddleware, middleware.RequireRole(models.RoleTrainer, models.RoleAdmin), controllers.GetMyCourses)
	courseGroup.Get("/:courseId", middleware.JWTMiddleware, validators.CourseID(), controllers.GetCourseDetails)

	// Authoring (trainers)
	courseGroup.Post("/create", middleware.JWTMiddleware, middleware.RequireRole(models.RoleTrainer, models.RoleAdmin), validators.Course(), controllers.CreateCourse)
	courseGroup.Patch("/:courseId", middleware.JWTMiddleware, validators.CourseID(), validators.Course(), controllers.UpdateCourse)
	courseGroup.Patch("/:courseId/publish", middleware.JWTMiddleware, validators.CourseID(), controllers.PublishCourse)
	courseGroup.Delete("/:courseId", middleware.JWTMiddleware, validators.CourseID(), controllers.DeleteCourse)
	courseGroup.Post("/:courseId/module", middleware.JWTMiddleware, validators.CourseID(), validators.Module(), controllers.CreateModule)
	courseGroup.Post("/:courseId/module/:moduleId/lesson", middleware.JWTMiddleware, validators.CourseID(), validators.ModuleID(), validators.Lesson(), controllers.CreateLesson)

	// Trainer insight
	courseGroup.Get("/:courseId/students", middleware.JWTMiddleware, validators.CourseID(), controllers.GetCourseStudents)

	trainerGroup := app.Group("/trainer")
	trainerGroup.Get("/stats", middleware.JWTMiddleware, middleware.RequireRole(models.RoleTrainer, models.RoleAdmin), controllers.GetInstructorStats)

	// Enrollment and progress (students)
	enrollGroup := app.Group("/enrollment")
	enrollGroup.Post("/enroll", middleware.JWTMiddleware, middleware.RequireRole(models.RoleStudent), validators.Enroll(), controllers.Enroll)
	enrollGroup.Get("/mine", middleware.JWTMiddleware, controllers.GetMyEnrollments)
	enrollGroup.Patch("/:enrollmentId/progress", middleware.JWTMiddleware, validators.EnrollmentID(), validators.Progress(), controllers.UpdateProgress)
	enrollGroup.Patch("/:enrollmentId/abandon", middleware.JWTMiddleware, validators.EnrollmentID(), controllers.AbandonEnrollment)
	enrollGroup.Delete("/:enrollmentId", middleware.JWTMiddleware, validators.EnrollmentID(), controllers.Unenroll)
	enrollGroup.Post("/lesson/complete", middleware.JWTMiddleware, validators.LessonComplete(), controllers.MarkLessonComplete)
	enrollGroup.Get("/course/:courseId/lessons", middleware.JWTMiddleware, validators.CourseID(), controllers.GetLessonProgress)

	// Trainer qualification test
	testGroup := app.Group("/qualification")
	testGroup.Get("/questions", middleware.JWTMiddleware, controllers.GetTestQuestions)
	testGroup.Post("/submit", middleware.JWTMiddleware, middleware.RequireRole(models.RoleStudent), validators.SubmitTest(), controllers.SubmitTest)
	testGroup.Get("/result", middleware.JWTMiddleware, controllers.GetTestResult)

	// Certificates
	certGroup := app.Group("/certificate")
	certGroup.Post("/:enrollmentId/issue", middleware.JWTMiddleware, validators.EnrollmentID(), controllers.IssueCertificate)
	certGroup.Get("/mine", middleware.JWTMiddleware, controllers.GetMyCertificates)
}
