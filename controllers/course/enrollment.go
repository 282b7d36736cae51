package controllers

import (
	"ibuild/database"
	"ibuild/middleware"
	"ibuild/models"
	courseModels "ibuild/models/course"
	"ibuild/services/errs"
	"ibuild/utils"

	"github.com/gofiber/fiber/v2"
)

// Enroll signs the calling student up for a course and notifies the trainer.
func Enroll(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedEnroll").(*EnrollRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	enrollment, err := enrollmentService.Enroll(userID, reqData.CourseID)
	if err != nil {
		return middleware.JsonResponse(c, errs.Status(err), false, errs.Message(err), nil)
	}

	var crs courseModels.Course
	var student models.User
	if database.Database.Db.First(&crs, enrollment.CourseID).Error == nil &&
		database.Database.Db.First(&student, userID).Error == nil {
		notificationService.NotifyNewEnrollment(crs.TrainerID, student.FullName(), crs.Title)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Enrolled successfully!", enrollment)
}

// GetMyEnrollments lists the calling student's enrollments.
func GetMyEnrollments(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	enrollments, err := enrollmentService.ListByStudent(userID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", enrollments)
}

// ownEnrollment loads an enrollment and checks it belongs to the caller.
func ownEnrollment(c *fiber.Ctx, enrollmentID int) (*courseModels.Enrollment, error) {
	userID := c.Locals("userId").(uint)

	enrollment, err := enrollmentService.Get(uint(enrollmentID))
	if err != nil {
		return nil, middleware.JsonResponse(c, errs.Status(err), false, errs.Message(err), nil)
	}
	if enrollment.StudentID != userID {
		return nil, middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only update your own enrollment!", nil)
	}
	return enrollment, nil
}

// UpdateProgress records a student's overall course progress. Hitting 100
// completes the enrollment and notifies the student that the certificate is
// ready to claim.
func UpdateProgress(c *fiber.Ctx) error {
	enrollmentID := c.Locals("enrollmentID").(int)

	enrollment, errResp := ownEnrollment(c, enrollmentID)
	if enrollment == nil {
		return errResp
	}
	wasCompleted := enrollment.Status == courseModels.StatusCompleted

	reqData, ok := c.Locals("validatedProgress").(*ProgressRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	updated, err := enrollmentService.UpdateProgress(enrollment.ID, reqData.Progress, reqData.CompletedLessons)
	if err != nil {
		return middleware.JsonResponse(c, errs.Status(err), false, errs.Message(err), nil)
	}

	if !wasCompleted && updated.Status == courseModels.StatusCompleted {
		var crs courseModels.Course
		var student models.User
		if database.Database.Db.First(&crs, updated.CourseID).Error == nil {
			notificationService.NotifyCourseCompleted(updated.StudentID, crs.Title, updated.ID)
			if database.Database.Db.First(&student, updated.StudentID).Error == nil {
				utils.SendCertificateReadyEmail(student.Email, student.FullName(), crs.Title)
			}
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress updated successfully!", updated)
}

// AbandonEnrollment lets a student abandon an in-progress enrollment.
func AbandonEnrollment(c *fiber.Ctx) error {
	enrollmentID := c.Locals("enrollmentID").(int)

	enrollment, errResp := ownEnrollment(c, enrollmentID)
	if enrollment == nil {
		return errResp
	}

	updated, err := enrollmentService.UpdateStatus(enrollment.ID, courseModels.StatusAbandoned)
	if err != nil {
		return middleware.JsonResponse(c, errs.Status(err), false, errs.Message(err), nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment abandoned!", updated)
}

// Unenroll removes the caller's enrollment from a course.
func Unenroll(c *fiber.Ctx) error {
	enrollmentID := c.Locals("enrollmentID").(int)

	enrollment, errResp := ownEnrollment(c, enrollmentID)
	if enrollment == nil {
		return errResp
	}

	if err := enrollmentService.Remove(enrollment.ID); err != nil {
		return middleware.JsonResponse(c, errs.Status(err), false, errs.Message(err), nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Unenrolled successfully!", nil)
}

// MarkLessonComplete records a completed lesson and notifies the trainer.
func MarkLessonComplete(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedLessonComplete").(*LessonCompleteRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	record, err := enrollmentService.MarkLessonComplete(userID, reqData.LessonID, reqData.TimeWatched, reqData.Score)
	if err != nil {
		return middleware.JsonResponse(c, errs.Status(err), false, errs.Message(err), nil)
	}

	var lesson courseModels.Lesson
	var module courseModels.Module
	var crs courseModels.Course
	var student models.User
	if database.Database.Db.First(&lesson, reqData.LessonID).Error == nil &&
		database.Database.Db.First(&module, lesson.ModuleID).Error == nil &&
		database.Database.Db.First(&crs, module.CourseID).Error == nil &&
		database.Database.Db.First(&student, userID).Error == nil {
		notificationService.NotifyLessonCompleted(crs.TrainerID, student.FullName(), lesson.Title, crs.ID)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson marked as completed!", record)
}

// GetLessonProgress lists the caller's lesson completions for one course.
func GetLessonProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("courseID").(int)

	records, err := enrollmentService.GetLessonProgress(userID, uint(courseID))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch lesson progress!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson progress fetched successfully!", records)
}

// GetCourseStudents lists the enrollments of a course the caller owns.
func GetCourseStudents(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	crs, errResp := ownedCourse(c, courseID)
	if crs == nil {
		return errResp
	}

	enrollments, err := enrollmentService.StudentsForCourse(crs.ID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch students!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Students fetched successfully!", enrollments)
}

// GetInstructorStats returns aggregate teaching figures for the caller.
func GetInstructorStats(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	stats, err := enrollmentService.GetStatsForInstructor(userID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to compute stats!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Stats fetched successfully!", stats)
}
