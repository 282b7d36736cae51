package courseValidator

import (
	"strconv"
	"strings"

	courseControllers "ibuild/controllers/course"
	"ibuild/middleware"
	courseModels "ibuild/models/course"

	"github.com/gofiber/fiber/v2"
)

// idParam parses a positive integer route parameter into a local.
func idParam(param, local string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.Atoi(c.Params(param))
		if err != nil || id <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid "+param+"!", nil)
		}
		c.Locals(local, id)
		return c.Next()
	}
}

func CourseID() fiber.Handler     { return idParam("courseId", "courseID") }
func ModuleID() fiber.Handler     { return idParam("moduleId", "moduleID") }
func EnrollmentID() fiber.Handler { return idParam("enrollmentId", "enrollmentID") }

// Course validator middleware
func Course() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(courseControllers.CourseRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if len(strings.TrimSpace(reqData.Title)) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}

		if reqData.Duration < 0 {
			errors["duration"] = "Duration cannot be negative!"
		}

		if reqData.Price < 0 {
			errors["price"] = "Price cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

// Module validator middleware
func Module() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(courseControllers.ModuleRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if len(strings.TrimSpace(reqData.Title)) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}

		if reqData.Order < 0 {
			errors["order"] = "Order cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedModule", reqData)
		return c.Next()
	}
}

// Lesson validator middleware
func Lesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(courseControllers.LessonRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if len(strings.TrimSpace(reqData.Title)) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}

		if reqData.Type == "" {
			reqData.Type = courseModels.LessonText
		} else if !courseModels.ValidLessonType(reqData.Type) {
			errors["type"] = "Type must be VIDEO, DOCUMENT, QUIZ or TEXT!"
		}

		if reqData.Type == courseModels.LessonVideo && reqData.VideoURL == "" {
			errors["video_url"] = "Video lessons require a video URL!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLesson", reqData)
		return c.Next()
	}
}

// Enroll validator middleware
func Enroll() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(courseControllers.EnrollRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.CourseID == 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"course_id": "Course id is required!",
			})
		}

		c.Locals("validatedEnroll", reqData)
		return c.Next()
	}
}

// Progress validator middleware
func Progress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(courseControllers.ProgressRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.Progress < 0 || reqData.Progress > 100 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"progress": "Progress must be between 0 and 100!",
			})
		}

		c.Locals("validatedProgress", reqData)
		return c.Next()
	}
}

// LessonComplete validator middleware
func LessonComplete() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(courseControllers.LessonCompleteRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.LessonID == 0 {
			errors["lesson_id"] = "Lesson id is required!"
		}

		if reqData.TimeWatched != nil && *reqData.TimeWatched < 0 {
			errors["time_watched"] = "Time watched cannot be negative!"
		}

		if reqData.Score != nil && (*reqData.Score < 0 || *reqData.Score > 20) {
			errors["score"] = "Score must be between 0 and 20!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLessonComplete", reqData)
		return c.Next()
	}
}

// SubmitTest validator middleware
func SubmitTest() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(courseControllers.SubmitTestRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if len(reqData.Answers) == 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"answers": "At least one answer is required!",
			})
		}

		c.Locals("validatedSubmitTest", reqData)
		return c.Next()
	}
}
