package controllers

import (
	"ibuild/database"
	"ibuild/middleware"
	"ibuild/models"
	"ibuild/services/errs"
	"ibuild/services/qualification"
	"ibuild/utils"

	"github.com/gofiber/fiber/v2"
)

// GetTestQuestions returns the qualification question bank. Correct answers
// never serialize.
func GetTestQuestions(c *fiber.Ctx) error {
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Questions fetched successfully!", fiber.Map{
		"questions":     qualification.TestQuestions,
		"duration":      qualification.TestDuration,
		"minimum_score": qualification.MinimumScore,
	})
}

// SubmitTest scores the caller's answers. A passing score promotes the
// account to trainer and sends the promotion email.
func SubmitTest(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedSubmitTest").(*SubmitTestRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	result, err := qualificationService.SubmitTest(userID, reqData.Answers)
	if err != nil {
		return middleware.JsonResponse(c, errs.Status(err), false, errs.Message(err), nil)
	}

	if result.Role == models.RoleTrainer {
		var user models.User
		if database.Database.Db.First(&user, userID).Error == nil {
			utils.SendTrainerPromotionEmail(user.Email, user.FullName())
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, result.Message, result)
}

// GetTestResult returns the caller's latest qualification attempt.
func GetTestResult(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	test, err := qualificationService.GetTestResult(userID)
	if err != nil {
		return middleware.JsonResponse(c, errs.Status(err), false, errs.Message(err), nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Test result fetched successfully!", test)
}
