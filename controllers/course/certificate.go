package controllers

import (
	"ibuild/middleware"
	"ibuild/services/errs"

	"github.com/gofiber/fiber/v2"
)

// IssueCertificate generates (or returns the already issued) certificate for
// one of the caller's completed enrollments.
func IssueCertificate(c *fiber.Ctx) error {
	enrollmentID := c.Locals("enrollmentID").(int)

	enrollment, errResp := ownEnrollment(c, enrollmentID)
	if enrollment == nil {
		return errResp
	}

	cert, err := certificateService.Issue(enrollment.ID)
	if err != nil {
		return middleware.JsonResponse(c, errs.Status(err), false, errs.Message(err), nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Certificate issued successfully!", cert)
}

// GetMyCertificates lists the caller's certificates.
func GetMyCertificates(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	certs, err := certificateService.ListByStudent(userID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", certs)
}
