package siteValidator

import (
	"strconv"

	siteControllers "ibuild/controllers/site"
	"ibuild/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// fieldErrors flattens validator.ValidationErrors into the response map
// keyed by the struct field name.
func fieldErrors(err error) map[string]string {
	errors := make(map[string]string)
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			errors[fe.Field()] = "Failed validation: " + fe.Tag()
		}
		return errors
	}
	errors["body"] = err.Error()
	return errors
}

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

func QuoteID() fiber.Handler    { return idParam("quoteId", "quoteID") }
func WorksiteID() fiber.Handler { return idParam("worksiteId", "worksiteID") }

// Quote validator middleware
func Quote() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(siteControllers.QuoteRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, fieldErrors(err))
		}

		if reqData.StartDate != nil && reqData.EstimatedEndDate != nil &&
			reqData.EstimatedEndDate.Before(*reqData.StartDate) {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"estimated_end_date": "End date cannot precede the start date!",
			})
		}

		c.Locals("validatedQuote", reqData)
		return c.Next()
	}
}

// QuoteStatus validator middleware
func QuoteStatus() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(siteControllers.QuoteStatusRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, fieldErrors(err))
		}

		c.Locals("validatedQuoteStatus", reqData)
		return c.Next()
	}
}

// Worksite validator middleware
func Worksite() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(siteControllers.WorksiteRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, fieldErrors(err))
		}

		if reqData.StartDate != nil && reqData.EndDate != nil &&
			reqData.EndDate.Before(*reqData.StartDate) {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"end_date": "End date cannot precede the start date!",
			})
		}

		c.Locals("validatedWorksite", reqData)
		return c.Next()
	}
}

// WorksiteUpdate validator middleware
func WorksiteUpdate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(siteControllers.WorksiteUpdateRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, fieldErrors(err))
		}

		c.Locals("validatedWorksiteUpdate", reqData)
		return c.Next()
	}
}
