package controllers

import (
	"fmt"
	"time"

	"ibuild/database"
	"ibuild/middleware"
	"ibuild/models"
	siteModels "ibuild/models/site"
	"ibuild/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type QuoteRequest struct {
	Title            string     `json:"title" validate:"required,min=3,max=200"`
	Description      string     `json:"description" validate:"max=5000"`
	Type             string     `json:"type" validate:"omitempty,oneof=CONSTRUCTION RENOVATION FIT_OUT DEMOLITION OTHER"`
	Amount           float64    `json:"amount" validate:"gte=0"`
	WorksiteAddress  string     `json:"worksite_address" validate:"max=500"`
	StartDate        *time.Time `json:"start_date"`
	EstimatedEndDate *time.Time `json:"estimated_end_date"`
	Comment          string     `json:"comment" validate:"max=2000"`
}

type QuoteStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING ACCEPTED REFUSED CANCELLED"`
}

// nextQuoteReference generates a DEV-<year>-<seq> reference, sequential
// within the current year.
func nextQuoteReference(tx *gorm.DB) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("DEV-%d-", year)

	var count int64
	if err := tx.Model(&siteModels.Quote{}).Unscoped().
		Where("reference LIKE ?", prefix+"%").Count(&count).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%04d", prefix, count+1), nil
}

// CreateQuote opens a quote request for the calling client.
func CreateQuote(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedQuote").(*QuoteRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	quoteType := reqData.Type
	if quoteType == "" {
		quoteType = siteModels.QuoteConstruction
	}

	var quote siteModels.Quote
	err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		reference, err := nextQuoteReference(tx)
		if err != nil {
			return err
		}
		quote = siteModels.Quote{
			Reference:        reference,
			Title:            reqData.Title,
			Description:      reqData.Description,
			Type:             quoteType,
			Amount:           reqData.Amount,
			Status:           siteModels.QuotePending,
			WorksiteAddress:  reqData.WorksiteAddress,
			StartDate:        reqData.StartDate,
			EstimatedEndDate: reqData.EstimatedEndDate,
			Comment:          reqData.Comment,
			ClientID:         userID,
		}
		return tx.Create(&quote).Error
	})
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create quote!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Quote created successfully!", quote)
}

// GetQuotes lists quotes. Admins see every quote, clients only their own.
func GetQuotes(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.First(&user, userID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	query := database.Database.Db.Order("created_at desc")
	if user.Role != models.RoleAdmin {
		query = query.Where("client_id = ?", userID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var quotes []siteModels.Quote
	if err := query.Find(&quotes).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quotes!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quotes fetched successfully!", quotes)
}

// ownQuote loads a quote visible to the caller. Admins pass.
func ownQuote(c *fiber.Ctx, quoteID int) (*siteModels.Quote, *models.User, error) {
	userID := c.Locals("userId").(uint)

	var user models.User
	if err := database.Database.Db.First(&user, userID).Error; err != nil {
		return nil, nil, middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	var quote siteModels.Quote
	if err := database.Database.Db.First(&quote, quoteID).Error; err != nil {
		return nil, nil, middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quote not found!", nil)
	}

	if user.Role != models.RoleAdmin && quote.ClientID != userID {
		return nil, nil, middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only access your own quotes!", nil)
	}
	return &quote, &user, nil
}

// GetQuote returns one quote by id.
func GetQuote(c *fiber.Ctx) error {
	quoteID := c.Locals("quoteID").(int)

	quote, _, errResp := ownQuote(c, quoteID)
	if quote == nil {
		return errResp
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quote fetched successfully!", quote)
}

// UpdateQuote lets a client amend a quote while it is still pending.
func UpdateQuote(c *fiber.Ctx) error {
	quoteID := c.Locals("quoteID").(int)

	quote, _, errResp := ownQuote(c, quoteID)
	if quote == nil {
		return errResp
	}

	if quote.Status != siteModels.QuotePending {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Only pending quotes can be updated!", nil)
	}

	reqData, ok := c.Locals("validatedQuote").(*QuoteRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	quote.Title = reqData.Title
	quote.Description = reqData.Description
	if reqData.Type != "" {
		quote.Type = reqData.Type
	}
	quote.Amount = reqData.Amount
	quote.WorksiteAddress = reqData.WorksiteAddress
	quote.StartDate = reqData.StartDate
	quote.EstimatedEndDate = reqData.EstimatedEndDate
	quote.Comment = reqData.Comment

	if err := database.Database.Db.Save(quote).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update quote!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quote updated successfully!", quote)
}

// UpdateQuoteStatus transitions a quote. Admins accept or refuse; clients
// may only cancel their own pending quote. Acceptance notifies the client
// in-app and by SMS.
func UpdateQuoteStatus(c *fiber.Ctx) error {
	quoteID := c.Locals("quoteID").(int)

	quote, user, errResp := ownQuote(c, quoteID)
	if quote == nil {
		return errResp
	}

	reqData, ok := c.Locals("validatedQuoteStatus").(*QuoteStatusRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	if user.Role != models.RoleAdmin && reqData.Status != siteModels.QuoteCancelled {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Only an admin can accept or refuse a quote!", nil)
	}
	if quote.Status != siteModels.QuotePending {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Quote has already been resolved!", nil)
	}

	quote.Status = reqData.Status
	if err := database.Database.Db.Save(quote).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update quote!", nil)
	}

	if quote.Status == siteModels.QuoteAccepted {
		notificationService.NotifyQuoteAccepted(quote.ClientID, quote.Reference, quote.Amount, quote.ID)
		var client models.User
		if database.Database.Db.First(&client, quote.ClientID).Error == nil && client.Phone != "" {
			utils.SendQuoteAcceptedSMS(client.Phone, quote.Reference)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quote status updated successfully!", quote)
}
