package controllers

import (
	"time"

	"ibuild/database"
	"ibuild/middleware"
	"ibuild/models"
	siteModels "ibuild/models/site"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type WorksiteRequest struct {
	Title       string     `json:"title" validate:"required,min=3,max=200"`
	Description string     `json:"description" validate:"max=5000"`
	Address     string     `json:"address" validate:"max=500"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Status      string     `json:"status" validate:"omitempty,oneof=PENDING IN_PROGRESS PAUSED COMPLETED CANCELLED"`
	Budget      float64    `json:"budget" validate:"gte=0"`
	Image       string     `json:"image" validate:"max=500"`
	ClientID    uint       `json:"client_id" validate:"required"`
}

type WorksiteUpdateRequest struct {
	Title       string  `json:"title" validate:"required,min=3,max=200"`
	Description string  `json:"description" validate:"max=5000"`
	Image       string  `json:"image" validate:"max=500"`
	Progress    float64 `json:"progress" validate:"gte=0,lte=100"`
}

// CreateWorksite opens a worksite for a client. Admin only.
func CreateWorksite(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedWorksite").(*WorksiteRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	var client models.User
	if err := database.Database.Db.First(&client, reqData.ClientID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Client not found!", nil)
	}

	status := reqData.Status
	if status == "" {
		status = siteModels.WorksitePending
	}

	worksite := siteModels.Worksite{
		Title:       reqData.Title,
		Description: reqData.Description,
		Address:     reqData.Address,
		StartDate:   reqData.StartDate,
		EndDate:     reqData.EndDate,
		Status:      status,
		Budget:      reqData.Budget,
		Image:       reqData.Image,
		ClientID:    reqData.ClientID,
	}

	if err := database.Database.Db.Create(&worksite).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create worksite!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Worksite created successfully!", worksite)
}

// GetWorksites lists worksites. Admins see everything, clients their own.
func GetWorksites(c *fiber.Ctx) error {
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

	var worksites []siteModels.Worksite
	if err := query.Find(&worksites).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch worksites!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Worksites fetched successfully!", worksites)
}

// ownWorksite loads a worksite visible to the caller. Admins pass.
func ownWorksite(c *fiber.Ctx, worksiteID int) (*siteModels.Worksite, *models.User, error) {
	userID := c.Locals("userId").(uint)

	var user models.User
	if err := database.Database.Db.First(&user, userID).Error; err != nil {
		return nil, nil, middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	var worksite siteModels.Worksite
	if err := database.Database.Db.First(&worksite, worksiteID).Error; err != nil {
		return nil, nil, middleware.JsonResponse(c, fiber.StatusNotFound, false, "Worksite not found!", nil)
	}

	if user.Role != models.RoleAdmin && worksite.ClientID != userID {
		return nil, nil, middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only access your own worksites!", nil)
	}
	return &worksite, &user, nil
}

// GetWorksite returns one worksite with its updates, newest first.
func GetWorksite(c *fiber.Ctx) error {
	worksiteID := c.Locals("worksiteID").(int)

	worksite, _, errResp := ownWorksite(c, worksiteID)
	if worksite == nil {
		return errResp
	}

	if err := database.Database.Db.
		Preload("Updates", func(db *gorm.DB) *gorm.DB { return db.Order("created_at desc") }).
		First(worksite, worksite.ID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch worksite!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Worksite fetched successfully!", worksite)
}

// UpdateWorksite mutates a worksite. Admin only.
func UpdateWorksite(c *fiber.Ctx) error {
	worksiteID := c.Locals("worksiteID").(int)

	var worksite siteModels.Worksite
	if err := database.Database.Db.First(&worksite, worksiteID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Worksite not found!", nil)
	}

	reqData, ok := c.Locals("validatedWorksite").(*WorksiteRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	worksite.Title = reqData.Title
	worksite.Description = reqData.Description
	worksite.Address = reqData.Address
	worksite.StartDate = reqData.StartDate
	worksite.EndDate = reqData.EndDate
	if reqData.Status != "" {
		worksite.Status = reqData.Status
	}
	worksite.Budget = reqData.Budget
	if reqData.Image != "" {
		worksite.Image = reqData.Image
	}

	if err := database.Database.Db.Save(&worksite).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update worksite!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Worksite updated successfully!", worksite)
}

// DeleteWorksite removes a worksite and its updates. Admin only.
func DeleteWorksite(c *fiber.Ctx) error {
	worksiteID := c.Locals("worksiteID").(int)

	var worksite siteModels.Worksite
	if err := database.Database.Db.First(&worksite, worksiteID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Worksite not found!", nil)
	}

	if err := database.Database.Db.Select("Updates").Delete(&worksite).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete worksite!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Worksite deleted successfully!", nil)
}

// AddWorksiteUpdate appends a progress update, syncs the site's overall
// progress figure and notifies the client. Admin only.
func AddWorksiteUpdate(c *fiber.Ctx) error {
	worksiteID := c.Locals("worksiteID").(int)

	var worksite siteModels.Worksite
	if err := database.Database.Db.First(&worksite, worksiteID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Worksite not found!", nil)
	}

	reqData, ok := c.Locals("validatedWorksiteUpdate").(*WorksiteUpdateRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	update := siteModels.WorksiteUpdate{
		WorksiteID:  worksite.ID,
		Title:       reqData.Title,
		Description: reqData.Description,
		Image:       reqData.Image,
		Progress:    reqData.Progress,
	}

	err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&update).Error; err != nil {
			return err
		}
		worksite.Progress = reqData.Progress
		if reqData.Progress >= 100 {
			worksite.Status = siteModels.WorksiteCompleted
		}
		return tx.Save(&worksite).Error
	})
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add update!", nil)
	}

	notificationService.NotifyWorksiteUpdate(worksite.ClientID, worksite.Title, update.Title, worksite.ID)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Update added successfully!", update)
}
