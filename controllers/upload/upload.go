package controllers

import (
	"ibuild/config"
	"ibuild/database"
	"ibuild/middleware"
	"ibuild/models"
	"ibuild/utils"

	"github.com/gofiber/fiber/v2"
)

// UploadFile stores one multipart file under the upload directory and
// records it against the caller.
func UploadFile(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	file, err := c.FormFile("file")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "No file provided!", nil)
	}

	if err := utils.ValidateUpload(file, config.AppConfig.MaxUploadSize); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, err.Error(), nil)
	}

	storedName, err := utils.SaveUploadedFile(file, config.AppConfig.UploadPath)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save file!", nil)
	}

	record := models.File{
		OwnerID:      userID,
		FileName:     storedName,
		OriginalName: file.Filename,
		MimeType:     file.Header.Get("Content-Type"),
		Size:         file.Size,
		URL:          utils.GetFileURL(storedName),
	}

	if err := database.Database.Db.Create(&record).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record file!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "File uploaded successfully!", record)
}

// GetMyFiles lists the caller's uploads, newest first.
func GetMyFiles(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var files []models.File
	if err := database.Database.Db.Where("owner_id = ?", userID).
		Order("created_at desc").Find(&files).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch files!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Files fetched successfully!", files)
}
