package controllers

import (
	"ibuild/database"
	"ibuild/middleware"
	"ibuild/models"
	courseModels "ibuild/models/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ownedCourse loads a course and checks the caller authors it. Admins pass.
func ownedCourse(c *fiber.Ctx, courseID int) (*courseModels.Course, error) {
	userID := c.Locals("userId").(uint)

	var crs courseModels.Course
	if err := database.Database.Db.First(&crs, courseID).Error; err != nil {
		return nil, middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var user models.User
	if err := database.Database.Db.First(&user, userID).Error; err != nil {
		return nil, middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	if user.Role != models.RoleAdmin && crs.TrainerID != userID {
		return nil, middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only manage your own courses!", nil)
	}
	return &crs, nil
}

// CreateCourse creates a course owned by the calling trainer.
func CreateCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedCourse").(*CourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	crs := courseModels.Course{
		Title:        reqData.Title,
		Description:  reqData.Description,
		Category:     reqData.Category,
		Duration:     reqData.Duration,
		Price:        reqData.Price,
		ThumbnailURL: reqData.ThumbnailURL,
		TrainerID:    userID,
	}

	if err := database.Database.Db.Create(&crs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", crs)
}

// GetAllCourses lists published courses.
func GetAllCourses(c *fiber.Ctx) error {
	var courses []courseModels.Course
	if err := database.Database.Db.Where("is_published = ?", true).
		Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", courses)
}

// GetMyCourses lists the calling trainer's courses, published or not.
func GetMyCourses(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var courses []courseModels.Course
	if err := database.Database.Db.Where("trainer_id = ?", userID).
		Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", courses)
}

// GetCourseDetails returns one course with its ordered modules and lessons.
func GetCourseDetails(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	var crs courseModels.Course
	err := database.Database.Db.
		Preload("Modules", func(db *gorm.DB) *gorm.DB { return db.Order("display_order asc") }).
		Preload("Modules.Lessons", func(db *gorm.DB) *gorm.DB { return db.Order("display_order asc") }).
		First(&crs, courseID).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", crs)
}

// UpdateCourse mutates a course the caller owns.
func UpdateCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	crs, errResp := ownedCourse(c, courseID)
	if crs == nil {
		return errResp
	}

	reqData, ok := c.Locals("validatedCourse").(*CourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	crs.Title = reqData.Title
	crs.Description = reqData.Description
	crs.Category = reqData.Category
	crs.Duration = reqData.Duration
	crs.Price = reqData.Price
	if reqData.ThumbnailURL != "" {
		crs.ThumbnailURL = reqData.ThumbnailURL
	}

	if err := database.Database.Db.Save(crs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", crs)
}

// PublishCourse flips a course's published flag.
func PublishCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	crs, errResp := ownedCourse(c, courseID)
	if crs == nil {
		return errResp
	}

	reqData := new(struct {
		IsPublished bool `json:"is_published"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	if err := database.Database.Db.Model(crs).Update("is_published", reqData.IsPublished).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", crs)
}

// DeleteCourse removes a course; modules and lessons cascade with it.
func DeleteCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	crs, errResp := ownedCourse(c, courseID)
	if crs == nil {
		return errResp
	}

	if err := database.Database.Db.Select("Modules", "Modules.Lessons").Delete(crs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully!", nil)
}

// CreateModule appends a module to a course the caller owns.
func CreateModule(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	crs, errResp := ownedCourse(c, courseID)
	if crs == nil {
		return errResp
	}

	reqData, ok := c.Locals("validatedModule").(*ModuleRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	module := courseModels.Module{
		CourseID:    crs.ID,
		Title:       reqData.Title,
		Description: reqData.Description,
		Order:       reqData.Order,
	}

	if err := database.Database.Db.Create(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create module!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Module created successfully!", module)
}

// CreateLesson appends a lesson to a module of a course the caller owns.
func CreateLesson(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)
	moduleID := c.Locals("moduleID").(int)

	crs, errResp := ownedCourse(c, courseID)
	if crs == nil {
		return errResp
	}

	var module courseModels.Module
	if err := database.Database.Db.Where("id = ? AND course_id = ?", moduleID, crs.ID).
		First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	reqData, ok := c.Locals("validatedLesson").(*LessonRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	lesson := courseModels.Lesson{
		ModuleID: module.ID,
		Title:    reqData.Title,
		Type:     reqData.Type,
		Content:  reqData.Content,
		VideoURL: reqData.VideoURL,
		FileURL:  reqData.FileURL,
		Duration: reqData.Duration,
		Order:    reqData.Order,
	}

	if err := database.Database.Db.Create(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create lesson!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Lesson created successfully!", lesson)
}
