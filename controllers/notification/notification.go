package controllers

import (
	"strconv"

	"ibuild/database"
	"ibuild/middleware"
	"ibuild/models"
	"ibuild/services/errs"
	"ibuild/services/notification"

	"github.com/gofiber/fiber/v2"
)

var notificationService *notification.Service

// Setup injects the notification service. Called once from main.
func Setup(n *notification.Service) {
	notificationService = n
}

// GetMyNotifications lists the caller's notifications, newest first.
func GetMyNotifications(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	limit, _ := strconv.Atoi(c.Query("limit"))

	notifications, err := notificationService.ListByUser(userID, limit)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch notifications!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Notifications fetched successfully!", notifications)
}

// MarkNotificationRead marks one of the caller's notifications read.
func MarkNotificationRead(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	notificationID, err := strconv.Atoi(c.Params("id"))
	if err != nil || notificationID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid notification id!", nil)
	}

	var existing models.Notification
	if err := database.Database.Db.First(&existing, notificationID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Notification not found!", nil)
	}
	if existing.UserID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only update your own notifications!", nil)
	}

	n, err := notificationService.MarkRead(existing.ID)
	if err != nil {
		return middleware.JsonResponse(c, errs.Status(err), false, errs.Message(err), nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Notification marked as read!", n)
}

// MarkAllNotificationsRead marks every unread notification of the caller.
func MarkAllNotificationsRead(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	if err := notificationService.MarkAllRead(userID); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update notifications!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "All notifications marked as read!", nil)
}

// GetUnreadCount returns the caller's unread notification count.
func GetUnreadCount(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	count, err := notificationService.UnreadCount(userID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch unread count!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Unread count fetched successfully!", fiber.Map{"count": count})
}
