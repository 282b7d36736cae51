package notification

import (
	"fmt"
	"log"

	"ibuild/models"
	"ibuild/services/errs"

	"gorm.io/gorm"
)

// Pusher is the live channel notifications are mirrored to. Push is best
// effort: an offline user simply reads the stored notification later.
type Pusher interface {
	PushToUser(userID uint, event string, data any)
}

type Service struct {
	db  *gorm.DB
	hub Pusher
}

// NewService builds the relay. hub may be nil; notifications are then
// persisted only.
func NewService(db *gorm.DB, hub Pusher) *Service {
	return &Service{db: db, hub: hub}
}

// Publish persists a notification (unread) and attempts live delivery.
// The durable write decides the outcome; push failures never surface.
func (s *Service) Publish(userID uint, title, message, category, link string) (*models.Notification, error) {
	if title == "" || message == "" {
		return nil, errs.Validation("title and message are required")
	}

	n := models.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    category,
		Link:    link,
	}

	if err := s.db.Create(&n).Error; err != nil {
		return nil, err
	}

	if s.hub != nil {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("Live push failed for notification %d: %v", n.ID, r)
				}
			}()
			s.hub.PushToUser(userID, "notification:new", n)
		}()
	}

	return &n, nil
}

// ListByUser returns a user's latest notifications, newest first.
func (s *Service) ListByUser(userID uint, limit int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = 20
	}
	var notifications []models.Notification
	err := s.db.Where("user_id = ?", userID).
		Order("created_at desc").Limit(limit).Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkRead flips one notification to read. Idempotent.
func (s *Service) MarkRead(notificationID uint) (*models.Notification, error) {
	var n models.Notification
	if err := s.db.First(&n, notificationID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errs.NotFound("notification not found")
		}
		return nil, err
	}

	if !n.IsRead {
		n.IsRead = true
		if err := s.db.Save(&n).Error; err != nil {
			return nil, err
		}
	}
	return &n, nil
}

// MarkAllRead flips every unread notification of a user. Idempotent.
func (s *Service) MarkAllRead(userID uint) error {
	return s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

// UnreadCount counts a user's unread notifications.
func (s *Service) UnreadCount(userID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// Domain event helpers: canned copy plus a deep link, all funneled through
// Publish.

func (s *Service) NotifyNewEnrollment(trainerID uint, studentName, courseTitle string) (*models.Notification, error) {
	return s.Publish(
		trainerID,
		"New enrollment",
		fmt.Sprintf("%s enrolled in %s", studentName, courseTitle),
		models.NotificationCourse,
		"/dashboard/students",
	)
}

func (s *Service) NotifyLessonCompleted(trainerID uint, studentName, lessonTitle string, courseID uint) (*models.Notification, error) {
	return s.Publish(
		trainerID,
		"Lesson completed",
		fmt.Sprintf("%s finished %q", studentName, lessonTitle),
		models.NotificationCourse,
		fmt.Sprintf("/dashboard/courses/%d", courseID),
	)
}

func (s *Service) NotifyCourseCompleted(studentID uint, courseTitle string, enrollmentID uint) (*models.Notification, error) {
	return s.Publish(
		studentID,
		"Course completed!",
		fmt.Sprintf("Congratulations! You finished %q. Download your certificate.", courseTitle),
		models.NotificationCourse,
		fmt.Sprintf("/dashboard/courses/view/%d", enrollmentID),
	)
}

func (s *Service) NotifyQuoteAccepted(clientID uint, reference string, amount float64, quoteID uint) (*models.Notification, error) {
	return s.Publish(
		clientID,
		"Quote accepted",
		fmt.Sprintf("Your quote %s (%.2f EUR) has been accepted", reference, amount),
		models.NotificationQuote,
		fmt.Sprintf("/dashboard/quotes/%d", quoteID),
	)
}

func (s *Service) NotifyWorksiteUpdate(clientID uint, worksiteTitle, updateMessage string, worksiteID uint) (*models.Notification, error) {
	return s.Publish(
		clientID,
		"Worksite update",
		fmt.Sprintf("%s: %s", worksiteTitle, updateMessage),
		models.NotificationWorksite,
		fmt.Sprintf("/dashboard/worksites/%d", worksiteID),
	)
}
