package notification

import (
	"errors"
	"testing"

	"ibuild/models"
	"ibuild/services/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Notification{}))
	return db
}

type recordingPusher struct {
	userIDs []uint
	events  []string
}

func (p *recordingPusher) PushToUser(userID uint, event string, data any) {
	p.userIDs = append(p.userIDs, userID)
	p.events = append(p.events, event)
}

type panickingPusher struct{}

func (panickingPusher) PushToUser(uint, string, any) { panic("hub gone") }

func TestPublishPersistsAndPushes(t *testing.T) {
	db := newTestDB(t)
	pusher := &recordingPusher{}
	svc := NewService(db, pusher)

	n, err := svc.Publish(7, "New enrollment", "Julie enrolled in Masonry 101", models.NotificationCourse, "/dashboard/students")
	require.NoError(t, err)

	assert.False(t, n.IsRead)
	assert.Equal(t, uint(7), n.UserID)
	assert.Equal(t, []uint{7}, pusher.userIDs)
	assert.Equal(t, []string{"notification:new"}, pusher.events)
}

func TestPublishWithoutHub(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, nil)

	n, err := svc.Publish(7, "Title", "Message", models.NotificationSystem, "")
	require.NoError(t, err)
	assert.NotZero(t, n.ID)
}

func TestPublishSurvivesPushPanic(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, panickingPusher{})

	n, err := svc.Publish(7, "Title", "Message", models.NotificationSystem, "")
	require.NoError(t, err)

	// the durable write stands even though the live push blew up
	var reloaded models.Notification
	require.NoError(t, db.First(&reloaded, n.ID).Error)
}

func TestPublishValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, nil)

	_, err := svc.Publish(7, "", "Message", models.NotificationSystem, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrValidation))

	_, err = svc.Publish(7, "Title", "", models.NotificationSystem, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrValidation))
}

func TestListByUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, nil)

	for i := 0; i < 25; i++ {
		_, err := svc.Publish(1, "Title", "Message", models.NotificationSystem, "")
		require.NoError(t, err)
	}
	_, err := svc.Publish(2, "Title", "Message", models.NotificationSystem, "")
	require.NoError(t, err)

	// default limit
	list, err := svc.ListByUser(1, 0)
	require.NoError(t, err)
	assert.Len(t, list, 20)

	list, err = svc.ListByUser(1, 5)
	require.NoError(t, err)
	assert.Len(t, list, 5)

	list, err = svc.ListByUser(2, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestMarkReadIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, nil)

	n, err := svc.Publish(1, "Title", "Message", models.NotificationSystem, "")
	require.NoError(t, err)

	read, err := svc.MarkRead(n.ID)
	require.NoError(t, err)
	assert.True(t, read.IsRead)

	again, err := svc.MarkRead(n.ID)
	require.NoError(t, err)
	assert.True(t, again.IsRead)
}

func TestMarkReadNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, nil)

	_, err := svc.MarkRead(999)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrNotFound))
}

func TestMarkAllReadAndUnreadCount(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, nil)

	for i := 0; i < 3; i++ {
		_, err := svc.Publish(1, "Title", "Message", models.NotificationSystem, "")
		require.NoError(t, err)
	}
	_, err := svc.Publish(2, "Title", "Message", models.NotificationSystem, "")
	require.NoError(t, err)

	count, err := svc.UnreadCount(1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	require.NoError(t, svc.MarkAllRead(1))

	count, err = svc.UnreadCount(1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	// other users untouched
	count, err = svc.UnreadCount(2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestNotifyHelpersCategoriesAndLinks(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, nil)

	n, err := svc.NotifyNewEnrollment(3, "Julie Bernard", "Masonry 101")
	require.NoError(t, err)
	assert.Equal(t, models.NotificationCourse, n.Type)
	assert.Equal(t, "/dashboard/students", n.Link)

	n, err = svc.NotifyQuoteAccepted(4, "DEV-2026-0001", 12500, 9)
	require.NoError(t, err)
	assert.Equal(t, models.NotificationQuote, n.Type)
	assert.Contains(t, n.Message, "DEV-2026-0001")
	assert.Equal(t, "/dashboard/quotes/9", n.Link)

	n, err = svc.NotifyWorksiteUpdate(4, "Rue de la Paix", "Foundations poured", 2)
	require.NoError(t, err)
	assert.Equal(t, models.NotificationWorksite, n.Type)
	assert.Equal(t, "/dashboard/worksites/2", n.Link)
}
