package services

import (
	"errors"

	"gorm.io/gorm"

	"rent-easy-server/models"
	"rent-easy-server/repository"
)

// NotificationService is the pull side of the notification pipeline:
// the authoritative, fully-reconciling read path clients fall back to
// whenever push delivery missed them.
type NotificationService struct {
	notifications repository.NotificationRepository
}

func NewNotificationService(notifications repository.NotificationRepository) *NotificationService {
	return &NotificationService{notifications: notifications}
}

// List returns the user's notifications newest-first.
func (ns *NotificationService) List(userID uint, limit int) ([]models.Notification, error) {
	return ns.notifications.ListByRecipient(userID, limit)
}

// MarkRead flips the read flag on a notification owned by userID. This
// is the authoritative read mutation; the websocket mark_read frame is
// advisory only.
func (ns *NotificationService) MarkRead(notificationID, userID uint) (*models.Notification, error) {
	notification, err := ns.notifications.MarkRead(notificationID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return notification, nil
}

// MarkAllRead flips every unread notification for the user.
func (ns *NotificationService) MarkAllRead(userID uint) error {
	return ns.notifications.MarkAllRead(userID)
}

// UnreadCount returns the number of unread notifications for the user.
func (ns *NotificationService) UnreadCount(userID uint) (int64, error) {
	return ns.notifications.CountUnread(userID)
}
