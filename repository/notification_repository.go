package repository

import (
	"gorm.io/gorm"

	"rent-easy-server/models"
)

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

func (r *notificationRepository) FindByID(id uint) (*models.Notification, error) {
	var notification models.Notification
	if err := r.db.First(&notification, id).Error; err != nil {
		return nil, err
	}
	return &notification, nil
}

func (r *notificationRepository) ListByRecipient(recipientID uint, limit int) ([]models.Notification, error) {
	var notifications []models.Notification
	query := r.db.Preload("Sender").
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&notifications).Error
	return notifications, err
}

func (r *notificationRepository) MarkRead(id, recipientID uint) (*models.Notification, error) {
	var notification models.Notification
	err := r.db.Where("id = ? AND recipient_id = ?", id, recipientID).
		First(&notification).Error
	if err != nil {
		return nil, err
	}

	if !notification.Read {
		notification.Read = true
		if err := r.db.Model(&notification).Update("read", true).Error; err != nil {
			return nil, err
		}
	}
	return &notification, nil
}

func (r *notificationRepository) MarkAllRead(recipientID uint) error {
	return r.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND read = ?", recipientID, false).
		Update("read", true).Error
}

func (r *notificationRepository) CountUnread(recipientID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND read = ?", recipientID, false).
		Count(&count).Error
	return count, err
}

func (r *notificationRepository) Resolve(notification *models.Notification) error {
	notification.Resolve()
	return r.db.Model(notification).
		Updates(map[string]interface{}{"read": true, "action_required": false}).Error
}
