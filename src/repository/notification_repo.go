package repository

import (
	"github.com/ctfpad/backend/src/domain"
	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) CreateNotification(notification *domain.Notification) error {
	return r.db.Create(notification).Error
}

// FindNotificationsForMember returns the member's direct notifications plus
// every broadcast (nil recipient), newest first.
func (r *NotificationRepository) FindNotificationsForMember(memberID uint) ([]*domain.Notification, error) {
	var notifications []*domain.Notification
	err := r.db.Preload("Sender").
		Where("recipient_id = ? OR recipient_id IS NULL", memberID).
		Order("creation_time DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *NotificationRepository) DeleteNotification(id uint) error {
	return r.db.Delete(&domain.Notification{}, id).Error
}
