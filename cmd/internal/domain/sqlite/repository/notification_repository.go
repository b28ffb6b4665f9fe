package repository

import (
	"gorm.io/gorm"

	"qualiobra/cmd/internal/domain/entity"
)

const maxNotifications = 200

type DefaultNotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *DefaultNotificationRepository {
	return &DefaultNotificationRepository{db: db}
}

func (r *DefaultNotificationRepository) FindAll(tenantID, userID int64, unreadOnly bool) ([]*entity.Notification, error) {
	q := r.db.Where("tenant_id = ? AND user_id = ?", tenantID, userID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}

	var notifications []*entity.Notification
	err := q.Order("created_at DESC").
		Limit(maxNotifications).
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *DefaultNotificationRepository) CountUnread(tenantID, userID int64) (int64, error) {
	var count int64
	err := r.db.Model(&entity.Notification{}).
		Where("tenant_id = ? AND user_id = ? AND is_read = ?", tenantID, userID, false).
		Count(&count).Error
	return count, err
}

// MarkRead flags one notification of the user as read. It reports false when
// the notification is not theirs.
func (r *DefaultNotificationRepository) MarkRead(tenantID, userID, id, now int64) (bool, error) {
	var count int64
	err := r.db.Model(&entity.Notification{}).
		Where("tenant_id = ? AND user_id = ? AND id = ?", tenantID, userID, id).
		Count(&count).Error
	if err != nil || count == 0 {
		return false, err
	}

	err = r.db.Model(&entity.Notification{}).
		Where("tenant_id = ? AND user_id = ? AND id = ? AND is_read = ?", tenantID, userID, id, false).
		Updates(map[string]any{"is_read": true, "read_at": now}).Error
	return err == nil, err
}

func (r *DefaultNotificationRepository) MarkAllRead(tenantID, userID, now int64) (int64, error) {
	res := r.db.Model(&entity.Notification{}).
		Where("tenant_id = ? AND user_id = ? AND is_read = ?", tenantID, userID, false).
		Updates(map[string]any{"is_read": true, "read_at": now})
	return res.RowsAffected, res.Error
}

func (r *DefaultNotificationRepository) CreateBatch(notifications []*entity.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.db.Create(&notifications).Error
}

// DeleteReadBefore drops notifications read before the cutoff. Unread ones
// are kept whatever their age.
func (r *DefaultNotificationRepository) DeleteReadBefore(before int64) (int64, error) {
	res := r.db.
		Where("is_read = ? AND read_at < ?", true, before).
		Delete(&entity.Notification{})
	return res.RowsAffected, res.Error
}
