package repositories

import (
	"context"

	"github.com/anonto42/ideahub/backend/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification *models.Notification) error
	GetNotificationByID(ctx context.Context, id string) (*models.Notification, error)
	GetByRecipientID(ctx context.Context, recipientID string, page, limit int) ([]models.Notification, int64, error)
	GetUnreadCount(ctx context.Context, recipientID string) (int64, error)
	MarkAsRead(ctx context.Context, notificationID string) error
	MarkAllAsRead(ctx context.Context, recipientID string) error
	DeleteNotification(ctx context.Context, notificationID string) error
	DeleteNotificationsByIdeaID(ctx context.Context, ideaID string) error
}

type postgresNotificationRepository struct {
	db *gorm.DB
}

func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) CreateNotification(ctx context.Context, notification *models.Notification) error {
	notification.IsRead = false
	return translate("create notification", conn(ctx, r.db).Create(notification).Error, "")
}

func (r *postgresNotificationRepository) GetNotificationByID(ctx context.Context, id string) (*models.Notification, error) {
	var notification models.Notification
	if err := conn(ctx, r.db).Where("id = ?", id).First(&notification).Error; err != nil {
		return nil, translate("get notification", err, "Notification not found")
	}
	return &notification, nil
}

func (r *postgresNotificationRepository) GetByRecipientID(ctx context.Context, recipientID string, page, limit int) ([]models.Notification, int64, error) {
	notifications := []models.Notification{}
	var total int64

	db := conn(ctx, r.db)
	if err := db.Model(&models.Notification{}).Where("user_id = ?", recipientID).Count(&total).Error; err != nil {
		return nil, 0, translate("count notifications", err, "")
	}

	offset := (page - 1) * limit
	err := db.Where("user_id = ?", recipientID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&notifications).Error
	if err != nil {
		return nil, 0, translate("list notifications", err, "")
	}
	return notifications, total, nil
}

func (r *postgresNotificationRepository) GetUnreadCount(ctx context.Context, recipientID string) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.Notification{}).Where("user_id = ? AND is_read = false", recipientID).Count(&count).Error
	return count, translate("count unread notifications", err, "")
}

func (r *postgresNotificationRepository) MarkAsRead(ctx context.Context, notificationID string) error {
	err := conn(ctx, r.db).Model(&models.Notification{}).Where("id = ?", notificationID).Update("is_read", true).Error
	return translate("mark notification read", err, "")
}

func (r *postgresNotificationRepository) MarkAllAsRead(ctx context.Context, recipientID string) error {
	err := conn(ctx, r.db).Model(&models.Notification{}).Where("user_id = ? AND is_read = false", recipientID).Update("is_read", true).Error
	return translate("mark all notifications read", err, "")
}

func (r *postgresNotificationRepository) DeleteNotification(ctx context.Context, notificationID string) error {
	return translate("delete notification", conn(ctx, r.db).Where("id = ?", notificationID).Delete(&models.Notification{}).Error, "")
}

func (r *postgresNotificationRepository) DeleteNotificationsByIdeaID(ctx context.Context, ideaID string) error {
	return translate("delete idea notifications", conn(ctx, r.db).Where("idea_id = ?", ideaID).Delete(&models.Notification{}).Error, "")
}
