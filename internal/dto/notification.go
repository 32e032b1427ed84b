package dto

// ── 通知模块 DTO ──

// NotificationResponse 通知响应（字段名与客户端铃铛组件约定一致）
type NotificationResponse struct {
	ID        string `json:"id"`
	User      string `json:"user"`
	Message   string `json:"message"`
	Link      string `json:"link"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"created_at"`
}
