package dto

// ── 日历事件模块 DTO ──

// CreateCalendarEventRequest 创建日历事件请求
type CreateCalendarEventRequest struct {
	Date  string `json:"date"  binding:"required"` // YYYY-MM-DD
	Title string `json:"title" binding:"required,min=1,max=200"`
	Type  string `json:"type"  binding:"required,oneof=MEETING MANDATORY PTO_RESTRICTED"`
}

// CalendarEventResponse 日历事件响应
type CalendarEventResponse struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	Title     string `json:"title"`
	Type      string `json:"type"`
	CreatedBy string `json:"created_by,omitempty"`
	CreatedAt string `json:"created_at"`
}
