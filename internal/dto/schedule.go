package dto

import "shiftflow/backend/internal/model"

// ── 排班模块 DTO ──

// UpsertScheduleRequest 上传/覆盖周排班请求
// days 的键必须是 7 个固定日槽之一；条目缺少 shift_id 时由服务端分配
type UpsertScheduleRequest struct {
	WeekStarting string          `json:"week_starting" binding:"required"` // YYYY-MM-DD，排班周的周五
	Days         model.ShiftDays `json:"days"          binding:"required"`
}

// ScheduleResponse 周排班响应
type ScheduleResponse struct {
	ID           string          `json:"id"`
	WeekStarting string          `json:"week_starting"`
	Days         model.ShiftDays `json:"days"`
	UploadedBy   string          `json:"uploaded_by,omitempty"`
	CreatedAt    string          `json:"created_at"`
	UpdatedAt    string          `json:"updated_at"`
}

// MonthViewRequest 月视图查询参数
type MonthViewRequest struct {
	Year  int `form:"year"  binding:"required,min=2000,max=2100"`
	Month int `form:"month" binding:"required,min=1,max=12"`
}

// MonthViewResponse 月视图响应：覆盖该月的排班 + 当月日历事件
type MonthViewResponse struct {
	Schedules []ScheduleResponse      `json:"schedules"`
	Events    []CalendarEventResponse `json:"events"`
}
