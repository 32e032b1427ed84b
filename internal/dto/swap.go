package dto

// ── 换班模块 DTO ──

// SwapShiftDescriptor 换班引用的班次描述（来自客户端的排班读取结果）
type SwapShiftDescriptor struct {
	ScheduleID string `json:"schedule_id" binding:"required,uuid"`
	DayKey     string `json:"day_key"     binding:"required"`
	ShiftID    string `json:"shift_id"    binding:"required"`
	Date       string `json:"date"        binding:"required"` // YYYY-MM-DD
	StartTime  string `json:"start_time"  binding:"required"`
	EndTime    string `json:"end_time"    binding:"required"`
}

// SwapTargetUser 换班对象
type SwapTargetUser struct {
	ID   string `json:"id"   binding:"required,uuid"`
	Name string `json:"name" binding:"required"`
}

// CreateSwapRequest 发起换班申请请求
// shift_a 为申请人让出的班次，shift_b 为向对方索取的班次
type CreateSwapRequest struct {
	ShiftA     SwapShiftDescriptor `json:"shift_a"     binding:"required"`
	ShiftB     SwapShiftDescriptor `json:"shift_b"     binding:"required"`
	TargetUser SwapTargetUser      `json:"target_user" binding:"required"`
}

// TargetRespondRequest 换班对象表态请求
type TargetRespondRequest struct {
	Response string `json:"response" binding:"required,oneof=accept deny"`
}

// ManagerRespondRequest 经理审批请求
type ManagerRespondRequest struct {
	Response string `json:"response" binding:"required,oneof=approve deny"`
}

// SwapShiftResponse 响应中的班次快照
type SwapShiftResponse struct {
	ScheduleID string `json:"schedule_id"`
	DayKey     string `json:"day_key"`
	ShiftID    string `json:"shift_id"`
	Date       string `json:"date"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
}

// SwapResponse 换班申请响应
type SwapResponse struct {
	ID                 string            `json:"id"`
	Status             string            `json:"status"`
	RequestingUserID   string            `json:"requesting_user_id"`
	RequestingUserName string            `json:"requesting_user_name"`
	TargetUserID       string            `json:"target_user_id"`
	TargetUserName     string            `json:"target_user_name"`
	ShiftA             SwapShiftResponse `json:"shift_a"`
	ShiftB             SwapShiftResponse `json:"shift_b"`
	ManagedBy          string            `json:"managed_by,omitempty"`
	CreatedAt          string            `json:"created_at"`
	UpdatedAt          string            `json:"updated_at"`
}
