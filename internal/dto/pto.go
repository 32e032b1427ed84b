package dto

// ── 调休模块 DTO ──

// CreatePtoRequest 提交调休申请请求
type CreatePtoRequest struct {
	Date   string `json:"date"   binding:"required"` // YYYY-MM-DD
	Reason string `json:"reason" binding:"omitempty,max=500"`
}

// RespondPtoRequest 经理审批调休请求
type RespondPtoRequest struct {
	Status string `json:"status" binding:"required,oneof=approved denied"`
}

// PtoResponse 调休申请响应
type PtoResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name"`
	Date      string `json:"date"`
	Reason    string `json:"reason"`
	Status    string `json:"status"`
	ManagedBy string `json:"managed_by,omitempty"`
	CreatedAt string `json:"created_at"`
}
