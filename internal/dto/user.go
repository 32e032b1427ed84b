package dto

// ── 用户模块 DTO ──

// UserResponse 用户信息响应（不含密码散列）
type UserResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at,omitempty"`
}

// UpdateMyDetailsRequest 更新个人资料请求
type UpdateMyDetailsRequest struct {
	Name  *string `json:"name"  binding:"omitempty,min=2,max=100"`
	Email *string `json:"email" binding:"omitempty,email,max=255"`
}

// ChangeMyPasswordRequest 修改个人密码请求
type ChangeMyPasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password"     binding:"required,min=6,max=72"`
}

// EmployeeBrief 排班编辑器用的人员简要信息
type EmployeeBrief struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
