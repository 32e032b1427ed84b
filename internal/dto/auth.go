package dto

// ── 认证模块 DTO ──

// RegisterRequest 注册请求
// 注册 manager 角色时必须附带正确的经理邀请码
type RegisterRequest struct {
	Name        string `json:"name"         binding:"required,min=2,max=100"`
	Email       string `json:"email"        binding:"required,email,max=255"`
	Password    string `json:"password"     binding:"required,min=6,max=72"`
	Role        string `json:"role"         binding:"omitempty,oneof=employee manager"`
	ManagerCode string `json:"manager_code" binding:"omitempty,max=100"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse 登录/重置成功响应
type TokenResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// ForgotPasswordRequest 找回密码请求
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest 重置密码请求
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=6,max=72"`
}
