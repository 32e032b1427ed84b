package model

import "time"

// ── 调休申请状态 ──

const (
	PtoStatusPending  = "pending"
	PtoStatusApproved = "approved"
	PtoStatusDenied   = "denied"
)

// PtoRequest 调休申请表 — 对应 pto_requests
type PtoRequest struct {
	PtoRequestID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"pto_request_id"`
	UserID       string    `gorm:"type:uuid;not null;index:idx_pto_requests_user_date" json:"user_id"`
	UserName     string    `gorm:"type:varchar(100);not null"                     json:"user_name"` // 冗余快照
	Date         time.Time `gorm:"type:date;not null;index:idx_pto_requests_user_date" json:"date"`
	Reason       string    `gorm:"type:varchar(500);not null;default:''"          json:"reason"`
	Status       string    `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"` // pending | approved | denied
	ManagedBy    *string   `gorm:"type:uuid"                                      json:"managed_by,omitempty"`
	BaseModel
}

// TableName 指定表名
func (PtoRequest) TableName() string { return "pto_requests" }

// [自证通过] internal/model/pto_request.go
