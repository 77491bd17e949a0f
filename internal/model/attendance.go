package model

import "time"

// AttendanceStatus 考勤会话状态枚举
type AttendanceStatus string

const (
	AttendanceStatusIn  AttendanceStatus = "in"  // 会话进行中，尚未签退
	AttendanceStatusOut AttendanceStatus = "out" // 会话已关闭
)

// AttendanceRecord 考勤记录模型
// 开放会话 = check_out_at IS NULL，数据库层用部分唯一索引保证
// 每个用户至多一条开放会话（见 migrate.go）
type AttendanceRecord struct {
	BaseModel
	UserID         int64      `gorm:"not null;index:idx_attendance_user_checkin,priority:1" json:"user_id"`
	CheckInAt      time.Time  `gorm:"type:timestamptz;not null;index:idx_attendance_user_checkin,priority:2" json:"check_in_at"`
	CheckOutAt     *time.Time `gorm:"type:timestamptz" json:"check_out_at,omitempty"`
	Latitude       *float64   `gorm:"type:double precision" json:"latitude,omitempty"`
	Longitude      *float64   `gorm:"type:double precision" json:"longitude,omitempty"`
	PhotoRef       string     `gorm:"type:varchar(255);not null;default:''" json:"photo_ref,omitempty"`
	ReminderSentAt *time.Time `gorm:"type:timestamptz" json:"reminder_sent_at,omitempty"`
}

// TableName 指定表名
func (AttendanceRecord) TableName() string {
	return "attendance_records"
}

// Status 由 check_out_at 推导，不单独落库
func (r *AttendanceRecord) Status() AttendanceStatus {
	if r.CheckOutAt == nil {
		return AttendanceStatusIn
	}
	return AttendanceStatusOut
}

// IsOpen 会话是否仍在进行中
func (r *AttendanceRecord) IsOpen() bool {
	return r.CheckOutAt == nil
}
