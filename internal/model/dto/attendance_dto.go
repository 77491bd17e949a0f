package dto

import "time"

// ========== Attendance 相关 DTO ==========

// CheckInRequest 签到请求，照片走 multipart 的 photo 字段
type CheckInRequest struct {
	Latitude  *float64 `json:"latitude" form:"latitude"`
	Longitude *float64 `json:"longitude" form:"longitude"`
}

// CheckOutRequest 签退请求，坐标与照片会覆盖签到时的留证
type CheckOutRequest struct {
	Latitude  *float64 `json:"latitude" form:"latitude"`
	Longitude *float64 `json:"longitude" form:"longitude"`
}

// AttendanceRecordData 考勤记录数据
type AttendanceRecordData struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	UserName   string     `json:"user_name,omitempty"`
	CheckInAt  time.Time  `json:"check_in_at"`
	CheckOutAt *time.Time `json:"check_out_at,omitempty"`
	Latitude   *float64   `json:"latitude,omitempty"`
	Longitude  *float64   `json:"longitude,omitempty"`
	PhotoURL   string     `json:"photo_url,omitempty"`
	Status     string     `json:"status"`
	Duration   string     `json:"duration,omitempty"` // 已关闭会话的时长，如 "8h30m"
}

// UpdateRecordRequest 管理员修正考勤记录请求，字段为 nil 表示不修改
type UpdateRecordRequest struct {
	CheckInAt  *time.Time `json:"check_in_at"`
	CheckOutAt *time.Time `json:"check_out_at"`
	Latitude   *float64   `json:"latitude"`
	Longitude  *float64   `json:"longitude"`
}

// ListRecordsQuery 考勤记录列表查询参数
type ListRecordsQuery struct {
	UserID string `query:"user_id"`
	Name   string `query:"name"`   // 按用户姓名子串过滤，不区分大小写
	Date   string `query:"date"`   // 单日查询（YYYY-MM-DD），优先于 from/to
	From   string `query:"from"`   // YYYY-MM-DD
	To     string `query:"to"`     // YYYY-MM-DD
	Status string `query:"status"` // in, out
	Limit  int    `query:"limit"`
	Offset int    `query:"offset"`
}

// 分页默认值与上限，响应 meta 回显的也是这两个口径
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// EffectiveLimit 应用默认值和上限后的分页大小
func (q ListRecordsQuery) EffectiveLimit() int {
	if q.Limit <= 0 {
		return DefaultPageSize
	}
	if q.Limit > MaxPageSize {
		return MaxPageSize
	}
	return q.Limit
}

// EffectiveOffset 负偏移按 0 处理
func (q ListRecordsQuery) EffectiveOffset() int {
	if q.Offset < 0 {
		return 0
	}
	return q.Offset
}
