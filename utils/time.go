package utils

import (
	"time"
)

// StartOfDay 返回 t 在 loc 时区内所属日的零点
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// DayRange 返回某日的 [start, end) 区间，考勤按本地日归档
func DayRange(t time.Time, loc *time.Location) (start, end time.Time) {
	start = StartOfDay(t, loc)
	end = start.AddDate(0, 0, 1)
	return start, end
}

// ParseDate 解析 YYYY-MM-DD 格式的日期，返回 loc 时区内该日零点
func ParseDate(dateStr string, loc *time.Location) (time.Time, error) {
	parsed, err := time.ParseInLocation("2006-01-02", dateStr, loc)
	if err != nil {
		return time.Time{}, err
	}
	return parsed, nil
}
