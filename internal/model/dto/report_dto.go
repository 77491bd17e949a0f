package dto

// ========== Report 相关 DTO ==========

// DailyReportQuery 日报查询参数
type DailyReportQuery struct {
	Date string `query:"date"` // YYYY-MM-DD，缺省为当日
}

// DailyReportData 日报数据，记录按签到时间升序
type DailyReportData struct {
	Date    string                 `json:"date"`
	Total   int                    `json:"total"`
	Open    int                    `json:"open"`
	Closed  int                    `json:"closed"`
	Records []AttendanceRecordData `json:"records"`
}
