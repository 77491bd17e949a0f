package model

// CheckoutReminderMessage 忘签退提醒消息，调度器扫描到超时开放会话后投递
type CheckoutReminderMessage struct {
	MessageID    string `json:"message_id"` // 消息唯一ID，用于幂等性检查
	BatchID      string `json:"batch_id"`
	RecordID     int64  `json:"record_id"`
	UserID       int64  `json:"user_id"`
	CheckInAt    string `json:"check_in_at"`
	ScheduledAt  string `json:"scheduled_at"`
	DelaySeconds int    `json:"delay_seconds"`
}
