package cache

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"Presensia/storage/redis"
)

const (
	// 提醒消息投放标记，调度器扫描时跳过已投放的会话
	reminderScheduledPrefix = "checkout:reminder:scheduled"
	messageProcessedPrefix  = "message:processed"
	reminderMonthlyPrefix   = "checkout:reminder:monthly" // 月度提醒限制

	scheduledTTL = 24 * time.Hour
	processedTTL = 48 * time.Hour

	// MonthlyReminderLimit 每月每用户提醒短信上限
	MonthlyReminderLimit = 10
)

// IsReminderScheduled 检查某条会话的提醒消息是否已投放
func IsReminderScheduled(ctx context.Context, recordID int64) (bool, error) {
	key := redis.Key(reminderScheduledPrefix, fmt.Sprintf("%d", recordID))
	result, err := redis.Client().Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check reminder scheduled status: %w", err)
	}
	return result > 0, nil
}

// MarkReminderScheduled 标记某条会话的提醒消息已投放
func MarkReminderScheduled(ctx context.Context, recordID int64) error {
	key := redis.Key(reminderScheduledPrefix, fmt.Sprintf("%d", recordID))
	return redis.Client().Set(ctx, key, "1", scheduledTTL).Err()
}

// UnmarkReminderScheduled 清除投放标记（投递失败时回滚，允许下轮重扫）
func UnmarkReminderScheduled(ctx context.Context, recordID int64) error {
	key := redis.Key(reminderScheduledPrefix, fmt.Sprintf("%d", recordID))
	return redis.Client().Del(ctx, key).Err()
}

// TryMarkMessageProcessing 尝试原子性地标记消息正在处理（使用 SETNX）
// 返回 true 表示成功标记（首次处理），false 表示已被标记（重复消息或正在处理）
func TryMarkMessageProcessing(ctx context.Context, messageID string, ttl time.Duration) (bool, error) {
	key := redis.Key(messageProcessedPrefix, messageID)
	if ttl <= 0 {
		ttl = processedTTL
	}

	// SETNX：如果 key 不存在则设置，返回 true；如果已存在则返回 false
	result, err := redis.Client().SetNX(ctx, key, "processing", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark message as processing: %w", err)
	}
	return result, nil
}

// UnmarkMessageProcessing 取消消息处理标记（处理失败时调用，允许重试）
func UnmarkMessageProcessing(ctx context.Context, messageID string) error {
	key := redis.Key(messageProcessedPrefix, messageID)
	return redis.Client().Del(ctx, key).Err()
}

// MarkMessageProcessed 标记消息已处理（处理成功时调用，延长 TTL）
func MarkMessageProcessed(ctx context.Context, messageID string, ttl time.Duration) error {
	key := redis.Key(messageProcessedPrefix, messageID)
	if ttl <= 0 {
		ttl = processedTTL
	}
	// 更新值为 "completed"，并延长 TTL
	return redis.Client().Set(ctx, key, "completed", ttl).Err()
}

// ========== 月度提醒限流 ==========

// GetMonthlyReminderCount 获取用户本月的提醒短信发送次数
// monthKey 格式: "2006-01"
func GetMonthlyReminderCount(ctx context.Context, userID int64, monthKey string) (int, error) {
	key := redis.Key(reminderMonthlyPrefix, fmt.Sprintf("%d", userID), monthKey)
	count, err := redis.Client().Get(ctx, key).Int()
	if err == goredis.Nil {
		return 0, nil // 未找到记录，返回 0
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get monthly reminder count: %w", err)
	}
	return count, nil
}

// IncrementMonthlyReminderCount 增加用户本月的提醒短信计数
// 自动设置过期时间为下个月 1 号
func IncrementMonthlyReminderCount(ctx context.Context, userID int64, monthKey string) error {
	key := redis.Key(reminderMonthlyPrefix, fmt.Sprintf("%d", userID), monthKey)

	// 计算 TTL：到下个月 1 号的时间
	now := time.Now()
	nextMonth := time.Date(now.Year(), now.Month()+1, 1, 0, 0, 0, 0, now.Location())
	ttl := nextMonth.Sub(now)
	pipe := redis.Client().Pipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, ttl)
	_, err := pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to increment monthly reminder count: %w", err)
	}
	return nil
}

// CheckMonthlyReminderLimit 检查用户是否超过月度提醒限制
func CheckMonthlyReminderLimit(ctx context.Context, userID int64) (bool, int, error) {
	monthKey := time.Now().Format("2006-01")
	count, err := GetMonthlyReminderCount(ctx, userID, monthKey)
	if err != nil {
		return true, 0, err // 出错时降级，允许发送
	}
	return count < MonthlyReminderLimit, count, nil
}
