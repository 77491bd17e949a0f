package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"Presensia/internal/cache"
	"Presensia/internal/model"
	"Presensia/pkg/errors"
	"Presensia/pkg/logger"
	"Presensia/storage/mq"
)

// ReminderProcessor 提醒消息的业务处理方，由 worker 启动时注入
type ReminderProcessor interface {
	ProcessCheckoutReminder(ctx context.Context, msg model.CheckoutReminderMessage) error
}

var reminderProcessor ReminderProcessor

// SetReminderProcessor 设置提醒处理器（在 worker 启动时调用）
func SetReminderProcessor(p ReminderProcessor) {
	reminderProcessor = p
}

// StartCheckoutReminderConsumer 启动忘签退提醒消费者，阻塞直到通道关闭
func StartCheckoutReminderConsumer(ctx context.Context) error {
	handler := func(body []byte) error {
		var msg model.CheckoutReminderMessage
		if err := json.Unmarshal(body, &msg); err != nil {
			return fmt.Errorf("failed to unmarshal checkout reminder message: %w", err)
		}

		// 【幂等性检查】使用 SETNX 原子性地检查并标记消息正在处理
		processed, err := cache.TryMarkMessageProcessing(ctx, msg.MessageID, 24*time.Hour)
		if err != nil {
			logger.Logger.Warn("Failed to check message processed status",
				zap.String("message_id", msg.MessageID),
				zap.Error(err),
			)
			// 如果检查失败，继续处理（不阻塞业务），但可能重复处理
		} else if !processed {
			logger.Logger.Info("Message already processed or being processed, skipping",
				zap.String("message_id", msg.MessageID),
				zap.Int64("record_id", msg.RecordID),
			)
			return &errors.SkipMessageError{Reason: fmt.Sprintf("Message %s already processed", msg.MessageID)}
		}

		logger.Logger.Info("Processing checkout reminder",
			zap.String("message_id", msg.MessageID),
			zap.Int64("record_id", msg.RecordID),
			zap.Int64("user_id", msg.UserID),
		)

		if reminderProcessor == nil {
			return fmt.Errorf("reminder processor not set")
		}

		if err := reminderProcessor.ProcessCheckoutReminder(ctx, msg); err != nil {
			// 处理失败，取消标记，允许重试
			if unmarkErr := cache.UnmarkMessageProcessing(ctx, msg.MessageID); unmarkErr != nil {
				logger.Logger.Warn("Failed to unmark message processing",
					zap.String("message_id", msg.MessageID),
					zap.Error(unmarkErr),
				)
			}
			return fmt.Errorf("failed to process checkout reminder: %w", err)
		}

		// 【幂等性标记】处理完成后标记消息已处理（延长 TTL）
		if err := cache.MarkMessageProcessed(ctx, msg.MessageID, 48*time.Hour); err != nil {
			logger.Logger.Warn("Failed to mark message as processed",
				zap.String("message_id", msg.MessageID),
				zap.Error(err),
			)
		}

		return nil
	}

	return mq.Consume(mq.ConsumeOptions{
		Queue:         QueueCheckoutReminder,
		ConsumerTag:   "checkout_reminder_consumer",
		PrefetchCount: 10, // 每次预取10条消息
		Handler:       handler,
	})
}
