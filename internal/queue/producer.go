package queue

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"Presensia/internal/model"
	"Presensia/pkg/logger"
	"Presensia/pkg/snowflake"
	"Presensia/storage/mq"
)

const (
	// ExchangeDelayed 延迟消息交换机，需要 rabbitmq_delayed_message_exchange 插件
	ExchangeDelayed = "scheduler.delayed"

	// QueueCheckoutReminder 忘签退提醒队列
	QueueCheckoutReminder = "scheduler.checkout.reminder"

	// RoutingKeyCheckoutReminder 忘签退提醒路由键
	RoutingKeyCheckoutReminder = "scheduler.checkout.reminder"
)

// PublishCheckoutReminder 发布忘签退提醒消息（延迟消息）
func PublishCheckoutReminder(ctx context.Context, msg model.CheckoutReminderMessage) error {
	if msg.MessageID == "" {
		id, err := snowflake.NextID()
		if err != nil {
			logger.Logger.Error("Failed to generate message ID",
				zap.Int64("record_id", msg.RecordID),
				zap.Error(err),
			)
			return fmt.Errorf("failed to generate message ID: %w", err)
		}
		msg.MessageID = fmt.Sprintf("co_reminder_%d", id)
	}

	delay := time.Duration(msg.DelaySeconds) * time.Second

	// RabbitMQ 延迟消息插件的上限
	if delay > 24*time.Hour {
		return fmt.Errorf("delay %v exceeds 24 hours limit, use scheduled task instead", delay)
	}

	err := mq.PublishDelayedMessage(
		ctx,
		ExchangeDelayed,
		RoutingKeyCheckoutReminder,
		delay,
		msg,
	)

	if err != nil {
		logger.Logger.Error("Failed to publish checkout reminder message",
			zap.String("message_id", msg.MessageID),
			zap.Int64("record_id", msg.RecordID),
			zap.Int64("user_id", msg.UserID),
			zap.Error(err),
		)
		return err
	}

	logger.Logger.Info("Published checkout reminder message",
		zap.String("message_id", msg.MessageID),
		zap.Int64("record_id", msg.RecordID),
		zap.Int64("user_id", msg.UserID),
		zap.Duration("delay", delay),
	)

	return nil
}
