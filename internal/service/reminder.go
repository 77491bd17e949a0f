package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"Presensia/config"
	"Presensia/internal/cache"
	"Presensia/internal/model"
	"Presensia/internal/repository"
	"Presensia/pkg/logger"
	"Presensia/pkg/metrics"
	"Presensia/pkg/sms"
	"Presensia/storage/database"
)

var (
	reminderService *ReminderService
	reminderOnce    sync.Once

	// 短信服务故障时快速失败，避免拖垮消费
	smsBreaker = cache.NewCircuitBreaker("sms", 5, 30*time.Second)
)

func Reminder() *ReminderService {
	reminderOnce.Do(func() {
		db := database.DB()
		reminderService = &ReminderService{
			records: repository.NewAttendanceRepository(db),
			users:   repository.NewUserRepository(db),
		}
	})
	return reminderService
}

type ReminderService struct {
	records *repository.AttendanceRepository
	users   *repository.UserRepository
}

// ProcessCheckoutReminder 处理忘签退提醒消息
// 只发提醒短信并打标记，从不代用户关闭会话
func (s *ReminderService) ProcessCheckoutReminder(ctx context.Context, msg model.CheckoutReminderMessage) error {
	record, err := s.records.GetByID(ctx, msg.RecordID)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			logger.Logger.Info("Reminder target record gone, skipping",
				zap.Int64("record_id", msg.RecordID),
			)
			metrics.RecordReminderSkipped(ctx, "record_gone")
			return nil
		}
		return fmt.Errorf("failed to load attendance record: %w", err)
	}

	// 消息投递期间用户可能已签退或已被提醒
	if !record.IsOpen() || record.ReminderSentAt != nil {
		logger.Logger.Info("Session already closed or reminded, skipping",
			zap.Int64("record_id", record.ID),
		)
		metrics.RecordReminderSkipped(ctx, "session_closed")
		return nil
	}

	allowed, count, err := cache.CheckMonthlyReminderLimit(ctx, record.UserID)
	if err != nil {
		logger.Logger.Warn("Failed to check monthly reminder limit",
			zap.Int64("user_id", record.UserID),
			zap.Error(err),
		)
	}
	if !allowed {
		logger.Logger.Info("Monthly reminder limit reached, skipping",
			zap.Int64("user_id", record.UserID),
			zap.Int("count", count),
		)
		metrics.RecordReminderSkipped(ctx, "monthly_limit")
		return nil
	}

	user, err := s.users.GetByID(ctx, record.UserID)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			logger.Logger.Warn("Reminder target user gone, skipping",
				zap.Int64("user_id", record.UserID),
			)
			metrics.RecordReminderSkipped(ctx, "user_gone")
			return nil
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	if user.Phone == "" {
		logger.Logger.Info("User has no phone number, marking reminder without SMS",
			zap.Int64("user_id", user.ID),
		)
		metrics.RecordReminderSkipped(ctx, "no_phone")
		return s.markSent(ctx, record.ID)
	}

	checkInLocal := record.CheckInAt.In(config.Cfg.Location()).Format("15:04")

	sendStart := time.Now()
	err = smsBreaker.Call(ctx, func() error {
		_, sendErr := sms.SendCheckoutReminderSMS(ctx, user.Phone, user.DisplayName(), checkInLocal)
		return sendErr
	})
	if err != nil {
		metrics.RecordSMSSent(ctx, config.Cfg.SMSProvider, "failed", time.Since(sendStart).Seconds())
		return fmt.Errorf("failed to send reminder SMS: %w", err)
	}
	metrics.RecordSMSSent(ctx, config.Cfg.SMSProvider, "success", time.Since(sendStart).Seconds())

	if err := cache.IncrementMonthlyReminderCount(ctx, record.UserID, time.Now().Format("2006-01")); err != nil {
		logger.Logger.Warn("Failed to increment monthly reminder count",
			zap.Int64("user_id", record.UserID),
			zap.Error(err),
		)
	}

	logger.Logger.Info("Checkout reminder sent",
		zap.Int64("record_id", record.ID),
		zap.Int64("user_id", user.ID),
	)

	return s.markSent(ctx, record.ID)
}

func (s *ReminderService) markSent(ctx context.Context, recordID int64) error {
	err := s.records.MarkReminderSent(ctx, recordID, time.Now())
	if err != nil && !stderrors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to mark reminder sent: %w", err)
	}
	return nil
}
