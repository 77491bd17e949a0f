package schedule

// 签退提醒调度器：周期扫描超时未签退的开放会话，投递延迟提醒消息

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"Presensia/config"
	"Presensia/internal/cache"
	"Presensia/internal/model"
	"Presensia/internal/queue"
	"Presensia/internal/repository"
	"Presensia/pkg/logger"
	"Presensia/pkg/metrics"
	"Presensia/pkg/snowflake"
	"Presensia/storage/database"
)

// scanBatchSize 单轮扫描上限，剩余的下一轮接着扫
const scanBatchSize = 500

// scanLockKey 多实例部署时只允许一个调度器在扫
const scanLockKey = "scheduler:checkout-reminder"

var (
	schedulerOnce sync.Once
	schedulerInst *ReminderScheduler
)

type ReminderScheduler struct {
	records *repository.AttendanceRepository

	logger          *zap.Logger
	scanJobRunning  bool
	scanJobMu       sync.Mutex
	lastScanJobTime time.Time
}

func GetScheduler() *ReminderScheduler {
	schedulerOnce.Do(func() {
		schedulerInst = &ReminderScheduler{
			records: repository.NewAttendanceRepository(database.DB()),
			logger:  logger.Logger,
		}
	})
	return schedulerInst
}

// Run 按配置的间隔周期执行扫描，ctx 取消时退出
func (s *ReminderScheduler) Run(ctx context.Context) {
	interval := time.Duration(config.Cfg.SchedulerIntervalMinutes) * time.Minute
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	s.logger.Info("Reminder scheduler started",
		zap.Duration("interval", interval),
	)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// 启动时先跑一轮，不等第一个 tick
	if err := s.ScanStaleSessions(ctx); err != nil {
		s.logger.Error("Initial scan failed", zap.Error(err))
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Reminder scheduler stopped")
			return
		case <-ticker.C:
			if err := s.ScanStaleSessions(ctx); err != nil {
				s.logger.Error("Scan failed", zap.Error(err))
			}
		}
	}
}

// ScanStaleSessions 扫描超时未签退的开放会话并投递提醒消息
func (s *ReminderScheduler) ScanStaleSessions(ctx context.Context) error {
	s.scanJobMu.Lock()
	if s.scanJobRunning {
		s.scanJobMu.Unlock()
		s.logger.Info("Scan job already running, skipping")
		return nil
	}
	s.scanJobRunning = true
	s.scanJobMu.Unlock()

	defer func() {
		s.scanJobMu.Lock()
		s.scanJobRunning = false
		s.scanJobMu.Unlock()
	}()

	// 跨实例互斥
	locked, err := cache.TryLock(ctx, scanLockKey, 5*time.Minute)
	if err != nil {
		s.logger.Warn("Scheduler lock unavailable, proceeding anyway", zap.Error(err))
	} else if !locked {
		s.logger.Info("Another scheduler instance holds the lock, skipping")
		return nil
	} else {
		defer func() {
			if err := cache.Unlock(ctx, scanLockKey); err != nil {
				s.logger.Warn("Failed to release scheduler lock", zap.Error(err))
			}
		}()
	}

	startTime := time.Now()
	s.lastScanJobTime = startTime

	threshold := time.Duration(config.Cfg.CheckoutReminderAfterHours) * time.Hour
	before := startTime.Add(-threshold)

	records, err := s.records.ListStaleOpen(ctx, before, scanBatchSize)
	if err != nil {
		return fmt.Errorf("failed to list stale open sessions: %w", err)
	}

	if len(records) == 0 {
		s.logger.Info("No stale open sessions found")
		return nil
	}

	s.logger.Info("Found stale open sessions",
		zap.Int("count", len(records)),
		zap.Time("before", before),
	)

	batchID, err := snowflake.NextID()
	if err != nil {
		return fmt.Errorf("failed to generate batch ID: %w", err)
	}

	published := 0
	for _, record := range records {
		scheduled, err := cache.IsReminderScheduled(ctx, record.ID)
		if err != nil {
			s.logger.Warn("Failed to check reminder scheduled status",
				zap.Int64("record_id", record.ID),
				zap.Error(err),
			)
			continue
		}
		if scheduled {
			continue
		}

		// 先打标记再投递，投递失败则回滚标记等下一轮
		if err := cache.MarkReminderScheduled(ctx, record.ID); err != nil {
			s.logger.Warn("Failed to mark reminder scheduled",
				zap.Int64("record_id", record.ID),
				zap.Error(err),
			)
			continue
		}

		msg := model.CheckoutReminderMessage{
			BatchID:      strconv.FormatInt(batchID, 10),
			RecordID:     record.ID,
			UserID:       record.UserID,
			CheckInAt:    record.CheckInAt.Format(time.RFC3339),
			ScheduledAt:  startTime.Format(time.RFC3339),
			DelaySeconds: 0,
		}

		if err := queue.PublishCheckoutReminder(ctx, msg); err != nil {
			s.logger.Error("Failed to publish reminder, unmarking for retry",
				zap.Int64("record_id", record.ID),
				zap.Error(err),
			)
			if err := cache.UnmarkReminderScheduled(ctx, record.ID); err != nil {
				s.logger.Warn("Failed to unmark reminder scheduled",
					zap.Int64("record_id", record.ID),
					zap.Error(err),
				)
			}
			continue
		}
		published++
	}

	metrics.RecordReminderScheduled(ctx, int64(published))

	s.logger.Info("Stale session scan completed",
		zap.Int("scanned", len(records)),
		zap.Int("published", published),
		zap.Duration("elapsed", time.Since(startTime)),
	)

	return nil
}
