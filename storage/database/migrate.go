package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"Presensia/internal/model"
	"Presensia/pkg/logger"
)

// 部分唯一索引：每个用户至多一条开放会话（check_out_at IS NULL）
// 并发双开时数据库兜底，应用层将 23505 翻译为会话冲突
const openSessionIndexSQL = `
CREATE UNIQUE INDEX IF NOT EXISTS uniq_attendance_open_session
ON attendance_records (user_id)
WHERE check_out_at IS NULL AND deleted_at IS NULL
`

// Migrate 运行数据库迁移，创建所有表
func Migrate() error {
	db := DB()
	if db == nil {
		return gorm.ErrInvalidDB
	}

	logger.Logger.Info("Starting database migration...")

	// 迁移所有模型
	err := db.AutoMigrate(
		&model.User{},
		&model.AttendanceRecord{},
	)

	if err != nil {
		logger.Logger.Error("Database migration failed", zap.Error(err))
		return err
	}

	if err := db.Exec(openSessionIndexSQL).Error; err != nil {
		logger.Logger.Error("Failed to create open session index", zap.Error(err))
		return err
	}

	logger.Logger.Info("Database migration completed successfully")
	return nil
}
