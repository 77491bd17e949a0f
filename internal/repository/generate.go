package repository

import (
	"fmt"
	"os"

	"gorm.io/gen"

	"Presensia/internal/model"
	"Presensia/pkg/errors"
	"Presensia/storage/database"
)

// ========== User 相关查询接口 ==========

// UserQuerier 用户查询接口
type UserQuerier interface {
	// GetByEmail 根据邮箱查询用户
	//
	// SELECT * FROM @@table WHERE email = @email LIMIT 1
	GetByEmail(email string) (*gen.T, error)

	// GetByPublicID 根据 PublicID 查询用户（API 中 userID 是 public_id）
	//
	// SELECT * FROM @@table WHERE public_id = @publicID LIMIT 1
	GetByPublicID(publicID int64) (*gen.T, error)

	// ListByStatus 根据状态查询用户列表
	//
	// SELECT * FROM @@table
	// WHERE status = @status
	// ORDER BY created_at DESC
	// LIMIT @limit OFFSET @offset
	ListByStatus(status string, limit, offset int) ([]*gen.T, error)
}

// ========== AttendanceRecord 相关查询接口 ==========

// AttendanceQuerier 考勤记录查询接口
type AttendanceQuerier interface {
	// GetOpenByUserID 获取用户当前开放会话
	//
	// SELECT * FROM @@table
	// WHERE user_id = @userID AND check_out_at IS NULL AND deleted_at IS NULL
	// ORDER BY check_in_at DESC
	// LIMIT 1
	GetOpenByUserID(userID int64) (*gen.T, error)

	// ListByCheckInRange 按签到时间区间查询（日报）
	//
	// SELECT * FROM @@table
	// WHERE check_in_at >= @from AND check_in_at < @to AND deleted_at IS NULL
	// ORDER BY check_in_at ASC
	ListByCheckInRange(from, to string) ([]*gen.T, error)

	// ListStaleOpen 查询超时未签退的开放会话（用于定时任务）
	//
	// SELECT * FROM @@table
	// WHERE check_out_at IS NULL
	//   AND reminder_sent_at IS NULL
	//   AND check_in_at < @before
	//   AND deleted_at IS NULL
	// ORDER BY check_in_at ASC
	// LIMIT @limit
	ListStaleOpen(before string, limit int) ([]*gen.T, error)
}

func Generate() error {
	if err := database.Init(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	// 运行数据库迁移（确保表存在）
	if err := database.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migration: %w", err)
	}

	db := database.DB()
	if db == nil {
		return errors.ErrDatabaseConnectionNil
	}

	g := gen.NewGenerator(gen.Config{
		OutPath:           "./internal/repository/query", // 生成代码的输出路径
		ModelPkgPath:      "Presensia/internal/model",
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface | gen.WithoutContext,
		FieldNullable:     true, // 字段可以为 null
		FieldCoverable:    false,
		FieldSignable:     false,
		FieldWithIndexTag: false,
		FieldWithTypeTag:  true,
	})

	g.UseDB(db)

	// 注册现有的 model，GORM Gen 会使用这些 model 而不是生成新的
	g.ApplyBasic(
		&model.User{},
		&model.AttendanceRecord{},
	)

	// 直接应用接口，GORM Gen 会根据接口中的类型自动匹配已注册的 model
	g.ApplyInterface(func(UserQuerier) {}, &model.User{})
	g.ApplyInterface(func(AttendanceQuerier) {}, &model.AttendanceRecord{})

	g.Execute()

	return nil
}

func RunGenerate() {
	if err := Generate(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to generate code: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Code generation completed successfully!")
}
