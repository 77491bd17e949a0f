package repository

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"Presensia/internal/model"
	"Presensia/internal/model/dto"
)

// ErrOpenSessionExists 用户已有开放会话，部分唯一索引冲突时返回
var ErrOpenSessionExists = stderrors.New("repository: open attendance session already exists")

// pgUniqueViolation PostgreSQL 唯一约束冲突错误码
const pgUniqueViolation = "23505"

// AttendanceFilter 考勤记录列表过滤条件
type AttendanceFilter struct {
	UserID       *int64
	NameContains string // 按用户姓名子串过滤，不区分大小写
	From         *time.Time
	To           *time.Time
	Status       model.AttendanceStatus // 空串表示不过滤
	Ascending    bool
	Limit        int
	Offset       int
}

// likeEscaper 转义 LIKE 通配符，查询串只做字面匹配
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLikePattern(s string) string {
	return likeEscaper.Replace(s)
}

// AttendanceRepository 考勤记录表访问层
type AttendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// Create 插入新会话，部分唯一索引兜底并发双开
func (r *AttendanceRepository) Create(ctx context.Context, record *model.AttendanceRecord) error {
	err := r.db.WithContext(ctx).Create(record).Error
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrOpenSessionExists
	}
	return err
}

func (r *AttendanceRepository) GetByID(ctx context.Context, id int64) (*model.AttendanceRecord, error) {
	var record model.AttendanceRecord
	err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// GetOpenByUserID 获取用户当前开放会话，按签到时间取最新一条
func (r *AttendanceRepository) GetOpenByUserID(ctx context.Context, userID int64) (*model.AttendanceRecord, error) {
	var record model.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND check_out_at IS NULL", userID).
		Order("check_in_at DESC").
		First(&record).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *AttendanceRepository) Update(ctx context.Context, record *model.AttendanceRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

// Delete 软删除，gorm.DeletedAt 生效
func (r *AttendanceRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&model.AttendanceRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// List 按过滤条件查询，默认签到时间降序
func (r *AttendanceRepository) List(ctx context.Context, filter AttendanceFilter) ([]*model.AttendanceRecord, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.AttendanceRecord{})

	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.NameContains != "" {
		sub := r.db.Model(&model.User{}).
			Select("id").
			Where("name ILIKE ?", "%"+escapeLikePattern(filter.NameContains)+"%")
		query = query.Where("user_id IN (?)", sub)
	}
	if filter.From != nil {
		query = query.Where("check_in_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("check_in_at < ?", *filter.To)
	}
	switch filter.Status {
	case model.AttendanceStatusIn:
		query = query.Where("check_out_at IS NULL")
	case model.AttendanceStatusOut:
		query = query.Where("check_out_at IS NOT NULL")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// service 层已归一化，这里只兜底
	limit := filter.Limit
	if limit <= 0 {
		limit = dto.DefaultPageSize
	}
	if limit > dto.MaxPageSize {
		limit = dto.MaxPageSize
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	order := "check_in_at DESC"
	if filter.Ascending {
		order = "check_in_at ASC"
	}

	var records []*model.AttendanceRecord
	err := query.
		Order(order).
		Limit(limit).
		Offset(offset).
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// ListByCheckInRange 日报查询，签到时间升序
func (r *AttendanceRepository) ListByCheckInRange(ctx context.Context, from, to time.Time) ([]*model.AttendanceRecord, error) {
	var records []*model.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("check_in_at >= ? AND check_in_at < ?", from, to).
		Order("check_in_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ListStaleOpen 扫描超时未签退且未提醒过的开放会话
func (r *AttendanceRepository) ListStaleOpen(ctx context.Context, before time.Time, limit int) ([]*model.AttendanceRecord, error) {
	var records []*model.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("check_out_at IS NULL AND reminder_sent_at IS NULL AND check_in_at < ?", before).
		Order("check_in_at ASC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// MarkReminderSent 打提醒标记，只允许打一次
func (r *AttendanceRepository) MarkReminderSent(ctx context.Context, id int64, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&model.AttendanceRecord{}).
		Where("id = ? AND reminder_sent_at IS NULL", id).
		Update("reminder_sent_at", at)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
