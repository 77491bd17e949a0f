package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"Presensia/config"
	"Presensia/internal/cache"
	"Presensia/internal/model"
	"Presensia/internal/model/dto"
	"Presensia/internal/repository"
	pkgerrors "Presensia/pkg/errors"
	"Presensia/pkg/filestore"
	"Presensia/pkg/logger"
	"Presensia/storage/database"
	"Presensia/utils"
)

// sessionLockTTL 打卡互斥锁的持有时长，防止并发双开
const sessionLockTTL = 10 * time.Second

// RecordStore 考勤记录存储接口，生产环境由 repository.AttendanceRepository 实现
type RecordStore interface {
	Create(ctx context.Context, record *model.AttendanceRecord) error
	GetByID(ctx context.Context, id int64) (*model.AttendanceRecord, error)
	GetOpenByUserID(ctx context.Context, userID int64) (*model.AttendanceRecord, error)
	Update(ctx context.Context, record *model.AttendanceRecord) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter repository.AttendanceFilter) ([]*model.AttendanceRecord, int64, error)
	ListByCheckInRange(ctx context.Context, from, to time.Time) ([]*model.AttendanceRecord, error)
}

// UserDirectory 用户查询接口，报表拼装和权限判断用
type UserDirectory interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	ListByIDs(ctx context.Context, ids []int64) (map[int64]*model.User, error)
}

// SessionLocker 用户级互斥，生产环境走 Redis SETNX
type SessionLocker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key string) error
}

type redisLocker struct{}

func (redisLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return cache.TryLock(ctx, key, ttl)
}

func (redisLocker) Unlock(ctx context.Context, key string) error {
	return cache.Unlock(ctx, key)
}

var (
	attendanceService *AttendanceService
	attendanceOnce    sync.Once
)

func Attendance() *AttendanceService {
	attendanceOnce.Do(func() {
		db := database.DB()
		attendanceService = NewAttendanceService(
			repository.NewAttendanceRepository(db),
			newCachedUserDirectory(repository.NewUserRepository(db)),
			redisLocker{},
		)
	})

	return attendanceService
}

type AttendanceService struct {
	store  RecordStore
	users  UserDirectory
	locker SessionLocker
	now    func() time.Time
}

func NewAttendanceService(store RecordStore, users UserDirectory, locker SessionLocker) *AttendanceService {
	return &AttendanceService{
		store:  store,
		users:  users,
		locker: locker,
		now:    time.Now,
	}
}

// CheckIn 开启考勤会话
// 已有开放会话时返回会话冲突，并发双开由 Redis 锁加数据库部分唯一索引兜底
func (s *AttendanceService) CheckIn(
	ctx context.Context,
	userID int64,
	req dto.CheckInRequest,
	photoRef string,
) (record *model.AttendanceRecord, err error) {
	// 打卡失败时清掉已落盘的留证照片，不留孤儿文件
	defer func() {
		if err != nil {
			s.discardEvidence(photoRef)
		}
	}()

	if err := validateEvidence(req.Latitude, req.Longitude); err != nil {
		return nil, err
	}

	lockKey := "checkin:" + strconv.FormatInt(userID, 10)
	locked, err := s.locker.TryLock(ctx, lockKey, sessionLockTTL)
	if err != nil {
		// 锁不可用时降级，唯一索引仍然兜底
		logger.Logger.Warn("Session lock unavailable, relying on database constraint",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	} else if !locked {
		return nil, pkgerrors.SessionConflict
	} else {
		defer func() {
			if err := s.locker.Unlock(ctx, lockKey); err != nil {
				logger.Logger.Warn("Failed to release session lock",
					zap.Int64("user_id", userID),
					zap.Error(err),
				)
			}
		}()
	}

	if _, err := s.store.GetOpenByUserID(ctx, userID); err == nil {
		return nil, pkgerrors.SessionConflict
	} else if !stderrors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to query open session: %w", err)
	}

	record = &model.AttendanceRecord{
		UserID:    userID,
		CheckInAt: s.now(),
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		PhotoRef:  photoRef,
	}

	if err := s.store.Create(ctx, record); err != nil {
		if stderrors.Is(err, repository.ErrOpenSessionExists) {
			return nil, pkgerrors.SessionConflict
		}
		return nil, fmt.Errorf("failed to create attendance record: %w", err)
	}

	logger.Logger.Info("Attendance session opened",
		zap.Int64("user_id", userID),
		zap.Int64("record_id", record.ID),
	)

	return record, nil
}

// CheckOut 关闭当前开放会话
// 新的坐标和照片会覆盖签到时的留证
func (s *AttendanceService) CheckOut(
	ctx context.Context,
	userID int64,
	req dto.CheckOutRequest,
	photoRef string,
) (record *model.AttendanceRecord, err error) {
	// 签退失败时同样不留孤儿照片
	defer func() {
		if err != nil {
			s.discardEvidence(photoRef)
		}
	}()

	if err := validateEvidence(req.Latitude, req.Longitude); err != nil {
		return nil, err
	}

	record, err = s.store.GetOpenByUserID(ctx, userID)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, pkgerrors.SessionNotFound
		}
		return nil, fmt.Errorf("failed to query open session: %w", err)
	}

	now := s.now()
	if now.Before(record.CheckInAt) {
		return nil, pkgerrors.InvariantViolation
	}

	record.CheckOutAt = &now
	if req.Latitude != nil && req.Longitude != nil {
		record.Latitude = req.Latitude
		record.Longitude = req.Longitude
	}
	if photoRef != "" {
		record.PhotoRef = photoRef
	}

	if err := s.store.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to close attendance record: %w", err)
	}

	logger.Logger.Info("Attendance session closed",
		zap.Int64("user_id", userID),
		zap.Int64("record_id", record.ID),
		zap.Duration("duration", now.Sub(record.CheckInAt)),
	)

	return record, nil
}

// GetActive 查询当前开放会话
func (s *AttendanceService) GetActive(ctx context.Context, userID int64) (*model.AttendanceRecord, error) {
	record, err := s.store.GetOpenByUserID(ctx, userID)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, pkgerrors.SessionNotFound
		}
		return nil, fmt.Errorf("failed to query open session: %w", err)
	}
	return record, nil
}

// UpdateRecord 管理员修正考勤记录
// 会话状态完全由 check_out_at 推导，修正后依然要满足签退不早于签到
func (s *AttendanceService) UpdateRecord(
	ctx context.Context,
	actor *model.User,
	recordID int64,
	req dto.UpdateRecordRequest,
) (*model.AttendanceRecord, error) {
	if !actor.IsAdmin() {
		return nil, pkgerrors.Forbidden
	}

	if err := validateEvidence(req.Latitude, req.Longitude); err != nil {
		return nil, err
	}

	record, err := s.store.GetByID(ctx, recordID)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, pkgerrors.RecordNotFound
		}
		return nil, fmt.Errorf("failed to query attendance record: %w", err)
	}

	if req.CheckInAt != nil {
		record.CheckInAt = *req.CheckInAt
	}
	if req.CheckOutAt != nil {
		record.CheckOutAt = req.CheckOutAt
	}
	if req.Latitude != nil && req.Longitude != nil {
		record.Latitude = req.Latitude
		record.Longitude = req.Longitude
	}

	if record.CheckOutAt != nil && record.CheckOutAt.Before(record.CheckInAt) {
		return nil, pkgerrors.InvariantViolation
	}

	if err := s.store.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to update attendance record: %w", err)
	}

	logger.Logger.Info("Attendance record updated",
		zap.Int64("actor_id", actor.ID),
		zap.Int64("record_id", record.ID),
	)

	return record, nil
}

// DeleteRecord 删除考勤记录，本人或管理员可操作
func (s *AttendanceService) DeleteRecord(ctx context.Context, actor *model.User, recordID int64) error {
	record, err := s.store.GetByID(ctx, recordID)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return pkgerrors.RecordNotFound
		}
		return fmt.Errorf("failed to query attendance record: %w", err)
	}

	if record.UserID != actor.ID && !actor.IsAdmin() {
		return pkgerrors.Forbidden
	}

	if err := s.store.Delete(ctx, recordID); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return pkgerrors.RecordNotFound
		}
		return fmt.Errorf("failed to delete attendance record: %w", err)
	}

	// 记录没了，留证照片一并清掉
	if err := filestore.Remove(record.PhotoRef); err != nil {
		logger.Logger.Warn("Failed to remove evidence photo",
			zap.Int64("record_id", recordID),
			zap.String("photo_ref", record.PhotoRef),
			zap.Error(err),
		)
	}

	logger.Logger.Info("Attendance record deleted",
		zap.Int64("actor_id", actor.ID),
		zap.Int64("record_id", recordID),
	)

	return nil
}

// ListRecords 查询考勤记录列表，普通用户只能查自己的
// 返回带姓名的视图数据，用户已注销时用占位名兜底
func (s *AttendanceService) ListRecords(
	ctx context.Context,
	actor *model.User,
	query dto.ListRecordsQuery,
) ([]dto.AttendanceRecordData, int64, error) {
	filter := repository.AttendanceFilter{
		NameContains: query.Name,
		Limit:        query.EffectiveLimit(),
		Offset:       query.EffectiveOffset(),
	}

	if actor.IsAdmin() {
		if query.UserID != "" {
			uid, err := strconv.ParseInt(query.UserID, 10, 64)
			if err != nil {
				return nil, 0, pkgerrors.InvalidUserID
			}
			filter.UserID = &uid
		}
	} else {
		filter.UserID = &actor.ID
	}

	loc := config.Cfg.Location()
	if query.Date != "" {
		// 单日查询按签到时间升序展示
		day, err := utils.ParseDate(query.Date, loc)
		if err != nil {
			return nil, 0, pkgerrors.ValidationFailed
		}
		from, to := utils.DayRange(day, loc)
		filter.From = &from
		filter.To = &to
		filter.Ascending = true
	} else {
		if query.From != "" {
			from, err := utils.ParseDate(query.From, loc)
			if err != nil {
				return nil, 0, pkgerrors.ValidationFailed
			}
			filter.From = &from
		}
		if query.To != "" {
			to, err := utils.ParseDate(query.To, loc)
			if err != nil {
				return nil, 0, pkgerrors.ValidationFailed
			}
			// to 为闭区间日期，按次日零点做开区间上界
			end := to.AddDate(0, 0, 1)
			filter.To = &end
		}
	}

	switch query.Status {
	case "":
	case string(model.AttendanceStatusIn):
		filter.Status = model.AttendanceStatusIn
	case string(model.AttendanceStatusOut):
		filter.Status = model.AttendanceStatusOut
	default:
		return nil, 0, pkgerrors.ValidationFailed
	}

	records, total, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance records: %w", err)
	}

	userIDs := make([]int64, 0, len(records))
	seen := make(map[int64]struct{}, len(records))
	for _, r := range records {
		if _, ok := seen[r.UserID]; !ok {
			seen[r.UserID] = struct{}{}
			userIDs = append(userIDs, r.UserID)
		}
	}

	userMap, err := s.users.ListByIDs(ctx, userIDs)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query users for listing: %w", err)
	}

	out := make([]dto.AttendanceRecordData, 0, len(records))
	for _, r := range records {
		out = append(out, RecordToData(r, userMap[r.UserID].DisplayName()))
	}
	return out, total, nil
}

// discardEvidence 清掉已落盘但没被任何记录引用的留证照片
func (s *AttendanceService) discardEvidence(photoRef string) {
	if photoRef == "" {
		return
	}
	if err := filestore.Remove(photoRef); err != nil {
		logger.Logger.Warn("Failed to remove orphaned evidence photo",
			zap.String("photo_ref", photoRef),
			zap.Error(err),
		)
	}
}

// validateEvidence 坐标要么成对出现要么都缺省，且要在取值范围内
func validateEvidence(latitude, longitude *float64) error {
	if (latitude == nil) != (longitude == nil) {
		return pkgerrors.ValidationFailed
	}
	if latitude == nil {
		return nil
	}
	if !utils.ValidateCoordinates(*latitude, *longitude) {
		return pkgerrors.ValidationFailed
	}
	return nil
}
