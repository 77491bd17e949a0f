package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"Presensia/config"
	"Presensia/internal/model"
	"Presensia/internal/model/dto"
	"Presensia/internal/repository"
	pkgerrors "Presensia/pkg/errors"
	"Presensia/storage/database"
	"Presensia/utils"
)

var (
	reportService *ReportService
	reportOnce    sync.Once
)

func Report() *ReportService {
	reportOnce.Do(func() {
		db := database.DB()
		reportService = NewReportService(
			repository.NewAttendanceRepository(db),
			newCachedUserDirectory(repository.NewUserRepository(db)),
		)
	})

	return reportService
}

type ReportService struct {
	store RecordStore
	users UserDirectory
	now   func() time.Time
}

func NewReportService(store RecordStore, users UserDirectory) *ReportService {
	return &ReportService{
		store: store,
		users: users,
		now:   time.Now,
	}
}

// Daily 生成某日的考勤日报，仅管理员可用
// 记录按签到时间升序，按业务时区归档日
func (s *ReportService) Daily(ctx context.Context, actor *model.User, dateStr string) (*dto.DailyReportData, error) {
	if !actor.IsAdmin() {
		return nil, pkgerrors.Forbidden
	}

	loc := config.Cfg.Location()

	var day time.Time
	if dateStr == "" {
		day = s.now().In(loc)
	} else {
		parsed, err := utils.ParseDate(dateStr, loc)
		if err != nil {
			return nil, pkgerrors.ValidationFailed
		}
		day = parsed
	}

	from, to := utils.DayRange(day, loc)

	records, err := s.store.ListByCheckInRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily records: %w", err)
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
		return nil, fmt.Errorf("failed to query users for report: %w", err)
	}

	report := &dto.DailyReportData{
		Date:    from.Format("2006-01-02"),
		Total:   len(records),
		Records: make([]dto.AttendanceRecordData, 0, len(records)),
	}

	for _, r := range records {
		if r.IsOpen() {
			report.Open++
		} else {
			report.Closed++
		}

		// 用户可能已注销，报表用占位名兜底
		name := userMap[r.UserID].DisplayName()
		report.Records = append(report.Records, RecordToData(r, name))
	}

	return report, nil
}

// RecordToData 组装考勤记录的响应数据
func RecordToData(r *model.AttendanceRecord, userName string) dto.AttendanceRecordData {
	data := dto.AttendanceRecordData{
		ID:         strconv.FormatInt(r.ID, 10),
		UserID:     strconv.FormatInt(r.UserID, 10),
		UserName:   userName,
		CheckInAt:  r.CheckInAt,
		CheckOutAt: r.CheckOutAt,
		Latitude:   r.Latitude,
		Longitude:  r.Longitude,
		Status:     string(r.Status()),
	}

	if r.PhotoRef != "" {
		data.PhotoURL = "/uploads/" + r.PhotoRef
	}
	if r.CheckOutAt != nil {
		data.Duration = r.CheckOutAt.Sub(r.CheckInAt).Round(time.Minute).String()
	}

	return data
}
