package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Presensia/config"
	"Presensia/internal/model"
	pkgerrors "Presensia/pkg/errors"
)

func newTestReportService(store *fakeRecordStore, users map[int64]*model.User) *ReportService {
	return NewReportService(store, &fakeUserDirectory{users: users})
}

func TestDailyReportRequiresAdmin(t *testing.T) {
	svc := newTestReportService(newFakeRecordStore(), nil)

	member := &model.User{BaseModel: model.BaseModel{ID: 7}, Role: model.UserRoleUser}
	_, err := svc.Daily(context.Background(), member, "")
	assert.ErrorIs(t, err, pkgerrors.Forbidden)
}

func TestDailyReportRejectsBadDate(t *testing.T) {
	svc := newTestReportService(newFakeRecordStore(), nil)

	admin := &model.User{BaseModel: model.BaseModel{ID: 1}, Role: model.UserRoleAdmin}
	_, err := svc.Daily(context.Background(), admin, "30/08/2026")
	assert.ErrorIs(t, err, pkgerrors.ValidationFailed)
}

func TestDailyReportCountsAndNames(t *testing.T) {
	loc := config.Cfg.Location()
	day := time.Date(2026, 8, 29, 0, 0, 0, 0, loc)

	store := newFakeRecordStore()
	closedOut := day.Add(17 * time.Hour)
	store.records[1] = &model.AttendanceRecord{
		BaseModel:  model.BaseModel{ID: 1},
		UserID:     7,
		CheckInAt:  day.Add(8 * time.Hour),
		CheckOutAt: &closedOut,
	}
	store.records[2] = &model.AttendanceRecord{
		BaseModel: model.BaseModel{ID: 2},
		UserID:    8,
		CheckInAt: day.Add(9 * time.Hour),
	}
	// 次日的记录不计入
	store.records[3] = &model.AttendanceRecord{
		BaseModel: model.BaseModel{ID: 3},
		UserID:    7,
		CheckInAt: day.AddDate(0, 0, 1).Add(8 * time.Hour),
	}

	users := map[int64]*model.User{
		7: {BaseModel: model.BaseModel{ID: 7}, Name: "Budi"},
		// 用户 8 已注销，报表用占位名
	}
	svc := newTestReportService(store, users)

	admin := &model.User{BaseModel: model.BaseModel{ID: 1}, Role: model.UserRoleAdmin}
	report, err := svc.Daily(context.Background(), admin, "2026-08-29")
	require.NoError(t, err)

	assert.Equal(t, "2026-08-29", report.Date)
	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 1, report.Open)
	assert.Equal(t, 1, report.Closed)
	require.Len(t, report.Records, 2)

	names := make(map[string]string, 2)
	for _, rec := range report.Records {
		names[rec.UserID] = rec.UserName
	}
	assert.Equal(t, "Budi", names["7"])
	assert.Equal(t, "User Tidak Dikenal", names["8"])
}

func TestDailyReportDefaultsToToday(t *testing.T) {
	loc := config.Cfg.Location()
	day := time.Date(2026, 8, 29, 10, 30, 0, 0, loc)

	svc := newTestReportService(newFakeRecordStore(), nil)
	svc.now = func() time.Time { return day }

	admin := &model.User{BaseModel: model.BaseModel{ID: 1}, Role: model.UserRoleAdmin}
	report, err := svc.Daily(context.Background(), admin, "")
	require.NoError(t, err)
	assert.Equal(t, "2026-08-29", report.Date)
	assert.Equal(t, 0, report.Total)
}

func TestRecordToData(t *testing.T) {
	loc := config.Cfg.Location()
	checkIn := time.Date(2026, 8, 29, 8, 0, 0, 0, loc)
	checkOut := checkIn.Add(8*time.Hour + 30*time.Minute)
	lat, lng := -6.2, 106.8

	record := &model.AttendanceRecord{
		BaseModel:  model.BaseModel{ID: 42},
		UserID:     7,
		CheckInAt:  checkIn,
		CheckOutAt: &checkOut,
		Latitude:   &lat,
		Longitude:  &lng,
		PhotoRef:   "2026/08/29/abc.jpg",
	}

	data := RecordToData(record, "Budi")
	assert.Equal(t, "42", data.ID)
	assert.Equal(t, "7", data.UserID)
	assert.Equal(t, "Budi", data.UserName)
	assert.Equal(t, "out", data.Status)
	assert.Equal(t, "/uploads/2026/08/29/abc.jpg", data.PhotoURL)
	assert.Equal(t, "8h30m0s", data.Duration)
}

func TestRecordToDataOpenSession(t *testing.T) {
	record := &model.AttendanceRecord{
		BaseModel: model.BaseModel{ID: 43},
		UserID:    7,
		CheckInAt: time.Now(),
	}

	data := RecordToData(record, "")
	assert.Equal(t, "in", data.Status)
	assert.Empty(t, data.Duration)
	assert.Empty(t, data.PhotoURL)
	assert.Nil(t, data.CheckOutAt)
}
