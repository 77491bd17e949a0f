package service

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Presensia/config"
	"Presensia/internal/model"
	"Presensia/internal/model/dto"
	"Presensia/internal/repository"
	pkgerrors "Presensia/pkg/errors"
)

// fakeRecordStore 内存实现，按接口语义模拟数据库行为
type fakeRecordStore struct {
	records map[int64]*model.AttendanceRecord
	nextID  int64
	// 姓名过滤模拟 ILIKE 子查询，键是 user_id
	names map[int64]string

	createErr error
	lastList  repository.AttendanceFilter
}

func newFakeRecordStore() *fakeRecordStore {
	return &fakeRecordStore{
		records: make(map[int64]*model.AttendanceRecord),
		nextID:  1,
	}
}

func (f *fakeRecordStore) Create(_ context.Context, record *model.AttendanceRecord) error {
	if f.createErr != nil {
		return f.createErr
	}
	// 模拟部分唯一索引：同一用户不允许第二条开放记录
	for _, r := range f.records {
		if r.UserID == record.UserID && r.CheckOutAt == nil {
			return repository.ErrOpenSessionExists
		}
	}
	record.ID = f.nextID
	f.nextID++
	f.records[record.ID] = record
	return nil
}

func (f *fakeRecordStore) GetByID(_ context.Context, id int64) (*model.AttendanceRecord, error) {
	r, ok := f.records[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r, nil
}

func (f *fakeRecordStore) GetOpenByUserID(_ context.Context, userID int64) (*model.AttendanceRecord, error) {
	var newest *model.AttendanceRecord
	for _, r := range f.records {
		if r.UserID == userID && r.CheckOutAt == nil {
			if newest == nil || r.CheckInAt.After(newest.CheckInAt) {
				newest = r
			}
		}
	}
	if newest == nil {
		return nil, repository.ErrNotFound
	}
	return newest, nil
}

func (f *fakeRecordStore) Update(_ context.Context, record *model.AttendanceRecord) error {
	if _, ok := f.records[record.ID]; !ok {
		return repository.ErrNotFound
	}
	f.records[record.ID] = record
	return nil
}

func (f *fakeRecordStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.records[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.records, id)
	return nil
}

func (f *fakeRecordStore) List(_ context.Context, filter repository.AttendanceFilter) ([]*model.AttendanceRecord, int64, error) {
	f.lastList = filter
	var out []*model.AttendanceRecord
	for _, r := range f.records {
		if filter.UserID != nil && r.UserID != *filter.UserID {
			continue
		}
		if filter.NameContains != "" {
			needle := strings.ToLower(filter.NameContains)
			if !strings.Contains(strings.ToLower(f.names[r.UserID]), needle) {
				continue
			}
		}
		out = append(out, r)
	}
	return out, int64(len(out)), nil
}

func (f *fakeRecordStore) ListByCheckInRange(_ context.Context, from, to time.Time) ([]*model.AttendanceRecord, error) {
	var out []*model.AttendanceRecord
	for _, r := range f.records {
		if !r.CheckInAt.Before(from) && r.CheckInAt.Before(to) {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeUserDirectory struct {
	users map[int64]*model.User
}

func (f *fakeUserDirectory) GetByID(_ context.Context, id int64) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserDirectory) ListByIDs(_ context.Context, ids []int64) (map[int64]*model.User, error) {
	out := make(map[int64]*model.User, len(ids))
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

type fakeLocker struct {
	locked  bool
	lockErr error
}

func (f *fakeLocker) TryLock(context.Context, string, time.Duration) (bool, error) {
	if f.lockErr != nil {
		return false, f.lockErr
	}
	return !f.locked, nil
}

func (f *fakeLocker) Unlock(context.Context, string) error { return nil }

func newTestAttendanceService(store *fakeRecordStore) *AttendanceService {
	return NewAttendanceService(store, &fakeUserDirectory{users: map[int64]*model.User{}}, &fakeLocker{})
}

func floatPtr(v float64) *float64 { return &v }

func TestCheckInOpensSession(t *testing.T) {
	store := newFakeRecordStore()
	svc := newTestAttendanceService(store)

	record, err := svc.CheckIn(context.Background(), 7, dto.CheckInRequest{
		Latitude:  floatPtr(-6.2),
		Longitude: floatPtr(106.8),
	}, "photo.jpg")

	require.NoError(t, err)
	assert.Equal(t, int64(7), record.UserID)
	assert.Nil(t, record.CheckOutAt)
	assert.True(t, record.IsOpen())
	assert.Equal(t, model.AttendanceStatusIn, record.Status())
	assert.Equal(t, "photo.jpg", record.PhotoRef)
}

func TestCheckInRejectsSecondOpenSession(t *testing.T) {
	store := newFakeRecordStore()
	svc := newTestAttendanceService(store)

	_, err := svc.CheckIn(context.Background(), 7, dto.CheckInRequest{}, "")
	require.NoError(t, err)

	_, err = svc.CheckIn(context.Background(), 7, dto.CheckInRequest{}, "")
	assert.ErrorIs(t, err, pkgerrors.SessionConflict)
}

func TestCheckInMapsUniqueViolationToConflict(t *testing.T) {
	store := newFakeRecordStore()
	store.createErr = repository.ErrOpenSessionExists
	svc := newTestAttendanceService(store)

	_, err := svc.CheckIn(context.Background(), 7, dto.CheckInRequest{}, "")
	assert.ErrorIs(t, err, pkgerrors.SessionConflict)
}

func TestCheckInLockHeldByAnotherRequest(t *testing.T) {
	store := newFakeRecordStore()
	svc := NewAttendanceService(store, &fakeUserDirectory{}, &fakeLocker{locked: true})

	_, err := svc.CheckIn(context.Background(), 7, dto.CheckInRequest{}, "")
	assert.ErrorIs(t, err, pkgerrors.SessionConflict)
}

func TestCheckInDegradesWhenLockUnavailable(t *testing.T) {
	store := newFakeRecordStore()
	svc := NewAttendanceService(store, &fakeUserDirectory{}, &fakeLocker{lockErr: stderrors.New("redis down")})

	record, err := svc.CheckIn(context.Background(), 7, dto.CheckInRequest{}, "")
	require.NoError(t, err)
	assert.True(t, record.IsOpen())
}

func TestCheckInValidatesEvidence(t *testing.T) {
	store := newFakeRecordStore()
	svc := newTestAttendanceService(store)

	// 坐标必须成对出现
	_, err := svc.CheckIn(context.Background(), 7, dto.CheckInRequest{Latitude: floatPtr(1.0)}, "")
	assert.ErrorIs(t, err, pkgerrors.ValidationFailed)

	// 坐标要在取值范围内
	_, err = svc.CheckIn(context.Background(), 7, dto.CheckInRequest{
		Latitude:  floatPtr(91),
		Longitude: floatPtr(10),
	}, "")
	assert.ErrorIs(t, err, pkgerrors.ValidationFailed)
}

func TestCheckInConflictRemovesEvidencePhoto(t *testing.T) {
	prevDir := config.Cfg.UploadDir
	config.Cfg.UploadDir = t.TempDir()
	defer func() { config.Cfg.UploadDir = prevDir }()

	kept := filepath.Join(config.Cfg.UploadDir, "masuk.jpg")
	orphan := filepath.Join(config.Cfg.UploadDir, "ganda.jpg")
	require.NoError(t, os.WriteFile(kept, []byte("jpeg"), 0o644))
	require.NoError(t, os.WriteFile(orphan, []byte("jpeg"), 0o644))

	store := newFakeRecordStore()
	svc := newTestAttendanceService(store)

	_, err := svc.CheckIn(context.Background(), 7, dto.CheckInRequest{}, "masuk.jpg")
	require.NoError(t, err)

	// 冲突的第二次签到不能留下孤儿文件，成功那次的留证不受影响
	_, err = svc.CheckIn(context.Background(), 7, dto.CheckInRequest{}, "ganda.jpg")
	assert.ErrorIs(t, err, pkgerrors.SessionConflict)

	_, statErr := os.Stat(orphan)
	assert.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(kept)
	assert.NoError(t, statErr)
}

func TestCheckOutClosesOpenSession(t *testing.T) {
	store := newFakeRecordStore()
	svc := newTestAttendanceService(store)

	opened, err := svc.CheckIn(context.Background(), 7, dto.CheckInRequest{
		Latitude:  floatPtr(-6.2),
		Longitude: floatPtr(106.8),
	}, "in.jpg")
	require.NoError(t, err)

	closed, err := svc.CheckOut(context.Background(), 7, dto.CheckOutRequest{
		Latitude:  floatPtr(-6.3),
		Longitude: floatPtr(106.9),
	}, "out.jpg")
	require.NoError(t, err)

	assert.Equal(t, opened.ID, closed.ID)
	require.NotNil(t, closed.CheckOutAt)
	assert.Equal(t, model.AttendanceStatusOut, closed.Status())
	// 签退留证覆盖签到留证
	assert.Equal(t, -6.3, *closed.Latitude)
	assert.Equal(t, 106.9, *closed.Longitude)
	assert.Equal(t, "out.jpg", closed.PhotoRef)

	// 关闭后不再有开放会话
	_, err = svc.GetActive(context.Background(), 7)
	assert.ErrorIs(t, err, pkgerrors.SessionNotFound)
}

func TestCheckOutKeepsEvidenceWhenOmitted(t *testing.T) {
	store := newFakeRecordStore()
	svc := newTestAttendanceService(store)

	_, err := svc.CheckIn(context.Background(), 7, dto.CheckInRequest{
		Latitude:  floatPtr(-6.2),
		Longitude: floatPtr(106.8),
	}, "in.jpg")
	require.NoError(t, err)

	closed, err := svc.CheckOut(context.Background(), 7, dto.CheckOutRequest{}, "")
	require.NoError(t, err)
	assert.Equal(t, -6.2, *closed.Latitude)
	assert.Equal(t, "in.jpg", closed.PhotoRef)
}

func TestCheckOutWithoutOpenSession(t *testing.T) {
	store := newFakeRecordStore()
	svc := newTestAttendanceService(store)

	_, err := svc.CheckOut(context.Background(), 7, dto.CheckOutRequest{}, "")
	assert.ErrorIs(t, err, pkgerrors.SessionNotFound)
}

func TestCheckOutBeforeCheckInRejected(t *testing.T) {
	store := newFakeRecordStore()
	svc := newTestAttendanceService(store)

	_, err := svc.CheckIn(context.Background(), 7, dto.CheckInRequest{}, "")
	require.NoError(t, err)

	// 时钟倒退时不允许关闭会话
	svc.now = func() time.Time { return time.Now().Add(-time.Hour) }
	_, err = svc.CheckOut(context.Background(), 7, dto.CheckOutRequest{}, "")
	assert.ErrorIs(t, err, pkgerrors.InvariantViolation)
}

func TestCheckOutClosesNewestOpenSession(t *testing.T) {
	store := newFakeRecordStore()
	svc := newTestAttendanceService(store)

	old := time.Now().Add(-48 * time.Hour)
	oldOut := old.Add(8 * time.Hour)
	store.records[99] = &model.AttendanceRecord{
		BaseModel:  model.BaseModel{ID: 99},
		UserID:     7,
		CheckInAt:  old,
		CheckOutAt: &oldOut,
	}

	opened, err := svc.CheckIn(context.Background(), 7, dto.CheckInRequest{}, "")
	require.NoError(t, err)

	closed, err := svc.CheckOut(context.Background(), 7, dto.CheckOutRequest{}, "")
	require.NoError(t, err)
	assert.Equal(t, opened.ID, closed.ID)
}

// 完整走一遍签到/重复签到/签退/重复签退的状态机
func TestSessionLifecycle(t *testing.T) {
	store := newFakeRecordStore()
	svc := newTestAttendanceService(store)

	start := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return start }

	record, err := svc.CheckIn(context.Background(), 7, dto.CheckInRequest{}, "")
	require.NoError(t, err)
	assert.True(t, start.Equal(record.CheckInAt))
	assert.Nil(t, record.Latitude)
	assert.Equal(t, model.AttendanceStatusIn, record.Status())

	_, err = svc.CheckIn(context.Background(), 7, dto.CheckInRequest{}, "")
	assert.ErrorIs(t, err, pkgerrors.SessionConflict)

	svc.now = func() time.Time { return start.Add(time.Hour) }
	closed, err := svc.CheckOut(context.Background(), 7, dto.CheckOutRequest{}, "")
	require.NoError(t, err)
	assert.Equal(t, record.ID, closed.ID)
	require.NotNil(t, closed.CheckOutAt)
	assert.True(t, start.Add(time.Hour).Equal(*closed.CheckOutAt))
	assert.Equal(t, model.AttendanceStatusOut, closed.Status())

	_, err = svc.CheckOut(context.Background(), 7, dto.CheckOutRequest{}, "")
	assert.ErrorIs(t, err, pkgerrors.SessionNotFound)
}

func TestCheckInAfterCheckOutOpensNewRecord(t *testing.T) {
	store := newFakeRecordStore()
	svc := newTestAttendanceService(store)

	first, err := svc.CheckIn(context.Background(), 7, dto.CheckInRequest{}, "")
	require.NoError(t, err)

	_, err = svc.CheckOut(context.Background(), 7, dto.CheckOutRequest{}, "")
	require.NoError(t, err)

	second, err := svc.CheckIn(context.Background(), 7, dto.CheckInRequest{}, "")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	// 第一条已关闭，第二条是当前唯一的开放会话
	assert.False(t, store.records[first.ID].IsOpen())
	assert.True(t, store.records[second.ID].IsOpen())

	active, err := svc.GetActive(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)
}

func TestUpdateRecordRequiresAdmin(t *testing.T) {
	store := newFakeRecordStore()
	svc := newTestAttendanceService(store)

	record, err := svc.CheckIn(context.Background(), 7, dto.CheckInRequest{}, "")
	require.NoError(t, err)

	member := &model.User{BaseModel: model.BaseModel{ID: 7}, Role: model.UserRoleUser}
	_, err = svc.UpdateRecord(context.Background(), member, record.ID, dto.UpdateRecordRequest{})
	assert.ErrorIs(t, err, pkgerrors.Forbidden)
}

func TestUpdateRecordEnforcesCheckOutAfterCheckIn(t *testing.T) {
	store := newFakeRecordStore()
	svc := newTestAttendanceService(store)

	record, err := svc.CheckIn(context.Background(), 7, dto.CheckInRequest{}, "")
	require.NoError(t, err)

	admin := &model.User{BaseModel: model.BaseModel{ID: 1}, Role: model.UserRoleAdmin}
	badOut := record.CheckInAt.Add(-time.Hour)
	_, err = svc.UpdateRecord(context.Background(), admin, record.ID, dto.UpdateRecordRequest{
		CheckOutAt: &badOut,
	})
	assert.ErrorIs(t, err, pkgerrors.InvariantViolation)

	goodOut := record.CheckInAt.Add(8 * time.Hour)
	updated, err := svc.UpdateRecord(context.Background(), admin, record.ID, dto.UpdateRecordRequest{
		CheckOutAt: &goodOut,
	})
	require.NoError(t, err)
	assert.Equal(t, model.AttendanceStatusOut, updated.Status())
}

func TestUpdateRecordNotFound(t *testing.T) {
	store := newFakeRecordStore()
	svc := newTestAttendanceService(store)

	admin := &model.User{BaseModel: model.BaseModel{ID: 1}, Role: model.UserRoleAdmin}
	_, err := svc.UpdateRecord(context.Background(), admin, 12345, dto.UpdateRecordRequest{})
	assert.ErrorIs(t, err, pkgerrors.RecordNotFound)
}

func TestDeleteRecordOwnerAndAdmin(t *testing.T) {
	store := newFakeRecordStore()
	svc := newTestAttendanceService(store)

	record, err := svc.CheckIn(context.Background(), 7, dto.CheckInRequest{}, "")
	require.NoError(t, err)

	stranger := &model.User{BaseModel: model.BaseModel{ID: 8}, Role: model.UserRoleUser}
	err = svc.DeleteRecord(context.Background(), stranger, record.ID)
	assert.ErrorIs(t, err, pkgerrors.Forbidden)

	owner := &model.User{BaseModel: model.BaseModel{ID: 7}, Role: model.UserRoleUser}
	err = svc.DeleteRecord(context.Background(), owner, record.ID)
	require.NoError(t, err)

	err = svc.DeleteRecord(context.Background(), owner, record.ID)
	assert.ErrorIs(t, err, pkgerrors.RecordNotFound)
}

func TestListRecordsScopesNonAdminToSelf(t *testing.T) {
	store := newFakeRecordStore()
	svc := newTestAttendanceService(store)

	_, err := svc.CheckIn(context.Background(), 7, dto.CheckInRequest{}, "")
	require.NoError(t, err)
	_, err = svc.CheckIn(context.Background(), 8, dto.CheckInRequest{}, "")
	require.NoError(t, err)

	member := &model.User{BaseModel: model.BaseModel{ID: 7}, Role: model.UserRoleUser}
	// 普通用户即使指定了别人的 user_id 也只能看自己的
	records, total, err := svc.ListRecords(context.Background(), member, dto.ListRecordsQuery{UserID: "8"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, records, 1)
	assert.Equal(t, "7", records[0].UserID)
}

func TestListRecordsAdminFilters(t *testing.T) {
	store := newFakeRecordStore()
	svc := newTestAttendanceService(store)

	_, err := svc.CheckIn(context.Background(), 7, dto.CheckInRequest{}, "")
	require.NoError(t, err)
	_, err = svc.CheckIn(context.Background(), 8, dto.CheckInRequest{}, "")
	require.NoError(t, err)

	admin := &model.User{BaseModel: model.BaseModel{ID: 1}, Role: model.UserRoleAdmin}

	records, total, err := svc.ListRecords(context.Background(), admin, dto.ListRecordsQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, records, 2)

	records, _, err = svc.ListRecords(context.Background(), admin, dto.ListRecordsQuery{UserID: "8"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "8", records[0].UserID)

	_, _, err = svc.ListRecords(context.Background(), admin, dto.ListRecordsQuery{UserID: "not-a-number"})
	assert.ErrorIs(t, err, pkgerrors.InvalidUserID)
}

func TestListRecordsValidatesFilters(t *testing.T) {
	store := newFakeRecordStore()
	svc := newTestAttendanceService(store)
	admin := &model.User{BaseModel: model.BaseModel{ID: 1}, Role: model.UserRoleAdmin}

	_, _, err := svc.ListRecords(context.Background(), admin, dto.ListRecordsQuery{From: "03-01-2026"})
	assert.ErrorIs(t, err, pkgerrors.ValidationFailed)

	_, _, err = svc.ListRecords(context.Background(), admin, dto.ListRecordsQuery{Date: "bukan-tanggal"})
	assert.ErrorIs(t, err, pkgerrors.ValidationFailed)

	_, _, err = svc.ListRecords(context.Background(), admin, dto.ListRecordsQuery{Status: "paused"})
	assert.ErrorIs(t, err, pkgerrors.ValidationFailed)

	_, _, err = svc.ListRecords(context.Background(), admin, dto.ListRecordsQuery{Status: "in"})
	require.NoError(t, err)
}

func TestListRecordsSingleDayAscending(t *testing.T) {
	store := newFakeRecordStore()
	svc := newTestAttendanceService(store)
	admin := &model.User{BaseModel: model.BaseModel{ID: 1}, Role: model.UserRoleAdmin}

	_, _, err := svc.ListRecords(context.Background(), admin, dto.ListRecordsQuery{Date: "2026-08-29"})
	require.NoError(t, err)

	// 单日查询展开为 [当日零点, 次日零点) 且按签到时间升序
	require.NotNil(t, store.lastList.From)
	require.NotNil(t, store.lastList.To)
	assert.Equal(t, 24*time.Hour, store.lastList.To.Sub(*store.lastList.From))
	assert.True(t, store.lastList.Ascending)
}

func TestListRecordsPassesNameFilter(t *testing.T) {
	store := newFakeRecordStore()
	svc := newTestAttendanceService(store)
	admin := &model.User{BaseModel: model.BaseModel{ID: 1}, Role: model.UserRoleAdmin}

	_, _, err := svc.ListRecords(context.Background(), admin, dto.ListRecordsQuery{Name: "budi"})
	require.NoError(t, err)
	assert.Equal(t, "budi", store.lastList.NameContains)
}

func TestListRecordsNormalizesPagination(t *testing.T) {
	store := newFakeRecordStore()
	svc := newTestAttendanceService(store)
	admin := &model.User{BaseModel: model.BaseModel{ID: 1}, Role: model.UserRoleAdmin}

	// 缺省、超限、负偏移都按生效口径下推
	_, _, err := svc.ListRecords(context.Background(), admin, dto.ListRecordsQuery{})
	require.NoError(t, err)
	assert.Equal(t, dto.DefaultPageSize, store.lastList.Limit)
	assert.Equal(t, 0, store.lastList.Offset)

	_, _, err = svc.ListRecords(context.Background(), admin, dto.ListRecordsQuery{Limit: 500, Offset: -3})
	require.NoError(t, err)
	assert.Equal(t, dto.MaxPageSize, store.lastList.Limit)
	assert.Equal(t, 0, store.lastList.Offset)

	_, _, err = svc.ListRecords(context.Background(), admin, dto.ListRecordsQuery{Limit: 5, Offset: 10})
	require.NoError(t, err)
	assert.Equal(t, 5, store.lastList.Limit)
	assert.Equal(t, 10, store.lastList.Offset)
}

func TestListRecordsFiltersByNameCaseInsensitive(t *testing.T) {
	store := newFakeRecordStore()
	store.names = map[int64]string{7: "Alicia Putri", 8: "Budi Santoso"}
	users := &fakeUserDirectory{users: map[int64]*model.User{
		7: {BaseModel: model.BaseModel{ID: 7}, Name: "Alicia Putri"},
		8: {BaseModel: model.BaseModel{ID: 8}, Name: "Budi Santoso"},
	}}
	svc := NewAttendanceService(store, users, &fakeLocker{})

	_, err := svc.CheckIn(context.Background(), 7, dto.CheckInRequest{}, "")
	require.NoError(t, err)
	_, err = svc.CheckIn(context.Background(), 8, dto.CheckInRequest{}, "")
	require.NoError(t, err)

	admin := &model.User{BaseModel: model.BaseModel{ID: 1}, Role: model.UserRoleAdmin}

	// 大小写不敏感的子串匹配
	for _, needle := range []string{"ali", "ALI", "Alicia"} {
		records, total, err := svc.ListRecords(context.Background(), admin, dto.ListRecordsQuery{Name: needle})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, records, 1)
		assert.Equal(t, "Alicia Putri", records[0].UserName)
	}

	records, _, err := svc.ListRecords(context.Background(), admin, dto.ListRecordsQuery{Name: "tidak-ada"})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestListRecordsResolvesNames(t *testing.T) {
	store := newFakeRecordStore()
	users := &fakeUserDirectory{users: map[int64]*model.User{
		7: {BaseModel: model.BaseModel{ID: 7}, Name: "Budi"},
	}}
	svc := NewAttendanceService(store, users, &fakeLocker{})

	_, err := svc.CheckIn(context.Background(), 7, dto.CheckInRequest{}, "")
	require.NoError(t, err)
	_, err = svc.CheckIn(context.Background(), 8, dto.CheckInRequest{}, "")
	require.NoError(t, err)

	admin := &model.User{BaseModel: model.BaseModel{ID: 1}, Role: model.UserRoleAdmin}
	records, _, err := svc.ListRecords(context.Background(), admin, dto.ListRecordsQuery{})
	require.NoError(t, err)
	require.Len(t, records, 2)

	names := make(map[string]string, 2)
	for _, rec := range records {
		names[rec.UserID] = rec.UserName
	}
	assert.Equal(t, "Budi", names["7"])
	// 用户已注销时用占位名兜底
	assert.Equal(t, "User Tidak Dikenal", names["8"])
}
