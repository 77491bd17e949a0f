package service

import (
	"context"

	"go.uber.org/zap"

	"Presensia/internal/cache"
	"Presensia/internal/model"
	"Presensia/pkg/logger"
)

// cachedUserDirectory 批量用户查询先走快照缓存，缺的回表并回填
// 报表和列表每次都要拼装用户名，全部回表会放大读压力
type cachedUserDirectory struct {
	repo UserDirectory

	getSnapshots func(ctx context.Context, ids []int64) (map[int64]*cache.UserSnapshot, error)
	setSnapshot  func(ctx context.Context, id int64, snapshot *cache.UserSnapshot) error
}

func newCachedUserDirectory(repo UserDirectory) *cachedUserDirectory {
	return &cachedUserDirectory{
		repo:         repo,
		getSnapshots: cache.GetUserSnapshotsByID,
		setSnapshot:  cache.SetUserSnapshotByID,
	}
}

func (d *cachedUserDirectory) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return d.repo.GetByID(ctx, id)
}

func (d *cachedUserDirectory) ListByIDs(ctx context.Context, ids []int64) (map[int64]*model.User, error) {
	result := make(map[int64]*model.User, len(ids))

	snapshots, err := d.getSnapshots(ctx, ids)
	if err != nil {
		// 缓存不可用时降级为全量回表
		logger.Logger.Warn("Failed to batch read user snapshot cache", zap.Error(err))
		snapshots = nil
	}

	missing := make([]int64, 0, len(ids))
	for _, id := range ids {
		if snapshot, ok := snapshots[id]; ok {
			result[id] = snapshotToUser(snapshot)
			continue
		}
		missing = append(missing, id)
	}

	if len(missing) == 0 {
		return result, nil
	}

	users, err := d.repo.ListByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}

	for id, u := range users {
		result[id] = u
		if err := d.setSnapshot(ctx, id, &cache.UserSnapshot{
			ID:        u.ID,
			PublicID:  u.PublicID,
			Name:      u.Name,
			Email:     u.Email,
			Role:      string(u.Role),
			Status:    string(u.Status),
			UpdatedAt: u.UpdatedAt.Unix(),
		}); err != nil {
			logger.Logger.Warn("Failed to backfill user snapshot cache",
				zap.Int64("user_id", id),
				zap.Error(err),
			)
		}
	}
	return result, nil
}

func snapshotToUser(s *cache.UserSnapshot) *model.User {
	return &model.User{
		BaseModel: model.BaseModel{ID: s.ID},
		PublicID:  s.PublicID,
		Name:      s.Name,
		Email:     s.Email,
		Role:      model.UserRole(s.Role),
		Status:    model.UserStatus(s.Status),
	}
}
