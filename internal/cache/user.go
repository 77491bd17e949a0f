package cache

import (
	"context"
	"strconv"
)

// 缓存用户快照，避免每次鉴权和报表拼装都回表
// 资料更新时删除缓存，下次读取回源

// UserSnapshot 用户快照缓存结构
type UserSnapshot struct {
	ID       int64  `json:"id"`
	PublicID int64  `json:"public_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Status   string `json:"status"`

	UpdatedAt int64 `json:"updated_at"` // 版本号
}

func SetUserSnapshot(ctx context.Context, userID int64, snapshot *UserSnapshot) error {
	key := strconv.FormatInt(userID, 10)
	return UserProtectedCache.Set(ctx, key, snapshot)
}

// GetUserSnapshot 获取用户快照（带空值保护），未命中返回 nil
func GetUserSnapshot(ctx context.Context, userID int64) (*UserSnapshot, error) {
	key := strconv.FormatInt(userID, 10)
	var snapshot UserSnapshot

	hit, err := UserProtectedCache.Get(ctx, key, &snapshot)
	if err != nil {
		return nil, err
	}

	if hit {
		return &snapshot, nil
	}

	return nil, nil // 缓存未命中
}

// InvalidateUserSnapshot 资料更新时删除缓存
func InvalidateUserSnapshot(ctx context.Context, userID int64) error {
	key := strconv.FormatInt(userID, 10)
	return UserProtectedCache.Delete(ctx, key)
}

// GetUserSnapshotsByID 按内部 ID 批量读取用户快照，只返回命中的部分
// 空值命中（用户不存在的负缓存）不进结果集
func GetUserSnapshotsByID(ctx context.Context, ids []int64) (map[int64]*UserSnapshot, error) {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = strconv.FormatInt(id, 10)
	}

	raw, err := UserDirectoryCache.BatchGet(ctx, keys, func(string) interface{} {
		return &UserSnapshot{}
	})
	if err != nil {
		return nil, err
	}

	out := make(map[int64]*UserSnapshot, len(raw))
	for key, v := range raw {
		if IsEmptyValue(v) {
			continue
		}
		snapshot, ok := v.(*UserSnapshot)
		if !ok {
			continue
		}
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			continue
		}
		out[id] = snapshot
	}
	return out, nil
}

// SetUserSnapshotByID 回表后回填按内部 ID 的快照
func SetUserSnapshotByID(ctx context.Context, id int64, snapshot *UserSnapshot) error {
	return UserDirectoryCache.Set(ctx, strconv.FormatInt(id, 10), snapshot)
}

// InvalidateUserSnapshotByID 资料更新时同步失效按内部 ID 的快照
func InvalidateUserSnapshotByID(ctx context.Context, id int64) error {
	return UserDirectoryCache.Delete(ctx, strconv.FormatInt(id, 10))
}
