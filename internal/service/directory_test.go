package service

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Presensia/internal/cache"
	"Presensia/internal/model"
)

func TestCachedDirectoryServesHitsAndBackfillsMisses(t *testing.T) {
	repo := &fakeUserDirectory{users: map[int64]*model.User{
		8: {BaseModel: model.BaseModel{ID: 8}, Name: "Budi", Role: model.UserRoleUser},
	}}

	var backfilled []int64
	dir := &cachedUserDirectory{
		repo: repo,
		getSnapshots: func(_ context.Context, _ []int64) (map[int64]*cache.UserSnapshot, error) {
			return map[int64]*cache.UserSnapshot{
				7: {ID: 7, Name: "Alicia", Role: "user", Status: "active"},
			}, nil
		},
		setSnapshot: func(_ context.Context, id int64, _ *cache.UserSnapshot) error {
			backfilled = append(backfilled, id)
			return nil
		},
	}

	out, err := dir.ListByIDs(context.Background(), []int64{7, 8})
	require.NoError(t, err)
	require.Len(t, out, 2)

	// 命中走快照，未命中回表并回填
	assert.Equal(t, "Alicia", out[7].Name)
	assert.Equal(t, "Budi", out[8].Name)
	assert.Equal(t, []int64{8}, backfilled)
}

func TestCachedDirectoryDegradesWhenCacheUnavailable(t *testing.T) {
	repo := &fakeUserDirectory{users: map[int64]*model.User{
		7: {BaseModel: model.BaseModel{ID: 7}, Name: "Budi"},
	}}

	dir := &cachedUserDirectory{
		repo: repo,
		getSnapshots: func(_ context.Context, _ []int64) (map[int64]*cache.UserSnapshot, error) {
			return nil, stderrors.New("redis down")
		},
		setSnapshot: func(_ context.Context, _ int64, _ *cache.UserSnapshot) error {
			return nil
		},
	}

	out, err := dir.ListByIDs(context.Background(), []int64{7})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Budi", out[7].Name)
}
