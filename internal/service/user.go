package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"Presensia/internal/cache"
	"Presensia/internal/model"
	"Presensia/internal/model/dto"
	"Presensia/internal/repository"
	pkgerrors "Presensia/pkg/errors"
	"Presensia/pkg/logger"
	"Presensia/storage/database"
	"Presensia/utils"
)

// api 中暴露的 user_id 是 public_id

var (
	userService *UserService
	userOnce    sync.Once
)

func User() *UserService {
	userOnce.Do(func() {
		userService = NewUserService(repository.NewUserRepository(database.DB()))
	})
	return userService
}

type UserService struct {
	users *repository.UserRepository
}

func NewUserService(users *repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// GetByPublicID 根据 public_id 加载用户，带快照缓存
// 鉴权中间件每个请求都会走这里
func (s *UserService) GetByPublicID(ctx context.Context, publicID int64) (*model.User, error) {
	snapshot, err := cache.GetUserSnapshot(ctx, publicID)
	if err != nil {
		logger.Logger.Warn("Failed to read user snapshot cache",
			zap.Int64("public_id", publicID),
			zap.Error(err),
		)
	}
	if snapshot != nil {
		return &model.User{
			BaseModel: model.BaseModel{ID: snapshot.ID},
			PublicID:  snapshot.PublicID,
			Name:      snapshot.Name,
			Email:     snapshot.Email,
			Role:      model.UserRole(snapshot.Role),
			Status:    model.UserStatus(snapshot.Status),
		}, nil
	}

	user, err := s.users.GetByPublicID(ctx, publicID)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, pkgerrors.UserNotFound
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	if err := cache.SetUserSnapshot(ctx, publicID, &cache.UserSnapshot{
		ID:        user.ID,
		PublicID:  user.PublicID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      string(user.Role),
		Status:    string(user.Status),
		UpdatedAt: user.UpdatedAt.Unix(),
	}); err != nil {
		logger.Logger.Warn("Failed to write user snapshot cache",
			zap.Int64("public_id", publicID),
			zap.Error(err),
		)
	}

	return user, nil
}

// ResolveActor 从 JWT 的 uid 字符串解析出当前用户
func (s *UserService) ResolveActor(ctx context.Context, uid string) (*model.User, error) {
	publicID, err := strconv.ParseInt(uid, 10, 64)
	if err != nil {
		return nil, pkgerrors.InvalidUserID
	}
	return s.GetByPublicID(ctx, publicID)
}

// GetProfile 获取用户资料
func (s *UserService) GetProfile(ctx context.Context, publicID int64) (*dto.UserProfileData, error) {
	user, err := s.users.GetByPublicID(ctx, publicID)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, pkgerrors.UserNotFound
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return &dto.UserProfileData{
		ID:       strconv.FormatInt(user.PublicID, 10),
		PublicID: strconv.FormatInt(user.PublicID, 10),
		Name:     user.Name,
		Email:    user.Email,
		Phone:    user.Phone,
		Role:     string(user.Role),
		Status:   string(user.Status),
	}, nil
}

// UpdateProfile 更新用户资料，成功后失效快照缓存
func (s *UserService) UpdateProfile(ctx context.Context, publicID int64, req dto.UpdateProfileRequest) (*dto.UserProfileData, error) {
	user, err := s.users.GetByPublicID(ctx, publicID)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, pkgerrors.UserNotFound
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, pkgerrors.ValidationFailed
		}
		user.Name = name
	}
	if req.Phone != nil {
		if *req.Phone != "" && !utils.ValidatePhone(*req.Phone) {
			return nil, pkgerrors.ValidationFailed
		}
		user.Phone = *req.Phone
	}
	user.UpdatedAt = time.Now()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	if err := cache.InvalidateUserSnapshot(ctx, publicID); err != nil {
		logger.Logger.Warn("Failed to invalidate user snapshot cache",
			zap.Int64("public_id", publicID),
			zap.Error(err),
		)
	}
	if err := cache.InvalidateUserSnapshotByID(ctx, user.ID); err != nil {
		logger.Logger.Warn("Failed to invalidate user directory cache",
			zap.Int64("user_id", user.ID),
			zap.Error(err),
		)
	}

	return s.GetProfile(ctx, publicID)
}
