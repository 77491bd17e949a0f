package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"Presensia/internal/cache"
	"Presensia/internal/model"
	"Presensia/internal/model/dto"
	"Presensia/internal/repository"
	pkgerrors "Presensia/pkg/errors"
	"Presensia/pkg/logger"
	"Presensia/pkg/snowflake"
	"Presensia/pkg/token"
	"Presensia/storage/database"
	"Presensia/utils"
)

const minPasswordLength = 8

var (
	authService *AuthService
	authOnce    sync.Once
)

func Auth() *AuthService {
	authOnce.Do(func() {
		authService = NewAuthService(repository.NewUserRepository(database.DB()))
	})
	return authService
}

type AuthService struct {
	users *repository.UserRepository
}

func NewAuthService(users *repository.UserRepository) *AuthService {
	return &AuthService{users: users}
}

// Register 注册新用户并签发 token
func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	name := strings.TrimSpace(req.Name)

	if name == "" || !utils.ValidateEmail(email) || len(req.Password) < minPasswordLength {
		return nil, pkgerrors.ValidationFailed
	}
	if req.Phone != "" && !utils.ValidatePhone(req.Phone) {
		return nil, pkgerrors.ValidationFailed
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, pkgerrors.EmailAlreadyRegistered
	} else if !stderrors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to query user by email: %w", err)
	}

	publicID, err := snowflake.NextID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate public id: %w", err)
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		PublicID:     publicID,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Phone:        req.Phone,
		Role:         model.UserRoleUser,
		Status:       model.UserStatusActive,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.Logger.Info("User registered",
		zap.Int64("public_id", user.PublicID),
		zap.String("email", user.Email),
	)

	return s.issueTokens(ctx, user)
}

// Login 邮箱密码登录
// 查不到用户和密码不对返回同一个错误码，不泄露邮箱是否注册
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, pkgerrors.CredentialsInvalid
		}
		return nil, fmt.Errorf("failed to query user by email: %w", err)
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		return nil, pkgerrors.CredentialsInvalid
	}

	if user.Status != model.UserStatusActive {
		return nil, pkgerrors.Forbidden
	}

	return s.issueTokens(ctx, user)
}

// Refresh 用 refresh token 换取新的 token 对
// Redis 中的 token 必须与提交的一致，换发后旧 token 作废
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.AuthResponse, error) {
	uid, err := token.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, pkgerrors.Unauthorized
	}

	if !cache.ValidateRefreshTokenExists(ctx, uid, refreshToken) {
		return nil, pkgerrors.Unauthorized
	}

	publicID, err := strconv.ParseInt(uid, 10, 64)
	if err != nil {
		return nil, pkgerrors.InvalidUserID
	}

	user, err := s.users.GetByPublicID(ctx, publicID)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, pkgerrors.UserNotFound
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	if user.Status != model.UserStatusActive {
		return nil, pkgerrors.Forbidden
	}

	return s.issueTokens(ctx, user)
}

// Logout 删除 refresh token，access token 自然过期
func (s *AuthService) Logout(ctx context.Context, publicID int64) error {
	return cache.DeleteRefreshToken(ctx, strconv.FormatInt(publicID, 10))
}

func (s *AuthService) issueTokens(ctx context.Context, user *model.User) (*dto.AuthResponse, error) {
	uid := strconv.FormatInt(user.PublicID, 10)

	accessToken, refreshToken, expiresIn, err := token.GenerateTokenPair(uid)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token pair: %w", err)
	}

	if err := cache.SetRefreshToken(ctx, uid, refreshToken); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
		User: dto.AuthUserSnapshot{
			ID:     uid,
			Name:   user.Name,
			Email:  user.Email,
			Role:   string(user.Role),
			Status: string(user.Status),
		},
	}, nil
}
