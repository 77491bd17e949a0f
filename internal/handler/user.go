package handler

import (
	"context"

	"Presensia/internal/model/dto"
	"Presensia/internal/service"
	"Presensia/pkg/response"

	"github.com/cloudwego/hertz/pkg/app"
)

// GetUserProfile 获取当前用户资料
// GET /v1/users/me
func GetUserProfile(ctx context.Context, c *app.RequestContext) {
	actor, err := currentActor(ctx, c)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	profile, err := service.User().GetProfile(ctx, actor.PublicID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, profile)
}

// UpdateUserProfile 更新当前用户资料
// PATCH /v1/users/me
func UpdateUserProfile(ctx context.Context, c *app.RequestContext) {
	actor, err := currentActor(ctx, c)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.BindJSON(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	profile, err := service.User().UpdateProfile(ctx, actor.PublicID, req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, profile)
}
