package handler

import (
	"context"

	"Presensia/internal/middleware"
	"Presensia/internal/model"
	"Presensia/internal/service"
	pkgerrors "Presensia/pkg/errors"

	"github.com/cloudwego/hertz/pkg/app"
)

// currentActor 从 JWT 身份解析出当前用户
func currentActor(ctx context.Context, c *app.RequestContext) (*model.User, error) {
	uid, ok := middleware.GetUserID(ctx, c)
	if !ok {
		return nil, pkgerrors.Unauthorized
	}
	return service.User().ResolveActor(ctx, uid)
}
