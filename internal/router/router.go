package router

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"Presensia/config"
	"Presensia/internal/handler"
	"Presensia/internal/middleware"
)

func Register(h *server.Hertz) {

	h.Use(middleware.RecoverMiddleware())
	h.Use(middleware.CORSMiddleware())
	h.Use(middleware.GeneralRateLimitMiddleware())
	if config.Cfg.OTLPEndpoint != "" {
		h.Use(middleware.OpenTelemetryMiddleware())
	}

	h.GET("/healthz", func(ctx context.Context, c *app.RequestContext) {
		c.JSON(consts.StatusOK, map[string]string{"status": "ok"})
	})

	// 照片留证静态访问
	h.StaticFS("/uploads", &app.FS{
		Root:               config.Cfg.UploadDir,
		PathRewrite:        app.NewPathSlashesStripper(1),
		AcceptByteRange:    true,
		IndexNames:         nil,
		GenerateIndexPages: false,
	})

	v1 := h.Group("/v1")

	// 认证相关路由
	auth := v1.Group("/auth")
	auth.Use(middleware.AuthRateLimitMiddleware()) // 认证接口限流
	{
		auth.POST("/register", handler.Register)
		auth.POST("/login", handler.Login)
		auth.POST("/token/refresh", handler.RefreshToken)
		auth.POST("/logout", middleware.AuthMiddleware(), handler.Logout)
	}

	// 用户相关路由
	users := v1.Group("/users")
	users.Use(middleware.AuthMiddleware())
	{
		users.GET("/me", handler.GetUserProfile)
		users.PATCH("/me", handler.UpdateUserProfile)
	}

	// 考勤路由
	attendance := v1.Group("/attendance")
	attendance.Use(middleware.AuthMiddleware())
	{
		attendance.POST("/check-in", middleware.AttendanceRateLimitMiddleware(), handler.CheckIn)
		attendance.POST("/check-out", middleware.AttendanceRateLimitMiddleware(), handler.CheckOut)
		attendance.GET("/active", handler.GetActiveSession)
		attendance.GET("/records", handler.ListRecords)
		attendance.PATCH("/records/:record_id", handler.UpdateRecord)
		attendance.DELETE("/records/:record_id", handler.DeleteRecord)
	}

	// 报表路由
	reports := v1.Group("/reports")
	reports.Use(middleware.AuthMiddleware())
	{
		reports.GET("/daily", handler.GetDailyReport)
	}
}
