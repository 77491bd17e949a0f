package handler

import (
	"context"

	"Presensia/internal/service"
	"Presensia/pkg/response"

	"github.com/cloudwego/hertz/pkg/app"
)

// GetDailyReport 管理员查询指定日期的考勤日报
// GET /v1/reports/daily?date=YYYY-MM-DD
func GetDailyReport(ctx context.Context, c *app.RequestContext) {
	actor, err := currentActor(ctx, c)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	report, err := service.Report().Daily(ctx, actor, c.Query("date"))
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, report)
}
