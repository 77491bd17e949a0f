package handler

import (
	"context"
	"strconv"

	"Presensia/internal/model/dto"
	"Presensia/internal/service"
	pkgerrors "Presensia/pkg/errors"
	"Presensia/pkg/filestore"
	"Presensia/pkg/response"

	"github.com/cloudwego/hertz/pkg/app"
)

// bindEvidencePhoto 从 multipart 里取可选的 photo 字段并落盘
func bindEvidencePhoto(c *app.RequestContext) (string, error) {
	fh, err := c.FormFile("photo")
	if err != nil || fh == nil {
		// 照片是可选留证，没有就跳过
		return "", nil
	}
	return filestore.SavePhoto(fh)
}

// CheckIn 签到，开启考勤会话
// POST /v1/attendance/check-in
func CheckIn(ctx context.Context, c *app.RequestContext) {
	actor, err := currentActor(ctx, c)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	var req dto.CheckInRequest
	if err := c.Bind(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	photoRef, err := bindEvidencePhoto(c)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	record, err := service.Attendance().CheckIn(ctx, actor.ID, req, photoRef)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Created(ctx, c, service.RecordToData(record, actor.DisplayName()))
}

// CheckOut 签退，关闭当前开放会话
// POST /v1/attendance/check-out
func CheckOut(ctx context.Context, c *app.RequestContext) {
	actor, err := currentActor(ctx, c)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	var req dto.CheckOutRequest
	if err := c.Bind(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	photoRef, err := bindEvidencePhoto(c)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	record, err := service.Attendance().CheckOut(ctx, actor.ID, req, photoRef)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, service.RecordToData(record, actor.DisplayName()))
}

// GetActiveSession 查询当前开放会话
// GET /v1/attendance/active
func GetActiveSession(ctx context.Context, c *app.RequestContext) {
	actor, err := currentActor(ctx, c)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	record, err := service.Attendance().GetActive(ctx, actor.ID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, service.RecordToData(record, actor.DisplayName()))
}

// ListRecords 查询考勤记录列表
// GET /v1/attendance/records
func ListRecords(ctx context.Context, c *app.RequestContext) {
	actor, err := currentActor(ctx, c)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	var query dto.ListRecordsQuery
	if err := c.BindQuery(&query); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	data, total, err := service.Attendance().ListRecords(ctx, actor, query)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	// meta 回显实际生效的分页口径，而不是客户端原始参数
	response.SuccessWithMeta(ctx, c, data, map[string]interface{}{
		"total":  total,
		"limit":  query.EffectiveLimit(),
		"offset": query.EffectiveOffset(),
	})
}

// UpdateRecord 管理员修正考勤记录
// PATCH /v1/attendance/records/:record_id
func UpdateRecord(ctx context.Context, c *app.RequestContext) {
	actor, err := currentActor(ctx, c)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	recordID, err := strconv.ParseInt(c.Param("record_id"), 10, 64)
	if err != nil {
		response.Error(ctx, c, pkgerrors.ValidationFailed)
		return
	}

	var req dto.UpdateRecordRequest
	if err := c.BindJSON(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	record, err := service.Attendance().UpdateRecord(ctx, actor, recordID, req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, service.RecordToData(record, ""))
}

// DeleteRecord 删除考勤记录，本人或管理员可操作
// DELETE /v1/attendance/records/:record_id
func DeleteRecord(ctx context.Context, c *app.RequestContext) {
	actor, err := currentActor(ctx, c)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	recordID, err := strconv.ParseInt(c.Param("record_id"), 10, 64)
	if err != nil {
		response.Error(ctx, c, pkgerrors.ValidationFailed)
		return
	}

	if err := service.Attendance().DeleteRecord(ctx, actor, recordID); err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.NoContent(ctx, c)
}
