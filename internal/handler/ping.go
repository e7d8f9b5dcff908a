package handler

import (
	"context"
	"strconv"
	"time"

	"github.com/cloudwego/hertz/pkg/app"

	"OnSite/internal/middleware"
	"OnSite/internal/model/dto"
	"OnSite/internal/service"
	"OnSite/pkg/errors"
	"OnSite/pkg/response"
)

// RecordPing 上报一次位置
// POST /v1/pings
func RecordPing(ctx context.Context, c *app.RequestContext) {
	userID, ok := middleware.GetUserIDInt64(ctx, c)
	if !ok {
		response.Error(ctx, c, errors.Unauthorized)
		return
	}

	var req dto.PingRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	result, err := service.Ping().Ingest(ctx, userID, &req, time.Now())
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// GetMovement 查询某用户某考勤日的轨迹（管理员）
// GET /v1/admin/users/:user_id/movement
func GetMovement(ctx context.Context, c *app.RequestContext) {
	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		response.Error(ctx, c, errors.InvalidUserID)
		return
	}

	var query dto.MovementQuery
	if err := c.BindQuery(&query); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	result, err := service.Ping().Movement(ctx, userID, query.Day, time.Now())
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}
