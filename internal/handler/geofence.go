package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"OnSite/internal/model/dto"
	"OnSite/internal/service"
	"OnSite/pkg/response"
)

// GetGeofenceInfo 查询当前活动围栏
// GET /v1/geofence
func GetGeofenceInfo(ctx context.Context, c *app.RequestContext) {
	result, err := service.Geofence().Info(ctx)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// SetGeofence 设置活动围栏（管理员）
// PUT /v1/admin/geofence
func SetGeofence(ctx context.Context, c *app.RequestContext) {
	var req dto.SetGeofenceRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	result, err := service.Geofence().SetActive(ctx, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}
