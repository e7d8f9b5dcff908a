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
	"OnSite/pkg/photo"
	"OnSite/pkg/response"
)

// CheckIn 签到
// POST /v1/attendance/check-in
func CheckIn(ctx context.Context, c *app.RequestContext) {
	userID, ok := middleware.GetUserIDInt64(ctx, c)
	if !ok {
		response.Error(ctx, c, errors.Unauthorized)
		return
	}

	var req dto.MarkAttendanceRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	result, err := service.Attendance().CheckIn(ctx, userID, &req, time.Now(), "")
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// CheckOut 签退
// POST /v1/attendance/check-out
func CheckOut(ctx context.Context, c *app.RequestContext) {
	userID, ok := middleware.GetUserIDInt64(ctx, c)
	if !ok {
		response.Error(ctx, c, errors.Unauthorized)
		return
	}

	var req dto.MarkAttendanceRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	result, err := service.Attendance().CheckOut(ctx, userID, &req, time.Now(), "")
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// MarkWithPhoto 拍照打卡，multipart 表单：lat、lng、action、photo
// POST /v1/attendance/mark-with-photo
func MarkWithPhoto(ctx context.Context, c *app.RequestContext) {
	userID, ok := middleware.GetUserIDInt64(ctx, c)
	if !ok {
		response.Error(ctx, c, errors.Unauthorized)
		return
	}

	lat, latErr := strconv.ParseFloat(string(c.FormValue("lat")), 64)
	lng, lngErr := strconv.ParseFloat(string(c.FormValue("lng")), 64)
	if latErr != nil || lngErr != nil {
		response.Error(ctx, c, errors.InvalidCoordinate)
		return
	}

	action := string(c.FormValue("action"))
	if action != "check_in" && action != "check_out" {
		action = "check_in"
	}

	file, err := c.FormFile("photo")
	if err != nil {
		response.Error(ctx, c, errors.PhotoMissing)
		return
	}

	now := time.Now()

	// 照片先落盘再做状态迁移，保证已提交的打卡一定有对应照片
	filename, err := photo.Save(file, userID, action, now)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	req := dto.MarkAttendanceRequest{Lat: lat, Lng: lng}

	var result *dto.AttendanceData
	if action == "check_out" {
		result, err = service.Attendance().CheckOut(ctx, userID, &req, now, filename)
	} else {
		result, err = service.Attendance().CheckIn(ctx, userID, &req, now, filename)
	}
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// GetToday 查询当日考勤状态
// GET /v1/attendance/today
func GetToday(ctx context.Context, c *app.RequestContext) {
	userID, ok := middleware.GetUserIDInt64(ctx, c)
	if !ok {
		response.Error(ctx, c, errors.Unauthorized)
		return
	}

	result, err := service.Attendance().Today(ctx, userID, time.Now())
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// GetRecent 查询近期考勤记录
// GET /v1/attendance/recent
func GetRecent(ctx context.Context, c *app.RequestContext) {
	userID, ok := middleware.GetUserIDInt64(ctx, c)
	if !ok {
		response.Error(ctx, c, errors.Unauthorized)
		return
	}

	var query dto.RecentAttendanceQuery
	if err := c.BindQuery(&query); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	result, err := service.Attendance().Recent(ctx, userID, query.Limit)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}
