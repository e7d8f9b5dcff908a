package router

import (
	"github.com/cloudwego/hertz/pkg/app/server"

	"OnSite/config"
	"OnSite/internal/handler"
	"OnSite/internal/middleware"
)

func Register(h *server.Hertz) {

	h.Use(middleware.RecoverMiddleware())
	h.Use(middleware.CORSMiddleware())
	if config.Cfg.TracingEnabled {
		h.Use(middleware.OpenTelemetryMiddleware())
	}

	v1 := h.Group("/v1")

	// 认证相关路由
	auth := v1.Group("/auth")
	auth.Use(middleware.AuthRateLimitMiddleware())
	{
		auth.POST("/register", handler.Register)
		auth.POST("/login", handler.Login)
		auth.POST("/token/refresh", handler.RefreshToken)
	}

	// 用户相关路由
	users := v1.Group("/users")
	users.Use(middleware.AuthMiddleware())
	{
		users.GET("/me", handler.GetProfile)
	}

	// 围栏信息：普通用户只读
	geofence := v1.Group("/geofence")
	geofence.Use(middleware.AuthMiddleware())
	{
		geofence.GET("", handler.GetGeofenceInfo)
	}

	// 考勤路由
	attendance := v1.Group("/attendance")
	attendance.Use(middleware.AuthMiddleware(), middleware.GeneralRateLimitMiddleware())
	{
		attendance.POST("/check-in", handler.CheckIn)
		attendance.POST("/check-out", handler.CheckOut)
		attendance.POST("/mark-with-photo", handler.MarkWithPhoto)
		attendance.GET("/today", handler.GetToday)
		attendance.GET("/recent", handler.GetRecent)
	}

	// 位置上报路由，高频接口单独限流
	pings := v1.Group("/pings")
	pings.Use(middleware.AuthMiddleware(), middleware.PingRateLimitMiddleware())
	{
		pings.POST("", handler.RecordPing)
	}

	// 管理员路由
	admin := v1.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.GET("/geofence", handler.GetGeofenceInfo)
		admin.PUT("/geofence", handler.SetGeofence)
		admin.GET("/users/:user_id/movement", handler.GetMovement)
	}
}
