package dto

import "time"

// ========== LocationPing 相关 DTO ==========

// PingRequest 上报一次位置
type PingRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// PingData 一条位置流水
type PingData struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	Timestamp      time.Time `json:"timestamp"`
	Lat            float64   `json:"lat"`
	Lng            float64   `json:"lng"`
	InsideGeofence bool      `json:"inside_geofence"`
	DistanceM      float64   `json:"distance_m,omitempty"`
}

// MovementQuery 轨迹查询参数，Day 为空时默认当天
type MovementQuery struct {
	Day string `form:"day"`
}

// MovementData 某用户某考勤日的轨迹
type MovementData struct {
	UserID int64      `json:"user_id"`
	Day    string     `json:"day"`
	Pings  []PingData `json:"pings"`
}
