package dto

// ========== Geofence 相关 DTO ==========

// SetGeofenceRequest 管理员设置活动围栏请求
type SetGeofenceRequest struct {
	Name    string  `json:"name" binding:"required"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	RadiusM float64 `json:"radius_m"`
}

// GeofenceData 活动围栏信息
type GeofenceData struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	CenterLat float64 `json:"center_lat"`
	CenterLng float64 `json:"center_lng"`
	RadiusM   float64 `json:"radius_m"`
}

// GeofenceInfoData 普通用户视角的围栏信息，可能尚未配置
type GeofenceInfoData struct {
	HasGeofence bool          `json:"has_geofence"`
	Geofence    *GeofenceData `json:"geofence,omitempty"`
}

// MembershipData 一次坐标归属判定的结果
type MembershipData struct {
	DistanceM float64 `json:"distance_m"`
	Inside    bool    `json:"inside"`
}
