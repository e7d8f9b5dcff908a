package model

// Geofence 单活动圆形围栏，激活的始终只有一条记录
type Geofence struct {
	BaseModel
	Name      string  `gorm:"size:100;not null" json:"name"`
	CenterLat float64 `gorm:"not null" json:"center_lat"`
	CenterLng float64 `gorm:"not null" json:"center_lng"`
	RadiusM   float64 `gorm:"not null" json:"radius_m"`
	Active    bool    `gorm:"not null;default:true;index" json:"active"`
}

func (Geofence) TableName() string {
	return "geofences"
}
