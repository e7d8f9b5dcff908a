package model

import "time"

// LocationPing 位置流水，只追加不修改。ID 由 snowflake 生成
type LocationPing struct {
	ID             int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	UserID         int64     `gorm:"not null;index:idx_pings_user_ts,priority:1" json:"user_id"`
	Timestamp      time.Time `gorm:"not null;index:idx_pings_user_ts,priority:2" json:"timestamp"`
	Lat            float64   `gorm:"not null" json:"lat"`
	Lng            float64   `gorm:"not null" json:"lng"`
	InsideGeofence bool      `gorm:"not null" json:"inside_geofence"`
	CreatedAt      time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (LocationPing) TableName() string {
	return "location_pings"
}
