package model

import "time"

type AttendanceStatus string

const (
	AttendanceStatusPresent AttendanceStatus = "Present"
)

// Attendance 每个用户每个考勤日至多一条记录，仅在首次成功签到时创建
type Attendance struct {
	BaseModel
	UserID int64  `gorm:"not null;uniqueIndex:idx_attendance_user_day" json:"user_id"`
	Day    string `gorm:"type:date;not null;uniqueIndex:idx_attendance_user_day" json:"day"`

	CheckInTime  *time.Time `json:"check_in_time"`
	CheckInLat   *float64   `json:"check_in_lat"`
	CheckInLng   *float64   `json:"check_in_lng"`
	CheckInPhoto string     `gorm:"size:255" json:"check_in_photo,omitempty"`

	CheckOutTime  *time.Time `json:"check_out_time"`
	CheckOutLat   *float64   `json:"check_out_lat"`
	CheckOutLng   *float64   `json:"check_out_lng"`
	CheckOutPhoto string     `gorm:"size:255" json:"check_out_photo,omitempty"`

	Status AttendanceStatus `gorm:"size:20;not null;default:'Present'" json:"status"`
}

func (Attendance) TableName() string {
	return "attendances"
}

// CheckedIn 已签到（不论是否已签退）
func (a *Attendance) CheckedIn() bool {
	return a != nil && a.CheckInTime != nil
}

// CheckedOut 已完成签退
func (a *Attendance) CheckedOut() bool {
	return a != nil && a.CheckOutTime != nil
}
