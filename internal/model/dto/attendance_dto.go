package dto

import "time"

// ========== Attendance 相关 DTO ==========

// MarkAttendanceRequest 签到 / 签退请求
type MarkAttendanceRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// AttendanceData 单条考勤记录
type AttendanceData struct {
	Day           string     `json:"day"`
	Status        string     `json:"status"`
	CheckInTime   *time.Time `json:"check_in_time"`
	CheckInLat    *float64   `json:"check_in_lat"`
	CheckInLng    *float64   `json:"check_in_lng"`
	CheckInPhoto  string     `json:"check_in_photo,omitempty"`
	CheckOutTime  *time.Time `json:"check_out_time"`
	CheckOutLat   *float64   `json:"check_out_lat"`
	CheckOutLng   *float64   `json:"check_out_lng"`
	CheckOutPhoto string     `json:"check_out_photo,omitempty"`
}

// TodayAttendanceData 当日考勤状态，未签到时 Record 为空
type TodayAttendanceData struct {
	Day    string          `json:"day"`
	Record *AttendanceData `json:"record,omitempty"`
}

// RecentAttendanceQuery 近期考勤查询参数
type RecentAttendanceQuery struct {
	Limit int `form:"limit"`
}
