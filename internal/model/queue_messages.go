package model

// 考勤事件的交换机与路由键
const (
	ExchangeEvents       = "events.topic"
	ExchangeNotification = "notification.topic"

	QueueAttendanceEvents = "attendance.events"
	QueueAttendanceMissed = "attendance.missed"

	RoutingKeyCheckIn        = "attendance.check_in"
	RoutingKeyCheckOut       = "attendance.check_out"
	RoutingKeyMissedCheckOut = "notification.attendance.missed_check_out"
)

type AttendanceEventType string

const (
	AttendanceEventCheckIn  AttendanceEventType = "check_in"
	AttendanceEventCheckOut AttendanceEventType = "check_out"
)

// AttendanceEventMessage 签到/签退成功后投递的考勤事件
type AttendanceEventMessage struct {
	MessageID  string              `json:"message_id"`
	EventType  AttendanceEventType `json:"event_type"`
	UserID     int64               `json:"user_id"`
	Day        string              `json:"day"`
	OccurredAt string              `json:"occurred_at"`
	Lat        float64             `json:"lat"`
	Lng        float64             `json:"lng"`
	DistanceM  float64             `json:"distance_m"`
}

// MissedCheckOutMessage 调度器扫描出的漏签退批次
type MissedCheckOutMessage struct {
	MessageID   string  `json:"message_id"`
	BatchID     string  `json:"batch_id"`
	Day         string  `json:"day"`
	ScheduledAt string  `json:"scheduled_at"`
	UserIDs     []int64 `json:"user_ids"`
}
