package utils

import (
	"time"

	"OnSite/config"
)

const (
	DayLayout       = "2006-01-02"
	TimestampLayout = time.RFC3339
)

// AttendanceLocation 返回考勤日归属时区，配置非法时退回 UTC
func AttendanceLocation() *time.Location {
	loc, err := time.LoadLocation(config.Cfg.AttendanceTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DayOf 计算时间戳归属的考勤日（YYYY-MM-DD）
func DayOf(t time.Time) string {
	return t.In(AttendanceLocation()).Format(DayLayout)
}

// ParseDay 解析 YYYY-MM-DD 格式的考勤日
func ParseDay(s string) (time.Time, error) {
	return time.ParseInLocation(DayLayout, s, AttendanceLocation())
}

// DayBounds 返回考勤日对应的 [start, end) 时间区间
func DayBounds(day time.Time) (time.Time, time.Time) {
	loc := AttendanceLocation()
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	return start, start.Add(24 * time.Hour)
}

// ParseClock 解析时间字符串（格式：HH:MM:SS）并应用到指定日期
func ParseClock(clock string, date time.Time) (time.Time, error) {
	if clock == "" {
		return date, nil
	}

	parsed, err := time.Parse("15:04:05", clock)
	if err != nil {
		return date, err
	}

	return time.Date(
		date.Year(),
		date.Month(),
		date.Day(),
		parsed.Hour(),
		parsed.Minute(),
		parsed.Second(),
		0,
		date.Location(),
	), nil
}
