package repository

// 手写仓储层：接口收窄到 service 实际需要的操作，便于测试替换

import (
	"context"
	"errors"
	"time"

	"OnSite/internal/model"
)

// ErrNotFound 查询无记录时统一返回，屏蔽底层驱动差异
var ErrNotFound = errors.New("record not found")

// IsNotFound 判断错误是否为未找到
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// GeofenceStore 活动围栏存取
type GeofenceStore interface {
	// GetActive 返回当前活动围栏，不存在时返回 ErrNotFound
	GetActive(ctx context.Context) (*model.Geofence, error)
	// Save 创建或原地更新围栏（ID 非零时更新）
	Save(ctx context.Context, fence *model.Geofence) error
}

// AttendanceStore 考勤记录存取
type AttendanceStore interface {
	Get(ctx context.Context, userID int64, day string) (*model.Attendance, error)
	Create(ctx context.Context, record *model.Attendance) error
	Update(ctx context.Context, record *model.Attendance) error
	// ListRecent 按考勤日倒序返回某用户最近的记录
	ListRecent(ctx context.Context, userID int64, limit int) ([]*model.Attendance, error)
	// ListMissedCheckOut 返回某考勤日已签到未签退的记录
	ListMissedCheckOut(ctx context.Context, day string) ([]*model.Attendance, error)
}

// PingStore 位置流水存取，只追加
type PingStore interface {
	Append(ctx context.Context, ping *model.LocationPing) error
	// ListRange 返回 [start, end) 内某用户的流水，按时间升序
	ListRange(ctx context.Context, userID int64, start, end time.Time) ([]*model.LocationPing, error)
}

// UserStore 用户存取
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByPublicID(ctx context.Context, publicID int64) (*model.User, error)
	Count(ctx context.Context) (int64, error)
}
