package repository

// 内存实现，供单元测试和本地验证使用，不依赖数据库

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"gorm.io/gorm"

	"OnSite/internal/model"
)

type MemoryGeofenceStore struct {
	mu     sync.RWMutex
	fence  *model.Geofence
	nextID int64
}

func NewMemoryGeofenceStore() *MemoryGeofenceStore {
	return &MemoryGeofenceStore{nextID: 1}
}

func (s *MemoryGeofenceStore) GetActive(_ context.Context) (*model.Geofence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.fence == nil {
		return nil, ErrNotFound
	}
	copied := *s.fence
	return &copied, nil
}

func (s *MemoryGeofenceStore) Save(_ context.Context, fence *model.Geofence) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fence.ID == 0 {
		fence.ID = s.nextID
		s.nextID++
	}
	copied := *fence
	s.fence = &copied
	return nil
}

type MemoryAttendanceStore struct {
	mu      sync.RWMutex
	records map[string]*model.Attendance
	nextID  int64
}

func NewMemoryAttendanceStore() *MemoryAttendanceStore {
	return &MemoryAttendanceStore{
		records: make(map[string]*model.Attendance),
		nextID:  1,
	}
}

func attendanceKey(userID int64, day string) string {
	return day + "/" + strconv.FormatInt(userID, 10)
}

func (s *MemoryAttendanceStore) Get(_ context.Context, userID int64, day string) (*model.Attendance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[attendanceKey(userID, day)]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *record
	return &copied, nil
}

func (s *MemoryAttendanceStore) Create(_ context.Context, record *model.Attendance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := attendanceKey(record.UserID, record.Day)
	if _, ok := s.records[key]; ok {
		return gorm.ErrDuplicatedKey
	}
	record.ID = s.nextID
	s.nextID++
	copied := *record
	s.records[key] = &copied
	return nil
}

func (s *MemoryAttendanceStore) Update(_ context.Context, record *model.Attendance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *record
	s.records[attendanceKey(record.UserID, record.Day)] = &copied
	return nil
}

func (s *MemoryAttendanceStore) ListRecent(_ context.Context, userID int64, limit int) ([]*model.Attendance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var records []*model.Attendance
	for _, record := range s.records {
		if record.UserID == userID {
			copied := *record
			records = append(records, &copied)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Day > records[j].Day
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

func (s *MemoryAttendanceStore) ListMissedCheckOut(_ context.Context, day string) ([]*model.Attendance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var records []*model.Attendance
	for _, record := range s.records {
		if record.Day == day && record.CheckInTime != nil && record.CheckOutTime == nil {
			copied := *record
			records = append(records, &copied)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].UserID < records[j].UserID
	})
	return records, nil
}

type MemoryPingStore struct {
	mu    sync.RWMutex
	pings []*model.LocationPing
}

func NewMemoryPingStore() *MemoryPingStore {
	return &MemoryPingStore{}
}

func (s *MemoryPingStore) Append(_ context.Context, ping *model.LocationPing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *ping
	s.pings = append(s.pings, &copied)
	return nil
}

func (s *MemoryPingStore) ListRange(_ context.Context, userID int64, start, end time.Time) ([]*model.LocationPing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var pings []*model.LocationPing
	for _, ping := range s.pings {
		if ping.UserID != userID {
			continue
		}
		if ping.Timestamp.Before(start) || !ping.Timestamp.Before(end) {
			continue
		}
		copied := *ping
		pings = append(pings, &copied)
	}
	sort.Slice(pings, func(i, j int) bool {
		return pings[i].Timestamp.Before(pings[j].Timestamp)
	})
	return pings, nil
}

type MemoryUserStore struct {
	mu     sync.RWMutex
	users  []*model.User
	nextID int64
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{nextID: 1}
}

func (s *MemoryUserStore) Create(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	user.ID = s.nextID
	s.nextID++
	copied := *user
	s.users = append(s.users, &copied)
	return nil
}

func (s *MemoryUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryUserStore) GetByPublicID(_ context.Context, publicID int64) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.PublicID == publicID {
			copied := *user
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryUserStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.users)), nil
}
