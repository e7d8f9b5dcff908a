package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"OnSite/internal/model"
	"OnSite/storage/database"
)

func wrapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// ========== Geofence ==========

type gormGeofenceStore struct {
	db *gorm.DB
}

func NewGeofenceStore() GeofenceStore {
	return &gormGeofenceStore{db: database.DB()}
}

func (s *gormGeofenceStore) GetActive(ctx context.Context) (*model.Geofence, error) {
	var fence model.Geofence
	err := s.db.WithContext(ctx).
		Where("active = ?", true).
		Order("id").
		First(&fence).Error
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &fence, nil
}

func (s *gormGeofenceStore) Save(ctx context.Context, fence *model.Geofence) error {
	return s.db.WithContext(ctx).Save(fence).Error
}

// ========== Attendance ==========

type gormAttendanceStore struct {
	db *gorm.DB
}

func NewAttendanceStore() AttendanceStore {
	return &gormAttendanceStore{db: database.DB()}
}

func (s *gormAttendanceStore) Get(ctx context.Context, userID int64, day string) (*model.Attendance, error) {
	var record model.Attendance
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND day = ?", userID, day).
		First(&record).Error
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &record, nil
}

func (s *gormAttendanceStore) Create(ctx context.Context, record *model.Attendance) error {
	return s.db.WithContext(ctx).Create(record).Error
}

func (s *gormAttendanceStore) Update(ctx context.Context, record *model.Attendance) error {
	return s.db.WithContext(ctx).Save(record).Error
}

func (s *gormAttendanceStore) ListRecent(ctx context.Context, userID int64, limit int) ([]*model.Attendance, error) {
	var records []*model.Attendance
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("day DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}

func (s *gormAttendanceStore) ListMissedCheckOut(ctx context.Context, day string) ([]*model.Attendance, error) {
	var records []*model.Attendance
	err := s.db.WithContext(ctx).
		Where("day = ? AND check_in_time IS NOT NULL AND check_out_time IS NULL", day).
		Find(&records).Error
	return records, err
}

// ========== LocationPing ==========

type gormPingStore struct {
	db *gorm.DB
}

func NewPingStore() PingStore {
	return &gormPingStore{db: database.DB()}
}

func (s *gormPingStore) Append(ctx context.Context, ping *model.LocationPing) error {
	return s.db.WithContext(ctx).Create(ping).Error
}

func (s *gormPingStore) ListRange(ctx context.Context, userID int64, start, end time.Time) ([]*model.LocationPing, error) {
	var pings []*model.LocationPing
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND timestamp >= ? AND timestamp < ?", userID, start, end).
		Order("timestamp ASC").
		Find(&pings).Error
	return pings, err
}

// ========== User ==========

type gormUserStore struct {
	db *gorm.DB
}

func NewUserStore() UserStore {
	return &gormUserStore{db: database.DB()}
}

func (s *gormUserStore) Create(ctx context.Context, user *model.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

func (s *gormUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &user, nil
}

func (s *gormUserStore) GetByPublicID(ctx context.Context, publicID int64) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("public_id = ?", publicID).First(&user).Error
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &user, nil
}

func (s *gormUserStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.User{}).Count(&count).Error
	return count, err
}
