package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"OnSite/internal/model"
	"OnSite/internal/model/dto"
	"OnSite/internal/queue"
	"OnSite/internal/repository"
	"OnSite/pkg/errors"
	"OnSite/pkg/geo"
	"OnSite/pkg/logger"
	"OnSite/pkg/metrics"
	"OnSite/utils"
)

// EventPublisher 考勤事件投递钩子，失败只记日志不影响打卡结果
type EventPublisher func(ctx context.Context, eventType model.AttendanceEventType, record *model.Attendance, lat, lng, distanceM float64) error

// AttendanceService 实现每用户每考勤日的签到/签退状态机。
// 同一 (user, day) 的状态迁移通过 keyed mutex 串行化，不同键互不阻塞
type AttendanceService struct {
	store   repository.AttendanceStore
	fences  *GeofenceService
	publish EventPublisher
	locks   sync.Map // "day/userID" -> *sync.Mutex
}

var (
	attendanceService *AttendanceService
	attendanceOnce    sync.Once
)

func Attendance() *AttendanceService {
	attendanceOnce.Do(func() {
		attendanceService = NewAttendanceService(
			repository.NewAttendanceStore(),
			Geofence(),
			queue.PublishAttendanceEvent,
		)
	})

	return attendanceService
}

func NewAttendanceService(store repository.AttendanceStore, fences *GeofenceService, publish EventPublisher) *AttendanceService {
	return &AttendanceService{
		store:   store,
		fences:  fences,
		publish: publish,
	}
}

func (s *AttendanceService) lockFor(userID int64, day string) *sync.Mutex {
	key := fmt.Sprintf("%s/%d", day, userID)
	mu, _ := s.locks.LoadOrStore(key, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// CheckIn 签到。先做围栏判定再查状态：围栏外的请求即使已签到也返回越界拒绝
func (s *AttendanceService) CheckIn(ctx context.Context, userID int64, req *dto.MarkAttendanceRequest, at time.Time, photo string) (*dto.AttendanceData, error) {
	if !geo.ValidCoordinate(req.Lat, req.Lng) {
		return nil, errors.InvalidCoordinate
	}

	membership, err := s.fences.Evaluate(ctx, geo.Point{Lat: req.Lat, Lng: req.Lng})
	if err != nil {
		return nil, err
	}
	if m := metrics.GetMetrics(); m != nil {
		m.RecordMembership(ctx, membership.DistanceM, membership.Inside)
	}
	if !membership.Inside {
		s.reject(ctx, "check_in", errors.OutsideZone.Code)
		return nil, errors.OutsideZoneAt(membership.DistanceM)
	}

	day := utils.DayOf(at)
	mu := s.lockFor(userID, day)
	mu.Lock()
	defer mu.Unlock()

	record, err := s.store.Get(ctx, userID, day)
	if err != nil && !repository.IsNotFound(err) {
		return nil, err
	}

	if record.CheckedIn() {
		s.reject(ctx, "check_in", errors.AlreadyCheckedIn.Code)
		return nil, errors.AlreadyCheckedIn
	}

	lat, lng := req.Lat, req.Lng
	checkInAt := at
	created := record == nil
	if created {
		record = &model.Attendance{
			UserID: userID,
			Day:    day,
			Status: model.AttendanceStatusPresent,
		}
	}
	record.CheckInTime = &checkInAt
	record.CheckInLat = &lat
	record.CheckInLng = &lng
	record.CheckInPhoto = photo

	if created {
		err = s.store.Create(ctx, record)
	} else {
		err = s.store.Update(ctx, record)
	}
	if err != nil {
		return nil, err
	}

	if m := metrics.GetMetrics(); m != nil {
		m.RecordTransition(ctx, "check_in")
	}
	s.publishEvent(ctx, model.AttendanceEventCheckIn, record, lat, lng, membership.DistanceM)

	logger.Logger.Info("User checked in",
		zap.Int64("user_id", userID),
		zap.String("day", day),
		zap.Float64("distance_m", membership.DistanceM),
	)

	return attendanceData(record), nil
}

// CheckOut 签退。要求当日已签到且未签退，同样先做围栏判定
func (s *AttendanceService) CheckOut(ctx context.Context, userID int64, req *dto.MarkAttendanceRequest, at time.Time, photo string) (*dto.AttendanceData, error) {
	if !geo.ValidCoordinate(req.Lat, req.Lng) {
		return nil, errors.InvalidCoordinate
	}

	membership, err := s.fences.Evaluate(ctx, geo.Point{Lat: req.Lat, Lng: req.Lng})
	if err != nil {
		return nil, err
	}
	if m := metrics.GetMetrics(); m != nil {
		m.RecordMembership(ctx, membership.DistanceM, membership.Inside)
	}
	if !membership.Inside {
		s.reject(ctx, "check_out", errors.OutsideZone.Code)
		return nil, errors.OutsideZoneAt(membership.DistanceM)
	}

	day := utils.DayOf(at)
	mu := s.lockFor(userID, day)
	mu.Lock()
	defer mu.Unlock()

	record, err := s.store.Get(ctx, userID, day)
	if err != nil {
		if repository.IsNotFound(err) {
			s.reject(ctx, "check_out", errors.NotCheckedIn.Code)
			return nil, errors.NotCheckedIn
		}
		return nil, err
	}

	if !record.CheckedIn() {
		s.reject(ctx, "check_out", errors.NotCheckedIn.Code)
		return nil, errors.NotCheckedIn
	}
	if record.CheckedOut() {
		s.reject(ctx, "check_out", errors.AlreadyCheckedOut.Code)
		return nil, errors.AlreadyCheckedOut
	}

	// 签退时间不早于签到时间
	checkOutAt := at
	if checkOutAt.Before(*record.CheckInTime) {
		checkOutAt = *record.CheckInTime
	}

	lat, lng := req.Lat, req.Lng
	record.CheckOutTime = &checkOutAt
	record.CheckOutLat = &lat
	record.CheckOutLng = &lng
	record.CheckOutPhoto = photo

	if err := s.store.Update(ctx, record); err != nil {
		return nil, err
	}

	if m := metrics.GetMetrics(); m != nil {
		m.RecordTransition(ctx, "check_out")
	}
	s.publishEvent(ctx, model.AttendanceEventCheckOut, record, lat, lng, membership.DistanceM)

	logger.Logger.Info("User checked out",
		zap.Int64("user_id", userID),
		zap.String("day", day),
		zap.Float64("distance_m", membership.DistanceM),
	)

	return attendanceData(record), nil
}

// Today 查询当日考勤状态，未签到时 Record 为空
func (s *AttendanceService) Today(ctx context.Context, userID int64, now time.Time) (*dto.TodayAttendanceData, error) {
	day := utils.DayOf(now)

	record, err := s.store.Get(ctx, userID, day)
	if err != nil {
		if repository.IsNotFound(err) {
			return &dto.TodayAttendanceData{Day: day}, nil
		}
		return nil, err
	}

	return &dto.TodayAttendanceData{Day: day, Record: attendanceData(record)}, nil
}

// Recent 按考勤日倒序返回最近的考勤记录
func (s *AttendanceService) Recent(ctx context.Context, userID int64, limit int) ([]*dto.AttendanceData, error) {
	if limit <= 0 || limit > 90 {
		limit = 30
	}

	records, err := s.store.ListRecent(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.AttendanceData, 0, len(records))
	for _, record := range records {
		result = append(result, attendanceData(record))
	}
	return result, nil
}

func (s *AttendanceService) reject(ctx context.Context, action, code string) {
	if m := metrics.GetMetrics(); m != nil {
		m.RecordRejection(ctx, action, code)
	}
}

func (s *AttendanceService) publishEvent(ctx context.Context, eventType model.AttendanceEventType, record *model.Attendance, lat, lng, distanceM float64) {
	if s.publish == nil {
		return
	}

	if err := s.publish(ctx, eventType, record, lat, lng, distanceM); err != nil {
		logger.Logger.Warn("Failed to publish attendance event",
			zap.String("event_type", string(eventType)),
			zap.Int64("user_id", record.UserID),
			zap.String("day", record.Day),
			zap.Error(err),
		)
	}
}

func attendanceData(record *model.Attendance) *dto.AttendanceData {
	return &dto.AttendanceData{
		Day:           record.Day,
		Status:        string(record.Status),
		CheckInTime:   record.CheckInTime,
		CheckInLat:    record.CheckInLat,
		CheckInLng:    record.CheckInLng,
		CheckInPhoto:  record.CheckInPhoto,
		CheckOutTime:  record.CheckOutTime,
		CheckOutLat:   record.CheckOutLat,
		CheckOutLng:   record.CheckOutLng,
		CheckOutPhoto: record.CheckOutPhoto,
	}
}
