package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"OnSite/internal/model"
	"OnSite/internal/model/dto"
	"OnSite/internal/repository"
	"OnSite/pkg/errors"
	"OnSite/pkg/geo"
	"OnSite/pkg/logger"
	"OnSite/pkg/metrics"
	"OnSite/pkg/snowflake"
	"OnSite/utils"
)

// PingService 接收位置上报并维护只追加的流水
type PingService struct {
	store  repository.PingStore
	fences *GeofenceService
}

var (
	pingService *PingService
	pingOnce    sync.Once
)

func Ping() *PingService {
	pingOnce.Do(func() {
		pingService = NewPingService(repository.NewPingStore(), Geofence())
	})

	return pingService
}

func NewPingService(store repository.PingStore, fences *GeofenceService) *PingService {
	return &PingService{store: store, fences: fences}
}

// Ingest 接收一次位置上报，入库时定格当时的围栏归属。
// 后续围栏变更不回溯历史流水
func (s *PingService) Ingest(ctx context.Context, userID int64, req *dto.PingRequest, at time.Time) (*dto.PingData, error) {
	if !geo.ValidCoordinate(req.Lat, req.Lng) {
		return nil, errors.InvalidCoordinate
	}

	membership, err := s.fences.Evaluate(ctx, geo.Point{Lat: req.Lat, Lng: req.Lng})
	if err != nil {
		return nil, err
	}

	id, err := snowflake.NextID(snowflake.GeneratorTypePing)
	if err != nil {
		return nil, err
	}

	ping := &model.LocationPing{
		ID:             id,
		UserID:         userID,
		Timestamp:      at,
		Lat:            req.Lat,
		Lng:            req.Lng,
		InsideGeofence: membership.Inside,
	}

	if err := s.store.Append(ctx, ping); err != nil {
		return nil, err
	}

	if m := metrics.GetMetrics(); m != nil {
		m.RecordPingIngested(ctx, membership.Inside)
	}

	logger.Logger.Debug("Location ping ingested",
		zap.Int64("user_id", userID),
		zap.Bool("inside", membership.Inside),
		zap.Float64("distance_m", membership.DistanceM),
	)

	return &dto.PingData{
		ID:             ping.ID,
		UserID:         ping.UserID,
		Timestamp:      ping.Timestamp,
		Lat:            ping.Lat,
		Lng:            ping.Lng,
		InsideGeofence: ping.InsideGeofence,
		DistanceM:      membership.DistanceM,
	}, nil
}

// Movement 返回某用户某考勤日的轨迹快照，按时间升序。
// day 为空时默认当天
func (s *PingService) Movement(ctx context.Context, userID int64, day string, now time.Time) (*dto.MovementData, error) {
	if day == "" {
		day = utils.DayOf(now)
	}

	parsed, err := utils.ParseDay(day)
	if err != nil {
		return nil, errors.InvalidDate
	}
	start, end := utils.DayBounds(parsed)

	pings, err := s.store.ListRange(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	result := &dto.MovementData{
		UserID: userID,
		Day:    day,
		Pings:  make([]dto.PingData, 0, len(pings)),
	}
	for _, ping := range pings {
		result.Pings = append(result.Pings, dto.PingData{
			ID:             ping.ID,
			UserID:         ping.UserID,
			Timestamp:      ping.Timestamp,
			Lat:            ping.Lat,
			Lng:            ping.Lng,
			InsideGeofence: ping.InsideGeofence,
		})
	}

	return result, nil
}
