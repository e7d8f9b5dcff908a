package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"OnSite/config"
	"OnSite/internal/cache"
	"OnSite/internal/model"
	"OnSite/internal/model/dto"
	"OnSite/internal/repository"
	"OnSite/pkg/errors"
	"OnSite/pkg/geo"
	"OnSite/pkg/logger"
)

// GeofenceService 维护唯一的活动围栏并提供归属判定。
// 活动围栏通过 atomic.Pointer 整体换入换出，读路径永远看到完整的一份配置；
// 本地副本按 refresh 间隔过期回源，多实例部署时其他实例的更新在一个间隔内可见
type GeofenceService struct {
	store   repository.GeofenceStore
	active  atomic.Pointer[activeEntry]
	refresh time.Duration
	saveMu  sync.Mutex
}

type activeEntry struct {
	fence    *model.Geofence
	loadedAt time.Time
}

const activeRefreshInterval = 30 * time.Second

var (
	geofenceService *GeofenceService
	geofenceOnce    sync.Once
)

func Geofence() *GeofenceService {
	geofenceOnce.Do(func() {
		geofenceService = NewGeofenceService(repository.NewGeofenceStore())
	})

	return geofenceService
}

func NewGeofenceService(store repository.GeofenceStore) *GeofenceService {
	return &GeofenceService{store: store, refresh: activeRefreshInterval}
}

func (s *GeofenceService) storeActive(fence *model.Geofence) {
	s.active.Store(&activeEntry{fence: fence, loadedAt: time.Now()})
}

// Bootstrap 启动时装载活动围栏，库中没有则按配置写入默认围栏
func (s *GeofenceService) Bootstrap(ctx context.Context) error {
	fence, err := s.store.GetActive(ctx)
	if err == nil {
		s.storeActive(fence)
		logger.Logger.Info("Active geofence loaded",
			zap.String("name", fence.Name),
			zap.Float64("radius_m", fence.RadiusM),
		)
		return nil
	}
	if !repository.IsNotFound(err) {
		return err
	}

	cfg := config.Cfg
	fence = &model.Geofence{
		Name:      cfg.GeofenceDefaultName,
		CenterLat: cfg.GeofenceDefaultLat,
		CenterLng: cfg.GeofenceDefaultLng,
		RadiusM:   cfg.GeofenceDefaultRadius,
		Active:    true,
	}
	if err := s.store.Save(ctx, fence); err != nil {
		return err
	}
	s.storeActive(fence)
	s.cacheActive(ctx, fence)

	logger.Logger.Info("Default geofence created",
		zap.String("name", fence.Name),
		zap.Float64("center_lat", fence.CenterLat),
		zap.Float64("center_lng", fence.CenterLng),
		zap.Float64("radius_m", fence.RadiusM),
	)
	return nil
}

// SetActive 设置活动围栏。已有活动围栏时原地更新，保持记录身份稳定
func (s *GeofenceService) SetActive(ctx context.Context, req *dto.SetGeofenceRequest) (*dto.GeofenceData, error) {
	if !geo.ValidCoordinate(req.Lat, req.Lng) {
		return nil, errors.InvalidCoordinate
	}
	if req.RadiusM <= 0 {
		return nil, errors.InvalidGeofence
	}

	// 并发写入时串行落库，最后提交者胜出
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	var fence *model.Geofence
	if entry := s.active.Load(); entry != nil {
		fence = entry.fence
	}
	if fence == nil {
		existing, err := s.store.GetActive(ctx)
		if err != nil && !repository.IsNotFound(err) {
			return nil, err
		}
		fence = existing
	}

	updated := &model.Geofence{Active: true}
	if fence != nil {
		updated.BaseModel = fence.BaseModel
	}
	updated.Name = req.Name
	updated.CenterLat = req.Lat
	updated.CenterLng = req.Lng
	updated.RadiusM = req.RadiusM

	if err := s.store.Save(ctx, updated); err != nil {
		return nil, err
	}
	s.storeActive(updated)
	s.cacheActive(ctx, updated)

	logger.Logger.Info("Active geofence updated",
		zap.Int64("geofence_id", updated.ID),
		zap.String("name", updated.Name),
		zap.Float64("center_lat", updated.CenterLat),
		zap.Float64("center_lng", updated.CenterLng),
		zap.Float64("radius_m", updated.RadiusM),
	)

	return geofenceData(updated), nil
}

// Active 返回当前活动围栏；没有配置时返回 (nil, nil)
func (s *GeofenceService) Active(ctx context.Context) (*model.Geofence, error) {
	if entry := s.active.Load(); entry != nil && time.Since(entry.loadedAt) < s.refresh {
		return entry.fence, nil
	}

	// 本地副本缺失或过期：先查缓存再回源数据库
	if fence, err := cache.GetActiveGeofence(ctx); err == nil && fence != nil {
		s.storeActive(fence)
		return fence, nil
	}

	fence, err := s.store.GetActive(ctx)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	s.storeActive(fence)
	return fence, nil
}

// Evaluate 判定坐标相对活动围栏的归属，边界上算在内。
// 围栏未配置属于部署事故，透出 NoActiveGeofence 而不是按"在外"处理
func (s *GeofenceService) Evaluate(ctx context.Context, pt geo.Point) (*dto.MembershipData, error) {
	fence, err := s.Active(ctx)
	if err != nil {
		return nil, err
	}
	if fence == nil {
		return nil, errors.NoActiveGeofence
	}

	distance := geo.Distance(pt, geo.Point{Lat: fence.CenterLat, Lng: fence.CenterLng})
	return &dto.MembershipData{
		DistanceM: distance,
		Inside:    distance <= fence.RadiusM,
	}, nil
}

// Info 普通用户视角的围栏信息，未配置时 HasGeofence 为 false
func (s *GeofenceService) Info(ctx context.Context) (*dto.GeofenceInfoData, error) {
	fence, err := s.Active(ctx)
	if err != nil {
		return nil, err
	}
	if fence == nil {
		return &dto.GeofenceInfoData{HasGeofence: false}, nil
	}
	return &dto.GeofenceInfoData{HasGeofence: true, Geofence: geofenceData(fence)}, nil
}

func (s *GeofenceService) cacheActive(ctx context.Context, fence *model.Geofence) {
	if err := cache.SetActiveGeofence(ctx, fence); err != nil {
		logger.Logger.Warn("Failed to cache active geofence",
			zap.Int64("geofence_id", fence.ID),
			zap.Error(err),
		)
	}
}

func geofenceData(fence *model.Geofence) *dto.GeofenceData {
	return &dto.GeofenceData{
		ID:        fence.ID,
		Name:      fence.Name,
		CenterLat: fence.CenterLat,
		CenterLng: fence.CenterLng,
		RadiusM:   fence.RadiusM,
	}
}
