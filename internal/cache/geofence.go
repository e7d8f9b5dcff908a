package cache

import (
	"context"
	"encoding/json"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"OnSite/internal/model"
	"OnSite/storage/redis"
)

// 活动围栏缓存：写路径更新，冷启动时先读缓存再回源数据库

const (
	geofenceActiveKey = "geofence:active"
	geofenceTTL       = 12 * time.Hour
)

func SetActiveGeofence(ctx context.Context, fence *model.Geofence) error {
	if !redis.Available() {
		return nil
	}

	data, err := json.Marshal(fence)
	if err != nil {
		return err
	}

	return redis.Client().Set(ctx, redis.Key(geofenceActiveKey), data, geofenceTTL).Err()
}

// GetActiveGeofence 缓存未命中或未初始化时返回 (nil, nil)
func GetActiveGeofence(ctx context.Context) (*model.Geofence, error) {
	if !redis.Available() {
		return nil, nil
	}

	data, err := redis.Client().Get(ctx, redis.Key(geofenceActiveKey)).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var fence model.Geofence
	if err := json.Unmarshal(data, &fence); err != nil {
		return nil, err
	}

	return &fence, nil
}
