package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"OnSite/internal/model"
	"OnSite/internal/model/dto"
	"OnSite/internal/repository"
	"OnSite/pkg/errors"
	"OnSite/pkg/geo"
)

func newTestGeofenceService(t *testing.T, fence *model.Geofence) *GeofenceService {
	t.Helper()

	store := repository.NewMemoryGeofenceStore()
	if fence != nil {
		require.NoError(t, store.Save(context.Background(), fence))
	}
	return NewGeofenceService(store)
}

func TestGeofenceEvaluateInsideAndBoundary(t *testing.T) {
	svc := newTestGeofenceService(t, &model.Geofence{
		Name:      "HQ",
		CenterLat: 17.385044,
		CenterLng: 78.486671,
		RadiusM:   200,
		Active:    true,
	})

	// 圆心
	result, err := svc.Evaluate(context.Background(), geo.Point{Lat: 17.385044, Lng: 78.486671})
	require.NoError(t, err)
	assert.True(t, result.Inside)
	assert.InDelta(t, 0, result.DistanceM, 0.001)

	// 边界在内
	center := geo.Point{Lat: 17.385044, Lng: 78.486671}
	near := geo.Point{Lat: 17.385044, Lng: 78.488}
	dist := geo.Distance(center, near)
	require.Less(t, dist, 200.0)

	result, err = svc.Evaluate(context.Background(), near)
	require.NoError(t, err)
	assert.True(t, result.Inside)
}

func TestGeofenceEvaluateExactBoundary(t *testing.T) {
	center := geo.Point{Lat: 17.385044, Lng: 78.486671}
	edge := geo.Point{Lat: 17.385044, Lng: 78.488}
	dist := geo.Distance(center, edge)

	// 半径恰好等于圆心距：边界点算在内
	svc := newTestGeofenceService(t, &model.Geofence{
		Name:      "HQ",
		CenterLat: center.Lat,
		CenterLng: center.Lng,
		RadiusM:   dist,
		Active:    true,
	})
	result, err := svc.Evaluate(context.Background(), edge)
	require.NoError(t, err)
	assert.True(t, result.Inside)
	assert.InDelta(t, dist, result.DistanceM, 1e-9)

	// 半径再小一厘米就在外
	svc = newTestGeofenceService(t, &model.Geofence{
		Name:      "HQ",
		CenterLat: center.Lat,
		CenterLng: center.Lng,
		RadiusM:   dist - 0.01,
		Active:    true,
	})
	result, err = svc.Evaluate(context.Background(), edge)
	require.NoError(t, err)
	assert.False(t, result.Inside)
}

func TestGeofenceActiveRefreshAcrossInstances(t *testing.T) {
	store := repository.NewMemoryGeofenceStore()
	writer := NewGeofenceService(store)
	reader := NewGeofenceService(store)
	reader.refresh = 0 // 本地副本立即过期，模拟刷新间隔已过

	_, err := writer.SetActive(context.Background(), &dto.SetGeofenceRequest{
		Name: "HQ", Lat: 17.385044, Lng: 78.486671, RadiusM: 200,
	})
	require.NoError(t, err)

	fence, err := reader.Active(context.Background())
	require.NoError(t, err)
	require.NotNil(t, fence)
	assert.Equal(t, 200.0, fence.RadiusM)

	// 另一实例的更新在刷新后可见
	_, err = writer.SetActive(context.Background(), &dto.SetGeofenceRequest{
		Name: "HQ", Lat: 17.385044, Lng: 78.486671, RadiusM: 500,
	})
	require.NoError(t, err)

	fence, err = reader.Active(context.Background())
	require.NoError(t, err)
	require.NotNil(t, fence)
	assert.Equal(t, 500.0, fence.RadiusM)
}

func TestGeofenceEvaluateOutside(t *testing.T) {
	svc := newTestGeofenceService(t, &model.Geofence{
		Name:      "HQ",
		CenterLat: 17.385044,
		CenterLng: 78.486671,
		RadiusM:   200,
		Active:    true,
	})

	result, err := svc.Evaluate(context.Background(), geo.Point{Lat: 17.5, Lng: 78.486671})
	require.NoError(t, err)
	assert.False(t, result.Inside)
	assert.Greater(t, result.DistanceM, 200.0)
}

func TestGeofenceEvaluateNoActiveGeofence(t *testing.T) {
	svc := newTestGeofenceService(t, nil)

	_, err := svc.Evaluate(context.Background(), geo.Point{Lat: 17.385044, Lng: 78.486671})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.NoActiveGeofence)
}

func TestGeofenceSetActiveValidation(t *testing.T) {
	svc := newTestGeofenceService(t, nil)

	_, err := svc.SetActive(context.Background(), &dto.SetGeofenceRequest{
		Name: "bad", Lat: 91, Lng: 0, RadiusM: 100,
	})
	assert.ErrorIs(t, err, errors.InvalidCoordinate)

	_, err = svc.SetActive(context.Background(), &dto.SetGeofenceRequest{
		Name: "bad", Lat: 0, Lng: 0, RadiusM: 0,
	})
	assert.ErrorIs(t, err, errors.InvalidGeofence)

	_, err = svc.SetActive(context.Background(), &dto.SetGeofenceRequest{
		Name: "bad", Lat: 0, Lng: 0, RadiusM: -5,
	})
	assert.ErrorIs(t, err, errors.InvalidGeofence)
}

func TestGeofenceSetActiveKeepsIdentity(t *testing.T) {
	svc := newTestGeofenceService(t, nil)

	first, err := svc.SetActive(context.Background(), &dto.SetGeofenceRequest{
		Name: "Office A", Lat: 17.385044, Lng: 78.486671, RadiusM: 200,
	})
	require.NoError(t, err)

	second, err := svc.SetActive(context.Background(), &dto.SetGeofenceRequest{
		Name: "Office B", Lat: 18.0, Lng: 79.0, RadiusM: 500,
	})
	require.NoError(t, err)

	// 原地更新，记录身份稳定
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Office B", second.Name)
	assert.Equal(t, 500.0, second.RadiusM)

	// 新配置立即生效
	result, err := svc.Evaluate(context.Background(), geo.Point{Lat: 18.0, Lng: 79.0})
	require.NoError(t, err)
	assert.True(t, result.Inside)
}

func TestGeofenceInfo(t *testing.T) {
	svc := newTestGeofenceService(t, nil)

	info, err := svc.Info(context.Background())
	require.NoError(t, err)
	assert.False(t, info.HasGeofence)
	assert.Nil(t, info.Geofence)

	_, err = svc.SetActive(context.Background(), &dto.SetGeofenceRequest{
		Name: "HQ", Lat: 17.385044, Lng: 78.486671, RadiusM: 200,
	})
	require.NoError(t, err)

	info, err = svc.Info(context.Background())
	require.NoError(t, err)
	assert.True(t, info.HasGeofence)
	require.NotNil(t, info.Geofence)
	assert.Equal(t, "HQ", info.Geofence.Name)
}
