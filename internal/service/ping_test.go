package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"OnSite/internal/model"
	"OnSite/internal/model/dto"
	"OnSite/internal/repository"
	"OnSite/pkg/errors"
)

func newTestPingService(t *testing.T) *PingService {
	t.Helper()

	fences := newTestGeofenceService(t, &model.Geofence{
		Name:      "HQ",
		CenterLat: 17.385044,
		CenterLng: 78.486671,
		RadiusM:   200,
		Active:    true,
	})
	return NewPingService(repository.NewMemoryPingStore(), fences)
}

func TestPingIngestClassifiesMembership(t *testing.T) {
	svc := newTestPingService(t)

	inside, err := svc.Ingest(context.Background(), 42, &dto.PingRequest{Lat: 17.385044, Lng: 78.486671}, testAt)
	require.NoError(t, err)
	assert.True(t, inside.InsideGeofence)
	assert.NotZero(t, inside.ID)

	outside, err := svc.Ingest(context.Background(), 42, &dto.PingRequest{Lat: 17.5, Lng: 78.486671}, testAt.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, outside.InsideGeofence)
	assert.Greater(t, outside.DistanceM, 200.0)
}

func TestPingIngestInvalidCoordinate(t *testing.T) {
	svc := newTestPingService(t)

	_, err := svc.Ingest(context.Background(), 42, &dto.PingRequest{Lat: 0, Lng: 181}, testAt)
	assert.ErrorIs(t, err, errors.InvalidCoordinate)
}

func TestPingIngestNoActiveGeofence(t *testing.T) {
	fences := newTestGeofenceService(t, nil)
	svc := NewPingService(repository.NewMemoryPingStore(), fences)

	_, err := svc.Ingest(context.Background(), 42, &dto.PingRequest{Lat: 17.385044, Lng: 78.486671}, testAt)
	assert.ErrorIs(t, err, errors.NoActiveGeofence)
}

func TestMovementOrderedAndScoped(t *testing.T) {
	svc := newTestPingService(t)

	// 乱序写入
	times := []time.Time{
		testAt.Add(2 * time.Hour),
		testAt,
		testAt.Add(time.Hour),
	}
	for _, at := range times {
		_, err := svc.Ingest(context.Background(), 42, &dto.PingRequest{Lat: 17.385044, Lng: 78.486671}, at)
		require.NoError(t, err)
	}

	// 其他用户和其他日期不应出现
	_, err := svc.Ingest(context.Background(), 7, &dto.PingRequest{Lat: 17.385044, Lng: 78.486671}, testAt)
	require.NoError(t, err)
	_, err = svc.Ingest(context.Background(), 42, &dto.PingRequest{Lat: 17.385044, Lng: 78.486671}, testAt.Add(24*time.Hour))
	require.NoError(t, err)

	result, err := svc.Movement(context.Background(), 42, "2026-03-14", testAt)
	require.NoError(t, err)
	assert.Equal(t, int64(42), result.UserID)
	require.Len(t, result.Pings, 3)

	for i := 1; i < len(result.Pings); i++ {
		assert.False(t, result.Pings[i].Timestamp.Before(result.Pings[i-1].Timestamp))
	}
}

func TestMovementDefaultsToToday(t *testing.T) {
	svc := newTestPingService(t)

	_, err := svc.Ingest(context.Background(), 42, &dto.PingRequest{Lat: 17.385044, Lng: 78.486671}, testAt)
	require.NoError(t, err)

	result, err := svc.Movement(context.Background(), 42, "", testAt)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-14", result.Day)
	assert.Len(t, result.Pings, 1)
}

func TestMovementInvalidDate(t *testing.T) {
	svc := newTestPingService(t)

	_, err := svc.Movement(context.Background(), 42, "14-03-2026", testAt)
	assert.ErrorIs(t, err, errors.InvalidDate)
}

func TestMovementEmptyDay(t *testing.T) {
	svc := newTestPingService(t)

	result, err := svc.Movement(context.Background(), 42, "2026-03-14", testAt)
	require.NoError(t, err)
	assert.Empty(t, result.Pings)
}
