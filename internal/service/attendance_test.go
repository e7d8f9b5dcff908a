package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"OnSite/internal/model"
	"OnSite/internal/model/dto"
	"OnSite/internal/repository"
	"OnSite/pkg/errors"
)

var (
	testCenter  = dto.MarkAttendanceRequest{Lat: 17.385044, Lng: 78.486671}
	testOutside = dto.MarkAttendanceRequest{Lat: 17.5, Lng: 78.486671}
	testAt      = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
)

func newTestAttendanceService(t *testing.T) (*AttendanceService, *repository.MemoryAttendanceStore) {
	t.Helper()

	fences := newTestGeofenceService(t, &model.Geofence{
		Name:      "HQ",
		CenterLat: 17.385044,
		CenterLng: 78.486671,
		RadiusM:   200,
		Active:    true,
	})
	store := repository.NewMemoryAttendanceStore()
	return NewAttendanceService(store, fences, nil), store
}

func TestCheckInInsideZone(t *testing.T) {
	svc, _ := newTestAttendanceService(t)

	result, err := svc.CheckIn(context.Background(), 42, &testCenter, testAt, "")
	require.NoError(t, err)

	assert.Equal(t, "2026-03-14", result.Day)
	assert.Equal(t, "Present", result.Status)
	require.NotNil(t, result.CheckInTime)
	assert.True(t, result.CheckInTime.Equal(testAt))
	require.NotNil(t, result.CheckInLat)
	assert.Equal(t, testCenter.Lat, *result.CheckInLat)
	assert.Nil(t, result.CheckOutTime)
}

func TestCheckInOutsideZone(t *testing.T) {
	svc, store := newTestAttendanceService(t)

	_, err := svc.CheckIn(context.Background(), 42, &testOutside, testAt, "")
	require.Error(t, err)

	var def errors.Definition
	require.ErrorAs(t, err, &def)
	assert.Equal(t, errors.OutsideZone.Code, def.Code)
	assert.Contains(t, def.Message, "outside the zone")

	// 越界拒绝不创建记录
	_, getErr := store.Get(context.Background(), 42, "2026-03-14")
	assert.ErrorIs(t, getErr, repository.ErrNotFound)
}

func TestCheckInIdempotencyRejection(t *testing.T) {
	svc, store := newTestAttendanceService(t)

	_, err := svc.CheckIn(context.Background(), 42, &testCenter, testAt, "")
	require.NoError(t, err)

	_, err = svc.CheckIn(context.Background(), 42, &testCenter, testAt.Add(time.Hour), "")
	assert.ErrorIs(t, err, errors.AlreadyCheckedIn)

	// 被拒绝的第二次签到不改写首次时间戳
	record, err := store.Get(context.Background(), 42, "2026-03-14")
	require.NoError(t, err)
	require.NotNil(t, record.CheckInTime)
	assert.True(t, record.CheckInTime.Equal(testAt))
}

func TestCheckInZoneCheckedBeforeState(t *testing.T) {
	svc, _ := newTestAttendanceService(t)

	_, err := svc.CheckIn(context.Background(), 42, &testCenter, testAt, "")
	require.NoError(t, err)

	// 已签到的用户在围栏外重复签到：越界优先于幂等拒绝
	_, err = svc.CheckIn(context.Background(), 42, &testOutside, testAt.Add(time.Hour), "")
	var def errors.Definition
	require.ErrorAs(t, err, &def)
	assert.Equal(t, errors.OutsideZone.Code, def.Code)
}

func TestCheckInInvalidCoordinate(t *testing.T) {
	svc, _ := newTestAttendanceService(t)

	_, err := svc.CheckIn(context.Background(), 42, &dto.MarkAttendanceRequest{Lat: 91, Lng: 0}, testAt, "")
	assert.ErrorIs(t, err, errors.InvalidCoordinate)
}

func TestCheckOutFullDay(t *testing.T) {
	svc, _ := newTestAttendanceService(t)

	_, err := svc.CheckIn(context.Background(), 42, &testCenter, testAt, "")
	require.NoError(t, err)

	leaveAt := testAt.Add(8 * time.Hour)
	result, err := svc.CheckOut(context.Background(), 42, &testCenter, leaveAt, "")
	require.NoError(t, err)

	require.NotNil(t, result.CheckInTime)
	require.NotNil(t, result.CheckOutTime)
	assert.True(t, result.CheckOutTime.Equal(leaveAt))
	assert.False(t, result.CheckOutTime.Before(*result.CheckInTime))
}

func TestCheckOutWithoutCheckIn(t *testing.T) {
	svc, _ := newTestAttendanceService(t)

	_, err := svc.CheckOut(context.Background(), 42, &testCenter, testAt, "")
	assert.ErrorIs(t, err, errors.NotCheckedIn)
}

func TestCheckOutTwice(t *testing.T) {
	svc, _ := newTestAttendanceService(t)

	_, err := svc.CheckIn(context.Background(), 42, &testCenter, testAt, "")
	require.NoError(t, err)
	_, err = svc.CheckOut(context.Background(), 42, &testCenter, testAt.Add(time.Hour), "")
	require.NoError(t, err)

	_, err = svc.CheckOut(context.Background(), 42, &testCenter, testAt.Add(2*time.Hour), "")
	assert.ErrorIs(t, err, errors.AlreadyCheckedOut)
}

func TestCheckOutOutsideZone(t *testing.T) {
	svc, _ := newTestAttendanceService(t)

	_, err := svc.CheckIn(context.Background(), 42, &testCenter, testAt, "")
	require.NoError(t, err)

	_, err = svc.CheckOut(context.Background(), 42, &testOutside, testAt.Add(time.Hour), "")
	var def errors.Definition
	require.ErrorAs(t, err, &def)
	assert.Equal(t, errors.OutsideZone.Code, def.Code)
}

func TestCheckInNewDayAfterCheckOut(t *testing.T) {
	svc, _ := newTestAttendanceService(t)

	_, err := svc.CheckIn(context.Background(), 42, &testCenter, testAt, "")
	require.NoError(t, err)
	_, err = svc.CheckOut(context.Background(), 42, &testCenter, testAt.Add(8*time.Hour), "")
	require.NoError(t, err)

	// 次日是独立的状态机
	nextDay := testAt.Add(24 * time.Hour)
	result, err := svc.CheckIn(context.Background(), 42, &testCenter, nextDay, "")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-15", result.Day)
	assert.Nil(t, result.CheckOutTime)
}

func TestConcurrentCheckInSingleWinner(t *testing.T) {
	svc, _ := newTestAttendanceService(t)

	const workers = 20
	var wg sync.WaitGroup
	results := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			_, err := svc.CheckIn(context.Background(), 42, &testCenter, testAt, "")
			results[idx] = err
		}(i)
	}
	wg.Wait()

	var success, rejected int
	for _, err := range results {
		switch {
		case err == nil:
			success++
		case assert.ObjectsAreEqual(errors.AlreadyCheckedIn, err):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, success)
	assert.Equal(t, workers-1, rejected)
}

func TestConcurrentUsersDoNotBlock(t *testing.T) {
	svc, _ := newTestAttendanceService(t)

	const users = 10
	var wg sync.WaitGroup
	errs := make([]error, users)

	for i := 0; i < users; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			_, err := svc.CheckIn(context.Background(), int64(100+idx), &testCenter, testAt, "")
			errs[idx] = err
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
}

func TestTodayAndRecent(t *testing.T) {
	svc, _ := newTestAttendanceService(t)

	today, err := svc.Today(context.Background(), 42, testAt)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-14", today.Day)
	assert.Nil(t, today.Record)

	_, err = svc.CheckIn(context.Background(), 42, &testCenter, testAt, "")
	require.NoError(t, err)
	_, err = svc.CheckIn(context.Background(), 42, &testCenter, testAt.Add(24*time.Hour), "")
	require.NoError(t, err)

	today, err = svc.Today(context.Background(), 42, testAt)
	require.NoError(t, err)
	require.NotNil(t, today.Record)
	assert.Equal(t, "2026-03-14", today.Record.Day)

	recent, err := svc.Recent(context.Background(), 42, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	// 按考勤日倒序
	assert.Equal(t, "2026-03-15", recent[0].Day)
	assert.Equal(t, "2026-03-14", recent[1].Day)
}

func TestCheckInPhotoStamped(t *testing.T) {
	svc, _ := newTestAttendanceService(t)

	result, err := svc.CheckIn(context.Background(), 42, &testCenter, testAt, "42_check_in_20260314090000.jpg")
	require.NoError(t, err)
	assert.Equal(t, "42_check_in_20260314090000.jpg", result.CheckInPhoto)
}
