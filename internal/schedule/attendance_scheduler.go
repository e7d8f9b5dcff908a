package schedule

// 漏签退调度器：每天考勤日截止时间后扫描已签到未签退的用户，投递告警批次

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"OnSite/config"
	"OnSite/internal/cache"
	"OnSite/internal/model"
	"OnSite/internal/queue"
	"OnSite/internal/repository"
	"OnSite/pkg/logger"
	"OnSite/utils"
)

var (
	schedulerOnce sync.Once
	schedulerInst *AttendanceScheduler
)

type AttendanceScheduler struct {
	logger      *zap.Logger
	store       repository.AttendanceStore
	scanRunning bool
	scanMu      sync.Mutex
	lastScanAt  time.Time
}

func GetScheduler() *AttendanceScheduler {
	schedulerOnce.Do(func() {
		schedulerInst = &AttendanceScheduler{
			logger: logger.Logger,
			store:  repository.NewAttendanceStore(),
		}
	})
	return schedulerInst
}

// ScanMissedCheckOuts 扫描当天已签到未签退的用户并投递告警批次。
// 未到考勤日截止时间时直接返回；同一考勤日只投递一次
func (s *AttendanceScheduler) ScanMissedCheckOuts(ctx context.Context) error {
	s.scanMu.Lock()
	if s.scanRunning {
		s.scanMu.Unlock()
		s.logger.Info("Missed check-out scan already running, skipping")
		return nil
	}
	s.scanRunning = true
	s.scanMu.Unlock()

	defer func() {
		s.scanMu.Lock()
		s.scanRunning = false
		s.scanMu.Unlock()
	}()

	now := time.Now().In(utils.AttendanceLocation())
	s.lastScanAt = now

	deadline, err := utils.ParseClock(config.Cfg.AttendanceDayEnd, now)
	if err != nil {
		return fmt.Errorf("invalid attendance day end %q: %w", config.Cfg.AttendanceDayEnd, err)
	}
	if now.Before(deadline) {
		return nil
	}

	day := utils.DayOf(now)

	// 多实例部署时短锁互斥，扫描期间其他实例直接跳过
	locked, err := cache.TryLock(ctx, "missed_scan", 5*time.Minute)
	if err != nil {
		return fmt.Errorf("failed to acquire missed check-out scan lock: %w", err)
	}
	if !locked {
		s.logger.Info("Missed check-out scan held by another instance, skipping")
		return nil
	}
	defer func() {
		if unlockErr := cache.Unlock(ctx, "missed_scan"); unlockErr != nil {
			s.logger.Warn("Failed to release missed check-out scan lock", zap.Error(unlockErr))
		}
	}()

	// 同一考勤日只投递一次
	first, err := cache.TryMarkMissedScan(ctx, day)
	if err != nil {
		return fmt.Errorf("failed to mark missed check-out scan: %w", err)
	}
	if !first {
		return nil
	}

	records, err := s.store.ListMissedCheckOut(ctx, day)
	if err != nil {
		if unmarkErr := cache.UnmarkMissedScan(ctx, day); unmarkErr != nil {
			s.logger.Warn("Failed to unmark missed check-out scan",
				zap.String("day", day),
				zap.Error(unmarkErr),
			)
		}
		return fmt.Errorf("failed to list missed check-outs: %w", err)
	}

	if len(records) == 0 {
		s.logger.Info("No missed check-outs found",
			zap.String("day", day),
		)
		return nil
	}

	userIDs := make([]int64, 0, len(records))
	for _, record := range records {
		userIDs = append(userIDs, record.UserID)
	}

	msg := model.MissedCheckOutMessage{
		BatchID:     uuid.NewString(),
		Day:         day,
		ScheduledAt: now.Format(utils.TimestampLayout),
		UserIDs:     userIDs,
	}

	if err := queue.PublishMissedCheckOut(msg); err != nil {
		if unmarkErr := cache.UnmarkMissedScan(ctx, day); unmarkErr != nil {
			s.logger.Warn("Failed to unmark missed check-out scan",
				zap.String("day", day),
				zap.Error(unmarkErr),
			)
		}
		return err
	}

	s.logger.Info("Missed check-out batch scheduled",
		zap.String("day", day),
		zap.String("batch_id", msg.BatchID),
		zap.Int("user_count", len(userIDs)),
	)

	return nil
}
