package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"OnSite/config"
	"OnSite/internal/schedule"
	"OnSite/pkg/logger"
	"OnSite/pkg/snowflake"
	"OnSite/storage"
)

func main() {

	logger.Init()
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Logger.Info("Scheduler received shutdown signal",
			zap.String("signal", sig.String()),
		)
		cancel()
	}()

	if err := storage.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize storage for scheduler", zap.Error(err))
	}
	defer storage.Close()

	if err := snowflake.Init(config.Cfg.SnowflakeMachineID, config.Cfg.SnowflakeDataCenter); err != nil {
		logger.Logger.Fatal("Failed to initialize snowflake for scheduler", zap.Error(err))
	}

	logger.Logger.Info("Scheduler service starting",
		zap.String("service", "onsite-scheduler"),
		zap.String("environment", config.Cfg.Environment),
	)

	go runMissedCheckOutLoop(ctx)

	<-ctx.Done()

	logger.Logger.Info("Scheduler service shutting down gracefully")
}

// runMissedCheckOutLoop 周期扫描漏签退用户。
// 扫描本身有截止时间和按日幂等标记把关，周期短一点没有副作用
func runMissedCheckOutLoop(ctx context.Context) {
	s := schedule.GetScheduler()

	interval := 10 * time.Minute
	// development 环境下缩短周期，方便本地调试
	if config.Cfg.Environment == "development" {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Logger.Info("Missed check-out scan loop started",
		zap.Duration("interval", interval),
	)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.ScanMissedCheckOuts(ctx); err != nil {
				logger.Logger.Error("Missed check-out scan failed", zap.Error(err))
			}
		}
	}
}
