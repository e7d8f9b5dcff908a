package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go.uber.org/zap"

	"OnSite/config"
	"OnSite/internal/queue"
	"OnSite/pkg/logger"
	"OnSite/pkg/snowflake"
	"OnSite/storage"
)

func main() {

	logger.Init()
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Logger.Info("Received shutdown signal",
			zap.String("signal", sig.String()),
		)
		cancel()
	}()

	if err := storage.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	defer storage.Close()

	if err := snowflake.Init(config.Cfg.SnowflakeMachineID, config.Cfg.SnowflakeDataCenter); err != nil {
		logger.Logger.Fatal("Failed to initialize snowflake", zap.Error(err))
	}

	logger.Logger.Info("Worker service starting",
		zap.String("service", "onsite-worker"),
		zap.String("environment", config.Cfg.Environment),
	)

	var wg sync.WaitGroup

	consumers := []struct {
		name  string
		start func(context.Context) error
	}{
		{"attendance_events", queue.StartAttendanceEventConsumer},
		{"missed_check_outs", queue.StartMissedCheckOutConsumer},
	}

	for _, consumer := range consumers {
		wg.Add(1)
		go func(name string, start func(context.Context) error) {
			defer wg.Done()
			if err := start(ctx); err != nil {
				logger.Logger.Error("Consumer exited with error",
					zap.String("consumer", name),
					zap.Error(err),
				)
			}
		}(consumer.name, consumer.start)
	}

	<-ctx.Done()
	wg.Wait()

	logger.Logger.Info("Worker service shutting down gracefully")
}
