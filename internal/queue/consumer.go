package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"OnSite/internal/cache"
	"OnSite/internal/model"
	"OnSite/pkg/errors"
	"OnSite/pkg/logger"
	"OnSite/storage/mq"
)

// StartAttendanceEventConsumer 消费签到/签退事件，落审计日志
func StartAttendanceEventConsumer(ctx context.Context) error {
	handler := func(body []byte) error {
		var msg model.AttendanceEventMessage
		if err := json.Unmarshal(body, &msg); err != nil {
			return fmt.Errorf("failed to unmarshal attendance event: %w", err)
		}

		processed, err := cache.TryMarkMessageProcessing(ctx, msg.MessageID, 24*time.Hour)
		if err != nil {
			logger.Logger.Warn("Failed to check message processed status",
				zap.String("message_id", msg.MessageID),
				zap.Error(err),
			)
			// 检查失败时继续处理，宁可重复也不丢事件
		} else if !processed {
			return &errors.SkipMessageError{Reason: fmt.Sprintf("Message %s already processed", msg.MessageID)}
		}

		logger.Logger.Info("Attendance event recorded",
			zap.String("message_id", msg.MessageID),
			zap.String("event_type", string(msg.EventType)),
			zap.Int64("user_id", msg.UserID),
			zap.String("day", msg.Day),
			zap.String("occurred_at", msg.OccurredAt),
			zap.Float64("distance_m", msg.DistanceM),
		)

		if err := cache.MarkMessageProcessed(ctx, msg.MessageID, 48*time.Hour); err != nil {
			logger.Logger.Warn("Failed to mark message as processed",
				zap.String("message_id", msg.MessageID),
				zap.Error(err),
			)
		}

		return nil
	}

	return mq.Consume(mq.ConsumeOptions{
		Queue:         model.QueueAttendanceEvents,
		ConsumerTag:   "attendance_event_consumer",
		PrefetchCount: 10,
		Handler:       handler,
	})
}

// StartMissedCheckOutConsumer 消费漏签退批次，逐个用户发出告警日志
func StartMissedCheckOutConsumer(ctx context.Context) error {
	handler := func(body []byte) error {
		var msg model.MissedCheckOutMessage
		if err := json.Unmarshal(body, &msg); err != nil {
			return fmt.Errorf("failed to unmarshal missed check-out message: %w", err)
		}

		processed, err := cache.TryMarkMessageProcessing(ctx, msg.MessageID, 24*time.Hour)
		if err != nil {
			logger.Logger.Warn("Failed to check message processed status",
				zap.String("message_id", msg.MessageID),
				zap.Error(err),
			)
		} else if !processed {
			return &errors.SkipMessageError{Reason: fmt.Sprintf("Message %s already processed", msg.MessageID)}
		}

		logger.Logger.Info("Processing missed check-out batch",
			zap.String("message_id", msg.MessageID),
			zap.String("batch_id", msg.BatchID),
			zap.String("day", msg.Day),
			zap.Int("user_count", len(msg.UserIDs)),
		)

		for _, userID := range msg.UserIDs {
			logger.Logger.Warn("User missed check-out",
				zap.Int64("user_id", userID),
				zap.String("day", msg.Day),
				zap.String("batch_id", msg.BatchID),
			)
		}

		if err := cache.MarkMessageProcessed(ctx, msg.MessageID, 48*time.Hour); err != nil {
			logger.Logger.Warn("Failed to mark message as processed",
				zap.String("message_id", msg.MessageID),
				zap.Error(err),
			)
		}

		return nil
	}

	return mq.Consume(mq.ConsumeOptions{
		Queue:         model.QueueAttendanceMissed,
		ConsumerTag:   "missed_check_out_consumer",
		PrefetchCount: 5,
		Handler:       handler,
	})
}
