package queue

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"OnSite/internal/model"
	"OnSite/pkg/logger"
	"OnSite/pkg/snowflake"
	"OnSite/storage/mq"
	"OnSite/utils"
)

// PublishAttendanceEvent 发布签到/签退事件
func PublishAttendanceEvent(_ context.Context, eventType model.AttendanceEventType, record *model.Attendance, lat, lng, distanceM float64) error {
	id, err := snowflake.NextID(snowflake.GeneratorTypeMessage)
	if err != nil {
		return fmt.Errorf("failed to generate message ID: %w", err)
	}

	occurredAt := record.CheckInTime
	routingKey := model.RoutingKeyCheckIn
	if eventType == model.AttendanceEventCheckOut {
		occurredAt = record.CheckOutTime
		routingKey = model.RoutingKeyCheckOut
	}

	msg := model.AttendanceEventMessage{
		MessageID: fmt.Sprintf("att_%s_%d", eventType, id),
		EventType: eventType,
		UserID:    record.UserID,
		Day:       record.Day,
		Lat:       lat,
		Lng:       lng,
		DistanceM: distanceM,
	}
	if occurredAt != nil {
		msg.OccurredAt = occurredAt.Format(utils.TimestampLayout)
	}

	if err := mq.PublishMessage(model.ExchangeEvents, routingKey, msg); err != nil {
		logger.Logger.Error("Failed to publish attendance event",
			zap.String("message_id", msg.MessageID),
			zap.String("event_type", string(eventType)),
			zap.Int64("user_id", record.UserID),
			zap.Error(err),
		)
		return err
	}

	logger.Logger.Info("Published attendance event",
		zap.String("message_id", msg.MessageID),
		zap.String("event_type", string(eventType)),
		zap.Int64("user_id", record.UserID),
		zap.String("day", record.Day),
	)

	return nil
}

// PublishMissedCheckOut 发布漏签退批次告警
func PublishMissedCheckOut(msg model.MissedCheckOutMessage) error {
	if msg.MessageID == "" {
		id, err := snowflake.NextID(snowflake.GeneratorTypeMessage)
		if err != nil {
			logger.Logger.Error("Failed to generate message ID",
				zap.String("batch_id", msg.BatchID),
				zap.Error(err),
			)
			return fmt.Errorf("failed to generate message ID: %w", err)
		}
		msg.MessageID = fmt.Sprintf("missed_%d", id)
	}

	err := mq.PublishMessage(model.ExchangeNotification, model.RoutingKeyMissedCheckOut, msg)
	if err != nil {
		logger.Logger.Error("Failed to publish missed check-out message",
			zap.String("batch_id", msg.BatchID),
			zap.Int("user_count", len(msg.UserIDs)),
			zap.Error(err),
		)
		return err
	}

	logger.Logger.Info("Published missed check-out message",
		zap.String("message_id", msg.MessageID),
		zap.String("batch_id", msg.BatchID),
		zap.String("day", msg.Day),
		zap.Int("user_count", len(msg.UserIDs)),
	)

	return nil
}
