package cache

import (
	"context"
	"fmt"
	"time"

	"OnSite/storage/redis"
)

const (
	messageProcessedPrefix = "mq:processed"
	missedScanPrefix       = "attendance:missed_scan"

	processedTTL = 24 * time.Hour
	// 漏签退扫描标记保留到次日之后，防止调度器重启后重复投递
	missedScanTTL = 48 * time.Hour
)

// TryMarkMessageProcessing 尝试原子性地标记消息正在处理（使用 SETNX）
// 返回 true 表示成功标记（首次处理），false 表示已被标记（重复消息或正在处理）
func TryMarkMessageProcessing(ctx context.Context, messageID string, ttl time.Duration) (bool, error) {
	key := redis.Key(messageProcessedPrefix, messageID)
	if ttl <= 0 {
		ttl = processedTTL
	}

	result, err := redis.Client().SetNX(ctx, key, "processing", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark message as processing: %w", err)
	}
	return result, nil
}

// MarkMessageProcessed 标记消息已处理（处理成功时调用，延长 TTL）
func MarkMessageProcessed(ctx context.Context, messageID string, ttl time.Duration) error {
	key := redis.Key(messageProcessedPrefix, messageID)
	if ttl <= 0 {
		ttl = processedTTL
	}
	return redis.Client().Set(ctx, key, "completed", ttl).Err()
}

// TryMarkMissedScan 按考勤日标记漏签退扫描，同一天只投递一批
func TryMarkMissedScan(ctx context.Context, day string) (bool, error) {
	key := redis.Key(missedScanPrefix, day)

	result, err := redis.Client().SetNX(ctx, key, "1", missedScanTTL).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark missed check-out scan: %w", err)
	}
	return result, nil
}

// UnmarkMissedScan 投递失败时清除标记，允许下一轮重试
func UnmarkMissedScan(ctx context.Context, day string) error {
	key := redis.Key(missedScanPrefix, day)
	return redis.Client().Del(ctx, key).Err()
}
