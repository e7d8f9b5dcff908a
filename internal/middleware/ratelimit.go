package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	cfg "OnSite/config"
	"OnSite/pkg/errors"
	"OnSite/pkg/logger"
	"OnSite/pkg/response"
	"OnSite/storage/redis"
)

// RateLimitConfig 基于 Redis 滑动窗口的限流配置
type RateLimitConfig struct {
	// 滑动窗口时长（秒）
	Window int
	// 窗口内最大请求数
	MaxRequests int
	// 限流键前缀
	KeyPrefix string
	// 优先按认证用户限流
	ByUserID bool
	// 无用户身份时按 IP 限流
	ByIP bool
	// 触发限流后的封禁时长（秒）
	BlockDuration int
	// 返回给客户端的提示
	ErrorMessage string
}

// DefaultRateLimitConfig 认证后接口的通用限流
var DefaultRateLimitConfig = RateLimitConfig{
	Window:        60,
	MaxRequests:   100,
	KeyPrefix:     "rate:limit",
	ByUserID:      true,
	ByIP:          true,
	BlockDuration: 300,
	ErrorMessage:  "Too many requests, please try again later",
}

// PingRateLimitConfig 位置上报限流，移动端高频上报在入口削峰
var PingRateLimitConfig = RateLimitConfig{
	Window:        60,
	MaxRequests:   120,
	KeyPrefix:     "ping:rate",
	ByUserID:      true,
	ByIP:          false,
	BlockDuration: 120,
	ErrorMessage:  "Location reporting too frequent",
}

type RateLimiter struct {
	config RateLimitConfig
}

func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	return &RateLimiter{config: config}
}

// identifier 限流主体：优先认证用户，退回客户端 IP
func (rl *RateLimiter) identifier(ctx context.Context, c *app.RequestContext) string {
	if rl.config.ByUserID {
		if userID, exists := GetUserID(ctx, c); exists {
			return "user:" + userID
		}
	}
	if rl.config.ByIP {
		return "ip:" + c.ClientIP()
	}
	return "anonymous"
}

// Allow 滑动窗口计数：zset 里按纳秒时间戳记请求，先清出窗口外的旧记录再计数
func (rl *RateLimiter) Allow(ctx context.Context, key string) (bool, int, error) {
	now := time.Now()
	windowStart := now.Add(-time.Duration(rl.config.Window) * time.Second)

	pipe := redis.Client().Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart.UnixNano(), 10))
	pipe.ZAdd(ctx, key, redislib.Z{
		Score:  float64(now.UnixNano()),
		Member: now.UnixNano(),
	})
	zcardCmd := pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, time.Duration(rl.config.Window+10)*time.Second)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, fmt.Errorf("failed to execute rate limit pipeline: %w", err)
	}

	count := int(zcardCmd.Val())
	return count <= rl.config.MaxRequests, count, nil
}

func (rl *RateLimiter) Block(ctx context.Context, blockKey string) error {
	return redis.Client().Set(ctx, blockKey, "1", time.Duration(rl.config.BlockDuration)*time.Second).Err()
}

func (rl *RateLimiter) IsBlocked(ctx context.Context, blockKey string) (bool, error) {
	result, err := redis.Client().Exists(ctx, blockKey).Result()
	return result > 0, err
}

func (rl *RateLimiter) rejection() errors.Definition {
	if rl.config.ErrorMessage == "" {
		return errors.TooManyRequests
	}
	return errors.Definition{
		Code:    errors.TooManyRequests.Code,
		Message: rl.config.ErrorMessage,
	}
}

// RateLimitMiddleware 封禁检查加滑动窗口计数，超限即封禁一段时间
func RateLimitMiddleware(config RateLimitConfig) app.HandlerFunc {
	limiter := NewRateLimiter(config)

	return func(ctx context.Context, c *app.RequestContext) {
		if !cfg.Cfg.RateLimitEnabled {
			c.Next(ctx)
			return
		}

		id := limiter.identifier(ctx, c)
		countKey := redis.Key(config.KeyPrefix, id)
		blockKey := redis.Key(config.KeyPrefix, "block", id)

		blocked, err := limiter.IsBlocked(ctx, blockKey)
		if err != nil {
			logger.Logger.Error("Failed to check block status", zap.Error(err))
			c.AbortWithStatus(consts.StatusInternalServerError)
			return
		}
		if blocked {
			response.Error(ctx, c, limiter.rejection())
			c.Abort()
			return
		}

		allowed, count, err := limiter.Allow(ctx, countKey)
		if err != nil {
			logger.Logger.Error("Failed to check rate limit", zap.Error(err))
			c.AbortWithStatus(consts.StatusInternalServerError)
			return
		}

		remaining := config.MaxRequests - count
		if remaining < 0 {
			remaining = 0
		}
		c.Response.Header.Set("X-RateLimit-Limit", strconv.Itoa(config.MaxRequests))
		c.Response.Header.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Response.Header.Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(time.Duration(config.Window)*time.Second).Unix(), 10))

		if !allowed {
			if err := limiter.Block(ctx, blockKey); err != nil {
				logger.Logger.Error("Failed to block rate limited client", zap.Error(err))
			}
			response.Error(ctx, c, limiter.rejection())
			c.Abort()
			return
		}

		c.Next(ctx)
	}
}

// GeneralRateLimitMiddleware 认证后路由的通用限流
func GeneralRateLimitMiddleware() app.HandlerFunc {
	return RateLimitMiddleware(DefaultRateLimitConfig)
}

// PingRateLimitMiddleware 位置上报限流
func PingRateLimitMiddleware() app.HandlerFunc {
	return RateLimitMiddleware(PingRateLimitConfig)
}

// AuthRateLimitMiddleware 登录注册按 IP 限流，防爆破
func AuthRateLimitMiddleware() app.HandlerFunc {
	return RateLimitMiddleware(RateLimitConfig{
		Window:        60,
		MaxRequests:   5,
		KeyPrefix:     "auth:rate",
		ByUserID:      false,
		ByIP:          true,
		BlockDuration: 900,
		ErrorMessage:  "Too many authentication attempts",
	})
}
