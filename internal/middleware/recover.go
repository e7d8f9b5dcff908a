package middleware

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"go.uber.org/zap"

	"OnSite/config"
	"OnSite/pkg/errors"
	"OnSite/pkg/logger"
	"OnSite/pkg/response"
)

// RecoverMiddleware 捕获 handler panic，记录请求上下文后返回 500。
// 生产环境只回统一提示，开发环境把 panic 内容和堆栈放进 details
func RecoverMiddleware() app.HandlerFunc {
	exposeDetails := !config.Cfg.IsProduction()

	return func(ctx context.Context, c *app.RequestContext) {
		defer func() {
			if err := recover(); err != nil {
				stack := trimmedStack()
				logPanic(ctx, c, err, stack)
				writePanicResponse(ctx, c, err, stack, exposeDetails)
			}
		}()

		c.Next(ctx)
	}
}

func logPanic(ctx context.Context, c *app.RequestContext, err interface{}, stack []byte) {
	fields := []zap.Field{
		zap.String("panic", fmt.Sprintf("%v", err)),
		zap.String("method", string(c.Method())),
		zap.String("path", string(c.Path())),
		zap.String("client_ip", c.ClientIP()),
		zap.ByteString("stack", stack),
	}

	if userID, exists := GetUserID(ctx, c); exists {
		fields = append(fields, zap.String("user_id", userID))
	}

	logger.Logger.Error("Recovered from panic", fields...)
}

func writePanicResponse(ctx context.Context, c *app.RequestContext, err interface{}, stack []byte, exposeDetails bool) {
	errDef := errors.Definition{
		Code:    "INTERNAL_SERVER_ERROR",
		Message: "Internal server error, please try again later",
	}

	if !exposeDetails {
		response.Error(ctx, c, errDef)
		return
	}

	errDef.Message = fmt.Sprintf("Internal error: %v", err)
	response.ErrorWithDetails(ctx, c, errDef, map[string]interface{}{
		"panic":     fmt.Sprintf("%v", err),
		"stack":     string(stack),
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// trimmedStack 去掉 runtime 和 recover 自身的帧，日志里只留业务调用栈
func trimmedStack() []byte {
	lines := strings.Split(string(debug.Stack()), "\n")
	filtered := make([]string, 0, len(lines))
	skipNext := false

	for _, line := range lines {
		if skipNext {
			skipNext = false
			continue
		}
		if strings.Contains(line, "runtime/panic.go") ||
			strings.Contains(line, "/runtime/") ||
			strings.Contains(line, "middleware.RecoverMiddleware") {
			continue
		}
		if strings.HasPrefix(line, "runtime.") || strings.Contains(line, "middleware.trimmedStack") {
			skipNext = true
			continue
		}
		filtered = append(filtered, line)
	}

	return []byte(strings.Join(filtered, "\n"))
}
