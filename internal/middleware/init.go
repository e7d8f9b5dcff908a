package middleware

import (
	"go.uber.org/zap"

	"OnSite/pkg/logger"
)

// Init 初始化需要前置构建的中间件，目前只有 JWT 认证
func Init() error {
	if err := initAuthMiddleware(); err != nil {
		logger.Logger.Error("Failed to initialize auth middleware", zap.Error(err))
		return err
	}

	logger.Logger.Info("All middlewares initialized")
	return nil
}
