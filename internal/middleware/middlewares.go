package middleware

import (
	"github.com/watchroom/watchroom/internal/auth"
	"github.com/watchroom/watchroom/internal/config"
	"github.com/watchroom/watchroom/pkg/logger"
)

type MiddlewareManager struct {
	authUC  auth.UseCase
	cfg     *config.Config
	origins []string
	logger  logger.Logger
}

// Middleware manager constructor
func NewMiddlewareManager(authUC auth.UseCase, cfg *config.Config, origins []string, logger logger.Logger) *MiddlewareManager {
	return &MiddlewareManager{authUC: authUC, cfg: cfg, origins: origins, logger: logger}
}
