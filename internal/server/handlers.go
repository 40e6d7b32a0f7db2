package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	authHttp "github.com/watchroom/watchroom/internal/auth/delivery/http"
	authRepository "github.com/watchroom/watchroom/internal/auth/repository"
	authUsecase "github.com/watchroom/watchroom/internal/auth/usecase"
	"github.com/watchroom/watchroom/internal/metadata"
	"github.com/watchroom/watchroom/internal/middleware"
	"github.com/watchroom/watchroom/internal/realtime"
	roomHttp "github.com/watchroom/watchroom/internal/rooms/delivery/http"
	roomRepository "github.com/watchroom/watchroom/internal/rooms/repository"
	roomUsecase "github.com/watchroom/watchroom/internal/rooms/usecase"
	taskHttp "github.com/watchroom/watchroom/internal/tasks/delivery/http"
	taskRepository "github.com/watchroom/watchroom/internal/tasks/repository"
	taskUsecase "github.com/watchroom/watchroom/internal/tasks/usecase"
	"github.com/watchroom/watchroom/pkg/utils"
)

func (s *Server) MapHandlers(e *echo.Echo) error {
	aRepo := authRepository.NewAuthRepo(s.db)
	tRepo := taskRepository.NewTaskRepo(s.db)
	tAWSRepo := taskRepository.NewAwsRepository(s.s3Client, s.preSignClient)
	tRedisRepo := taskRepository.NewTaskRedisRepo(s.redisClient)
	rRepo := roomRepository.NewRoomRepo(s.db)

	authUC := authUsecase.NewAuthUseCase(s.cfg, aRepo, s.logger)
	taskUC := taskUsecase.NewTaskUseCase(s.cfg, tRepo, tRedisRepo, tAWSRepo, s.logger)
	roomUC := roomUsecase.NewRoomUseCase(s.cfg, rRepo, s.logger)
	metadataUC := metadata.NewYoutubeUseCase(s.cfg, s.logger)

	registry := realtime.NewRegistry(rRepo, s.logger)

	authHandlers := authHttp.NewAuthHandler(s.cfg, authUC, s.logger)
	taskHandlers := taskHttp.NewTaskHandler(s.cfg, taskUC, s.logger)
	roomHandlers := roomHttp.NewRoomHandler(s.cfg, roomUC, s.logger)
	gatewayHandlers := realtime.NewGatewayHandler(s.cfg, registry, s.logger)
	metadataHandlers := metadata.NewMetadataHandler(metadataUC, s.logger)

	mw := middleware.NewMiddlewareManager(authUC, s.cfg, []string{"*"}, s.logger)

	v1 := e.Group("/api/v1")
	health := v1.Group("/health")
	authGroup := v1.Group("/auth")
	taskGroup := v1.Group("/tasks")
	roomGroup := v1.Group("/rooms")
	wsGroup := v1.Group("/ws")
	publicGroup := v1.Group("/public")
	webhookGroup := v1.Group("/storage")

	authHttp.MapAuthRoutes(authGroup, authHandlers, mw)
	taskHttp.MapTaskRoutes(taskGroup, taskHandlers, mw)
	taskHttp.MapWebhookRoutes(webhookGroup, taskHandlers)
	roomHttp.MapRoomRoutes(roomGroup, roomHandlers, mw)
	roomHttp.MapPublicRoomRoutes(publicGroup, roomHandlers)
	realtime.MapRealtimeRoutes(wsGroup, gatewayHandlers)
	metadata.MapMetadataRoutes(publicGroup, metadataHandlers)

	health.GET("", func(c echo.Context) error {
		s.logger.Infof("Health check RequestID: %s", utils.GetRequestID(c))
		return c.JSON(http.StatusOK, map[string]string{"status": "OK"})
	})
	return nil
}
