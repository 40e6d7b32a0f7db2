package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/watchroom/watchroom/internal/config"
	taskRepository "github.com/watchroom/watchroom/internal/tasks/repository"
	"github.com/watchroom/watchroom/internal/worker"
	"github.com/watchroom/watchroom/pkg/db/aws"
	"github.com/watchroom/watchroom/pkg/db/postgres"
	clientRedis "github.com/watchroom/watchroom/pkg/db/redis"
	"github.com/watchroom/watchroom/pkg/logger"
)

func main() {
	configFile := "config.yml"
	cfgFile, err := config.LoadConfig(configFile)
	if err != nil {
		log.Fatalf("loadConfig: %v", err)
	}
	cfg, err := config.ParseConfig(cfgFile)
	if err != nil {
		log.Fatalf("parseConfig: %v", err)
	}

	appLogger := logger.NewApiLogger(cfg)
	appLogger.InitLogger()
	appLogger.Infof("AppVersion: %s, LogLevel: %s, Mode: %s", cfg.Server.AppVersion, cfg.Logger.Level, cfg.Server.Mode)

	psqlDB, err := postgres.NewPsqlDB(cfg)
	if err != nil {
		appLogger.Fatalf("could not connect to db: %s", err)
	}
	appLogger.Infof("db connected, status: %#v", psqlDB.Stats())
	defer psqlDB.Close()

	redisClient, err := clientRedis.NewRedisClient(cfg)
	if err != nil {
		appLogger.Fatalf("could not connect to redis: %s", err)
	}
	defer redisClient.Close()
	appLogger.Infof("redis connected")

	awsClient, presignClient, err := aws.NewAWSClient(cfg.S3.Endpoint, cfg.S3.Region, cfg.S3.AccessKey, cfg.S3.SecretKey)
	if err != nil {
		appLogger.Fatalf("could not connect to s3: %s", err)
	}

	taskRepo := taskRepository.NewTaskRepo(psqlDB)
	awsRepo := taskRepository.NewAwsRepository(awsClient, presignClient)
	redisRepo := taskRepository.NewTaskRedisRepo(redisClient)

	processor := worker.NewProcessor(cfg, taskRepo, awsRepo, worker.NewFFmpegEncoder(), appLogger)
	w := worker.NewWorker(cfg, appLogger, redisRepo, processor)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		appLogger.Infof("shutting down workers")
		cancel()
	}()

	w.Start(ctx)
	w.Wait()
}
