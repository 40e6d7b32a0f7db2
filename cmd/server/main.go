package main

import (
	"log"

	"github.com/watchroom/watchroom/internal/config"
	"github.com/watchroom/watchroom/internal/server"
	"github.com/watchroom/watchroom/pkg/db/aws"
	"github.com/watchroom/watchroom/pkg/db/postgres"
	"github.com/watchroom/watchroom/pkg/db/redis"
	"github.com/watchroom/watchroom/pkg/logger"
)

func main() {
	log.Println("Starting server")
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

	redisClient, err := redis.NewRedisClient(cfg)
	if err != nil {
		appLogger.Fatalf("could not connect to redis: %s", err)
	}
	defer redisClient.Close()
	appLogger.Infof("redis connected")

	s3Client, presignClient, err := aws.NewAWSClient(cfg.S3.Endpoint, cfg.S3.Region, cfg.S3.AccessKey, cfg.S3.SecretKey)
	if err != nil {
		appLogger.Fatalf("could not connect to s3: %s", err)
	}

	s := server.NewServer(cfg, psqlDB, redisClient, s3Client, presignClient, appLogger)
	if err = s.Run(); err != nil {
		appLogger.Errorf("server stopped: %s", err)
	}
}
