package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Postgres DBConfig
	Redis    RedisConfig
	S3       S3Config
	Worker   WorkerConfig
	Webhook  WebhookConfig
	Logger   Logger
	Metadata MetadataConfig
}

type ServerConfig struct {
	AppVersion   string
	Port         string
	Mode         string
	JwtSecretKey string
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	PgDriver string
}

type RedisConfig struct {
	RedisAddr     string
	RedisPassword string
	DB            int
	MinIdleConns  int
	PoolSize      int
	PoolTimeout   int
	JobQueueKey   string
}

type S3Config struct {
	Endpoint     string
	Region       string
	AccessKey    string
	SecretKey    string
	UploadBucket string
	MediaBucket  string
}

type WorkerConfig struct {
	WorkerCount int
	MaxCPUUsage float64
	ScratchDir  string
	// JobTimeout bounds a single transcode job. Zero means no limit.
	JobTimeout time.Duration
}

type WebhookConfig struct {
	SharedSecret string
}

type Logger struct {
	Development       bool
	DisableCaller     bool
	DisableStacktrace bool
	Encoding          string
	Level             string
}

type MetadataConfig struct {
	YoutubeAPIKey string
}

func LoadConfig(filename string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigFile(filename)
	v.AddConfigPath(".")
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, errors.New("config file not found")
		}
		return nil, err
	}
	return v, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	return &c, nil
}
