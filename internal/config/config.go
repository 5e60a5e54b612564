package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Storage   StorageConfig   `mapstructure:"storage"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Assets    AssetsConfig    `mapstructure:"assets"`
	Runner    RunnerConfig    `mapstructure:"runner"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// 运行时标志（非配置文件，通过命令行参数设置）
	ForceMigrate bool `mapstructure:"-"` // 强制执行数据库迁移
	MigrateOnly  bool `mapstructure:"-"` // 仅迁移模式（迁移后退出）
}

type ServerConfig struct {
	Port string
	Mode string
}

// StorageConfig 选择学习者聚合的持久化后端。
// driver = mysql 使用数据库；memory 使用进程内存（开发/数据库不可用时的降级模式）。
type StorageConfig struct {
	Driver string `mapstructure:"driver"`
}

type DatabaseConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
}

type RedisConfig struct {
	Enabled  bool `mapstructure:"enabled"`
	Host     string
	Port     int
	Password string
	DB       int
}

// AssetsConfig 主题资源文件（示意图、示例文件）的存放方式。
type AssetsConfig struct {
	Type          string `mapstructure:"type"`
	LocalPath     string `mapstructure:"local_path"`
	MinioEndpoint string `mapstructure:"minio_endpoint"`
	MinioAccessID string `mapstructure:"minio_access_key"`
	MinioSecret   string `mapstructure:"minio_secret_key"`
	MinioBucket   string `mapstructure:"minio_bucket"`
}

// RunnerConfig 外部代码执行服务（Piston 风格 API）。
type RunnerConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("DEVPATH")
	viper.AutomaticEnv()

	// Storage
	viper.BindEnv("storage.driver", "STORAGE_DRIVER")

	// Database
	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.dbname", "DATABASE_NAME")

	// Redis
	viper.BindEnv("redis.enabled", "REDIS_ENABLED")
	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")

	// Server
	viper.BindEnv("server.mode", "SERVER_MODE")

	// Assets
	viper.BindEnv("assets.type", "ASSETS_TYPE")
	viper.BindEnv("assets.minio_endpoint", "MINIO_ENDPOINT")
	viper.BindEnv("assets.minio_access_key", "MINIO_ACCESS_KEY")
	viper.BindEnv("assets.minio_secret_key", "MINIO_SECRET_KEY")
	viper.BindEnv("assets.minio_bucket", "MINIO_BUCKET")

	// Runner
	viper.BindEnv("runner.base_url", "RUNNER_BASE_URL")

	// Tracing
	viper.BindEnv("tracing.enabled", "TRACING_ENABLED")
	viper.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = "mysql"
	}
	if cfg.Storage.Driver != "mysql" && cfg.Storage.Driver != "memory" {
		return nil, fmt.Errorf("unknown storage driver %q (expected mysql or memory)", cfg.Storage.Driver)
	}

	if cfg.Runner.TimeoutSeconds <= 0 {
		cfg.Runner.TimeoutSeconds = 15
	}

	if cfg.Assets.Type == "local" {
		if _, err := os.Stat(cfg.Assets.LocalPath); os.IsNotExist(err) {
			os.MkdirAll(cfg.Assets.LocalPath, 0755)
		}
	}

	return &cfg, nil
}
