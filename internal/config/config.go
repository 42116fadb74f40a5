package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Dataset  DatasetConfig
	Reports  ReportsConfig
	Auth     AuthConfig
	Log      LogConfig
	Worker   WorkerConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	Env          string
	AllowOrigins []string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	ApprovedReportsTTL   time.Duration
	ModerationSummaryTTL time.Duration
	QueryCacheTTL        time.Duration
}

// DatasetConfig - откуда брать CSV со статистикой и что делать, если он не загрузился
type DatasetConfig struct {
	Source         string
	AllowSynthetic bool
	FetchTimeout   time.Duration
	SyntheticSeed  int64
}

type ReportsConfig struct {
	AutoApprove bool
}

type AuthConfig struct {
	AdminAPIKey string
}

type LogConfig struct {
	Level string
}

type WorkerConfig struct {
	Enabled       bool
	ConsumerGroup string
	MaxRetries    int
}

// Load читает .env (если он есть) и переменные окружения.
// Переменные окружения имеют приоритет над файлом.
func Load() (*Config, error) {
	return LoadFile(".env")
}

func LoadFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:         v.GetString("API_HOST"),
			Port:         v.GetInt("API_PORT"),
			Env:          v.GetString("API_ENV"),
			AllowOrigins: parseList(v.GetString("CORS_ALLOW_ORIGINS")),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			DBName:          v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxConns:        v.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(v.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			ApprovedReportsTTL:   time.Duration(v.GetInt("APPROVED_REPORTS_CACHE_TTL")) * time.Second,
			ModerationSummaryTTL: time.Duration(v.GetInt("MODERATION_SUMMARY_CACHE_TTL")) * time.Second,
			QueryCacheTTL:        time.Duration(v.GetInt("QUERY_CACHE_TTL")) * time.Second,
		},
		Dataset: DatasetConfig{
			Source:         v.GetString("DATASET_SOURCE"),
			AllowSynthetic: v.GetBool("DATASET_ALLOW_SYNTHETIC"),
			FetchTimeout:   time.Duration(v.GetInt("DATASET_FETCH_TIMEOUT")) * time.Second,
			SyntheticSeed:  v.GetInt64("DATASET_SYNTHETIC_SEED"),
		},
		Reports: ReportsConfig{
			AutoApprove: v.GetBool("REPORTS_AUTO_APPROVE"),
		},
		Auth: AuthConfig{
			AdminAPIKey: v.GetString("ADMIN_API_KEY"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Worker: WorkerConfig{
			Enabled:       v.GetBool("WORKER_ENABLED"),
			ConsumerGroup: v.GetString("WORKER_CONSUMER_GROUP"),
			MaxRetries:    v.GetInt("WORKER_MAX_RETRIES"),
		},
	}

	if cfg.Dataset.Source == "" {
		return nil, fmt.Errorf("DATASET_SOURCE must not be empty")
	}
	if cfg.Worker.MaxRetries < 0 {
		cfg.Worker.MaxRetries = 0
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("API_HOST", "0.0.0.0")
	v.SetDefault("API_PORT", 8080)
	v.SetDefault("API_ENV", "development")
	v.SetDefault("CORS_ALLOW_ORIGINS", "http://localhost:3000,http://localhost:5173,http://localhost:8080")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "crime_dashboard")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", 1800)
	v.SetDefault("DB_CONN_MAX_IDLE_TIME", 300)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("APPROVED_REPORTS_CACHE_TTL", 60)
	v.SetDefault("MODERATION_SUMMARY_CACHE_TTL", 3600)
	v.SetDefault("QUERY_CACHE_TTL", 600)

	v.SetDefault("DATASET_SOURCE", "data/telangana-crime-data.csv")
	v.SetDefault("DATASET_ALLOW_SYNTHETIC", false)
	v.SetDefault("DATASET_FETCH_TIMEOUT", 15)
	v.SetDefault("DATASET_SYNTHETIC_SEED", 2021)

	v.SetDefault("REPORTS_AUTO_APPROVE", false)
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("WORKER_ENABLED", false)
	v.SetDefault("WORKER_CONSUMER_GROUP", "report-events-workers")
	v.SetDefault("WORKER_MAX_RETRIES", 3)
}

func parseList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
