package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Search    SearchConfig
	RateLimit RateLimitConfig
	Audit     AuditConfig
	Log       LogConfig
	Worker    WorkerConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	Env          string
	ProxyHeader  string
	AllowOrigins string
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

// SearchConfig - параметры поиска профессионалов
type SearchConfig struct {
	CandidateLimit int
	DefaultLimit   int
	MaxLimit       int
	QueryTimeout   time.Duration
	CacheTTL       time.Duration
	PushdownFilter bool
}

// RateLimitConfig - параметры ограничения частоты запросов по IP
type RateLimitConfig struct {
	Enabled     bool
	Backend     string
	MaxRequests int
	Window      time.Duration
}

// AuditConfig - публикация событий безопасности
type AuditConfig struct {
	Enabled        bool
	PublishTimeout time.Duration
}

type LogConfig struct {
	Level string
}

type WorkerConfig struct {
	Enabled           bool
	ConsumerGroup     string
	StreamReadTimeout time.Duration
	BatchSize         int
	MaxRetries        int
	RetentionDays     int
	PurgeSchedule     string
}

const (
	RateLimitBackendRedis  = "redis"
	RateLimitBackendMemory = "memory"
)

// Load читает конфигурацию из .env (если файл есть) и переменных окружения
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("API_HOST", "0.0.0.0")
	v.SetDefault("API_PORT", 8080)
	v.SetDefault("API_ENV", "development")
	v.SetDefault("CORS_ALLOW_ORIGINS", "http://localhost:3000")

	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", 300)
	v.SetDefault("DB_CONN_MAX_IDLE_TIME", 60)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)

	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("SEARCH_CANDIDATE_LIMIT", 100)
	v.SetDefault("SEARCH_DEFAULT_LIMIT", 12)
	v.SetDefault("SEARCH_MAX_LIMIT", 100)
	v.SetDefault("SEARCH_QUERY_TIMEOUT", 5000)
	v.SetDefault("SEARCH_CACHE_TTL", 0)
	v.SetDefault("SEARCH_PUSHDOWN_FILTERS", false)

	v.SetDefault("RATE_LIMIT_ENABLED", true)
	v.SetDefault("RATE_LIMIT_BACKEND", RateLimitBackendRedis)
	v.SetDefault("RATE_LIMIT_MAX_REQUESTS", 30)
	v.SetDefault("RATE_LIMIT_WINDOW", 60)

	v.SetDefault("AUDIT_ENABLED", true)
	v.SetDefault("AUDIT_PUBLISH_TIMEOUT", 2000)

	v.SetDefault("WORKER_CONSUMER_GROUP", "security-event-workers")
	v.SetDefault("WORKER_STREAM_READ_TIMEOUT", 5000)
	v.SetDefault("WORKER_BATCH_SIZE", 50)
	v.SetDefault("WORKER_MAX_RETRIES", 3)
	v.SetDefault("WORKER_RETENTION_DAYS", 90)
	v.SetDefault("WORKER_PURGE_SCHEDULE", "0 3 * * *")
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:         v.GetString("API_HOST"),
			Port:         v.GetInt("API_PORT"),
			Env:          v.GetString("API_ENV"),
			ProxyHeader:  v.GetString("API_PROXY_HEADER"),
			AllowOrigins: v.GetString("CORS_ALLOW_ORIGINS"),
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
		Search: SearchConfig{
			CandidateLimit: v.GetInt("SEARCH_CANDIDATE_LIMIT"),
			DefaultLimit:   v.GetInt("SEARCH_DEFAULT_LIMIT"),
			MaxLimit:       v.GetInt("SEARCH_MAX_LIMIT"),
			QueryTimeout:   time.Duration(v.GetInt("SEARCH_QUERY_TIMEOUT")) * time.Millisecond,
			CacheTTL:       time.Duration(v.GetInt("SEARCH_CACHE_TTL")) * time.Second,
			PushdownFilter: v.GetBool("SEARCH_PUSHDOWN_FILTERS"),
		},
		RateLimit: RateLimitConfig{
			Enabled:     v.GetBool("RATE_LIMIT_ENABLED"),
			Backend:     strings.ToLower(strings.TrimSpace(v.GetString("RATE_LIMIT_BACKEND"))),
			MaxRequests: v.GetInt("RATE_LIMIT_MAX_REQUESTS"),
			Window:      time.Duration(v.GetInt("RATE_LIMIT_WINDOW")) * time.Second,
		},
		Audit: AuditConfig{
			Enabled:        v.GetBool("AUDIT_ENABLED"),
			PublishTimeout: time.Duration(v.GetInt("AUDIT_PUBLISH_TIMEOUT")) * time.Millisecond,
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Worker: WorkerConfig{
			Enabled:           v.GetBool("WORKER_ENABLED"),
			ConsumerGroup:     v.GetString("WORKER_CONSUMER_GROUP"),
			StreamReadTimeout: time.Duration(v.GetInt("WORKER_STREAM_READ_TIMEOUT")) * time.Millisecond,
			BatchSize:         v.GetInt("WORKER_BATCH_SIZE"),
			MaxRetries:        v.GetInt("WORKER_MAX_RETRIES"),
			RetentionDays:     v.GetInt("WORKER_RETENTION_DAYS"),
			PurgeSchedule:     v.GetString("WORKER_PURGE_SCHEDULE"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет значения, которые нельзя молча исправить
func (c *Config) Validate() error {
	if c.Search.CandidateLimit <= 0 {
		return fmt.Errorf("SEARCH_CANDIDATE_LIMIT must be positive, got %d", c.Search.CandidateLimit)
	}
	if c.Search.DefaultLimit <= 0 || c.Search.MaxLimit <= 0 || c.Search.DefaultLimit > c.Search.MaxLimit {
		return fmt.Errorf("invalid search limits: default=%d max=%d", c.Search.DefaultLimit, c.Search.MaxLimit)
	}
	if c.Search.QueryTimeout <= 0 {
		return fmt.Errorf("SEARCH_QUERY_TIMEOUT must be positive")
	}
	if c.RateLimit.Enabled {
		switch c.RateLimit.Backend {
		case RateLimitBackendRedis, RateLimitBackendMemory:
		default:
			return fmt.Errorf("unknown RATE_LIMIT_BACKEND %q", c.RateLimit.Backend)
		}
		if c.RateLimit.MaxRequests <= 0 || c.RateLimit.Window <= 0 {
			return fmt.Errorf("rate limit requires positive RATE_LIMIT_MAX_REQUESTS and RATE_LIMIT_WINDOW")
		}
	}
	return nil
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
