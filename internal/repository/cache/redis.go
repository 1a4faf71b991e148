package cache

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/elastiquality-search/internal/config"
)

const (
	connectTimeout = 5 * time.Second

	// EXPIRE ... NX, на котором держится фиксированное окно лимитера, появился в Redis 7
	minFixedWindowMajor = 7
)

// Redis - общий клиент для кеша поиска, лимитера и стрима событий безопасности
type Redis struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedis подключается к REDIS_* и предупреждает, если сервер слишком старый для лимитера
func NewRedis(cfg *config.RedisConfig, logger *zap.Logger) (*Redis, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis %s: %w", addr, err)
	}

	r := &Redis{client: client, logger: logger}

	version := r.serverVersion(ctx)
	if major := majorVersion(version); major > 0 && major < minFixedWindowMajor {
		logger.Warn("Redis is older than 7, redis rate limiter backend will fail open",
			zap.String("redis_version", version))
	}

	logger.Info("Redis connected",
		zap.String("addr", addr),
		zap.Int("db", cfg.DB),
		zap.String("redis_version", version),
	)

	return r, nil
}

// NewRedisFromClient оборачивает готовый клиент (используется в тестах)
func NewRedisFromClient(client *redis.Client, logger *zap.Logger) *Redis {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Redis{client: client, logger: logger}
}

func (r *Redis) Close() error {
	r.logger.Info("Closing Redis connection")
	return r.client.Close()
}

// Health реализует handler.HealthChecker
func (r *Redis) Health(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

func (r *Redis) Client() *redis.Client {
	return r.client
}

// serverVersion - redis_version из INFO server, пустая строка если прочитать не удалось
func (r *Redis) serverVersion(ctx context.Context) string {
	info, err := r.client.Info(ctx, "server").Result()
	if err != nil {
		r.logger.Debug("Failed to read redis server info", zap.Error(err))
		return ""
	}

	scanner := bufio.NewScanner(strings.NewReader(info))
	for scanner.Scan() {
		if v, ok := strings.CutPrefix(strings.TrimSpace(scanner.Text()), "redis_version:"); ok {
			return v
		}
	}
	return ""
}

// majorVersion: "7.2.4" -> 7, нераспознанная версия -> 0
func majorVersion(version string) int {
	head, _, _ := strings.Cut(version, ".")
	major, err := strconv.Atoi(head)
	if err != nil {
		return 0
	}
	return major
}
