//go:build ignore

// Публикует тестовые события безопасности в stream:security:events,
// чтобы проверить воркер архивации без реального трафика.
//
//	go run scripts/publish_security_event.go -n 5 -type RATE_LIMIT_EXCEEDED
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/elastiquality-search/internal/domain"
	redisRepo "github.com/elastiquality-search/internal/repository/redis"
)

func main() {
	redisAddr := flag.String("redis", "localhost:6379", "Redis address")
	count := flag.Int("n", 1, "number of events")
	eventType := flag.String("type", string(domain.EventRateLimitExceeded), "event type")
	severity := flag.String("severity", string(domain.SeverityMedium), "event severity")
	wait := flag.Duration("wait", 10*time.Second, "how long to wait for the archive worker to ack")
	flag.Parse()

	client := redis.NewClient(&redis.Options{Addr: *redisAddr})
	defer client.Close()

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	streamRepo := redisRepo.NewStreamRepository(client, zap.NewNop(), 0)

	for i := 0; i < *count; i++ {
		event := domain.NewSecurityEvent(domain.SecurityEventType(*eventType), domain.Severity(*severity))
		event.IP = fmt.Sprintf("203.0.113.%d", i%250+1)
		event.Path = "/search/professionals"
		event.UserAgent = "publish-security-event"
		event.Details = map[string]interface{}{"source": "script", "seq": i}

		if err := streamRepo.PublishToStream(ctx, domain.StreamSecurityEvents, event); err != nil {
			log.Fatalf("Failed to publish event: %v", err)
		}
		fmt.Printf("published %s %s\n", event.ID, event.Type)
	}

	// ждём, пока группа воркера не разберёт очередь
	deadline := time.Now().Add(*wait)
	for time.Now().Before(deadline) {
		groups, err := client.XInfoGroups(ctx, domain.StreamSecurityEvents).Result()
		if err == nil && len(groups) > 0 {
			pending := int64(0)
			lag := int64(0)
			for _, g := range groups {
				pending += g.Pending
				lag += g.Lag
			}
			if pending == 0 && lag == 0 {
				fmt.Println("all events consumed and acked")
				return
			}
		}
		time.Sleep(500 * time.Millisecond)
	}
	fmt.Println("timeout: events are still pending (is the worker running with WORKER_ENABLED=true?)")
}
