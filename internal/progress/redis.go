package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fetchkit/fetchkit/config"
)

// RedisSink publishes events to a redis channel so out-of-process UIs
// can subscribe to batch progress. Publish failures are logged and
// dropped, never surfaced to the orchestrator.
type RedisSink struct {
	client  *redis.Client
	channel string
	logger  *log.Logger
}

func NewRedisSink(cfg config.RedisConfig, logger *log.Logger) *RedisSink {
	if logger == nil {
		logger = log.New(log.Writer(), "[PROGRESS] ", log.LstdFlags)
	}
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Pass,
		DB:       cfg.DB,
	})
	channel := cfg.Channel
	if channel == "" {
		channel = "fetchkit.progress"
	}
	return &RedisSink{client: client, channel: channel, logger: logger}
}

func (s *RedisSink) Emit(eventType string, payload map[string]any) {
	b, err := json.Marshal(Event{Type: eventType, Payload: payload})
	if err != nil {
		s.logger.Printf("drop %s: %v", eventType, err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.client.Publish(ctx, s.channel, b).Err(); err != nil {
		s.logger.Printf("drop %s: %v", eventType, err)
	}
}

// Close releases the underlying redis connection.
func (s *RedisSink) Close() error { return s.client.Close() }
