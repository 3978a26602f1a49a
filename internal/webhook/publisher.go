package webhook

//go:generate mockgen -source=publisher.go -destination=mocks/mock_publisher.go -package=mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	deviceQueueKey = "device_events"
)

type EventKind string

const (
	EventAlert    EventKind = "alert"
	EventOpenLink EventKind = "open_link"
)

// DeviceEvent - событие для устройства пользователя
type DeviceEvent struct {
	Kind      EventKind `json:"kind"`
	UserID    string    `json:"user_id"`
	AlertKind string    `json:"alert_kind,omitempty"`
	Title     string    `json:"title,omitempty"`
	Message   string    `json:"message,omitempty"`
	URL       string    `json:"url,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher - интерфейс для публикации событий устройств
type Publisher interface {
	Publish(ctx context.Context, event DeviceEvent) error
}

// RedisPublisher - реализация Publisher, использующая Redis
type RedisPublisher struct {
	redisClient *redis.Client
}

// NewRedisPublisher создает новый RedisPublisher
func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{
		redisClient: client,
	}
}

// Publish публикует событие в очередь Redis
func (p *RedisPublisher) Publish(ctx context.Context, event DeviceEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal device event: %w", err)
	}

	// LPUSH добавляет событие в левую часть списка, воркер забирает справа
	if err := p.redisClient.LPush(ctx, deviceQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish device event to Redis: %w", err)
	}
	return nil
}
