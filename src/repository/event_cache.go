package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ctfpad/backend/src/domain"
	"github.com/go-redis/redis/v8"
)

// EventCacheRepository keeps the last successful CTFTime fetch in Redis so
// the public API is not hammered on every dashboard load.
type EventCacheRepository struct {
	redis *redis.Client
	key   string
	ttl   time.Duration
}

func NewEventCacheRepository(redis *redis.Client, key string, ttl time.Duration) *EventCacheRepository {
	return &EventCacheRepository{
		redis: redis,
		key:   key,
		ttl:   ttl,
	}
}

// GetUpcomingEvents returns the cached event list, or redis.Nil when the
// cache is cold or expired.
func (r *EventCacheRepository) GetUpcomingEvents(ctx context.Context) ([]domain.CtftimeEvent, error) {
	data, err := r.redis.Get(ctx, r.key).Result()
	if err != nil {
		return nil, err
	}

	var events []domain.CtftimeEvent
	if err := json.Unmarshal([]byte(data), &events); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached events: %w", err)
	}
	return events, nil
}

func (r *EventCacheRepository) SetUpcomingEvents(ctx context.Context, events []domain.CtftimeEvent) error {
	data, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("failed to marshal events: %w", err)
	}
	return r.redis.Set(ctx, r.key, data, r.ttl).Err()
}
