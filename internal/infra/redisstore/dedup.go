package redisstore

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	eventKeyPrefix = "webhook:event:"
	processingTTL  = 5 * time.Minute
	doneTTL        = 24 * time.Hour

	stateProcessing = "processing"
	stateDone       = "done"
)

// EventDeduper claims provider event ids so concurrent or repeated
// deliveries are processed once. A claim starts as "processing" with a
// short TTL and only becomes "done" for a day after MarkDone.
type EventDeduper struct {
	client        *redis.Client
	processingTTL time.Duration
	doneTTL       time.Duration
}

func NewEventDeduper(client *redis.Client) *EventDeduper {
	return &EventDeduper{client: client, processingTTL: processingTTL, doneTTL: doneTTL}
}

// Claim returns false when another delivery already holds the id.
func (d *EventDeduper) Claim(ctx context.Context, eventID string) (bool, error) {
	return d.client.SetNX(ctx, eventKeyPrefix+eventID, stateProcessing, d.processingTTL).Result()
}

// MarkDone records a successfully processed event.
func (d *EventDeduper) MarkDone(ctx context.Context, eventID string) error {
	return d.client.Set(ctx, eventKeyPrefix+eventID, stateDone, d.doneTTL).Err()
}

// Release frees the claim after a processing error so the provider retry
// is not swallowed.
func (d *EventDeduper) Release(ctx context.Context, eventID string) error {
	return d.client.Del(ctx, eventKeyPrefix+eventID).Err()
}

// NoopDeduper accepts every event; the database constraints still keep
// processing idempotent.
type NoopDeduper struct{}

func (NoopDeduper) Claim(context.Context, string) (bool, error) { return true, nil }
func (NoopDeduper) MarkDone(context.Context, string) error { return nil }
func (NoopDeduper) Release(context.Context, string) error { return nil }
