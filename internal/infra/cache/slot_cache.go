package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/clinicdesk/booking-api/internal/models"
)

const revisionKey = "slots:rev"

// SlotCache is a short-TTL read cache for public slot range queries,
// keyed by the query parameters. Every slot write bumps a revision
// counter, which makes all older entries unreachable without scanning
// for them. A nil cache is valid and caches nothing.
type SlotCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSlotCache(rdb *redis.Client, ttl time.Duration) *SlotCache {
	if rdb == nil {
		return nil
	}
	return &SlotCache{rdb: rdb, ttl: ttl}
}

func (c *SlotCache) key(ctx context.Context, providerID *uint, start, end time.Time) string {
	rev, err := c.rdb.Get(ctx, revisionKey).Result()
	if err != nil && err != redis.Nil {
		rev = "?"
	}

	pid := uint(0)
	if providerID != nil {
		pid = *providerID
	}

	return fmt.Sprintf(
		"slots:%s:%d:%d:%d",
		rev, pid, start.Unix(), end.Unix(),
	)
}

func (c *SlotCache) Get(
	ctx context.Context,
	providerID *uint,
	start, end time.Time,
) ([]models.AvailabilitySlot, bool) {

	if c == nil {
		return nil, false
	}

	raw, err := c.rdb.Get(ctx, c.key(ctx, providerID, start, end)).Result()
	if err != nil {
		return nil, false
	}

	var slots []models.AvailabilitySlot
	if err := json.Unmarshal([]byte(raw), &slots); err != nil {
		return nil, false
	}

	return slots, true
}

func (c *SlotCache) Set(
	ctx context.Context,
	providerID *uint,
	start, end time.Time,
	slots []models.AvailabilitySlot,
) {

	if c == nil {
		return
	}

	raw, err := json.Marshal(slots)
	if err != nil {
		return
	}

	if err := c.rdb.Set(ctx, c.key(ctx, providerID, start, end), raw, c.ttl).Err(); err != nil {
		log.Println("slot cache set failed:", err)
	}
}

// Invalidate must be called after every slot write.
func (c *SlotCache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}

	if err := c.rdb.Incr(ctx, revisionKey).Err(); err != nil {
		log.Println("slot cache invalidate failed:", err)
	}
}
