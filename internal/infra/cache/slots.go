package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"

	"github.com/BruksfildServices01/salon-scheduler/internal/domain/clocktime"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/schedule"
)

// SlotCache stores generated slots per provider and date. Every write that
// touches a provider's date invalidates all variants cached for it.
// Implementations fail open: errors become misses.
//
// Get also returns the day version it looked under. Set stores under the
// version the caller read before generating, so a result computed across
// an invalidation lands under a dead version and is never served. A
// negative version means the cache could not tell; Set then skips.
type SlotCache interface {
	Get(ctx context.Context, providerID uint, date time.Time, variant string) ([]schedule.TimeSlot, int64, bool)
	Set(ctx context.Context, providerID uint, date time.Time, version int64, variant string, slots []schedule.TimeSlot)
	Invalidate(ctx context.Context, providerID uint, dates ...time.Time)
}

func dayKey(providerID uint, date time.Time) string {
	return fmt.Sprintf("%d:%s", providerID, clocktime.FormatDate(date))
}

// --------------------------------------------------
// Redis
// --------------------------------------------------

// RedisSlotCache keys entries by a per-day version number, so one INCR
// orphans every variant of that day; orphans expire with their TTL.
type RedisSlotCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSlotCache(client *redis.Client, ttl time.Duration) *RedisSlotCache {
	return &RedisSlotCache{client: client, ttl: ttl}
}

func (c *RedisSlotCache) versionKey(providerID uint, date time.Time) string {
	return "slots:v:" + dayKey(providerID, date)
}

func (c *RedisSlotCache) version(ctx context.Context, providerID uint, date time.Time) (int64, error) {
	v, err := c.client.Get(ctx, c.versionKey(providerID, date)).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(v, 10, 64)
}

func (c *RedisSlotCache) dataKey(providerID uint, date time.Time, version int64, variant string) string {
	return fmt.Sprintf("slots:%s:%d:%s", dayKey(providerID, date), version, variant)
}

func (c *RedisSlotCache) Get(ctx context.Context, providerID uint, date time.Time, variant string) ([]schedule.TimeSlot, int64, bool) {
	v, err := c.version(ctx, providerID, date)
	if err != nil {
		log.Warn().Err(err).Uint("provider_id", providerID).Msg("slot cache version read failed")
		return nil, -1, false
	}

	raw, err := c.client.Get(ctx, c.dataKey(providerID, date, v, variant)).Bytes()
	if err == redis.Nil {
		return nil, v, false
	}
	if err != nil {
		log.Warn().Err(err).Uint("provider_id", providerID).Msg("slot cache read failed")
		return nil, v, false
	}

	var slots []schedule.TimeSlot
	if err := json.Unmarshal(raw, &slots); err != nil {
		log.Warn().Err(err).Msg("slot cache entry unreadable")
		return nil, v, false
	}
	return slots, v, true
}

func (c *RedisSlotCache) Set(ctx context.Context, providerID uint, date time.Time, version int64, variant string, slots []schedule.TimeSlot) {
	if version < 0 {
		return
	}

	raw, err := json.Marshal(slots)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.dataKey(providerID, date, version, variant), raw, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Uint("provider_id", providerID).Msg("slot cache write failed")
	}
}

func (c *RedisSlotCache) Invalidate(ctx context.Context, providerID uint, dates ...time.Time) {
	if len(dates) == 0 {
		return
	}
	pipe := c.client.TxPipeline()
	for _, d := range dates {
		key := c.versionKey(providerID, d)
		pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, 48*time.Hour)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		log.Warn().Err(err).Uint("provider_id", providerID).Msg("slot cache invalidation failed")
	}
}

// --------------------------------------------------
// In-process
// --------------------------------------------------

type memSlotEntry struct {
	slots   []schedule.TimeSlot
	expires time.Time
}

// MemorySlotCache is a bounded LRU used when redis is not configured.
type MemorySlotCache struct {
	mu       sync.Mutex
	entries  *lru.Cache[string, memSlotEntry]
	versions map[string]int64
	ttl      time.Duration
	now      func() time.Time
}

func NewMemorySlotCache(size int, ttl time.Duration) *MemorySlotCache {
	entries, err := lru.New[string, memSlotEntry](size)
	if err != nil {
		entries, _ = lru.New[string, memSlotEntry](1024)
	}
	return &MemorySlotCache{
		entries:  entries,
		versions: make(map[string]int64),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (c *MemorySlotCache) key(providerID uint, date time.Time, version int64, variant string) string {
	return fmt.Sprintf("%s:%d:%s", dayKey(providerID, date), version, variant)
}

func (c *MemorySlotCache) Get(_ context.Context, providerID uint, date time.Time, variant string) ([]schedule.TimeSlot, int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := c.versions[dayKey(providerID, date)]
	k := c.key(providerID, date, v, variant)
	e, ok := c.entries.Get(k)
	if !ok {
		return nil, v, false
	}
	if c.now().After(e.expires) {
		c.entries.Remove(k)
		return nil, v, false
	}
	out := make([]schedule.TimeSlot, len(e.slots))
	copy(out, e.slots)
	return out, v, true
}

func (c *MemorySlotCache) Set(_ context.Context, providerID uint, date time.Time, version int64, variant string, slots []schedule.TimeSlot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Entries under an older version are unreachable; don't let them
	// push live ones out of the LRU.
	if version < 0 || version != c.versions[dayKey(providerID, date)] {
		return
	}

	stored := make([]schedule.TimeSlot, len(slots))
	copy(stored, slots)
	c.entries.Add(c.key(providerID, date, version, variant), memSlotEntry{slots: stored, expires: c.now().Add(c.ttl)})
}

func (c *MemorySlotCache) Invalidate(_ context.Context, providerID uint, dates ...time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, d := range dates {
		c.versions[dayKey(providerID, d)]++
	}
}

var (
	_ SlotCache = (*RedisSlotCache)(nil)
	_ SlotCache = (*MemorySlotCache)(nil)
)
