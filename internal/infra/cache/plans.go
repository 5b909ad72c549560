package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/BruksfildServices01/salon-scheduler/internal/domain/dayoff"
)

var ErrPlanNotFound = errors.New("day-off plan not found")

// PlanStore keeps day-off plans between the owner's staging requests.
// Plans expire after the store's TTL; an expired plan is simply gone.
type PlanStore interface {
	Save(ctx context.Context, plan *dayoff.Plan) error
	Load(ctx context.Context, providerID uint, id string) (*dayoff.Plan, error)
	Delete(ctx context.Context, providerID uint, id string) error
}

func planKey(providerID uint, id string) string {
	return fmt.Sprintf("dayoff:plan:%d:%s", providerID, id)
}

// --------------------------------------------------
// Redis
// --------------------------------------------------

type RedisPlanStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisPlanStore(client *redis.Client, ttl time.Duration) *RedisPlanStore {
	return &RedisPlanStore{client: client, ttl: ttl}
}

func (s *RedisPlanStore) Save(ctx context.Context, plan *dayoff.Plan) error {
	raw, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}
	if err := s.client.Set(ctx, planKey(plan.ProviderID, plan.ID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("save plan: %w", err)
	}
	return nil
}

func (s *RedisPlanStore) Load(ctx context.Context, providerID uint, id string) (*dayoff.Plan, error) {
	raw, err := s.client.Get(ctx, planKey(providerID, id)).Bytes()
	if err == redis.Nil {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load plan: %w", err)
	}

	var plan dayoff.Plan
	if err := json.Unmarshal(raw, &plan); err != nil {
		return nil, fmt.Errorf("decode plan: %w", err)
	}
	return &plan, nil
}

func (s *RedisPlanStore) Delete(ctx context.Context, providerID uint, id string) error {
	if err := s.client.Del(ctx, planKey(providerID, id)).Err(); err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	return nil
}

// --------------------------------------------------
// In-process
// --------------------------------------------------

type memPlan struct {
	raw     []byte
	expires time.Time
}

// MemoryPlanStore serialises plans like the redis store does, so callers
// never share a *Plan with the store.
type MemoryPlanStore struct {
	mu    sync.Mutex
	plans map[string]memPlan
	ttl   time.Duration
	now   func() time.Time
}

func NewMemoryPlanStore(ttl time.Duration) *MemoryPlanStore {
	return &MemoryPlanStore{
		plans: make(map[string]memPlan),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (s *MemoryPlanStore) Save(_ context.Context, plan *dayoff.Plan) error {
	raw, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.plans[planKey(plan.ProviderID, plan.ID)] = memPlan{raw: raw, expires: s.now().Add(s.ttl)}
	return nil
}

func (s *MemoryPlanStore) Load(_ context.Context, providerID uint, id string) (*dayoff.Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := planKey(providerID, id)
	p, ok := s.plans[key]
	if !ok {
		return nil, ErrPlanNotFound
	}
	if s.now().After(p.expires) {
		delete(s.plans, key)
		return nil, ErrPlanNotFound
	}

	var plan dayoff.Plan
	if err := json.Unmarshal(p.raw, &plan); err != nil {
		return nil, fmt.Errorf("decode plan: %w", err)
	}
	return &plan, nil
}

func (s *MemoryPlanStore) Delete(_ context.Context, providerID uint, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.plans, planKey(providerID, id))
	return nil
}

var (
	_ PlanStore = (*RedisPlanStore)(nil)
	_ PlanStore = (*MemoryPlanStore)(nil)
)
