package wizard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Store persists drafts between wizard steps.
type Store interface {
	Get(ctx context.Context, userID string) (*Draft, error)
	Save(ctx context.Context, userID string, draft *Draft) error
	Clear(ctx context.Context, userID string) error
}

// defaultDraftTTL bounds how long an abandoned draft survives.
const defaultDraftTTL = 30 * time.Minute

// RedisStore keeps drafts in Redis with a TTL, one key per user.
type RedisStore struct {
	redis  *redis.Client
	tracer trace.Tracer
	ttl    time.Duration
}

// NewRedisStore creates a draft store. A non-positive TTL falls back to
// the default.
func NewRedisStore(redisClient *redis.Client, ttl time.Duration) *RedisStore {
	if redisClient == nil {
		panic("wizard: redis client required")
	}
	if ttl <= 0 {
		ttl = defaultDraftTTL
	}
	return &RedisStore{
		redis:  redisClient,
		tracer: otel.Tracer("barbershop.internal.wizard.draft_store"),
		ttl:    ttl,
	}
}

func (s *RedisStore) key(userID string) string {
	return fmt.Sprintf("wizard:%s", userID)
}

// Get returns the user's draft; a missing key yields an empty draft.
func (s *RedisStore) Get(ctx context.Context, userID string) (*Draft, error) {
	ctx, span := s.tracer.Start(ctx, "wizard.draft.get")
	defer span.End()

	data, err := s.redis.Get(ctx, s.key(userID)).Bytes()
	if err == redis.Nil {
		return &Draft{}, nil
	}
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("wizard: load draft: %w", err)
	}
	var draft Draft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, fmt.Errorf("wizard: decode draft: %w", err)
	}
	return &draft, nil
}

// Save stores the draft and refreshes its TTL.
func (s *RedisStore) Save(ctx context.Context, userID string, draft *Draft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("wizard: encode draft: %w", err)
	}
	ctx, span := s.tracer.Start(ctx, "wizard.draft.save")
	defer span.End()

	if err := s.redis.Set(ctx, s.key(userID), data, s.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("wizard: save draft: %w", err)
	}
	return nil
}

// Clear removes the draft, typically after a successful create.
func (s *RedisStore) Clear(ctx context.Context, userID string) error {
	ctx, span := s.tracer.Start(ctx, "wizard.draft.clear")
	defer span.End()

	if err := s.redis.Del(ctx, s.key(userID)).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("wizard: clear draft: %w", err)
	}
	return nil
}

// InMemoryStore is a stub Store for tests.
type InMemoryStore struct {
	drafts map[string]*Draft
}

// NewInMemoryStore creates an empty in-memory draft store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{drafts: make(map[string]*Draft)}
}

// Get returns the user's draft; missing users get an empty draft.
func (s *InMemoryStore) Get(ctx context.Context, userID string) (*Draft, error) {
	if d, ok := s.drafts[userID]; ok {
		copied := *d
		return &copied, nil
	}
	return &Draft{}, nil
}

// Save stores the draft.
func (s *InMemoryStore) Save(ctx context.Context, userID string, draft *Draft) error {
	copied := *draft
	s.drafts[userID] = &copied
	return nil
}

// Clear removes the draft.
func (s *InMemoryStore) Clear(ctx context.Context, userID string) error {
	delete(s.drafts, userID)
	return nil
}

var _ Store = (*RedisStore)(nil)
var _ Store = (*InMemoryStore)(nil)
