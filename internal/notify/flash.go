// Package notify delivers user-visible notifications: per-user flash
// messages displayed on the next rendered view, and best-effort email.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/IFernandes27/barbershop-platform/pkg/logging"
)

// Severity classifies a flash message for display.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityError   Severity = "error"
)

// Flash is a single pending message for a user.
type Flash struct {
	Severity  Severity  `json:"severity"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Flasher queues a user-visible message. Delivery is best effort,
// at most once per triggering request.
type Flasher interface {
	Flash(ctx context.Context, userID string, severity Severity, message string)
}

// flashTTL bounds how long undelivered flashes linger.
const flashTTL = 24 * time.Hour

// FlashStore keeps per-user flash queues in Redis. Messages are drained
// on read, so each is displayed at most once.
type FlashStore struct {
	redis  *redis.Client
	logger *logging.Logger
}

// NewFlashStore creates a Redis-backed flash store.
func NewFlashStore(redisClient *redis.Client, logger *logging.Logger) *FlashStore {
	if logger == nil {
		logger = logging.Default()
	}
	return &FlashStore{redis: redisClient, logger: logger}
}

func (s *FlashStore) key(userID string) string {
	return fmt.Sprintf("flash:%s", userID)
}

// Flash appends a message to the user's queue. Failures are logged and
// swallowed: a lost notification must never fail the request.
func (s *FlashStore) Flash(ctx context.Context, userID string, severity Severity, message string) {
	if s.redis == nil || userID == "" {
		return
	}
	payload, err := json.Marshal(Flash{Severity: severity, Message: message, CreatedAt: time.Now().UTC()})
	if err != nil {
		s.logger.Error("flash marshal failed", "error", err)
		return
	}
	pipe := s.redis.TxPipeline()
	pipe.RPush(ctx, s.key(userID), payload)
	pipe.Expire(ctx, s.key(userID), flashTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		s.logger.Error("flash enqueue failed", "error", err, "user_id", userID)
	}
}

// Drain returns and clears the user's pending messages.
func (s *FlashStore) Drain(ctx context.Context, userID string) ([]Flash, error) {
	if s.redis == nil {
		return nil, nil
	}
	key := s.key(userID)
	pipe := s.redis.TxPipeline()
	items := pipe.LRange(ctx, key, 0, -1)
	pipe.Del(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("notify: drain flashes: %w", err)
	}

	raw, err := items.Result()
	if err != nil {
		return nil, fmt.Errorf("notify: read flashes: %w", err)
	}
	out := make([]Flash, 0, len(raw))
	for _, item := range raw {
		var f Flash
		if err := json.Unmarshal([]byte(item), &f); err != nil {
			s.logger.Warn("skipping malformed flash", "error", err)
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

// NopFlasher discards messages; used when Redis is not configured.
type NopFlasher struct{}

// Flash does nothing.
func (NopFlasher) Flash(ctx context.Context, userID string, severity Severity, message string) {}

var _ Flasher = (*FlashStore)(nil)
var _ Flasher = NopFlasher{}
