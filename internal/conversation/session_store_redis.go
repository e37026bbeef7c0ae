package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultSessionTTL  = 24 * time.Hour
	defaultLockTimeout = 5 * time.Second
	lockLease          = 30 * time.Second
	lockRetryInterval  = 25 * time.Millisecond
)

// ErrSessionLocked is returned when a session lock could not be taken in time.
var ErrSessionLocked = errors.New("conversation: session is locked")

var releaseLockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisSessionStore keeps sessions in Redis so several API instances share them.
type RedisSessionStore struct {
	redis       redis.UniversalClient
	ttl         time.Duration
	lockTimeout time.Duration
	tracer      trace.Tracer
}

// NewRedisSessionStore wraps a Redis client. Zero durations select defaults.
func NewRedisSessionStore(client redis.UniversalClient, ttl, lockTimeout time.Duration) *RedisSessionStore {
	if client == nil {
		panic("conversation: redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	if lockTimeout <= 0 {
		lockTimeout = defaultLockTimeout
	}
	return &RedisSessionStore{
		redis:       client,
		ttl:         ttl,
		lockTimeout: lockTimeout,
		tracer:      otel.Tracer("clinicdesk.internal.conversation.sessions"),
	}
}

func (s *RedisSessionStore) Update(ctx context.Context, key string, fn func(*Session) error) error {
	ctx, span := s.tracer.Start(ctx, "conversation.session_update")
	defer span.End()
	span.SetAttributes(attribute.String("clinicdesk.session_id", key))

	token, err := s.acquire(ctx, key)
	if err != nil {
		span.RecordError(err)
		return err
	}
	defer s.release(context.WithoutCancel(ctx), key, token)

	sess, err := s.load(ctx, key)
	if err != nil {
		span.RecordError(err)
		return err
	}
	if sess == nil {
		sess = newSession(key)
	}
	if err := fn(sess); err != nil {
		return err
	}

	if sess.Empty() {
		if err := s.redis.Del(ctx, sessionKey(key)).Err(); err != nil {
			span.RecordError(err)
			return fmt.Errorf("conversation: failed to delete session: %w", err)
		}
		return nil
	}
	sess.Key = key
	sess.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("conversation: failed to marshal session: %w", err)
	}
	if err := s.redis.Set(ctx, sessionKey(key), data, s.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("conversation: failed to persist session: %w", err)
	}
	return nil
}

// Get returns the stored session, or nil when none exists.
func (s *RedisSessionStore) Get(ctx context.Context, key string) (*Session, error) {
	ctx, span := s.tracer.Start(ctx, "conversation.session_get")
	defer span.End()
	sess, err := s.load(ctx, key)
	if err != nil {
		span.RecordError(err)
	}
	return sess, err
}

func (s *RedisSessionStore) load(ctx context.Context, key string) (*Session, error) {
	data, err := s.redis.Get(ctx, sessionKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("conversation: failed to load session: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("conversation: failed to decode session: %w", err)
	}
	return &sess, nil
}

func (s *RedisSessionStore) acquire(ctx context.Context, key string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()

	token := uuid.NewString()
	ticker := time.NewTicker(lockRetryInterval)
	defer ticker.Stop()
	for {
		ok, err := s.redis.SetNX(ctx, lockKey(key), token, lockLease).Result()
		if err != nil && ctx.Err() == nil {
			return "", fmt.Errorf("conversation: failed to lock session: %w", err)
		}
		if ok {
			return token, nil
		}
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %s", ErrSessionLocked, key)
		case <-ticker.C:
		}
	}
}

func (s *RedisSessionStore) release(ctx context.Context, key, token string) {
	_ = releaseLockScript.Run(ctx, s.redis, []string{lockKey(key)}, token).Err()
}

func sessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}

func lockKey(id string) string {
	return fmt.Sprintf("session_lock:%s", id)
}
