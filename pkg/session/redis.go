package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Ensure RedisStore implements Store
var _ Store = (*RedisStore)(nil)

const defaultRedisPrefix = "petition:session:"

const (
	fieldPrincipal = "principal"
	fieldCreated   = "created"
	fieldExpires   = "expires"
)

// KEYS[1] session hash, KEYS[2] message list, ARGV[1] message
const pushMessageScript = `
if redis.call("EXISTS", KEYS[1]) == 0 then
  return 0
end
redis.call("RPUSH", KEYS[2], ARGV[1])
local ttl = redis.call("PTTL", KEYS[1])
if ttl > 0 then
  redis.call("PEXPIRE", KEYS[2], ttl)
end
return 1
`

// KEYS[1] session hash, KEYS[2] message list
const drainMessagesScript = `
if redis.call("EXISTS", KEYS[1]) == 0 then
  return false
end
local messages = redis.call("LRANGE", KEYS[2], 0, -1)
redis.call("DEL", KEYS[2])
return messages
`

var (
	pushMessageLua   = redis.NewScript(pushMessageScript)
	drainMessagesLua = redis.NewScript(drainMessagesScript)
)

// RedisStore keeps sessions in Redis. Each session is a hash with a TTL
// plus a list holding its flash messages.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	now    func() time.Time
}

// NewRedisStore creates a RedisStore whose sessions live for ttl
func NewRedisStore(client *redis.Client, ttl time.Duration, opts ...Option) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	o := buildOptions(opts)
	return &RedisStore{
		client: client,
		prefix: defaultRedisPrefix,
		ttl:    ttl,
		now:    o.now,
	}
}

func (r *RedisStore) key(id string) string {
	return r.prefix + id
}

func (r *RedisStore) messagesKey(id string) string {
	return r.prefix + id + ":messages"
}

func (r *RedisStore) Create(ctx context.Context, principalID uint) (string, error) {
	id, err := GenerateID()
	if err != nil {
		return "", err
	}

	now := r.now()
	key := r.key(id)
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key,
			fieldPrincipal, strconv.FormatUint(uint64(principalID), 10),
			fieldCreated, strconv.FormatInt(now.UnixNano(), 10),
			fieldExpires, strconv.FormatInt(now.Add(r.ttl).UnixNano(), 10),
		)
		pipe.PExpire(ctx, key, r.ttl)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("session: create: %w", err)
	}
	return id, nil
}

func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	var (
		fields   *redis.MapStringStringCmd
		messages *redis.StringSliceCmd
	)
	_, err := r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		fields = pipe.HGetAll(ctx, r.key(id))
		messages = pipe.LRange(ctx, r.messagesKey(id), 0, -1)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("session: get: %w", err)
	}

	values := fields.Val()
	if len(values) == 0 {
		return nil, ErrNotFound
	}

	s, err := decodeSession(id, values)
	if err != nil {
		return nil, err
	}
	if s.Expired(r.now()) {
		if err := r.Destroy(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrNotFound
	}
	if msgs := messages.Val(); len(msgs) > 0 {
		s.Messages = msgs
	}
	return s, nil
}

func (r *RedisStore) Destroy(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, r.key(id), r.messagesKey(id)).Err(); err != nil {
		return fmt.Errorf("session: destroy: %w", err)
	}
	return nil
}

func (r *RedisStore) PushMessage(ctx context.Context, id string, text string) error {
	if err := r.checkLive(ctx, id); err != nil {
		return err
	}

	pushed, err := pushMessageLua.Run(ctx, r.client, []string{r.key(id), r.messagesKey(id)}, text).Int()
	if err != nil {
		return fmt.Errorf("session: push message: %w", err)
	}
	if pushed == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *RedisStore) DrainMessages(ctx context.Context, id string) ([]string, error) {
	if err := r.checkLive(ctx, id); err != nil {
		return nil, err
	}

	messages, err := drainMessagesLua.Run(ctx, r.client, []string{r.key(id), r.messagesKey(id)}).StringSlice()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("session: drain messages: %w", err)
	}
	if len(messages) == 0 {
		return nil, nil
	}
	return messages, nil
}

// checkLive evicts the session if it expired according to the store clock.
// Redis key expiry normally does this first.
func (r *RedisStore) checkLive(ctx context.Context, id string) error {
	raw, err := r.client.HGet(ctx, r.key(id), fieldExpires).Result()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("session: lookup: %w", err)
	}
	expires, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("session: corrupt expiry for session: %w", err)
	}
	if !r.now().Before(time.Unix(0, expires)) {
		if err := r.Destroy(ctx, id); err != nil {
			return err
		}
		return ErrNotFound
	}
	return nil
}

func decodeSession(id string, values map[string]string) (*Session, error) {
	principal, err := strconv.ParseUint(values[fieldPrincipal], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("session: corrupt principal: %w", err)
	}
	created, err := strconv.ParseInt(values[fieldCreated], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("session: corrupt creation time: %w", err)
	}
	expires, err := strconv.ParseInt(values[fieldExpires], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("session: corrupt expiry: %w", err)
	}
	return &Session{
		ID:          id,
		PrincipalID: uint(principal),
		CreatedAt:   time.Unix(0, created),
		ExpiresAt:   time.Unix(0, expires),
	}, nil
}
