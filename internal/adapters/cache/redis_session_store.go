package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/caretrack/strokeregistry/internal/domain"
)

const sessionKeyPrefix = "session:"

// touchScript refreshes activity only for sessions that still exist. A plain
// HSET would recreate a hash that a concurrent logout or eviction just
// deleted, leaving a ghost session with no identity fields behind it.
var touchScript = redis.NewScript(`
if redis.call("exists", KEYS[1]) == 0 then
	return 0
end
redis.call("hset", KEYS[1], "last_activity_at", ARGV[1])
redis.call("pexpire", KEYS[1], ARGV[2])
return 1
`)

// RedisSessionStore keeps sessions in Redis hashes so multiple api replicas
// can share a session table. The key TTL tracks the idle timeout and is
// re-armed on every Touch; the session manager still applies its own expiry
// rules on top, so the TTL is a cleanup bound rather than the authority.
type RedisSessionStore struct {
	client      *redis.Client
	idleTimeout time.Duration
}

func NewRedisSessionStore(client *redis.Client, idleTimeout time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, idleTimeout: idleTimeout}
}

func (s *RedisSessionStore) Put(ctx context.Context, session domain.Session) error {
	key := sessionKeyPrefix + session.Token
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, key, map[string]any{
			"user_id":          session.UserID,
			"username":         session.Username,
			"role":             string(session.Role),
			"created_at":       session.CreatedAt.UnixNano(),
			"last_activity_at": session.LastActivityAt.UnixNano(),
		})
		p.Expire(ctx, key, s.idleTimeout)
		return nil
	})
	return err
}

func (s *RedisSessionStore) Get(ctx context.Context, token string) (domain.Session, bool, error) {
	data, err := s.client.HGetAll(ctx, sessionKeyPrefix+token).Result()
	if err != nil {
		return domain.Session{}, false, err
	}
	if len(data) == 0 {
		return domain.Session{}, false, nil
	}

	session := domain.Session{
		Token:    token,
		Username: data["username"],
		Role:     domain.Role(data["role"]),
	}
	if raw, ok := data["user_id"]; ok {
		if id, convErr := strconv.ParseInt(raw, 10, 64); convErr == nil {
			session.UserID = id
		}
	}
	if raw, ok := data["created_at"]; ok {
		if nanos, convErr := strconv.ParseInt(raw, 10, 64); convErr == nil {
			session.CreatedAt = time.Unix(0, nanos).UTC()
		}
	}
	if raw, ok := data["last_activity_at"]; ok {
		if nanos, convErr := strconv.ParseInt(raw, 10, 64); convErr == nil {
			session.LastActivityAt = time.Unix(0, nanos).UTC()
		}
	}
	return session, true, nil
}

// Touch refreshes the activity stamp and re-arms the TTL. Touching an absent
// token is a no-op, matching the in-memory store.
func (s *RedisSessionStore) Touch(ctx context.Context, token string, at time.Time) error {
	key := sessionKeyPrefix + token
	return touchScript.Run(ctx, s.client,
		[]string{key}, at.UnixNano(), s.idleTimeout.Milliseconds(),
	).Err()
}

func (s *RedisSessionStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, sessionKeyPrefix+token).Err()
}
