package redis

import (
	"context"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/viant/outreach/service/mutex"
)

// releaseScript deletes the key only when it is still owned by the caller,
// so a holder whose lock already expired and changed hands cannot release
// somebody else's lock.
var releaseScript = redis.NewScript(1, `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// Service implements mutex.Service on redis with SET NX EX, the
// set-if-absent-with-TTL pattern.
type Service struct {
	pool      *redis.Pool
	namespace string
}

// New creates a redis-backed mutex service. The namespace prefixes every
// lock key.
func New(pool *redis.Pool, namespace string) *Service {
	if namespace == "" {
		namespace = "outreach"
	}
	return &Service{pool: pool, namespace: namespace}
}

func (s *Service) lockKey(key string) string {
	return s.namespace + ":lock:" + key
}

// Acquire implements mutex.Service.
func (s *Service) Acquire(ctx context.Context, key, owner string, ttl time.Duration) (bool, error) {
	conn := s.pool.Get()
	defer conn.Close()

	reply, err := redis.String(conn.Do("SET", s.lockKey(key), owner, "NX", "EX", int(ttl.Seconds())))
	if err == redis.ErrNil {
		return false, nil
	} else if err != nil {
		return false, err
	}
	return reply == "OK", nil
}

// Release implements mutex.Service.
func (s *Service) Release(ctx context.Context, key, owner string) error {
	conn := s.pool.Get()
	defer conn.Close()

	_, err := releaseScript.Do(conn, s.lockKey(key), owner)
	return err
}

var _ mutex.Service = (*Service)(nil)
