package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Удаляем ключ, только если он всё ещё наш.
var releaseScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

// RedisLocker держит блокировки между инстансами через SET NX PX на каждый ключ.
// Одна попытка; при занятом ключе возвращается ErrNotAcquired, повтор за вызывающим.
type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

func NewRedisLocker(client *redis.Client, ttl time.Duration) *RedisLocker {
	return &RedisLocker{
		client: client,
		ttl:    ttl,
		prefix: "karaoke:lock:",
	}
}

func (l *RedisLocker) Acquire(ctx context.Context, keys ...string) (func(), error) {
	keys = normalizeKeys(keys)
	token := uuid.NewString()
	held := make([]string, 0, len(keys))

	for _, k := range keys {
		key := l.prefix + k
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			l.release(held, token)
			return nil, fmt.Errorf("lock %s: %w", k, err)
		}
		if !ok {
			l.release(held, token)
			return nil, fmt.Errorf("%w: %s", ErrNotAcquired, k)
		}
		held = append(held, key)
	}

	return func() { l.release(held, token) }, nil
}

func (l *RedisLocker) release(keys []string, token string) {
	if len(keys) == 0 {
		return
	}
	// Отпускаем даже если запрос уже отменён.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	for i := len(keys) - 1; i >= 0; i-- {
		if err := releaseScript.Run(ctx, l.client, []string{keys[i]}, token).Err(); err != nil {
			logrus.WithFields(logrus.Fields{
				"key":   keys[i],
				"error": err,
			}).Warn("lock release failed, key will expire by ttl")
		}
	}
}
