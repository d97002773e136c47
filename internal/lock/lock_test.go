package lock

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeKeys(t *testing.T) {
	got := normalizeKeys([]string{"user:b", "room:a", "", "user:b"})
	assert.Equal(t, []string{"room:a", "user:b"}, got)
}

func TestLocalLocker_MutualExclusion(t *testing.T) {
	l := NewLocalLocker()
	ctx := context.Background()

	var (
		inside  int32
		maxSeen int32
		wg      sync.WaitGroup
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := l.Acquire(ctx, "room:1", "user:1")
			if !assert.NoError(t, err) {
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxSeen)
				if n <= m || atomic.CompareAndSwapInt32(&maxSeen, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			release()
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxSeen)
}

func TestLocalLocker_ContextCancelReleasesPartial(t *testing.T) {
	l := NewLocalLocker()

	releaseUser, err := l.Acquire(context.Background(), "user:1")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = l.Acquire(ctx, "room:1", "user:1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// room:1 был взят и должен быть отпущен
	releaseRoom, err := l.Acquire(context.Background(), "room:1")
	require.NoError(t, err)
	releaseRoom()
	releaseUser()
	releaseUser() // повторный вызов безопасен
}

func TestLocalLocker_DropsIdleSlots(t *testing.T) {
	l := NewLocalLocker()
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		release, err := l.Acquire(ctx, "room:1", "user:"+strconv.Itoa(i))
		require.NoError(t, err)
		release()
	}
	assert.Equal(t, 0, l.size())

	// ожидающий держит слот, пока не сдастся
	release, err := l.Acquire(ctx, "room:1")
	require.NoError(t, err)
	assert.Equal(t, 1, l.size())

	waitCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	_, err = l.Acquire(waitCtx, "room:1", "user:9")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, l.size())

	release()
	assert.Equal(t, 0, l.size())

	// после удаления слот создаётся заново и снова исключает
	first, err := l.Acquire(ctx, "room:1")
	require.NoError(t, err)
	busyCtx, cancelBusy := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancelBusy()
	_, err = l.Acquire(busyCtx, "room:1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	first()
	assert.Equal(t, 0, l.size())
}

func newRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisLocker_AcquireRelease(t *testing.T) {
	ctx := context.Background()
	client := newRedis(t)
	l := NewRedisLocker(client, time.Second)

	release, err := l.Acquire(ctx, "room:1", "user:1")
	require.NoError(t, err)

	_, err = l.Acquire(ctx, "user:1")
	assert.ErrorIs(t, err, ErrNotAcquired)

	release()

	release, err = l.Acquire(ctx, "user:1")
	require.NoError(t, err)
	release()
}

func TestRedisLocker_FailedAcquireRollsBack(t *testing.T) {
	ctx := context.Background()
	client := newRedis(t)
	l := NewRedisLocker(client, time.Second)

	releaseUser, err := l.Acquire(ctx, "user:1")
	require.NoError(t, err)
	defer releaseUser()

	_, err = l.Acquire(ctx, "room:1", "user:1")
	require.ErrorIs(t, err, ErrNotAcquired)

	n, err := client.Exists(ctx, "karaoke:lock:room:1").Result()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRedisLocker_ReleaseKeepsForeignKey(t *testing.T) {
	ctx := context.Background()
	client := newRedis(t)
	l := NewRedisLocker(client, time.Second)

	release, err := l.Acquire(ctx, "room:1")
	require.NoError(t, err)

	// ключ истёк и его перехватил кто-то другой
	require.NoError(t, client.Set(ctx, "karaoke:lock:room:1", "someone-else", 0).Err())
	release()

	v, err := client.Get(ctx, "karaoke:lock:room:1").Result()
	require.NoError(t, err)
	assert.Equal(t, "someone-else", v)
}
