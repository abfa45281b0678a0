package locker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyedMutex_SerializesSameKey(t *testing.T) {
	km := NewKeyedMutex(0)

	var (
		inside  int32
		maxSeen int32
		wg      sync.WaitGroup
	)

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := km.Lock(context.Background(), "stylist:1:2026-10-19")
			if !assert.NoError(t, err) {
				return
			}
			defer unlock()

			n := atomic.AddInt32(&inside, 1)
			for {
				cur := atomic.LoadInt32(&maxSeen)
				if n <= cur || atomic.CompareAndSwapInt32(&maxSeen, cur, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxSeen)
	assert.Equal(t, 0, km.Len())
}

func TestKeyedMutex_DifferentKeysIndependent(t *testing.T) {
	km := NewKeyedMutex(50 * time.Millisecond)

	unlockA, err := km.Lock(context.Background(), "a")
	require.NoError(t, err)
	defer unlockA()

	unlockB, err := km.Lock(context.Background(), "b")
	require.NoError(t, err)
	unlockB()
}

func TestKeyedMutex_Timeout(t *testing.T) {
	km := NewKeyedMutex(20 * time.Millisecond)

	unlock, err := km.Lock(context.Background(), "k")
	require.NoError(t, err)

	_, err = km.Lock(context.Background(), "k")
	assert.ErrorIs(t, err, ErrLockTimeout)

	unlock()
	unlock() // повторный вызов безопасен

	unlock2, err := km.Lock(context.Background(), "k")
	require.NoError(t, err)
	unlock2()
	assert.Equal(t, 0, km.Len())
}

func TestKeyedMutex_ContextCancelled(t *testing.T) {
	km := NewKeyedMutex(0)

	unlock, err := km.Lock(context.Background(), "k")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = km.Lock(ctx, "k")
	assert.ErrorIs(t, err, ErrLockTimeout)
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisLocker_LockUnlock(t *testing.T) {
	mr, client := newTestRedis(t)
	l := NewRedisLocker(client, RedisConfig{
		Prefix:        "salon:lock:",
		TTL:           time.Second,
		WaitTimeout:   50 * time.Millisecond,
		RetryInterval: 5 * time.Millisecond,
	})

	unlock, err := l.Lock(context.Background(), "stylist:3:2026-10-19")
	require.NoError(t, err)
	assert.True(t, mr.Exists("salon:lock:stylist:3:2026-10-19"))

	_, err = l.Lock(context.Background(), "stylist:3:2026-10-19")
	assert.ErrorIs(t, err, ErrLockTimeout)

	unlock()
	assert.False(t, mr.Exists("salon:lock:stylist:3:2026-10-19"))

	unlock2, err := l.Lock(context.Background(), "stylist:3:2026-10-19")
	require.NoError(t, err)
	unlock2()
}

func TestRedisLocker_DoesNotReleaseForeignLock(t *testing.T) {
	mr, client := newTestRedis(t)
	l := NewRedisLocker(client, RedisConfig{TTL: time.Second, WaitTimeout: 20 * time.Millisecond})

	unlock, err := l.Lock(context.Background(), "k")
	require.NoError(t, err)

	// Ключ истёк и был захвачен другим владельцем
	mr.FastForward(2 * time.Second)
	require.NoError(t, mr.Set("k", "someone-else"))

	unlock()
	got, err := mr.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "someone-else", got)
}

func TestRedisLocker_ExpiredLockCanBeTaken(t *testing.T) {
	mr, client := newTestRedis(t)
	l := NewRedisLocker(client, RedisConfig{TTL: 100 * time.Millisecond, WaitTimeout: 20 * time.Millisecond})

	_, err := l.Lock(context.Background(), "k")
	require.NoError(t, err)

	mr.FastForward(200 * time.Millisecond)

	unlock, err := l.Lock(context.Background(), "k")
	require.NoError(t, err)
	unlock()
}
