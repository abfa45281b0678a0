package locker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrLockTimeout блокировку не удалось получить за отведённое время
var ErrLockTimeout = errors.New("locker: lock wait timeout")

// Locker взаимное исключение по строковому ключу.
// Возвращаемую функцию unlock нужно вызвать ровно один раз; повторные вызовы игнорируются.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

type entry struct {
	sem  chan struct{}
	refs int
}

// KeyedMutex процессная блокировка по ключу.
// Записи удаляются, когда на ключе не остаётся ожидающих.
type KeyedMutex struct {
	mu      sync.Mutex
	locks   map[string]*entry
	timeout time.Duration
}

// NewKeyedMutex создаёт блокировку; timeout <= 0 означает ожидание до отмены контекста
func NewKeyedMutex(timeout time.Duration) *KeyedMutex {
	return &KeyedMutex{
		locks:   make(map[string]*entry),
		timeout: timeout,
	}
}

// Lock захватывает ключ
func (k *KeyedMutex) Lock(ctx context.Context, key string) (func(), error) {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &entry{sem: make(chan struct{}, 1)}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	waitCtx := ctx
	if k.timeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, k.timeout)
		defer cancel()
	}

	select {
	case e.sem <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() {
				<-e.sem
				k.release(key, e)
			})
		}, nil
	case <-waitCtx.Done():
		k.release(key, e)
		return nil, fmt.Errorf("%w: key=%s: %v", ErrLockTimeout, key, waitCtx.Err())
	}
}

// Len возвращает количество ключей, на которых есть владелец или ожидающие
func (k *KeyedMutex) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}

func (k *KeyedMutex) release(key string, e *entry) {
	k.mu.Lock()
	defer k.mu.Unlock()

	e.refs--
	if e.refs == 0 {
		delete(k.locks, key)
	}
}
