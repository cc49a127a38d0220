package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/aretw0/libretto/pkg/ports"
)

// ErrLockReleased is returned when an UnlockFunc is called twice.
var ErrLockReleased = errors.New("lock already released")

// lockEntry holds the lock slot and the reference count.
type lockEntry struct {
	slot chan struct{}
	refs int
}

// Locker implements ports.Locker within one process.
// It uses reference counting to garbage collect unused keys.
type Locker struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

// NewLocker creates an in-process locker.
func NewLocker() *Locker {
	return &Locker{locks: make(map[string]*lockEntry)}
}

// acquire gets or creates the entry for key and increments its reference count.
// The caller must call release(key) once it no longer waits on or holds the slot.
func (l *Locker) acquire(key string) *lockEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, exists := l.locks[key]
	if !exists {
		entry = &lockEntry{slot: make(chan struct{}, 1)}
		l.locks[key] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (l *Locker) release(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, exists := l.locks[key]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(l.locks, key)
	}
}

// Lock blocks until key is free or ctx is done. The ttl is ignored: the lock
// lives only as long as the process.
func (l *Locker) Lock(ctx context.Context, key string, _ time.Duration) (ports.UnlockFunc, error) {
	entry := l.acquire(key)
	select {
	case entry.slot <- struct{}{}:
	case <-ctx.Done():
		l.release(key)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func(context.Context) error {
		err := ErrLockReleased
		once.Do(func() {
			<-entry.slot
			l.release(key)
			err = nil
		})
		return err
	}, nil
}
