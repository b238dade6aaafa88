package concurrency

import (
	"sync"
)

// LockManager hands out named mutexes. The memory wheel store uses it to
// serialize state updates per user; locks are never released from the map,
// which is fine for the bounded user population a single process sees.
type LockManager struct {
	locks sync.Map
}

// NewLockManager creates a new LockManager
func NewLockManager() *LockManager {
	return &LockManager{}
}

// GetLock returns the mutex for the given key, creating it on first use.
func (lm *LockManager) GetLock(key string) *sync.Mutex {
	lock, _ := lm.locks.LoadOrStore(key, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// WithLock runs fn while holding the key's mutex.
func (lm *LockManager) WithLock(key string, fn func() error) error {
	mu := lm.GetLock(key)
	mu.Lock()
	defer mu.Unlock()
	return fn()
}
