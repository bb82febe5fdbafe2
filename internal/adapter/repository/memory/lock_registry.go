package memory

import (
	"sync"
	"sync/atomic"
)

// LockRegistry implements usecase.LockRegistry. Entries are created on first
// use and kept for the lifetime of the process.
type LockRegistry struct {
	locks sync.Map // account id -> *sync.Mutex
	size  atomic.Int64
}

// NewLockRegistry creates a new LockRegistry.
func NewLockRegistry() *LockRegistry {
	return &LockRegistry{}
}

// LockFor returns the mutex of the account, creating it if needed. Concurrent
// callers asking for the same id always get the same mutex.
func (r *LockRegistry) LockFor(id string) sync.Locker {
	if lock, ok := r.locks.Load(id); ok {
		return lock.(*sync.Mutex)
	}

	lock, loaded := r.locks.LoadOrStore(id, &sync.Mutex{})
	if !loaded {
		r.size.Add(1)
	}

	return lock.(*sync.Mutex)
}

// Len returns the number of registered locks.
func (r *LockRegistry) Len() int {
	return int(r.size.Load())
}
