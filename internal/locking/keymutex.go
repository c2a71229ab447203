// Package locking provides the per-LID serialization contract spec.md §5
// requires: "whichever request writes count n must observe count n when
// making the manager-card decision." Grounded on AdvancedPromotionEngine's
// sync.RWMutex, generalized from one global lock to one lock per key since
// the spec requires distinct LIDs to proceed concurrently.
package locking

import "sync"

// KeyMutex hands out one *sync.Mutex per key, reference-counted so idle
// entries are removed once the last holder unlocks instead of growing the
// map forever.
type KeyMutex struct {
	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	mu       sync.Mutex
	refCount int
}

// NewKeyMutex returns an empty KeyMutex.
func NewKeyMutex() *KeyMutex {
	return &KeyMutex{entries: make(map[string]*entry)}
}

// Lock acquires the lock for key, blocking until it is available.
func (k *KeyMutex) Lock(key string) {
	k.mu.Lock()
	e, ok := k.entries[key]
	if !ok {
		e = &entry{}
		k.entries[key] = e
	}
	e.refCount++
	k.mu.Unlock()

	e.mu.Lock()
}

// Unlock releases the lock for key and, if no other goroutine is waiting on
// it, removes the entry from the table.
func (k *KeyMutex) Unlock(key string) {
	k.mu.Lock()
	e, ok := k.entries[key]
	if !ok {
		k.mu.Unlock()
		return
	}
	e.refCount--
	if e.refCount <= 0 {
		delete(k.entries, key)
	}
	k.mu.Unlock()

	e.mu.Unlock()
}

// Len reports the number of keys currently tracked, for metrics.
func (k *KeyMutex) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.entries)
}
