// Package sync holds locking helpers shared across bounded contexts.
package sync

import (
	"hash/fnv"
	"sync"
)

const shardCount = 64

// KeyedMutex serializes work per key without a global lock. Keys are hashed
// onto a fixed set of shards, so unrelated keys may occasionally share one.
type KeyedMutex struct {
	shards [shardCount]sync.Mutex
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{}
}

// Lock acquires the shard owning key and returns its unlock function.
func (m *KeyedMutex) Lock(key string) (unlock func()) {
	mu := &m.shards[shardOf(key)]
	mu.Lock()
	return mu.Unlock
}

// Do runs fn while holding the lock for key.
func (m *KeyedMutex) Do(key string, fn func() error) error {
	unlock := m.Lock(key)
	defer unlock()
	return fn()
}

func shardOf(key string) int {
	if key == "" {
		return 0
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % shardCount)
}
