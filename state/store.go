// Package state provides the retained-state store: a concurrent map
// from stable node identities to arbitrary per-node payloads that
// survive across frames (scroll offsets, cursors, animation state).
//
// The store is sharded so that concurrent access to distinct keys
// never serializes. A single coarse lock here would serialize the
// parallel measurement pass, whose workers read their own node's
// retained state concurrently.
package state

import "sync"

// DefaultShardCount is the number of shards for reduced lock
// contention. Must be a power of 2 for fast modulo via bitwise AND.
const DefaultShardCount = 16

const shardMask = DefaultShardCount - 1

// Hasher computes a hash for a key, used for shard selection.
type Hasher[K comparable] func(K) uint64

// Store is a thread-safe, sharded mapping from identity to retained
// payload. Entries carry the frame number at which their key was last
// seen in a rebuilt tree; Sweep evicts entries whose key has been
// absent for longer than a grace period.
type Store[K comparable, V any] struct {
	shards [DefaultShardCount]*shard[K, V]
	hasher Hasher[K]
}

type shard[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]*entry[V]
}

type entry[V any] struct {
	value    V
	lastSeen uint64
}

// New creates an empty store. The hasher selects the shard for a key.
func New[K comparable, V any](hasher Hasher[K]) *Store[K, V] {
	s := &Store[K, V]{hasher: hasher}
	for i := range s.shards {
		s.shards[i] = &shard[K, V]{entries: make(map[K]*entry[V])}
	}
	return s
}

func (s *Store[K, V]) shardFor(key K) *shard[K, V] {
	return s.shards[s.hasher(key)&shardMask]
}

// Get retrieves the payload for a key.
func (s *Store[K, V]) Get(key K) (V, bool) {
	sh := s.shardFor(key)
	sh.mu.RLock()
	e, ok := sh.entries[key]
	sh.mu.RUnlock()
	if !ok {
		var zero V
		return zero, false
	}
	return e.value, true
}

// GetOrCreate returns the payload for a key, creating it with the
// factory on first encounter. The factory runs with the shard lock
// held so that two concurrent first encounters of the same key create
// exactly one payload; keep factories fast.
func (s *Store[K, V]) GetOrCreate(key K, create func() V) V {
	sh := s.shardFor(key)

	sh.mu.RLock()
	e, ok := sh.entries[key]
	sh.mu.RUnlock()
	if ok {
		return e.value
	}

	sh.mu.Lock()
	defer sh.mu.Unlock()
	if e, ok := sh.entries[key]; ok {
		return e.value
	}
	v := create()
	sh.entries[key] = &entry[V]{value: v}
	return v
}

// Set stores a payload for a key, replacing any existing one.
func (s *Store[K, V]) Set(key K, value V) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	if e, ok := sh.entries[key]; ok {
		e.value = value
	} else {
		sh.entries[key] = &entry[V]{value: value}
	}
	sh.mu.Unlock()
}

// Remove deletes the payload for a key.
// Returns true if an entry was removed.
func (s *Store[K, V]) Remove(key K) bool {
	sh := s.shardFor(key)
	sh.mu.Lock()
	_, ok := sh.entries[key]
	delete(sh.entries, key)
	sh.mu.Unlock()
	return ok
}

// Touch records that a key was present in the tree rebuilt for the
// given frame. The frame driver touches every identity it encounters
// during rebuild; Sweep then evicts the rest.
func (s *Store[K, V]) Touch(key K, frame uint64) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	if e, ok := sh.entries[key]; ok {
		e.lastSeen = frame
	}
	sh.mu.Unlock()
}

// Sweep evicts entries whose key has not been touched for more than
// grace frames, as of the given frame. grace 0 evicts anything absent
// from the current frame's tree; a grace of one frame tolerates a
// single skipped rebuild without losing state. Returns the number of
// evicted entries.
func (s *Store[K, V]) Sweep(frame uint64, grace uint64) int {
	evicted := 0
	for _, sh := range s.shards {
		sh.mu.Lock()
		for k, e := range sh.entries {
			if frame-e.lastSeen > grace {
				delete(sh.entries, k)
				evicted++
			}
		}
		sh.mu.Unlock()
	}
	return evicted
}

// Len returns the total number of entries across all shards.
func (s *Store[K, V]) Len() int {
	total := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		total += len(sh.entries)
		sh.mu.RUnlock()
	}
	return total
}

// Clear removes all entries.
func (s *Store[K, V]) Clear() {
	for _, sh := range s.shards {
		sh.mu.Lock()
		sh.entries = make(map[K]*entry[V])
		sh.mu.Unlock()
	}
}
