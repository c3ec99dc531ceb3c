package typedpool

import (
	"sync"

	"github.com/Atharvsam/memory/pkg/blockpool"
)

// Synchronized wraps a Pool[T] with a mutex held across every call,
// mirroring thread_safe_allocator's approach of adapting a non-thread-safe
// allocator rather than building locking into the allocator itself.
type Synchronized[T any] struct {
	mu   sync.Mutex
	pool *Pool[T]
}

// NewSynchronized constructs a Pool[T] the same way New does and wraps it
// for concurrent use.
func NewSynchronized[T any](source blockpool.Source, blockSize int) *Synchronized[T] {
	return &Synchronized[T]{pool: New[T](source, blockSize)}
}

// Get is the synchronized equivalent of Pool.Get.
func (s *Synchronized[T]) Get() *T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pool.Get()
}

// Put is the synchronized equivalent of Pool.Put.
func (s *Synchronized[T]) Put(v *T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pool.Put(v)
}

// Stats is the synchronized equivalent of Pool.Stats.
func (s *Synchronized[T]) Stats() blockpool.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pool.Stats()
}

// Capacity is the synchronized equivalent of Pool.Capacity.
func (s *Synchronized[T]) Capacity() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pool.Capacity()
}
