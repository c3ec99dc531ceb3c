// Package typedpool wraps pool.SmallFreeList into a typed, self-growing
// allocator for a single Go type, the way foonathan::memory's memory_pool
// wraps detail::free_list with a block_list for automatic growth.
//
// Pool[T] is not goroutine-safe; Synchronized[T] adapts any Pool[T] for
// concurrent use the way thread_safe_allocator adapts a RawAllocator,
// locking a mutex around every call rather than baking locking into the
// core type.
package typedpool
