package blockpool

// Source supplies and reclaims the raw blocks an Arena grows by. Heap is
// the only implementation shipped here; callers embedding this package in
// a larger facility (mmap'd regions, a slab taken from a bigger arena,
// shared memory) implement Source themselves.
type Source interface {
	// AllocateBlock returns a block of at least size bytes.
	AllocateBlock(size int) []byte
	// DeallocateBlock releases a block previously returned by
	// AllocateBlock. Implementations that cannot reclaim memory eagerly
	// (like Heap, which leaves it to the garbage collector) may no-op.
	DeallocateBlock(block []byte)
}

// Heap draws blocks straight from the Go heap. It never actually frees
// anything on DeallocateBlock — make([]byte, n) memory is reclaimed by the
// garbage collector once unreferenced, so there is nothing for Heap itself
// to do beyond dropping its reference, which Arena already does for it.
type Heap struct{}

// AllocateBlock returns a freshly allocated, zeroed block of size bytes.
func (Heap) AllocateBlock(size int) []byte {
	return make([]byte, size)
}

// DeallocateBlock is a no-op; see the Heap doc comment.
func (Heap) DeallocateBlock(block []byte) {}

// GrowthFunc is called every time an Arena allocates a new block after its
// first, mirroring foonathan::memory's allocator_growth_tracker hook. name
// identifies the arena and newSize is the size of the block about to be
// requested from the Source.
type GrowthFunc func(name string, newSize int)

var growthHandler GrowthFunc

// SetGrowthHandler installs the hook invoked on arena growth, returning the
// previous one. A nil handler (the default) disables growth tracking.
func SetGrowthHandler(h GrowthFunc) GrowthFunc {
	prev := growthHandler
	growthHandler = h
	return prev
}
