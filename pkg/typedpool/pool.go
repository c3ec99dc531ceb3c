package typedpool

import (
	"fmt"
	"unsafe"

	"github.com/Atharvsam/memory/pkg/blockpool"
	"github.com/Atharvsam/memory/pkg/pool"
)

// Pool hands out *T values backed by a pool.SmallFreeList, growing through
// a blockpool.Arena when the free list runs dry. It is not goroutine-safe;
// see Synchronized.
type Pool[T any] struct {
	elementSize int
	free        *pool.SmallFreeList
	arena       *blockpool.Arena
}

// New constructs a Pool[T] that sources growth blocks from source,
// starting at blockSize bytes (before alignment padding) and doubling
// from there.
func New[T any](source blockpool.Source, blockSize int) *Pool[T] {
	var zero T
	elemSize := int(unsafe.Sizeof(zero))
	if elemSize < pool.MinElementSize {
		elemSize = pool.MinElementSize
	}
	name := fmt.Sprintf("typedpool.Pool[%T]", zero)
	return &Pool[T]{
		elementSize: elemSize,
		free:        pool.NewSmallFreeList(elemSize),
		arena:       blockpool.NewArena(name, source, blockSize+pool.MaxAlignment),
	}
}

// ElementSize returns the per-element size this pool allocates, which may
// be larger than unsafe.Sizeof(T) if that size is below
// pool.MinElementSize.
func (p *Pool[T]) ElementSize() int { return p.elementSize }

// Capacity returns the number of elements immediately available without
// growing.
func (p *Pool[T]) Capacity() int { return p.free.Capacity() }

// Stats reports the pool's block holdings, by way of its arena.
func (p *Pool[T]) Stats() blockpool.Stats { return p.arena.Stats() }

// Get returns a pointer to a new, zero-valued T, growing the pool's
// backing arena first if no free elements remain.
func (p *Pool[T]) Get() *T {
	if p.free.Capacity() == 0 {
		p.grow()
	}
	node := p.free.Allocate()
	t := (*T)(node)
	*t = *new(T)
	return t
}

// Put returns v to the pool. v must have come from Get on this same Pool
// and must not be used again afterward.
func (p *Pool[T]) Put(v *T) {
	p.free.Deallocate(unsafe.Pointer(v))
}

func (p *Pool[T]) grow() {
	block := pool.AlignBlock(p.arena.Grow())
	p.free.Insert(block)
}
