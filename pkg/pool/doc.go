// Package pool implements a fixed-node-size free-list allocator.
//
// A SmallFreeList carves caller-supplied raw memory blocks into many
// equally-sized nodes and services Allocate/Deallocate requests for single
// nodes in amortized constant time. It never requests memory on its own,
// never grows, and never coalesces adjacent free nodes since every node
// has the same size. Bulk memory donated through Insert is internally
// subdivided into chunk headers each holding up to 255 nodes, linked by a
// one-byte intrusive free-index chain.
//
// The package is not goroutine-safe; callers that need sharing wrap a
// SmallFreeList in an external synchronization adapter (see package
// typedpool) that serializes every public entry point.
package pool
