// Package blockpool sources raw memory blocks for higher-level allocators
// like pool.SmallFreeList, the way a RawAllocator backs foonathan::memory's
// block_list. An Arena grows by doubling its next block size, so it hands
// out progressively larger blocks to amortize the cost of the Source it
// draws from.
package blockpool
