package pool

import "unsafe"

// chunk is a header placed at the start of a donated memory block, followed
// (after padding to MaxAlignment) by an array of up to chunkMaxNodes node
// slots. Each free slot's first byte stores the index of the next free
// slot; firstFree == noNodes is the terminator, meaning "no free nodes".
//
// next/prev link the chunk into whichever circular chunkList currently
// owns it (the used or unused sub-list of a SmallFreeList). A chunk never
// belongs to two lists at once, so one pair of links is enough.
type chunk struct {
	next, prev *chunk
	firstFree  uint8
	capacity   uint8
	noNodes    uint8
}

// chunkMaxNodes is the hard cap on nodes per chunk imposed by the one-byte
// intrusive free-index chain: an index must fit in a single byte, and
// noNodes itself doubles as the chain terminator.
const chunkMaxNodes = 255

// chunkHeaderSize is the offset from a chunk's address to its node-array
// base: sizeof(header) rounded up to MaxAlignment.
var chunkHeaderSize = roundUpToAlignment(int(unsafe.Sizeof(chunk{})), MaxAlignment)

// asChunk overlays a chunk header onto the front of memory. The caller
// guarantees memory is MaxAlignment-aligned and at least chunkHeaderSize
// bytes long.
func asChunk(memory []byte) *chunk {
	return (*chunk)(unsafe.Pointer(&memory[0]))
}

// base returns the address of the chunk's node-array, the first byte past
// the (padded) header.
func (c *chunk) base() unsafe.Pointer {
	return unsafe.Add(unsafe.Pointer(c), chunkHeaderSize)
}

// createChunk places a chunk header at the front of memory and lays down
// an n-long intrusive free chain over the node array that follows: slot 0's
// first byte is 1, slot 1's is 2, ..., slot n-1's is n (the terminator).
// memory must be at least chunkHeaderSize + n*slotSize bytes.
func createChunk(memory []byte, slotSize int, n uint8) *chunk {
	c := asChunk(memory)
	c.next = c
	c.prev = c
	c.firstFree = 0
	c.capacity = n
	c.noNodes = n
	base := c.base()
	for i := uint8(0); i != n; i++ {
		slot := unsafe.Add(base, uintptr(i)*uintptr(slotSize))
		*(*uint8)(slot) = i + 1
	}
	return c
}

// allocate hands out the node at the head of the free chain. Precondition:
// c.capacity > 0. The returned byte's former content (the old first-free
// link) is unspecified after this call.
func (c *chunk) allocate(slotSize int) unsafe.Pointer {
	node := unsafe.Add(c.base(), uintptr(c.firstFree)*uintptr(slotSize))
	c.firstFree = *(*uint8)(node)
	c.capacity--
	return node
}

// deallocate pushes node back onto the free chain at index, the node's
// position within this chunk's node array. The caller must have already
// verified node lies at a valid slot offset and is not already free.
func (c *chunk) deallocate(node unsafe.Pointer, index uint8) {
	*(*uint8)(node) = c.firstFree
	c.firstFree = index
	c.capacity++
}

// from is a fast address-range filter: it reports whether node falls within
// this chunk's node-array region. It is not a validity check — it may
// return true for a free slot or a misaligned address.
func (c *chunk) from(node unsafe.Pointer, slotSize int) bool {
	base := uintptr(c.base())
	addr := uintptr(node)
	return addr >= base && addr < base+uintptr(c.noNodes)*uintptr(slotSize)
}

// contains walks the intrusive free chain and reports whether node is
// currently on it. Used solely for double-free detection; O(capacity).
func (c *chunk) contains(node unsafe.Pointer, slotSize int) bool {
	base := c.base()
	target := uintptr(node)
	for idx := c.firstFree; idx != c.noNodes; {
		addr := uintptr(unsafe.Add(base, uintptr(idx)*uintptr(slotSize)))
		if addr == target {
			return true
		}
		idx = *(*uint8)(unsafe.Pointer(addr))
	}
	return false
}
