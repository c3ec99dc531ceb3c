package pool

import "unsafe"

// SmallFreeList is the outward-facing object: it owns a chunk list, a
// cached allocation chunk, and a cached deallocation chunk, and routes
// Allocate/Deallocate calls to the right chunk with good locality.
//
// It borrows every memory block donated through Insert and never frees
// any of it; the donor retains release responsibility and must outlive
// the list. SmallFreeList is not goroutine-safe — see package typedpool
// for a synchronized wrapper.
type SmallFreeList struct {
	nodeSize  int
	alignment int
	fence     int // 0 unless debug was on at construction time
	slotSize  int // nodeSize + 2*fence

	capacity int

	used, unused chunkList
	allocChunk   *chunk
	deallocChunk *chunk

	debug bool
}

// MinElementSize is the smallest node size a SmallFreeList will accept.
const MinElementSize = 1

// NewSmallFreeList constructs an empty list for nodes of nodeSize bytes.
// Debug-mode fences are enabled or disabled for the lifetime of the list
// based on the package-level Debug flag at construction time, since an
// existing chunk's slot size can never change underneath it.
func NewSmallFreeList(nodeSize int) *SmallFreeList {
	if nodeSize < MinElementSize {
		panic(ErrSizeMustBePositive)
	}
	f := &SmallFreeList{
		nodeSize: nodeSize,
		debug:    Debug,
	}
	f.alignment = AlignmentFor(nodeSize)
	if f.debug {
		f.fence = f.alignment
	}
	f.slotSize = nodeSize + 2*f.fence
	f.used.init()
	f.unused.init()
	f.allocChunk = &f.used.sentinel
	f.deallocChunk = &f.used.sentinel
	return f
}

// NewSmallFreeListFromMemory constructs a list for nodeSize-byte nodes and
// immediately donates mem to it via Insert.
func NewSmallFreeListFromMemory(nodeSize int, mem []byte) *SmallFreeList {
	f := NewSmallFreeList(nodeSize)
	f.Insert(mem)
	return f
}

// NodeSize returns the configured node size.
func (f *SmallFreeList) NodeSize() int { return f.nodeSize }

// Alignment returns AlignmentFor(NodeSize()).
func (f *SmallFreeList) Alignment() int { return f.alignment }

// Capacity returns the total number of free nodes across all chunks.
func (f *SmallFreeList) Capacity() int { return f.capacity }

// Empty reports whether the list currently has no chunks at all (not even
// an exhausted one) — the same condition the original's empty() tests via
// its dummy chunk link.
func (f *SmallFreeList) Empty() bool {
	return f.used.empty() && f.unused.empty()
}

// Stats summarizes chunk occupancy, for reporting tools like cmd/poolbench.
type Stats struct {
	NumChunks  int
	UsedChunks int
	Capacity   int
}

// Stats walks both sub-lists and reports their sizes. O(number of chunks).
func (f *SmallFreeList) Stats() Stats {
	s := Stats{Capacity: f.capacity}
	for c := f.used.first(); c != nil && c != &f.used.sentinel; c = c.next {
		s.NumChunks++
		s.UsedChunks++
		if c.next == &f.used.sentinel {
			break
		}
	}
	for c := f.unused.first(); c != nil && c != &f.unused.sentinel; c = c.next {
		s.NumChunks++
		if c.next == &f.unused.sentinel {
			break
		}
	}
	return s
}

// Insert subdivides an MaxAlignment-aligned block into as many full
// 255-node chunks as fit, with any large-enough residual becoming one
// final partial chunk. The call must produce at least one node.
func (f *SmallFreeList) Insert(memory []byte) {
	size := len(memory)
	if size == 0 {
		panic(ErrSizeMustBePositive)
	}
	if uintptr(unsafe.Pointer(&memory[0]))%uintptr(MaxAlignment) != 0 {
		panic(ErrUnalignedBlock)
	}
	if f.debug {
		debugFillRange(memory, fillInternalFree)
	}

	chunkUnit := chunkHeaderSize + f.slotSize*chunkMaxNodes
	mem := memory
	inserted := 0
	for len(mem) >= chunkUnit {
		c := createChunk(mem[:chunkUnit:chunkUnit], f.slotSize, chunkMaxNodes)
		f.unused.insert(c)
		inserted += chunkMaxNodes
		mem = mem[chunkUnit:]
	}
	if remaining := len(mem); remaining > chunkHeaderSize {
		if slots := (remaining - chunkHeaderSize) / f.slotSize; slots > 0 {
			blockLen := chunkHeaderSize + slots*f.slotSize
			c := createChunk(mem[:blockLen:blockLen], f.slotSize, uint8(slots))
			f.unused.insert(c)
			inserted += slots
		}
	}
	if inserted == 0 {
		panic(ErrBlockTooSmall)
	}
	f.capacity += inserted
}

// Allocate returns a pointer to a NodeSize()-byte region, aligned to
// Alignment(). Precondition: Capacity() > 0.
func (f *SmallFreeList) Allocate() unsafe.Pointer {
	if f.capacity == 0 {
		panic(ErrEmptyList)
	}
	if f.allocChunk.capacity == 0 {
		f.findChunk(1)
	}
	node := f.allocChunk.allocate(f.slotSize)
	f.capacity--

	if f.debug {
		debugFill(node, f.fence, fillFence)
		user := unsafe.Add(node, f.fence)
		debugFill(user, f.nodeSize, fillNewMemory)
		debugFill(unsafe.Add(user, f.nodeSize), f.fence, fillFence)
		return user
	}
	return node
}

// Deallocate returns a node previously obtained from Allocate. It reports
// (via the installed ReportFunc) foreign pointers, misaligned pointers,
// double frees, and — in debug mode — fence corruption.
func (f *SmallFreeList) Deallocate(ptr unsafe.Pointer) {
	nodeMem := ptr
	if f.debug {
		leading := unsafe.Add(ptr, -f.fence)
		trailing := unsafe.Add(ptr, f.nodeSize)
		if !debugCheckFence(leading, f.fence) || !debugCheckFence(trailing, f.fence) {
			f.report(ReportFenceCorruption, ptr)
		}
		debugFill(ptr, f.nodeSize, fillFreedMemory)
		nodeMem = leading
	}

	c := f.chunkFor(nodeMem)
	if c == nil {
		f.report(ReportForeignPointer, ptr)
		return
	}
	offset := uintptr(nodeMem) - uintptr(c.base())
	if offset%uintptr(f.slotSize) != 0 {
		f.report(ReportMisalignedPointer, ptr)
		return
	}
	if c.contains(nodeMem, f.slotSize) {
		f.report(ReportDoubleFree, ptr)
		return
	}
	c.deallocate(nodeMem, uint8(offset/uintptr(f.slotSize)))
	f.capacity++
}

func (f *SmallFreeList) report(kind ReportKind, ptr unsafe.Pointer) {
	reportHandler(kind, AllocatorInfo{Name: "pool.SmallFreeList", Allocator: unsafe.Pointer(f)}, ptr)
}

// findChunk locates a chunk with at least n free nodes and makes it
// allocChunk. It is used only with n == 1, by Allocate, but is specified
// generally. Precondition: Capacity() >= n.
func (f *SmallFreeList) findChunk(n int) bool {
	if int(f.allocChunk.capacity) >= n {
		return true
	}
	if c := f.used.spliceOne(&f.unused); c != nil {
		f.allocChunk = c
		if f.deallocChunk == &f.used.sentinel {
			f.deallocChunk = c
		}
		return true
	}
	if int(f.deallocChunk.capacity) >= n {
		f.allocChunk = f.deallocChunk
		return true
	}
	if found := walk(f.deallocChunk, func(c *chunk) bool { return int(c.capacity) >= n }); found != nil {
		f.allocChunk = found
		return true
	}
	return false
}

// chunkFor locates the chunk owning node_memory, caching it as
// deallocChunk for next time.
func (f *SmallFreeList) chunkFor(nodeMem unsafe.Pointer) *chunk {
	if f.deallocChunk.from(nodeMem, f.slotSize) {
		return f.deallocChunk
	}
	if f.allocChunk.from(nodeMem, f.slotSize) {
		f.deallocChunk = f.allocChunk
		return f.deallocChunk
	}
	if found := walk(f.deallocChunk, func(c *chunk) bool { return c.from(nodeMem, f.slotSize) }); found != nil {
		f.deallocChunk = found
		return found
	}
	return nil
}

// Swap exchanges the internal state of f and other — their chunks, caches
// and capacity change owners — the way move-assignment does in the
// original design. Chunks link back to their owning sub-list's sentinel by
// raw pointer, so a blind field swap would leave those back-pointers
// aimed at the wrong struct; fixup() and the explicit sentinel checks below
// repair that.
func (f *SmallFreeList) Swap(other *SmallFreeList) {
	fAllocEmpty := f.allocChunk == &f.used.sentinel
	fDeallocEmpty := f.deallocChunk == &f.used.sentinel
	oAllocEmpty := other.allocChunk == &other.used.sentinel
	oDeallocEmpty := other.deallocChunk == &other.used.sentinel

	fUsedEmpty, fUnusedEmpty := f.used.empty(), f.unused.empty()
	oUsedEmpty, oUnusedEmpty := other.used.empty(), other.unused.empty()

	f.nodeSize, other.nodeSize = other.nodeSize, f.nodeSize
	f.alignment, other.alignment = other.alignment, f.alignment
	f.fence, other.fence = other.fence, f.fence
	f.slotSize, other.slotSize = other.slotSize, f.slotSize
	f.capacity, other.capacity = other.capacity, f.capacity
	f.debug, other.debug = other.debug, f.debug
	f.used, other.used = other.used, f.used
	f.unused, other.unused = other.unused, f.unused
	f.allocChunk, other.allocChunk = other.allocChunk, f.allocChunk
	f.deallocChunk, other.deallocChunk = other.deallocChunk, f.deallocChunk

	// f now holds other's former sub-lists and vice versa. A sub-list that
	// was empty still carries a self-pointer to its *old* sentinel address,
	// which init() resets; a non-empty one needs only its two boundary
	// chunks repointed at the sentinel's new home, via fixup().
	if oUsedEmpty {
		f.used.init()
	} else {
		f.used.fixup()
	}
	if oUnusedEmpty {
		f.unused.init()
	} else {
		f.unused.fixup()
	}
	if fUsedEmpty {
		other.used.init()
	} else {
		other.used.fixup()
	}
	if fUnusedEmpty {
		other.unused.init()
	} else {
		other.unused.fixup()
	}

	if oAllocEmpty {
		f.allocChunk = &f.used.sentinel
	}
	if oDeallocEmpty {
		f.deallocChunk = &f.used.sentinel
	}
	if fAllocEmpty {
		other.allocChunk = &other.used.sentinel
	}
	if fDeallocEmpty {
		other.deallocChunk = &other.used.sentinel
	}
}
