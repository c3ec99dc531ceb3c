package pool

import (
	"math/rand"
	"testing"
	"time"
	"unsafe"
)

func TestSmallFreeListInsertAndExhaust(t *testing.T) {
	const nodeSize = 24
	f := NewSmallFreeList(nodeSize)

	mem := alignedBuffer(4096)
	f.Insert(mem)
	cap0 := f.Capacity()
	if cap0 == 0 {
		t.Fatalf("Capacity() = 0 after Insert")
	}

	var nodes []unsafe.Pointer
	for f.Capacity() > 0 {
		nodes = append(nodes, f.Allocate())
	}
	if len(nodes) != cap0 {
		t.Fatalf("allocated %d nodes, want %d", len(nodes), cap0)
	}

	seen := map[uintptr]bool{}
	for _, n := range nodes {
		addr := uintptr(n)
		if seen[addr] {
			t.Fatalf("duplicate node address %x handed out twice", addr)
		}
		seen[addr] = true
		if addr%uintptr(f.Alignment()) != 0 {
			t.Fatalf("node at %x not aligned to %d", addr, f.Alignment())
		}
	}

	for _, n := range nodes {
		f.Deallocate(n)
	}
	if f.Capacity() != cap0 {
		t.Fatalf("Capacity() after full deallocate = %d, want %d", f.Capacity(), cap0)
	}
}

func TestSmallFreeListRandomAllocDeallocSequence(t *testing.T) {
	const nodeSize = 17
	f := NewSmallFreeList(nodeSize)
	f.Insert(alignedBuffer(64 * 1024))

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	live := map[unsafe.Pointer]bool{}

	for i := 0; i < 5000; i++ {
		if len(live) == 0 || (f.Capacity() > 0 && rng.Intn(2) == 0) {
			n := f.Allocate()
			if live[n] {
				t.Fatalf("Allocate returned an address already live")
			}
			live[n] = true
			continue
		}
		for n := range live {
			f.Deallocate(n)
			delete(live, n)
			break
		}
	}

	for n := range live {
		f.Deallocate(n)
	}
	t.Logf("final capacity after draining live set: %d", f.Capacity())
}

func TestSmallFreeListInsertRejectsEmptyBlock(t *testing.T) {
	f := NewSmallFreeList(8)

	defer func() {
		if recover() == nil {
			t.Fatalf("Insert(nil) did not panic")
		}
	}()
	f.Insert(nil)
}

func TestSmallFreeListInsertRejectsUnalignedBlock(t *testing.T) {
	f := NewSmallFreeList(8)

	mem := alignedBuffer(1024)
	unaligned := mem[1:]

	defer func() {
		if recover() == nil {
			t.Fatalf("Insert on unaligned block did not panic")
		}
	}()
	f.Insert(unaligned)
}

func TestSmallFreeListAllocateOnEmptyPanics(t *testing.T) {
	f := NewSmallFreeList(8)
	defer func() {
		if recover() == nil {
			t.Fatalf("Allocate on empty list did not panic")
		}
	}()
	f.Allocate()
}

func TestSmallFreeListSwapExchangesState(t *testing.T) {
	a := NewSmallFreeList(16)
	a.Insert(alignedBuffer(2048))
	b := NewSmallFreeList(32)
	b.Insert(alignedBuffer(4096))

	aCap, bCap := a.Capacity(), b.Capacity()
	aNode, bNode := a.NodeSize(), b.NodeSize()

	a.Swap(b)

	if a.Capacity() != bCap || a.NodeSize() != bNode {
		t.Fatalf("a after swap = (cap %d, node %d), want (%d, %d)", a.Capacity(), a.NodeSize(), bCap, bNode)
	}
	if b.Capacity() != aCap || b.NodeSize() != aNode {
		t.Fatalf("b after swap = (cap %d, node %d), want (%d, %d)", b.Capacity(), b.NodeSize(), aCap, aNode)
	}

	n := a.Allocate()
	a.Deallocate(n)
	n = b.Allocate()
	b.Deallocate(n)
}

func TestSmallFreeListSwapWithEmptyList(t *testing.T) {
	a := NewSmallFreeList(16)
	a.Insert(alignedBuffer(2048))
	b := NewSmallFreeList(16)

	a.Swap(b)
	if a.Capacity() != 0 {
		t.Fatalf("a.Capacity() = %d after swapping in an empty list, want 0", a.Capacity())
	}
	n := b.Allocate()
	b.Deallocate(n)
}
