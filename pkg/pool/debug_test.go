package pool

import (
	"testing"
	"unsafe"
)

func withReportHandler(t *testing.T, h ReportFunc) {
	t.Helper()
	prev := SetReportHandler(h)
	t.Cleanup(func() { SetReportHandler(prev) })
}

func TestDeallocateDetectsDoubleFree(t *testing.T) {
	var got ReportKind
	var hit bool
	withReportHandler(t, func(kind ReportKind, info AllocatorInfo, ptr unsafe.Pointer) {
		got, hit = kind, true
	})

	f := NewSmallFreeList(8)
	f.Insert(alignedBuffer(1024))
	n := f.Allocate()
	f.Deallocate(n)
	f.Deallocate(n)

	if !hit || got != ReportDoubleFree {
		t.Fatalf("report = (%v, hit=%v), want (ReportDoubleFree, true)", got, hit)
	}
}

func TestDeallocateDetectsForeignPointer(t *testing.T) {
	var got ReportKind
	var hit bool
	withReportHandler(t, func(kind ReportKind, info AllocatorInfo, ptr unsafe.Pointer) {
		got, hit = kind, true
	})

	f := NewSmallFreeList(8)
	f.Insert(alignedBuffer(1024))

	var stray [16]byte
	f.Deallocate(unsafe.Pointer(&stray[0]))

	if !hit || got != ReportForeignPointer {
		t.Fatalf("report = (%v, hit=%v), want (ReportForeignPointer, true)", got, hit)
	}
}

func TestDeallocateDetectsFenceCorruption(t *testing.T) {
	var got ReportKind
	var hit bool
	withReportHandler(t, func(kind ReportKind, info AllocatorInfo, ptr unsafe.Pointer) {
		got, hit = kind, true
	})

	old := Debug
	Debug = true
	defer func() { Debug = old }()

	f := NewSmallFreeList(8)
	f.Insert(alignedBuffer(1024))
	n := f.Allocate()

	trailingFence := unsafe.Add(n, f.nodeSize)
	*(*byte)(trailingFence) = 0x00

	f.Deallocate(n)

	if !hit || got != ReportFenceCorruption {
		t.Fatalf("report = (%v, hit=%v), want (ReportFenceCorruption, true)", got, hit)
	}
}

func TestDebugFillPatternsAreWrittenOnAllocate(t *testing.T) {
	old := Debug
	Debug = true
	defer func() { Debug = old }()

	f := NewSmallFreeList(8)
	f.Insert(alignedBuffer(1024))
	n := f.Allocate()

	b := unsafe.Slice((*byte)(n), 8)
	for i, v := range b {
		if v != fillNewMemory {
			t.Fatalf("byte %d = %#x, want fillNewMemory %#x", i, v, fillNewMemory)
		}
	}
}
