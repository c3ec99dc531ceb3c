package pool

import (
	"fmt"
	"log"
	"os"
	"unsafe"
)

// Debug toggles fence bytes, fill patterns, and fence-corruption checks for
// lists constructed while it is set. Foreign-pointer, misaligned-pointer and
// double-free detection in Deallocate run whatever its value. It defaults
// to true because this package is a library, not a single binary with a
// compile-time switch: callers decide at runtime whether the overhead is
// worth it for their build.
var Debug = true

const (
	fillInternalFree byte = 0xFA // written across a freshly donated block before chunks are laid down
	fillNewMemory    byte = 0xAB // written into a node at allocation time
	fillFreedMemory  byte = 0xFD // written into a node at deallocation time
	fillFence        byte = 0xFE // written into the guard regions flanking a node
)

// ReportKind identifies the debug-mode condition being reported.
type ReportKind int

const (
	// ReportForeignPointer: deallocate was given a pointer this list never handed out.
	ReportForeignPointer ReportKind = iota
	// ReportMisalignedPointer: the pointer falls inside a chunk but not on a slot boundary.
	ReportMisalignedPointer
	// ReportDoubleFree: the pointer is currently on its chunk's free chain.
	ReportDoubleFree
	// ReportFenceCorruption: a guard region flanking a node has been overwritten.
	ReportFenceCorruption
)

func (k ReportKind) String() string {
	switch k {
	case ReportForeignPointer:
		return "pointer not from this allocator"
	case ReportMisalignedPointer:
		return "misaligned pointer"
	case ReportDoubleFree:
		return "double free"
	case ReportFenceCorruption:
		return "fence corruption"
	default:
		return "unknown condition"
	}
}

// AllocatorInfo identifies the allocator instance a report came from, the
// way foonathan::memory's debugging hooks take a name and an allocator
// address rather than a typed reference.
type AllocatorInfo struct {
	Name      string
	Allocator unsafe.Pointer
}

// ReportFunc is the injected capability the core consumes to report a
// debug-mode condition. Errors never propagate through a return value here
// (see spec section 7): the handler is expected to abort, but tests may
// install one that just records the call.
type ReportFunc func(kind ReportKind, info AllocatorInfo, ptr unsafe.Pointer)

var reportHandler ReportFunc = defaultReportHandler

// SetReportHandler installs the handler invoked on foreign-pointer,
// misaligned-pointer, double-free, and fence-corruption conditions,
// returning the previous handler.
func SetReportHandler(h ReportFunc) ReportFunc {
	prev := reportHandler
	reportHandler = h
	return prev
}

var debugLogger = log.New(os.Stderr, "", log.LstdFlags)

func defaultReportHandler(kind ReportKind, info AllocatorInfo, ptr unsafe.Pointer) {
	debugLogger.Printf("pool: %s (%s at %p): pointer %p\n", kind, info.Name, info.Allocator, ptr)
	panic(fmt.Errorf("pool: %s", kind))
}

func debugFill(p unsafe.Pointer, n int, pattern byte) {
	b := unsafe.Slice((*byte)(p), n)
	for i := range b {
		b[i] = pattern
	}
}

func debugFillRange(p []byte, pattern byte) {
	for i := range p {
		p[i] = pattern
	}
}

func debugCheckFence(p unsafe.Pointer, n int) bool {
	b := unsafe.Slice((*byte)(p), n)
	for _, v := range b {
		if v != fillFence {
			return false
		}
	}
	return true
}
