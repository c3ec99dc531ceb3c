package main

import (
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"strings"
	"sync"
	"time"
	"unsafe"

	"github.com/Atharvsam/memory/pkg/blockpool"
	"github.com/Atharvsam/memory/pkg/pool"
)

var wg sync.WaitGroup

// sharedPool guards a pool.SmallFreeList with a mutex and grows it, via an
// Arena, whenever it runs dry. The core package is deliberately not
// goroutine-safe (see package typedpool for the generic equivalent); this
// benchmark tool talks to the untyped list directly, so it rolls its own
// thin lock the same way typedpool.Synchronized does.
type sharedPool struct {
	mu    sync.Mutex
	free  *pool.SmallFreeList
	arena *blockpool.Arena
}

func newSharedPool(nodeSize, blockSize int) *sharedPool {
	return &sharedPool{
		free:  pool.NewSmallFreeList(nodeSize),
		arena: blockpool.NewArena("poolbench", blockpool.Heap{}, blockSize+pool.MaxAlignment),
	}
}

func (sp *sharedPool) Allocate() unsafe.Pointer {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	if sp.free.Capacity() == 0 {
		sp.free.Insert(pool.AlignBlock(sp.arena.Grow()))
	}
	return sp.free.Allocate()
}

func (sp *sharedPool) Deallocate(p unsafe.Pointer) {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	sp.free.Deallocate(p)
}

func (sp *sharedPool) Stats() (pool.Stats, blockpool.Stats) {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	return sp.free.Stats(), sp.arena.Stats()
}

func runTest(name string, sp *sharedPool, clients, requests int) {
	fn := churn
	if name == "fill" {
		fn = fill
	}

	brCh := make(chan benchmarkResult, clients)
	var count int64
	startTm := time.Now()
	for i := 0; i < clients; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn(sp, requests, brCh, &count)
		}()
	}
	wg.Wait()
	close(brCh)

	var errs int
	for br := range brCh {
		if br.err != nil {
			errs++
		}
	}
	elapsed := time.Since(startTm)
	poolStats, blockStats := sp.Stats()
	fmt.Printf("%s: %d ops in %s (%.0f ops/s), errs=%d, chunks=%d/%d, blocks=%d/%d bytes\n",
		name, count, elapsed, float64(count)/elapsed.Seconds(), errs,
		poolStats.UsedChunks, poolStats.NumChunks, blockStats.NumBlocks, blockStats.TotalSize)
}

func main() {
	ca := newCmdArgs(os.Stderr)
	if err := ca.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}
	if ca.help {
		ca.fs.Usage()
		return
	}

	go func() {
		log.Println(http.ListenAndServe("localhost:6061", nil))
	}()

	sp := newSharedPool(int(ca.NodeSize), int(ca.BlockSize))
	tests := strings.Split(ca.Tests, ",")

	for {
		for _, name := range tests {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			runTest(name, sp, int(ca.Clients), int(ca.Requests))
		}
		if !ca.Loop {
			break
		}
		time.Sleep(1 * time.Second)
	}
}
