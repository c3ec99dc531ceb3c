package main

import (
	"sync/atomic"
	"time"
	"unsafe"
)

type benchmarkResult struct {
	err      error
	count    int64
	duration time.Duration
}

// churn repeatedly allocates a node and immediately deallocates it,
// exercising the allocChunk/deallocChunk locality caches the way a
// steady-state server workload would.
func churn(sp *sharedPool, requests int, brCh chan benchmarkResult, count *int64) {
	startTm := time.Now()
	var i int
	for i = 0; i < requests; i++ {
		node := sp.Allocate()
		sp.Deallocate(node)
	}
	atomic.AddInt64(count, int64(i))
	brCh <- benchmarkResult{
		count:    int64(i),
		duration: time.Since(startTm),
	}
}

// fill allocates requests nodes without freeing them, then releases them
// all in allocation order, exercising Insert-driven growth and a cold
// sweep through every chunk.
func fill(sp *sharedPool, requests int, brCh chan benchmarkResult, count *int64) {
	startTm := time.Now()
	nodes := make([]unsafe.Pointer, 0, requests)
	for i := 0; i < requests; i++ {
		nodes = append(nodes, sp.Allocate())
	}
	atomic.AddInt64(count, int64(len(nodes)))
	for _, n := range nodes {
		sp.Deallocate(n)
	}
	brCh <- benchmarkResult{
		count:    int64(len(nodes)),
		duration: time.Since(startTm),
	}
}
