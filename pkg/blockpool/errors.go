package blockpool

import "github.com/pkg/errors"

// ErrInvalidBlockSize is the value NewArena panics with when the initial
// block size is not positive.
var ErrInvalidBlockSize = errors.New("blockpool: initial block size must be greater than zero")

// ErrNoBlocks is the value Release panics with when the arena holds no
// blocks to pop.
var ErrNoBlocks = errors.New("blockpool: no blocks to release")
