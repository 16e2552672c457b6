package blockpool

import "errors"

// StrictPool wraps a Pool with a fail-fast corruption policy: a
// guard-byte violation panics instead of returning ErrCorruptedBlock.
// Corruption means memory safety has already been compromised somewhere
// else, and under this policy continuing is considered unsafe.
// Exhaustion and nil frees stay recoverable errors, same as Pool.
//
// Use the base Pool when the pool is embedded in a larger system that
// wants to handle every violation itself; use StrictPool when crashing
// at the first sign of corruption is preferable to running on.
type StrictPool struct {
	pool *Pool
}

// NewStrict creates a pool with the fail-fast policy.
func NewStrict(blockSize, blocks int) (*StrictPool, error) {
	pool, err := New(blockSize, blocks)
	if err != nil {
		return nil, err
	}
	return &StrictPool{pool: pool}, nil
}

// Strict wraps an existing pool with the fail-fast policy. The pool
// must not be used through both surfaces with different expectations
// about corruption handling.
func Strict(pool *Pool) *StrictPool {
	return &StrictPool{pool: pool}
}

// Allocate behaves like Pool.Allocate but panics on a corrupted head
// slot. ErrOutOfMemory is still returned.
func (s *StrictPool) Allocate() ([]byte, error) {
	b, err := s.pool.Allocate()
	if errors.Is(err, ErrCorruptedBlock) {
		panic("blockpool: corrupted block detected on allocate")
	}
	return b, err
}

// Free behaves like Pool.Free but panics on guard validation failure
// (double free, overrun, foreign pointer). ErrNilFree is still
// returned.
func (s *StrictPool) Free(b []byte) error {
	err := s.pool.Free(b)
	if errors.Is(err, ErrCorruptedBlock) {
		panic("blockpool: corrupted block detected on free")
	}
	return err
}

// CanAllocate reports whether the next Allocate will find a free block.
func (s *StrictPool) CanAllocate() bool {
	return s.pool.CanAllocate()
}

// Metrics returns a snapshot of the underlying pool's statistics.
func (s *StrictPool) Metrics() PoolMetrics {
	return s.pool.Metrics()
}
