package blockpool

import "errors"

var (
	// ErrOutOfMemory indicates the free list is empty: every block in the
	// pool is currently allocated. Recoverable; free a block and retry.
	ErrOutOfMemory = errors.New("blockpool: out of memory")

	// ErrCorruptedBlock indicates a guard-byte mismatch: data was written
	// past a payload's bounds, a block was freed twice, or the pointer did
	// not come from this pool. The slot's state is unknown, so the
	// operation is aborted.
	ErrCorruptedBlock = errors.New("blockpool: corrupted block")

	// ErrNilFree indicates Free was called with a nil pointer or slice.
	ErrNilFree = errors.New("blockpool: free of nil block")

	// ErrAllocationFailed indicates the typed layer could not find an
	// aligned address inside a slot. Only possible when block size and the
	// type's alignment disagree, which New catches up front.
	ErrAllocationFailed = errors.New("blockpool: no aligned address in block")

	// ErrBadConfig indicates invalid pool geometry (block size or block
	// count below 1, or an arena too large to address).
	ErrBadConfig = errors.New("blockpool: invalid pool configuration")
)
