package blockpool

import "unsafe"

// TypedPool allocates values of a single type T from a fixed-size block
// pool. Each slot is sized to align-of(T) + size-of(T), so an aligned
// address for T always fits inside the slot regardless of where the
// payload happens to start.
type TypedPool[T any] struct {
	pool *Pool
	fin  func(*T)
}

// TypedOption configures a TypedPool.
type TypedOption[T any] func(*TypedPool[T])

// WithFinalizer registers fin to run on each object just before its
// slot is returned to the pool. fin never runs for objects whose init
// function failed, and never runs on a free that fails guard
// validation.
func WithFinalizer[T any](fin func(*T)) TypedOption[T] {
	return func(tp *TypedPool[T]) {
		tp.fin = fin
	}
}

// NewTyped creates a typed pool with the given number of blocks.
// Returns ErrBadConfig if blocks < 1 or the arena would be too large.
func NewTyped[T any](blocks int, opts ...TypedOption[T]) (*TypedPool[T], error) {
	var zero T
	blockSize := int(unsafe.Alignof(zero)) + int(unsafe.Sizeof(zero))
	pool, err := New(blockSize, blocks)
	if err != nil {
		return nil, err
	}
	tp := &TypedPool[T]{pool: pool}
	for _, opt := range opts {
		opt(tp)
	}
	return tp, nil
}

// Allocate takes a block from the pool, zeroes a T at the first aligned
// address inside it, and runs init in place. A nil init leaves the zero
// value. If init returns an error the slot is released back to the pool
// before the error is propagated, so a failed construction never leaks
// a block. ErrOutOfMemory and ErrCorruptedBlock pass through from the
// raw pool unchanged.
func (tp *TypedPool[T]) Allocate(init func(*T) error) (*T, error) {
	b, err := tp.pool.Allocate()
	if err != nil {
		return nil, err
	}

	obj, ok := alignedIn[T](b)
	if !ok {
		// Unreachable with the slack NewTyped reserves, but checked
		// rather than assumed.
		_ = tp.pool.Free(b)
		return nil, ErrAllocationFailed
	}

	var zero T
	*obj = zero
	if init != nil {
		if err := init(obj); err != nil {
			_ = tp.pool.Free(b)
			return nil, err
		}
	}
	return obj, nil
}

// Free runs the finalizer (if one is registered) and returns the
// object's slot to the pool. Returns ErrNilFree for a nil pointer and
// ErrCorruptedBlock for a double free or a pointer that is not an
// object of this pool.
func (tp *TypedPool[T]) Free(obj *T) error {
	if obj == nil {
		return ErrNilFree
	}
	off, ok := tp.pool.slotContaining(uintptr(unsafe.Pointer(obj)))
	if !ok || !tp.pool.guardIs(off, patternAllocated) {
		return ErrCorruptedBlock
	}
	if tp.fin != nil {
		tp.fin(obj)
	}
	return tp.pool.freeSlot(off)
}

// CanAllocate reports whether the next Allocate will find a free block.
func (tp *TypedPool[T]) CanAllocate() bool {
	return tp.pool.CanAllocate()
}

// Metrics returns a snapshot of the underlying pool's statistics.
func (tp *TypedPool[T]) Metrics() PoolMetrics {
	return tp.pool.Metrics()
}

// alignedIn returns a *T at the first address inside b that satisfies
// T's alignment and still leaves room for T's size.
func alignedIn[T any](b []byte) (*T, bool) {
	var zero T
	size := unsafe.Sizeof(zero)
	align := unsafe.Alignof(zero)

	base := uintptr(unsafe.Pointer(unsafe.SliceData(b)))
	aligned := (base + align - 1) &^ (align - 1)
	if aligned+size > base+uintptr(len(b)) {
		return nil, false
	}
	return (*T)(unsafe.Add(unsafe.Pointer(unsafe.SliceData(b)), aligned-base)), true
}
