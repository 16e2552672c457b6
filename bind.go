package blockpool

// Lifecycle is implemented by types that route their own construction
// and destruction through a pool. Init runs after the object is placed
// in a slot; Destroy runs just before the slot is released.
type Lifecycle interface {
	Init()
	Destroy()
}

// BoundPool ties a Lifecycle type to one pool instance, resolved at
// compile time through the pointer constraint. It is the typed pool
// with the construction and destruction hooks fixed to the type's own
// methods.
type BoundPool[T any, PT interface {
	*T
	Lifecycle
}] struct {
	typed *TypedPool[T]
}

// NewBound creates a pool of `blocks` slots for T, wiring T's Destroy
// as the finalizer.
func NewBound[T any, PT interface {
	*T
	Lifecycle
}](blocks int) (*BoundPool[T, PT], error) {
	typed, err := NewTyped[T](blocks, WithFinalizer[T](func(obj *T) {
		PT(obj).Destroy()
	}))
	if err != nil {
		return nil, err
	}
	return &BoundPool[T, PT]{typed: typed}, nil
}

// Allocate takes a block, zeroes a T in it, and calls Init on it.
func (bp *BoundPool[T, PT]) Allocate() (PT, error) {
	obj, err := bp.typed.Allocate(func(obj *T) error {
		PT(obj).Init()
		return nil
	})
	if err != nil {
		var none PT
		return none, err
	}
	return PT(obj), nil
}

// Free calls Destroy on the object and releases its slot. Destroy does
// not run if the free fails guard validation.
func (bp *BoundPool[T, PT]) Free(obj PT) error {
	return bp.typed.Free((*T)(obj))
}

// CanAllocate reports whether the next Allocate will find a free block.
func (bp *BoundPool[T, PT]) CanAllocate() bool {
	return bp.typed.CanAllocate()
}
