// Package blockpool implements a fixed-size block memory pool for Go.
//
// # Overview
//
// A block pool hands out equal-size blocks from one contiguous arena
// allocated up front. Both Allocate and Free are O(1) and deterministic,
// which makes the pool a good fit for:
//
//   - Fixed-size nodes in intrusive data structures
//   - Game entities and particles with churny lifetimes
//   - Connection or session objects in servers with a hard cap
//   - Any workload that repeatedly allocates and frees one size class
//
// Unlike a bump arena there is per-block Free: blocks cycle through a
// LIFO free list threaded through the unused bytes of free slots. Each
// slot also carries guard bytes that detect double frees, foreign
// pointers, and small overruns into slot metadata.
//
// # Basic Usage
//
//	pool, err := blockpool.New(32, 128) // 128 blocks of 32 bytes
//	if err != nil {
//		// invalid geometry
//	}
//
//	b, err := pool.Allocate() // []byte of exactly 32 bytes
//	// ... use b ...
//	err = pool.Free(b)
//
// # Typed Usage
//
//	type Entity struct{ X, Y float64 }
//
//	tp, _ := blockpool.NewTyped[Entity](128)
//	e, err := tp.Allocate(func(e *Entity) error {
//		e.X, e.Y = 3, 4
//		return nil
//	})
//	// ... use e ...
//	err = tp.Free(e)
//
// The typed pool sizes its blocks to align-of + size-of the type, so
// every returned pointer is correctly aligned. A type can also bind its
// own lifecycle to a pool by implementing Lifecycle and using
// BoundPool.
//
// # Memory Layout
//
// The arena is blocks × slot-size bytes, allocated once in New and
// never resized. Each slot is [link][guard][payload]: the link threads
// the free list while the slot is free, the 3 guard bytes hold 0xAA
// (free) or 0xBB (allocated), and the payload is the caller's block.
//
// # Failure Policy
//
// Every violation is reported as an error the caller must handle:
// ErrOutOfMemory on exhaustion, ErrCorruptedBlock on guard mismatch,
// ErrNilFree on a nil free. This is the right default for a pool
// embedded in a larger system. StrictPool offers the other policy,
// panicking on corruption, for programs where a bad guard read means
// memory safety is already gone and continuing is worse than crashing.
//
// # Thread Safety
//
// Pools are not goroutine-safe and ship no locked variant; use one pool
// per goroutine or serialize externally. There is no arena growth,
// shrink, or garbage collection: the pool is a deliberate trade of
// flexibility for determinism.
//
// # Performance Characteristics
//
//   - Allocate: O(1), touches only the popped slot
//   - Free: O(1), touches only the freed slot
//   - CanAllocate: O(1), no side effects
//   - Overhead: 11 bytes per slot (8 link + 3 guard)
package blockpool
