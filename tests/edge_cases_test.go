package blockpool_test

import (
	"math"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/pavanmanishd/blockpool"
)

// TestEdgeCases covers edge cases and misuse through the public API only.
func TestEdgeCases(t *testing.T) {
	t.Run("InvalidGeometry", func(t *testing.T) {
		testCases := []struct {
			name      string
			blockSize int
			blocks    int
		}{
			{"zero block size", 0, 8},
			{"negative block size", -32, 8},
			{"zero blocks", 32, 0},
			{"negative blocks", 32, -8},
			{"arena larger than address space", math.MaxInt / 2, 16},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := blockpool.New(tc.blockSize, tc.blocks)
				require.ErrorIs(t, err, blockpool.ErrBadConfig)
			})
		}
	})

	t.Run("MinimalPool", func(t *testing.T) {
		p, err := blockpool.New(1, 1)
		require.NoError(t, err)

		b, err := p.Allocate()
		require.NoError(t, err)
		require.Len(t, b, 1)
		require.False(t, p.CanAllocate())

		b[0] = 0x7F
		require.NoError(t, p.Free(b))
		require.True(t, p.CanAllocate())
	})

	t.Run("DrainRefillDrain", func(t *testing.T) {
		const blocks = 64
		p, err := blockpool.New(16, blocks)
		require.NoError(t, err)

		for cycle := 0; cycle < 3; cycle++ {
			held := make([][]byte, 0, blocks)
			for p.CanAllocate() {
				b, err := p.Allocate()
				require.NoError(t, err)
				held = append(held, b)
			}
			require.Len(t, held, blocks)

			_, err := p.Allocate()
			require.ErrorIs(t, err, blockpool.ErrOutOfMemory)

			for _, b := range held {
				require.NoError(t, p.Free(b))
			}
		}
		require.Equal(t, uint64(3*blocks), p.TotalAllocs())
		require.Equal(t, uint64(3*blocks), p.TotalFrees())
	})

	t.Run("FreeFromWrongPool", func(t *testing.T) {
		p1, err := blockpool.New(8, 4)
		require.NoError(t, err)
		p2, err := blockpool.New(8, 4)
		require.NoError(t, err)

		b, err := p1.Allocate()
		require.NoError(t, err)

		// A block from another pool's arena is a foreign pointer.
		require.ErrorIs(t, p2.Free(b), blockpool.ErrCorruptedBlock)
		require.NoError(t, p1.Free(b))
	})

	t.Run("PayloadWritesStayDetectable", func(t *testing.T) {
		p, err := blockpool.New(24, 8)
		require.NoError(t, err)

		// Filling a block to the brim is legal and must not trip any
		// guard on either side.
		b, err := p.Allocate()
		require.NoError(t, err)
		for i := range b {
			b[i] = 0xFF
		}
		require.NoError(t, p.Free(b))

		// The freshly freed slot is reused intact.
		again, err := p.Allocate()
		require.NoError(t, err)
		require.Equal(t, unsafe.SliceData(b), unsafe.SliceData(again))
		require.NoError(t, p.Free(again))
	})
}

// TestFullLifecycle32x128 walks the full lifecycle of a 32-byte,
// 128-block pool: drain it, observe exhaustion, free one block, observe
// LIFO reuse.
func TestFullLifecycle32x128(t *testing.T) {
	const (
		blockSize = 32
		blocks    = 128
	)
	p, err := blockpool.New(blockSize, blocks)
	require.NoError(t, err)

	held := make([][]byte, blocks)
	seen := make(map[uintptr]bool, blocks)
	for i := range held {
		b, err := p.Allocate()
		require.NoError(t, err)
		require.Len(t, b, blockSize)

		addr := uintptr(unsafe.Pointer(unsafe.SliceData(b)))
		require.Falsef(t, seen[addr], "duplicate address %#x at allocation %d", addr, i)
		seen[addr] = true
		held[i] = b
	}

	_, err = p.Allocate()
	require.ErrorIs(t, err, blockpool.ErrOutOfMemory)
	require.False(t, p.CanAllocate())

	// Free one arbitrary block; it must be the next one handed out.
	victim := held[37]
	require.NoError(t, p.Free(victim))
	require.True(t, p.CanAllocate())

	b, err := p.Allocate()
	require.NoError(t, err)
	require.Equal(t, unsafe.SliceData(victim), unsafe.SliceData(b))
}

// TestOverrunIntoNeighborGuard simulates a buffer overrun that runs off
// the end of one block into the metadata of the adjacent slot, and
// verifies the neighbor's guard catches it on the next transition.
func TestOverrunIntoNeighborGuard(t *testing.T) {
	const blockSize = 32
	p, err := blockpool.New(blockSize, 4)
	require.NoError(t, err)

	// Blocks come off the free list in descending address order, so
	// upper sits directly above lower in the arena.
	upper, err := p.Allocate()
	require.NoError(t, err)
	lower, err := p.Allocate()
	require.NoError(t, err)

	upperAddr := uintptr(unsafe.Pointer(unsafe.SliceData(upper)))
	lowerAddr := uintptr(unsafe.Pointer(unsafe.SliceData(lower)))
	require.Greater(t, upperAddr, lowerAddr)
	slotSize := upperAddr - lowerAddr

	// Write past the end of lower all the way up to upper's payload,
	// trampling upper's link and guard regions.
	overrun := int(slotSize) - blockSize
	base := unsafe.Pointer(unsafe.SliceData(lower))
	for i := 0; i < overrun; i++ {
		*(*byte)(unsafe.Add(base, blockSize+i)) = 0xFF
	}

	require.ErrorIs(t, p.Free(upper), blockpool.ErrCorruptedBlock)
	require.NoError(t, p.Free(lower))
}

// TestTypedOddSizedStruct exercises the typed layer with a struct whose
// size is not a multiple of its alignment.
func TestTypedOddSizedStruct(t *testing.T) {
	type odd struct {
		a uint32
		b uint32
		c uint16
		d uint8
	}

	const blocks = 10
	tp, err := blockpool.NewTyped[odd](blocks)
	require.NoError(t, err)

	objs := make([]*odd, blocks)
	for i := range objs {
		o, err := tp.Allocate(func(o *odd) error {
			o.a = uint32(i)
			o.b = uint32(i) * 10
			o.c = uint16(i) * 100
			o.d = uint8(i)
			return nil
		})
		require.NoError(t, err)
		require.Zero(t, uintptr(unsafe.Pointer(o))%unsafe.Alignof(odd{}))
		objs[i] = o
	}

	for i, o := range objs {
		require.Equal(t, uint32(i), o.a)
		require.Equal(t, uint32(i)*10, o.b)
		require.Equal(t, uint16(i)*100, o.c)
		require.Equal(t, uint8(i), o.d)
		require.NoError(t, tp.Free(o))
	}
}
