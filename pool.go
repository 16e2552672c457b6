// Package blockpool implements a fixed-size block memory pool.
// Typical usage: create one pool per size class, allocate and free
// blocks of that size in O(1), and let guard bytes catch double frees
// and overruns into slot metadata.
package blockpool

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// Guard byte patterns marking the state of a slot. The guard region
// doubles as the corruption sentinel: a slot whose guard bytes match
// neither pattern has been overwritten.
const (
	patternUnallocated = 0xAA
	patternAllocated   = 0xBB
)

// Slot layout: [link linkBytes][guard guardBytes][payload blockSize].
// The link region holds the free-list offset while the slot is free and
// is dead space while it is allocated.
const (
	guardBytes = 3
	linkBytes  = 8
)

// nilLink terminates the free list.
const nilLink = ^uint64(0)

// noCopy triggers `go vet` copylocks checks. A Pool's identity is tied
// to one arena; copying it would give two pools overlapping ownership
// of the same slots.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Pool is a fixed-size block allocator over a single contiguous arena.
// Not goroutine-safe: callers needing concurrent access must serialize
// externally. Must not be copied after first use.
type Pool struct {
	noCopy noCopy

	arena     []byte
	blockSize int
	blocks    int
	slotSize  int

	// head is the arena offset of the first free slot, nilLink when the
	// pool is exhausted. The free list is LIFO: the most recently freed
	// slot is reused first.
	head uint64

	allocs uint64
	frees  uint64
}

// New creates a pool of `blocks` slots with `blockSize` payload bytes
// each. The arena is allocated once here and never grows. Slots are
// pushed onto the free list in ascending order, so the highest-indexed
// slot is handed out first.
// Returns ErrBadConfig if blockSize < 1, blocks < 1, or the arena would
// overflow the address space.
func New(blockSize, blocks int) (*Pool, error) {
	if blockSize < 1 || blocks < 1 {
		return nil, ErrBadConfig
	}
	slotSize := linkBytes + guardBytes + blockSize
	if slotSize < blockSize || blocks > math.MaxInt/slotSize {
		return nil, ErrBadConfig
	}

	p := &Pool{
		arena:     make([]byte, blocks*slotSize),
		blockSize: blockSize,
		blocks:    blocks,
		slotSize:  slotSize,
		head:      nilLink,
	}
	for i := 0; i < blocks; i++ {
		off := uint64(i * slotSize)
		p.setGuard(off, patternUnallocated)
		p.pushFree(off)
	}
	return p, nil
}

// Allocate pops a block off the free list and returns its payload as a
// slice of exactly BlockSize bytes. O(1); touches no slot other than
// the one returned.
// Returns ErrOutOfMemory when the pool is exhausted, ErrCorruptedBlock
// when the head slot's guard bytes were overwritten (the slot is left
// on the list in that case).
func (p *Pool) Allocate() ([]byte, error) {
	if p.head == nilLink {
		return nil, ErrOutOfMemory
	}
	off := p.head
	if !p.guardIs(off, patternUnallocated) {
		return nil, ErrCorruptedBlock
	}
	p.head = p.readLink(off)
	p.setGuard(off, patternAllocated)
	p.allocs++
	return p.payload(off), nil
}

// Free returns a block obtained from Allocate to the pool. The slice's
// base address must be a payload start inside this pool's arena; an
// interior or foreign pointer is reported as ErrCorruptedBlock, the
// same class the guard bytes catch. A double free fails the guard
// check (the slot already reads UNALLOCATED). O(1).
func (p *Pool) Free(b []byte) error {
	if len(b) == 0 {
		return ErrNilFree
	}
	off, ok := p.payloadOffset(uintptr(unsafe.Pointer(unsafe.SliceData(b))))
	if !ok {
		return ErrCorruptedBlock
	}
	return p.freeSlot(off)
}

// CanAllocate reports whether the next Allocate will find a free block.
// No side effects.
func (p *Pool) CanAllocate() bool {
	return p.head != nilLink
}

// BlockSize returns the payload bytes per block.
func (p *Pool) BlockSize() int { return p.blockSize }

// Blocks returns the number of slots in the pool.
func (p *Pool) Blocks() int { return p.blocks }

// freeSlot validates and releases the slot starting at off. Shared by
// the raw and typed free paths.
func (p *Pool) freeSlot(off uint64) error {
	if !p.guardIs(off, patternAllocated) {
		return ErrCorruptedBlock
	}
	p.setGuard(off, patternUnallocated)
	p.pushFree(off)
	p.frees++
	return nil
}

// Everything below is the pointer-arithmetic boundary. Slot address
// computation, guard access, and link access live here so the rest of
// the package never touches raw offsets.

// payload returns the payload region of the slot at off, capped so the
// slice cannot be appended past the block.
func (p *Pool) payload(off uint64) []byte {
	start := int(off) + linkBytes + guardBytes
	return p.arena[start : start+p.blockSize : start+p.blockSize]
}

// guard returns the guard region of the slot at off.
func (p *Pool) guard(off uint64) []byte {
	start := off + linkBytes
	return p.arena[start : start+guardBytes]
}

func (p *Pool) setGuard(off uint64, pattern byte) {
	g := p.guard(off)
	for i := range g {
		g[i] = pattern
	}
}

func (p *Pool) guardIs(off uint64, pattern byte) bool {
	for _, b := range p.guard(off) {
		if b != pattern {
			return false
		}
	}
	return true
}

// pushFree links the slot at off in front of the current head.
func (p *Pool) pushFree(off uint64) {
	binary.LittleEndian.PutUint64(p.arena[off:], p.head)
	p.head = off
}

// readLink reads the next-slot offset stored in the link region.
func (p *Pool) readLink(off uint64) uint64 {
	return binary.LittleEndian.Uint64(p.arena[off:])
}

// payloadOffset maps addr to the offset of its slot, requiring addr to
// be exactly a payload start inside the arena.
func (p *Pool) payloadOffset(addr uintptr) (uint64, bool) {
	off, ok := p.slotContaining(addr)
	if !ok {
		return 0, false
	}
	if addr != p.payloadAddr(off) {
		return 0, false
	}
	return off, true
}

// slotContaining maps addr to the offset of the slot whose payload
// region contains it. Used by the typed layer, whose aligned object
// address may sit past the payload start.
func (p *Pool) slotContaining(addr uintptr) (uint64, bool) {
	base := uintptr(unsafe.Pointer(unsafe.SliceData(p.arena)))
	if addr < base || addr >= base+uintptr(len(p.arena)) {
		return 0, false
	}
	rel := int(addr - base)
	off := uint64(rel - rel%p.slotSize)
	if rel%p.slotSize < linkBytes+guardBytes {
		return 0, false
	}
	return off, true
}

func (p *Pool) payloadAddr(off uint64) uintptr {
	base := uintptr(unsafe.Pointer(unsafe.SliceData(p.arena)))
	return base + uintptr(off) + linkBytes + guardBytes
}
