package blockpool

// Outstanding returns the number of blocks currently allocated and not
// yet freed.
func (p *Pool) Outstanding() int {
	return int(p.allocs - p.frees)
}

// TotalAllocs returns the lifetime count of successful Allocate calls.
func (p *Pool) TotalAllocs() uint64 {
	return p.allocs
}

// TotalFrees returns the lifetime count of successful Free calls.
func (p *Pool) TotalFrees() uint64 {
	return p.frees
}

// ArenaBytes returns the total size of the backing arena, including
// per-slot link and guard overhead.
func (p *Pool) ArenaBytes() int {
	return len(p.arena)
}

// Utilization returns the ratio of outstanding blocks to total blocks
// (0.0 to 1.0).
func (p *Pool) Utilization() float64 {
	return float64(p.Outstanding()) / float64(p.blocks)
}

// Metrics returns a snapshot of pool statistics.
func (p *Pool) Metrics() PoolMetrics {
	return PoolMetrics{
		BlockSize:   p.blockSize,
		Blocks:      p.blocks,
		Outstanding: p.Outstanding(),
		TotalAllocs: p.allocs,
		TotalFrees:  p.frees,
		ArenaBytes:  p.ArenaBytes(),
		Utilization: p.Utilization(),
	}
}

// PoolMetrics contains statistical information about a pool.
type PoolMetrics struct {
	BlockSize   int     // Payload bytes per block
	Blocks      int     // Total slots in the pool
	Outstanding int     // Blocks allocated and not yet freed
	TotalAllocs uint64  // Lifetime successful allocations
	TotalFrees  uint64  // Lifetime successful frees
	ArenaBytes  int     // Arena size including slot overhead
	Utilization float64 // Outstanding / Blocks (0.0-1.0)
}
