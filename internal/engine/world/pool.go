package world

import (
	"fmt"
	"sync"
)

// Pool is an arena of fixed-size grids. Grids are acquired when a chunk is
// generated and released when it is disposed. Safe for concurrent use.
type Pool struct {
	size    Size
	maxFree int

	mu   sync.Mutex
	free []*Grid
	live int
}

// PoolStats is a snapshot of pool occupancy.
type PoolStats struct {
	Live int // grids handed out and not yet released
	Free int // grids kept for reuse
}

// NewPool creates a pool of grids of the given size, keeping at most maxFree
// released grids around for reuse.
func NewPool(size Size, maxFree int) *Pool {
	return &Pool{size: size, maxFree: maxFree}
}

// Acquire returns an all-air grid.
func (p *Pool) Acquire() *Grid {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.live++
	if n := len(p.free); n > 0 {
		g := p.free[n-1]
		p.free = p.free[:n-1]
		g.Reset()
		return g
	}
	return NewGrid(p.size)
}

// Release hands g back to the pool. Releasing nil is a no-op.
func (p *Pool) Release(g *Grid) {
	if g == nil {
		return
	}
	if g.size != p.size {
		panic(fmt.Sprintf("world: releasing %v grid into %v pool", g.size, p.size))
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.live--
	if len(p.free) < p.maxFree {
		p.free = append(p.free, g)
	}
}

// Stats returns current occupancy.
func (p *Pool) Stats() PoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return PoolStats{Live: p.live, Free: len(p.free)}
}
