package world

import (
	"slices"

	"github.com/OCharnyshevich/meinkraft/internal/engine/block"
)

// Grid is a dense voxel array indexed x + y*SX + z*SX*SY.
type Grid struct {
	size   Size
	blocks []block.ID
}

// NewGrid allocates an all-air grid.
func NewGrid(size Size) *Grid {
	return &Grid{size: size, blocks: make([]block.ID, size.Volume())}
}

func (g *Grid) Size() Size { return g.size }

// InBounds reports whether (x,y,z) addresses a voxel of the grid.
func (g *Grid) InBounds(x, y, z int) bool {
	return x >= 0 && x < g.size.X && y >= 0 && y < g.size.Y && z >= 0 && z < g.size.Z
}

func (g *Grid) index(x, y, z int) int {
	return x + y*g.size.X + z*g.size.X*g.size.Y
}

// At returns the block at (x,y,z); positions outside the grid read as air.
func (g *Grid) At(x, y, z int) block.ID {
	if !g.InBounds(x, y, z) {
		return block.Air
	}
	return g.blocks[g.index(x, y, z)]
}

// Set stores id at (x,y,z). It reports false for positions outside the grid.
func (g *Grid) Set(x, y, z int, id block.ID) bool {
	if !g.InBounds(x, y, z) {
		return false
	}
	g.blocks[g.index(x, y, z)] = id
	return true
}

// Blocks exposes the raw backing array.
func (g *Grid) Blocks() []block.ID { return g.blocks }

// Equal reports whether two grids have the same size and contents.
func (g *Grid) Equal(o *Grid) bool {
	return g.size == o.size && slices.Equal(g.blocks, o.blocks)
}

// Reset fills the grid with air.
func (g *Grid) Reset() { clear(g.blocks) }

// Solid counts non-air voxels.
func (g *Grid) Solid() int {
	n := 0
	for _, b := range g.blocks {
		if b != block.Air {
			n++
		}
	}
	return n
}
