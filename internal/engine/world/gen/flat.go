package gen

import (
	"github.com/OCharnyshevich/meinkraft/internal/engine/block"
	"github.com/OCharnyshevich/meinkraft/internal/engine/world"
)

// FlatGenerator generates a flat world: stone y=0..2, dirt y=3, grass y=4.
type FlatGenerator struct {
	layout world.Layout
}

// NewFlatGenerator creates a FlatGenerator.
func NewFlatGenerator(layout world.Layout) *FlatGenerator {
	return &FlatGenerator{layout: layout}
}

var flatLayers = [...]block.ID{block.Stone, block.Stone, block.Stone, block.Dirt, block.Grass}

func (f *FlatGenerator) Generate(pos world.ChunkPos, g *world.Grid) error {
	if err := checkGrid(f.layout, g); err != nil {
		return err
	}
	originY := f.layout.Origin(pos).Y
	size := g.Size()
	for wy, id := range flatLayers {
		y := wy - originY
		if y < 0 || y >= size.Y {
			continue
		}
		for x := 0; x < size.X; x++ {
			for z := 0; z < size.Z; z++ {
				g.Set(x, y, z, id)
			}
		}
	}
	return nil
}

func (f *FlatGenerator) HeightAt(_, _ int) int {
	return len(flatLayers)
}
