package gen

import (
	"fmt"

	"github.com/OCharnyshevich/meinkraft/internal/engine/world"
)

// Generator fills chunk grids deterministically from a seed. Implementations
// must be safe for concurrent use.
type Generator interface {
	Generate(pos world.ChunkPos, g *world.Grid) error
	// HeightAt returns the lowest air y of the column at a world block X/Z.
	HeightAt(blockX, blockZ int) int
}

// Options selects and parameterises a generator.
type Options struct {
	Name    string // mountains | flat
	Noise   string // simplex | perlin
	Seed    int64
	Terrain TerrainParams
}

// New builds the generator named in opts for layout.
func New(layout world.Layout, opts Options) (Generator, error) {
	switch opts.Name {
	case "mountains", "":
		src, err := NewNoise(opts.Noise, opts.Seed)
		if err != nil {
			return nil, err
		}
		return NewTerrainGenerator(layout, src, opts.Terrain), nil
	case "flat":
		return NewFlatGenerator(layout), nil
	default:
		return nil, fmt.Errorf("unknown generator %q", opts.Name)
	}
}

func checkGrid(layout world.Layout, g *world.Grid) error {
	if g.Size() != layout.Size {
		return fmt.Errorf("grid size %v does not match %s layout %v", g.Size(), layout.Name, layout.Size)
	}
	return nil
}
