package gen

import (
	"github.com/OCharnyshevich/meinkraft/internal/engine/block"
	"github.com/OCharnyshevich/meinkraft/internal/engine/world"
)

// TerrainParams shapes the mountains terrain.
type TerrainParams struct {
	Octaves     int
	Scale       float64
	Persistence float64
	Lacunarity  float64

	RockOctaves     int
	RockScale       float64
	RockPersistence float64

	MinY, MaxY       int
	RockMin, RockMax int
}

// DefaultTerrain returns the mountains biome parameters.
func DefaultTerrain() TerrainParams {
	return TerrainParams{
		Octaves:         6,
		Scale:           12,
		Persistence:     0.4,
		Lacunarity:      2,
		RockOctaves:     1,
		RockScale:       4,
		RockPersistence: 0.5,
		MinY:            64,
		MaxY:            255,
		RockMin:         160,
		RockMax:         180,
	}
}

// BiomeParams is the per-chunk input of Fill. Both maps are indexed [x][z]
// and hold values in [0, 1].
type BiomeParams struct {
	HeightMap   [world.ChunkWidth][world.ChunkWidth]float32
	FullRockMap [world.ChunkWidth][world.ChunkWidth]float32

	MinY, MaxY       int
	RockMin, RockMax int
}

// Heights returns the surface and full-rock elevations of column (x, z).
func (b *BiomeParams) Heights(x, z int) (surface, fullRock int) {
	surface = b.MinY + int(b.HeightMap[x][z]*float32(b.MaxY-b.MinY))
	fullRock = b.RockMin + int(b.FullRockMap[x][z]*float32(b.RockMax-b.RockMin))
	return surface, fullRock
}

// ColumnBlock returns the block at world height y of a column with the given
// surface and full-rock elevations.
func ColumnBlock(y, surface, fullRock int) block.ID {
	switch {
	case y >= surface:
		return block.Air
	case surface > fullRock, y < surface-4:
		return block.Stone
	case y < surface-1:
		return block.Dirt
	default:
		return block.Grass
	}
}

// Fill writes the terrain described by p into g, whose bottom layer sits at
// world height originY. Heights outside the grid are clipped.
func Fill(originY int, p *BiomeParams, g *world.Grid) {
	size := g.Size()
	for x := 0; x < size.X; x++ {
		for z := 0; z < size.Z; z++ {
			surface, fullRock := p.Heights(x, z)
			top := min(surface-originY, size.Y)
			for y := 0; y < top; y++ {
				g.Set(x, y, z, ColumnBlock(originY+y, surface, fullRock))
			}
		}
	}
}

// TerrainGenerator produces mountain terrain from a noise field.
type TerrainGenerator struct {
	layout world.Layout
	noise  NoiseSource
	params TerrainParams
}

// NewTerrainGenerator creates a TerrainGenerator.
func NewTerrainGenerator(layout world.Layout, noise NoiseSource, params TerrainParams) *TerrainGenerator {
	return &TerrainGenerator{layout: layout, noise: noise, params: params}
}

// sample returns the [0,1] value of one map at chunk-space (cx + lx/16, cz + lz/16).
func (t *TerrainGenerator) sample(cx, cz, lx, lz int, octaves int, scale, persistence float64) float32 {
	x := (float64(cx) + float64(lx)/world.ChunkWidth) / scale
	z := (float64(cz) + float64(lz)/world.ChunkWidth) / scale
	v := Octave2D(t.noise, x, z, octaves, t.params.Lacunarity, persistence)
	return float32(v*0.5 + 0.5)
}

func (t *TerrainGenerator) heightSample(cx, cz, lx, lz int) float32 {
	p := &t.params
	return t.sample(cx, cz, lx, lz, p.Octaves, p.Scale, p.Persistence)
}

func (t *TerrainGenerator) rockSample(cx, cz, lx, lz int) float32 {
	p := &t.params
	return t.sample(cx, cz, lx, lz, p.RockOctaves, p.RockScale, p.RockPersistence)
}

// Biome computes the biome parameters of the column of chunks at pos.X, pos.Z.
func (t *TerrainGenerator) Biome(pos world.ChunkPos) *BiomeParams {
	b := &BiomeParams{
		MinY:    t.params.MinY,
		MaxY:    t.params.MaxY,
		RockMin: t.params.RockMin,
		RockMax: t.params.RockMax,
	}
	for x := 0; x < world.ChunkWidth; x++ {
		for z := 0; z < world.ChunkWidth; z++ {
			b.HeightMap[x][z] = t.heightSample(pos.X, pos.Z, x, z)
			b.FullRockMap[x][z] = t.rockSample(pos.X, pos.Z, x, z)
		}
	}
	return b
}

func (t *TerrainGenerator) Generate(pos world.ChunkPos, g *world.Grid) error {
	if err := checkGrid(t.layout, g); err != nil {
		return err
	}
	Fill(t.layout.Origin(pos).Y, t.Biome(pos), g)
	return nil
}

func (t *TerrainGenerator) HeightAt(blockX, blockZ int) int {
	cx, cz := world.FloorDiv(blockX, world.ChunkWidth), world.FloorDiv(blockZ, world.ChunkWidth)
	lx, lz := world.Mod(blockX, world.ChunkWidth), world.Mod(blockZ, world.ChunkWidth)
	h := t.heightSample(cx, cz, lx, lz)
	return t.params.MinY + int(h*float32(t.params.MaxY-t.params.MinY))
}
