package gen

import (
	"testing"

	"github.com/OCharnyshevich/meinkraft/internal/engine/block"
	"github.com/OCharnyshevich/meinkraft/internal/engine/world"
)

// fixedBiome yields constant surface and full-rock heights.
func fixedBiome(surface, fullRock int) *BiomeParams {
	return &BiomeParams{MinY: surface, MaxY: surface, RockMin: fullRock, RockMax: fullRock}
}

func TestFillAllStoneWhenSurfaceAboveRock(t *testing.T) {
	tests := []struct {
		name   string
		layout world.Layout
		pos    world.ChunkPos
	}{
		{"column", world.Column, world.ChunkPos{}},
		{"cube below surface", world.Cube, world.ChunkPos{Y: 3}},
		{"cube at surface", world.Cube, world.ChunkPos{Y: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := world.NewGrid(tt.layout.Size)
			originY := tt.layout.Origin(tt.pos).Y
			Fill(originY, fixedBiome(70, 60), g)

			for y := 0; y < g.Size().Y; y++ {
				want := block.Air
				if originY+y < 70 {
					want = block.Stone
				}
				for x := 0; x < 16; x++ {
					for z := 0; z < 16; z++ {
						if got := g.At(x, y, z); got != want {
							t.Fatalf("world y=%d (%d,%d) = %d, want %d", originY+y, x, z, got, want)
						}
					}
				}
			}
		})
	}
}

func TestFillLayeredCap(t *testing.T) {
	g := world.NewGrid(world.Column.Size)
	Fill(0, fixedBiome(70, 75), g)

	tests := []struct {
		y    int
		want block.ID
	}{
		{0, block.Stone},
		{65, block.Stone},
		{66, block.Dirt},
		{67, block.Dirt},
		{68, block.Dirt},
		{69, block.Grass},
		{70, block.Air},
		{200, block.Air},
	}
	for _, tt := range tests {
		if got := g.At(3, tt.y, 9); got != tt.want {
			t.Errorf("y=%d: got %d, want %d", tt.y, got, tt.want)
		}
	}
}

func TestFillClipsToGrid(t *testing.T) {
	g := world.NewGrid(world.Column.Size)
	Fill(0, fixedBiome(400, 0), g)
	if g.Solid() != g.Size().Volume() {
		t.Errorf("solid = %d, want full grid %d", g.Solid(), g.Size().Volume())
	}

	g = world.NewGrid(world.Cube.Size)
	Fill(-32, fixedBiome(70, 60), g)
	if g.Solid() != g.Size().Volume() {
		t.Error("chunk far below surface must be solid")
	}

	g = world.NewGrid(world.Cube.Size)
	Fill(256, fixedBiome(70, 60), g)
	if g.Solid() != 0 {
		t.Error("chunk above surface must be air")
	}
}

func TestTerrainGeneratorDeterministic(t *testing.T) {
	for _, layout := range []world.Layout{world.Cube, world.Column} {
		t.Run(layout.Name, func(t *testing.T) {
			g1 := NewTerrainGenerator(layout, NewNoiseGenerator(0), DefaultTerrain())
			g2 := NewTerrainGenerator(layout, NewNoiseGenerator(0), DefaultTerrain())

			for _, pos := range []world.ChunkPos{{X: 0, Y: 0, Z: 0}, {X: 3, Y: 5, Z: -2}, {X: -7, Y: 8, Z: 11}} {
				a := world.NewGrid(layout.Size)
				b := world.NewGrid(layout.Size)
				if err := g1.Generate(pos, a); err != nil {
					t.Fatalf("Generate: %v", err)
				}
				if err := g2.Generate(pos, b); err != nil {
					t.Fatalf("Generate: %v", err)
				}
				if !a.Equal(b) {
					t.Fatalf("grids for %v differ", pos)
				}
			}
		})
	}
}

func TestTerrainHeightsWithinBounds(t *testing.T) {
	p := DefaultTerrain()
	tg := NewTerrainGenerator(world.Column, NewNoiseGenerator(0), p)

	for _, pos := range []world.ChunkPos{{X: 0, Y: 0, Z: 0}, {X: 10, Y: 0, Z: -4}} {
		b := tg.Biome(pos)
		for x := 0; x < 16; x++ {
			for z := 0; z < 16; z++ {
				s, r := b.Heights(x, z)
				if s < p.MinY || s > p.MaxY {
					t.Fatalf("surface %d outside [%d,%d]", s, p.MinY, p.MaxY)
				}
				if r < p.RockMin || r > p.RockMax {
					t.Fatalf("full rock %d outside [%d,%d]", r, p.RockMin, p.RockMax)
				}
			}
		}
	}
}

func TestTerrainHeightAtMatchesGrid(t *testing.T) {
	tg := NewTerrainGenerator(world.Column, NewNoiseGenerator(0), DefaultTerrain())
	g := world.NewGrid(world.Column.Size)
	pos := world.ChunkPos{X: -1, Z: 2}
	if err := tg.Generate(pos, g); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	origin := world.Column.Origin(pos)
	for _, c := range [][2]int{{0, 0}, {5, 11}, {15, 15}} {
		h := tg.HeightAt(origin.X+c[0], origin.Z+c[1])
		if h < world.ColumnHeight && g.At(c[0], h, c[1]) != block.Air {
			t.Errorf("HeightAt column %v = %d, but voxel there is solid", c, h)
		}
		if h > 0 && g.At(c[0], h-1, c[1]) == block.Air {
			t.Errorf("HeightAt column %v = %d, but voxel below is air", c, h)
		}
	}
}

func TestGenerateRejectsWrongGrid(t *testing.T) {
	tg := NewTerrainGenerator(world.Cube, NewNoiseGenerator(0), DefaultTerrain())
	if err := tg.Generate(world.ChunkPos{}, world.NewGrid(world.Column.Size)); err == nil {
		t.Error("expected error for mismatched grid size")
	}
}

func TestFlatGenerator(t *testing.T) {
	f := NewFlatGenerator(world.Cube)
	g := world.NewGrid(world.Cube.Size)
	if err := f.Generate(world.ChunkPos{}, g); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	want := []block.ID{block.Stone, block.Stone, block.Stone, block.Dirt, block.Grass, block.Air}
	for y, id := range want {
		if got := g.At(7, y, 7); got != id {
			t.Errorf("y=%d: got %d, want %d", y, got, id)
		}
	}
	if h := f.HeightAt(100, -3); h != 5 {
		t.Errorf("HeightAt = %d, want 5", h)
	}

	above := world.NewGrid(world.Cube.Size)
	if err := f.Generate(world.ChunkPos{Y: 1}, above); err != nil {
		t.Fatal(err)
	}
	if above.Solid() != 0 {
		t.Error("chunk above the flat layers must be air")
	}
}

func TestNewGenerator(t *testing.T) {
	for _, name := range []string{"", "mountains", "flat"} {
		if _, err := New(world.Cube, Options{Name: name, Terrain: DefaultTerrain()}); err != nil {
			t.Errorf("New(%q): %v", name, err)
		}
	}
	if _, err := New(world.Cube, Options{Name: "islands"}); err == nil {
		t.Error("expected error for unknown generator")
	}
	if _, err := New(world.Cube, Options{Noise: "value"}); err == nil {
		t.Error("expected error for unknown noise")
	}
}
