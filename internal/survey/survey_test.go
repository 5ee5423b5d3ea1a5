package survey

import (
	"errors"
	"io"
	"log/slog"
	"reflect"
	"testing"

	"github.com/OCharnyshevich/meinkraft/internal/engine/block"
	"github.com/OCharnyshevich/meinkraft/internal/engine/world"
	"github.com/OCharnyshevich/meinkraft/internal/engine/world/gen"
)

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestRegionPositions(t *testing.T) {
	r := Region{Min: world.ChunkPos{X: -1}, Max: world.ChunkPos{X: 0, Y: 1, Z: 0}}
	want := []world.ChunkPos{{X: -1}, {X: -1, Y: 1}, {}, {Y: 1}}
	if got := r.Positions(); !reflect.DeepEqual(got, want) {
		t.Errorf("Positions = %v, want %v", got, want)
	}
}

func TestFlatSurvey(t *testing.T) {
	s := New(discard(), world.Cube, gen.NewFlatGenerator(world.Cube), block.Default(), 2)
	samples, sum, err := s.Run(Region{Min: world.ChunkPos{}, Max: world.ChunkPos{X: 1, Y: 1, Z: 1}})
	if err != nil {
		t.Fatal(err)
	}
	if sum.Chunks != 8 || sum.Empty != 4 || sum.Failed != 0 {
		t.Errorf("summary = %+v", sum)
	}
	// Each ground chunk is a 16x5x16 slab: 2*256 + 4*80 faces.
	for _, smp := range samples {
		want := 0
		if smp.Pos.Y == 0 {
			want = 2 * (2*256 + 4*80)
		}
		if smp.Triangles != want {
			t.Errorf("%v triangles = %d, want %d", smp.Pos, smp.Triangles, want)
		}
	}
	if sum.Blocks[block.Stone] != 4*3*256 || sum.Blocks[block.Grass] != 4*256 {
		t.Errorf("block counts = %v", sum.Blocks)
	}
}

func TestParallelMatchesSerial(t *testing.T) {
	g, err := gen.New(world.Cube, gen.Options{Seed: 7, Terrain: gen.DefaultTerrain()})
	if err != nil {
		t.Fatal(err)
	}
	r := Region{Min: world.ChunkPos{X: -2, Y: 3, Z: -2}, Max: world.ChunkPos{X: 1, Y: 6, Z: 1}}

	serial, s1, err := New(discard(), world.Cube, g, block.Default(), 1).Run(r)
	if err != nil {
		t.Fatal(err)
	}
	parallel, s2, err := New(discard(), world.Cube, g, block.Default(), 8).Run(r)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(serial, parallel) {
		t.Error("parallel samples differ from serial")
	}
	s1.Elapsed, s2.Elapsed = 0, 0
	if !reflect.DeepEqual(s1, s2) {
		t.Errorf("summaries differ: %+v vs %+v", s1, s2)
	}
}

type failingGen struct{ gen.Generator }

func (failingGen) Generate(pos world.ChunkPos, _ *world.Grid) error {
	if pos.X == 1 {
		return errors.New("boom")
	}
	if pos.X == 2 {
		panic("bad noise")
	}
	return nil
}

func TestSurveyCountsFailures(t *testing.T) {
	s := New(discard(), world.Cube, failingGen{}, block.Default(), 3)
	samples, sum, err := s.Run(Region{Max: world.ChunkPos{X: 2}})
	if err != nil {
		t.Fatal(err)
	}
	if sum.Failed != 2 || sum.Empty != 1 {
		t.Errorf("summary = %+v", sum)
	}
	if samples[1].Err == nil || samples[2].Err == nil {
		t.Error("failures not recorded per sample")
	}
}
