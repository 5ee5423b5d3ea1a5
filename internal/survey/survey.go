// Package survey generates and meshes a rectangular region of chunks in
// parallel and reports what it contains.
package survey

import (
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/alitto/pond/v2"

	"github.com/OCharnyshevich/meinkraft/internal/engine/block"
	"github.com/OCharnyshevich/meinkraft/internal/engine/mesh"
	"github.com/OCharnyshevich/meinkraft/internal/engine/world"
	"github.com/OCharnyshevich/meinkraft/internal/engine/world/gen"
)

// Region is an inclusive box of chunk positions.
type Region struct {
	Min, Max world.ChunkPos
}

// Positions lists the region in X, Y, Z order.
func (r Region) Positions() []world.ChunkPos {
	var out []world.ChunkPos
	for x := r.Min.X; x <= r.Max.X; x++ {
		for y := r.Min.Y; y <= r.Max.Y; y++ {
			for z := r.Min.Z; z <= r.Max.Z; z++ {
				out = append(out, world.ChunkPos{X: x, Y: y, Z: z})
			}
		}
	}
	return out
}

// Sample describes one generated chunk.
type Sample struct {
	Pos       world.ChunkPos
	Solid     int
	Blocks    map[block.ID]int
	Triangles int
	Bytes     int
	Err       error
}

// Summary totals a survey.
type Summary struct {
	Chunks    int
	Empty     int // chunks without any solid voxel
	Failed    int
	Solid     int
	Triangles int
	Bytes     int
	Blocks    map[block.ID]int
	Elapsed   time.Duration
}

// Surveyor runs surveys with a fixed generator and catalog.
type Surveyor struct {
	log     *slog.Logger
	layout  world.Layout
	gen     gen.Generator
	builder *mesh.Builder
	workers int
}

// New creates a Surveyor. workers <= 0 uses one worker per CPU.
func New(log *slog.Logger, layout world.Layout, g gen.Generator, catalog *block.Catalog, workers int) *Surveyor {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Surveyor{
		log:     log,
		layout:  layout,
		gen:     g,
		builder: mesh.NewBuilder(catalog),
		workers: workers,
	}
}

// Run surveys every chunk in r. Samples come back in Positions order
// regardless of the number of workers.
func (s *Surveyor) Run(r Region) ([]Sample, Summary, error) {
	start := time.Now()
	positions := r.Positions()

	pool := pond.NewResultPool[Sample](s.workers)
	defer pool.StopAndWait()

	grids := world.NewPool(s.layout.Size, s.workers)
	group := pool.NewGroup()
	for _, pos := range positions {
		group.Submit(func() Sample {
			return s.sample(grids, pos)
		})
	}
	samples, err := group.Wait()
	if err != nil {
		return nil, Summary{}, fmt.Errorf("survey: %w", err)
	}

	sum := Summary{Chunks: len(samples), Blocks: make(map[block.ID]int)}
	for _, smp := range samples {
		if smp.Err != nil {
			sum.Failed++
			s.log.Warn("survey chunk failed", "pos", smp.Pos, "error", smp.Err)
			continue
		}
		if smp.Solid == 0 {
			sum.Empty++
		}
		sum.Solid += smp.Solid
		sum.Triangles += smp.Triangles
		sum.Bytes += smp.Bytes
		for id, n := range smp.Blocks {
			sum.Blocks[id] += n
		}
	}
	sum.Elapsed = time.Since(start)

	s.log.Info("survey done",
		"chunks", sum.Chunks,
		"empty", sum.Empty,
		"failed", sum.Failed,
		"triangles", sum.Triangles,
		"workers", s.workers,
		"elapsed", sum.Elapsed,
	)
	return samples, sum, nil
}

func (s *Surveyor) sample(grids *world.Pool, pos world.ChunkPos) (smp Sample) {
	smp.Pos = pos
	defer func() {
		if r := recover(); r != nil {
			smp.Err = fmt.Errorf("panic: %v", r)
		}
	}()

	g := grids.Acquire()
	defer grids.Release(g)

	if err := s.gen.Generate(pos, g); err != nil {
		smp.Err = err
		return smp
	}
	m, err := s.builder.Build(g)
	if err != nil {
		smp.Err = err
		return smp
	}

	smp.Blocks = make(map[block.ID]int)
	for _, id := range g.Blocks() {
		if id != block.Air {
			smp.Blocks[id]++
			smp.Solid++
		}
	}
	smp.Triangles = m.TriangleCount()
	smp.Bytes = m.Bytes()
	return smp
}
