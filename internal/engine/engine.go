package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/OCharnyshevich/meinkraft/internal/engine/block"
	"github.com/OCharnyshevich/meinkraft/internal/engine/chunk"
	"github.com/OCharnyshevich/meinkraft/internal/engine/config"
	"github.com/OCharnyshevich/meinkraft/internal/engine/gpu"
	"github.com/OCharnyshevich/meinkraft/internal/engine/mesh"
	"github.com/OCharnyshevich/meinkraft/internal/engine/stream"
	"github.com/OCharnyshevich/meinkraft/internal/engine/worker"
	"github.com/OCharnyshevich/meinkraft/internal/engine/world"
	"github.com/OCharnyshevich/meinkraft/internal/engine/world/gen"
)

var (
	ErrOutOfBounds  = errors.New("block position outside build range")
	ErrNotLoaded    = errors.New("chunk not loaded")
	ErrUnknownBlock = errors.New("unknown block type")
	ErrUploadFailed = errors.New("chunk upload failed after retry")
	ErrNotStarted   = errors.New("engine not started")
)

// Engine streams, generates and uploads chunks around a viewpoint. Its methods
// must be called from the thread owning the device.
type Engine struct {
	cfg     *config.Config
	log     *slog.Logger
	layout  world.Layout
	catalog *block.Catalog
	gen     gen.Generator
	builder *mesh.Builder
	pool    *world.Pool
	store   *chunk.Store
	worker  *worker.Worker
	ctrl    *stream.Controller
	dev     gpu.Device

	ready   []*chunk.Chunk
	frame   int
	started bool
}

// New wires an Engine from cfg. Start must be called before the first Frame.
func New(cfg *config.Config, dev gpu.Device, log *slog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	layout, err := world.LayoutByName(cfg.Layout)
	if err != nil {
		return nil, err
	}
	catalog, err := block.LoadFile(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}
	generator, err := gen.New(layout, gen.Options{
		Name:    cfg.Generator,
		Noise:   cfg.Noise,
		Seed:    cfg.Seed,
		Terrain: cfg.TerrainParams(),
	})
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:     cfg,
		log:     log,
		layout:  layout,
		catalog: catalog,
		gen:     generator,
		builder: mesh.NewBuilder(catalog),
		pool:    world.NewPool(layout.Size, cfg.PoolFree),
		store:   chunk.NewStore(log),
		dev:     dev,
	}
	e.worker = worker.New(log, generator, e.builder, e.pool, cfg.QueueCapacity)
	e.ctrl = stream.NewController(log, layout, e.store, e.worker, dev, e.pool, stream.Options{
		RenderDistance:        cfg.RenderDistance,
		MaxRequestsPerTick:    cfg.MaxRequestsPerTick,
		RequestsPerSecond:     cfg.RequestsPerSecond,
		MaxGenerationAttempts: cfg.MaxGenerationAttempts,
	})
	return e, nil
}

// Start launches the generation worker.
func (e *Engine) Start(ctx context.Context) {
	e.worker.Start(ctx)
	e.started = true
	e.log.Info("engine started",
		"layout", e.layout.Name,
		"generator", e.cfg.Generator,
		"noise", e.cfg.Noise,
		"seed", e.cfg.Seed,
		"renderDistance", e.cfg.RenderDistance,
	)
}

// FrameReport summarises one Frame.
type FrameReport struct {
	stream.Report
	Frame     int
	Uploaded  int
	Discarded int
	Failed    int
}

// Frame runs the streaming controller, collects finished generation results
// without blocking, and uploads at most MaxUploadsPerFrame meshes. It returns
// ErrUploadFailed when a chunk fails to upload on two consecutive frames, and
// ErrNotStarted before Start.
func (e *Engine) Frame(viewpoint mgl32.Vec3) (FrameReport, error) {
	if !e.started {
		return FrameReport{}, ErrNotStarted
	}
	r := FrameReport{Report: e.ctrl.Tick(viewpoint), Frame: e.frame}
	e.frame++

	e.collect(&r)
	err := e.upload(&r)

	if r.Uploaded+r.Discarded+r.Failed > 0 {
		e.log.Debug("frame",
			"frame", r.Frame,
			"uploaded", r.Uploaded,
			"discarded", r.Discarded,
			"failed", r.Failed,
			"waiting", len(e.ready),
		)
	}
	return r, err
}

func (e *Engine) collect(r *FrameReport) {
	for {
		select {
		case res := <-e.worker.Results():
			e.apply(res, r)
		default:
			return
		}
	}
}

func (e *Engine) apply(res worker.Result, r *FrameReport) {
	c := res.Chunk
	switch {
	case res.Discarded:
		if c.Finalize() {
			c.Release(e.dev, e.pool)
		}
		r.Discarded++
	case res.Err != nil:
		r.Failed++
		e.ctrl.Wake()
	case c.State() == chunk.MeshReady:
		e.awaitUpload(c)
	}
}

// awaitUpload queues c for upload unless it is already queued.
func (e *Engine) awaitUpload(c *chunk.Chunk) {
	if c.MarkAwaitingUpload() {
		e.ready = append(e.ready, c)
	}
}

func (e *Engine) upload(r *FrameReport) error {
	var retry []*chunk.Chunk
	attempts := 0
	for len(e.ready) > 0 && attempts < e.cfg.MaxUploadsPerFrame {
		c := e.ready[0]
		e.ready = e.ready[1:]

		s := c.State()
		if s != chunk.MeshReady && s != chunk.GpuResident {
			c.ClearAwaitingUpload()
			continue
		}
		m := c.Mesh()
		if m == nil {
			c.ClearAwaitingUpload()
			continue
		}

		attempts++
		if err := e.dev.Upload(c.Handles(), m); err != nil {
			if c.UploadFailed() > 1 {
				e.ready = append(retry, e.ready...)
				return fmt.Errorf("chunk %v: %w: %w", c.Pos(), ErrUploadFailed, err)
			}
			e.log.Warn("chunk upload failed, retrying next frame", "pos", c.Pos(), "error", err)
			retry = append(retry, c)
			continue
		}
		c.ClearAwaitingUpload()
		c.MarkResident(m)
		r.Uploaded++
	}
	e.ready = append(e.ready, retry...)
	return nil
}

// SetBlock changes one voxel and rebuilds the owning chunk's mesh. Edits to a
// chunk still being generated are applied by the worker before its mesh is built.
func (e *Engine) SetBlock(pos world.BlockPos, id block.ID) error {
	if pos.Y < e.cfg.BuildMinY || pos.Y > e.cfg.BuildMaxY {
		e.log.Warn("block edit outside build range", "pos", pos, "min", e.cfg.BuildMinY, "max", e.cfg.BuildMaxY)
		return ErrOutOfBounds
	}
	if id != block.Air && !e.catalog.Has(id) {
		e.log.Warn("block edit with unknown type", "pos", pos, "block", id)
		return ErrUnknownBlock
	}

	cp := e.layout.ChunkOfBlock(pos)
	x, y, z := e.layout.Local(pos)
	if y < 0 || y >= e.layout.Size.Y {
		e.log.Warn("block edit outside chunk height", "pos", pos)
		return ErrOutOfBounds
	}
	c, ok := e.store.Get(cp)
	if !ok {
		e.log.Error("block placed in a chunk that does not exist", "pos", pos, "chunk", cp)
		return ErrNotLoaded
	}
	if c.State() == chunk.Empty && c.Attempts() >= e.cfg.MaxGenerationAttempts {
		e.log.Warn("block placed in a chunk that failed to generate", "pos", pos, "chunk", cp, "attempts", c.Attempts())
		return ErrNotLoaded
	}

	applied, err := c.Edit(chunk.Edit{X: x, Y: y, Z: z, ID: id}, e.builder.Build)
	if err != nil {
		return fmt.Errorf("edit %v: %w", pos, err)
	}
	if applied {
		e.awaitUpload(c)
	}
	return nil
}

// Block returns the voxel at pos. ok is false when its chunk is not generated.
func (e *Engine) Block(pos world.BlockPos) (block.ID, bool) {
	c, ok := e.store.Get(e.layout.ChunkOfBlock(pos))
	if !ok {
		return block.Air, false
	}
	x, y, z := e.layout.Local(pos)
	return c.Block(x, y, z)
}

// Renderable is what a renderer needs to draw one chunk.
type Renderable struct {
	Pos       world.ChunkPos
	Model     mgl32.Mat4
	Handles   gpu.Handles
	Triangles int
}

// Renderables calls fn for every GPU-resident chunk.
func (e *Engine) Renderables(fn func(Renderable)) {
	e.store.Each(func(c *chunk.Chunk) {
		if c.State() != chunk.GpuResident {
			return
		}
		fn(Renderable{
			Pos:       c.Pos(),
			Model:     c.Model(),
			Handles:   c.Handles(),
			Triangles: c.TriangleCount(),
		})
	})
}

// SpawnHeight returns the first air block above the terrain at x, z.
func (e *Engine) SpawnHeight(x, z int) int { return e.gen.HeightAt(x, z) }

func (e *Engine) Layout() world.Layout { return e.layout }

func (e *Engine) Catalog() *block.Catalog { return e.catalog }

// Stats is a snapshot of engine occupancy.
type Stats struct {
	Chunks   int
	Resident int
	Queued   int
	Waiting  int
	Pool     world.PoolStats
}

func (e *Engine) Stats() Stats {
	s := Stats{
		Chunks:  e.store.Len(),
		Queued:  e.worker.Pending(),
		Waiting: len(e.ready),
		Pool:    e.pool.Stats(),
	}
	e.store.Each(func(c *chunk.Chunk) {
		if c.State() == chunk.GpuResident {
			s.Resident++
		}
	})
	return s
}

// Close stops the worker and releases every chunk.
func (e *Engine) Close() {
	e.worker.Close()

	var r FrameReport
	e.collect(&r)
	for _, pos := range e.store.Positions() {
		c, _ := e.store.Remove(pos)
		c.Evict()
		c.Finalize()
		c.Release(e.dev, e.pool)
	}
	e.ready = nil
	e.started = false
	e.log.Info("engine stopped", "frames", e.frame)
}
