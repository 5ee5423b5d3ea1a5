package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/OCharnyshevich/meinkraft/internal/engine/chunk"
	"github.com/OCharnyshevich/meinkraft/internal/engine/mesh"
	"github.com/OCharnyshevich/meinkraft/internal/engine/world"
	"github.com/OCharnyshevich/meinkraft/internal/engine/world/gen"
)

var (
	ErrQueueFull = errors.New("generation queue full")
	ErrClosed    = errors.New("generation worker closed")
)

// Result reports a finished request back to the main thread.
type Result struct {
	Chunk *chunk.Chunk
	// Discarded is set when destruction was requested before the chunk
	// could be completed; the chunk awaits Finalize.
	Discarded bool
	Err       error
}

// Worker drains a FIFO queue of chunks on one goroutine, generating terrain
// and building meshes. It never touches GPU state.
type Worker struct {
	log     *slog.Logger
	gen     gen.Generator
	builder *mesh.Builder
	pool    *world.Pool

	jobs    chan *chunk.Chunk
	results chan Result

	running atomic.Bool
	cancel  context.CancelFunc
	ctx     context.Context
	wg      sync.WaitGroup
}

// New creates a Worker whose queue holds at most capacity requests.
func New(log *slog.Logger, g gen.Generator, b *mesh.Builder, pool *world.Pool, capacity int) *Worker {
	return &Worker{
		log:     log,
		gen:     g,
		builder: b,
		pool:    pool,
		jobs:    make(chan *chunk.Chunk, capacity),
		results: make(chan Result, capacity),
	}
}

// Start launches the worker goroutine. It stops when ctx is cancelled or
// Close is called.
func (w *Worker) Start(ctx context.Context) {
	w.ctx, w.cancel = context.WithCancel(ctx)
	w.running.Store(true)
	w.wg.Add(1)
	go w.loop()
}

// Close asks the worker to stop and waits for the current request to finish.
// Requests still queued stay Queued.
func (w *Worker) Close() {
	if !w.running.Swap(false) {
		return
	}
	w.cancel()
	w.wg.Wait()
}

// Enqueue marks c Queued and hands it to the worker without blocking.
func (w *Worker) Enqueue(c *chunk.Chunk) error {
	if !w.running.Load() {
		return ErrClosed
	}
	if !c.MarkQueued() {
		return fmt.Errorf("enqueue %v in state %v", c.Pos(), c.State())
	}
	select {
	case w.jobs <- c:
		return nil
	default:
		c.Unqueue()
		return ErrQueueFull
	}
}

// Free is the number of requests the queue can still accept.
func (w *Worker) Free() int { return cap(w.jobs) - len(w.jobs) }

// Pending is the number of queued requests.
func (w *Worker) Pending() int { return len(w.jobs) }

// Results delivers finished requests. The main thread drains it each frame.
func (w *Worker) Results() <-chan Result { return w.results }

func (w *Worker) loop() {
	defer w.wg.Done()

	for w.running.Load() {
		select {
		case c := <-w.jobs:
			w.send(w.process(c))
		case <-w.ctx.Done():
			return
		}
	}
}

func (w *Worker) send(r Result) {
	select {
	case w.results <- r:
	case <-w.ctx.Done():
	}
}

func (w *Worker) process(c *chunk.Chunk) Result {
	if !c.Begin() {
		return Result{Chunk: c, Discarded: true}
	}

	g := w.pool.Acquire()
	m, err := w.generate(c, g)
	for err == nil {
		edits, status := c.Complete(g, m)
		switch status {
		case chunk.Completed:
			return Result{Chunk: c}
		case chunk.Discard:
			w.pool.Release(g)
			return Result{Chunk: c, Discarded: true}
		}
		for _, e := range edits {
			e.Apply(g)
		}
		m, err = w.build(g)
	}

	w.pool.Release(g)
	w.log.Error("chunk generation failed", "pos", c.Pos(), "attempt", c.Attempts(), "error", err)
	if !c.Fail() {
		return Result{Chunk: c, Discarded: true}
	}
	return Result{Chunk: c, Err: err}
}

// generate fills g for c, applies edits made so far and builds the mesh.
func (w *Worker) generate(c *chunk.Chunk, g *world.Grid) (m *mesh.Mesh, err error) {
	defer recoverInto(&err)

	if err := w.gen.Generate(c.Pos(), g); err != nil {
		return nil, fmt.Errorf("generate terrain: %w", err)
	}
	for _, e := range c.TakeEdits() {
		e.Apply(g)
	}
	return w.build(g)
}

func (w *Worker) build(g *world.Grid) (m *mesh.Mesh, err error) {
	defer recoverInto(&err)

	m, err = w.builder.Build(g)
	if err != nil {
		return nil, fmt.Errorf("build mesh: %w", err)
	}
	return m, nil
}

func recoverInto(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("panic: %v", r)
	}
}
