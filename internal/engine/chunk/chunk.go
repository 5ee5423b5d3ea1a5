package chunk

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/OCharnyshevich/meinkraft/internal/engine/block"
	"github.com/OCharnyshevich/meinkraft/internal/engine/gpu"
	"github.com/OCharnyshevich/meinkraft/internal/engine/mesh"
	"github.com/OCharnyshevich/meinkraft/internal/engine/world"
)

// ErrDisposed is returned for edits on a chunk that is being destroyed.
var ErrDisposed = errors.New("chunk disposed")

// Edit is a single-voxel change in chunk-local coordinates.
type Edit struct {
	X, Y, Z int
	ID      block.ID
}

// Apply writes e into g.
func (e Edit) Apply(g *world.Grid) bool { return g.Set(e.X, e.Y, e.Z, e.ID) }

// BuildFunc rebuilds a mesh from a grid.
type BuildFunc func(*world.Grid) (*mesh.Mesh, error)

// Chunk owns one voxel grid, its derived mesh, and the GPU buffers the mesh is
// uploaded to. The state is advanced with compare-and-swap so the generation
// worker and the main thread never both act on one transition; the grid,
// mesh and pending edits are guarded by mu.
type Chunk struct {
	pos     world.ChunkPos
	origin  world.BlockPos
	handles gpu.Handles

	state    atomic.Int32
	attempts atomic.Int32

	mu        sync.Mutex
	grid      *world.Grid
	mesh      *mesh.Mesh
	edits     []Edit
	triangles int

	// main thread only
	uploadFailures int
	awaitingUpload bool
}

// New creates an Empty chunk at pos whose (0,0,0) voxel sits at origin.
func New(pos world.ChunkPos, origin world.BlockPos, handles gpu.Handles) *Chunk {
	return &Chunk{pos: pos, origin: origin, handles: handles}
}

func (c *Chunk) Pos() world.ChunkPos { return c.pos }

func (c *Chunk) Origin() world.BlockPos { return c.origin }

func (c *Chunk) Handles() gpu.Handles { return c.handles }

func (c *Chunk) State() State { return State(c.state.Load()) }

// Attempts counts generation runs started for this chunk.
func (c *Chunk) Attempts() int { return int(c.attempts.Load()) }

// Model places the chunk's local coordinates in the world.
func (c *Chunk) Model() mgl32.Mat4 {
	return mgl32.Translate3D(float32(c.origin.X), float32(c.origin.Y), float32(c.origin.Z))
}

func (c *Chunk) cas(from, to State) bool {
	return c.state.CompareAndSwap(int32(from), int32(to))
}

// MarkQueued moves Empty to Queued.
func (c *Chunk) MarkQueued() bool { return c.cas(Empty, Queued) }

// Unqueue reverts MarkQueued when the request could not be delivered.
func (c *Chunk) Unqueue() bool { return c.cas(Queued, Empty) }

// Begin moves Queued to Generating. It fails when destruction was requested
// while the chunk waited in the queue.
func (c *Chunk) Begin() bool {
	if !c.cas(Queued, Generating) {
		return false
	}
	c.attempts.Add(1)
	return true
}

// TakeEdits removes and returns the edits recorded while the grid was owned by
// the generation worker.
func (c *Chunk) TakeEdits() []Edit {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.edits
	c.edits = nil
	return e
}

// CompleteStatus is the outcome of Complete.
type CompleteStatus int

const (
	// Completed installed the grid and mesh; the chunk is MeshReady.
	Completed CompleteStatus = iota
	// Retry means edits arrived during the build; apply them, rebuild and call Complete again.
	Retry
	// Discard means destruction was requested; the caller still owns the grid.
	Discard
)

// Complete hands a generated grid and its mesh to the chunk. On Retry the
// returned edits must be applied to g before building again.
func (c *Chunk) Complete(g *world.Grid, m *mesh.Mesh) ([]Edit, CompleteStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.edits) > 0 && c.State() == Generating {
		e := c.edits
		c.edits = nil
		return e, Retry
	}
	if !c.cas(Generating, MeshReady) {
		return nil, Discard
	}
	c.grid = g
	c.mesh = m
	return nil, Completed
}

// Fail returns a Generating chunk to Empty so it can be requested again. It
// reports false when destruction was requested meanwhile.
func (c *Chunk) Fail() bool { return c.cas(Generating, Empty) }

// Mesh returns the mesh waiting for upload, or nil.
func (c *Chunk) Mesh() *mesh.Mesh {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mesh
}

// MarkResident records a successful upload of m. The CPU copy is dropped
// unless an edit replaced it since.
func (c *Chunk) MarkResident(m *mesh.Mesh) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.cas(MeshReady, GpuResident) && c.State() != GpuResident {
		return false
	}
	c.triangles = m.TriangleCount()
	if c.mesh == m {
		c.mesh = nil
	}
	c.uploadFailures = 0
	return true
}

// UploadFailed counts a failed upload and returns the consecutive failure count.
func (c *Chunk) UploadFailed() int {
	c.uploadFailures++
	return c.uploadFailures
}

// MarkAwaitingUpload flags the chunk as queued for upload. It reports false
// when the chunk was already queued.
func (c *Chunk) MarkAwaitingUpload() bool {
	if c.awaitingUpload {
		return false
	}
	c.awaitingUpload = true
	return true
}

// ClearAwaitingUpload undoes MarkAwaitingUpload once the upload queue let go of the chunk.
func (c *Chunk) ClearAwaitingUpload() { c.awaitingUpload = false }

// TriangleCount is the size of the uploaded mesh.
func (c *Chunk) TriangleCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.triangles
}

// Block reads a local voxel. ok is false until the grid is generated.
func (c *Chunk) Block(x, y, z int) (id block.ID, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.grid == nil {
		return block.Air, false
	}
	return c.grid.At(x, y, z), true
}

// Edit changes one voxel. When the caller owns the grid (MeshReady or
// GpuResident) the change is applied and the mesh rebuilt with build before
// Edit returns, and applied is true. While the chunk waits for or undergoes
// generation the edit is recorded for the worker instead.
func (c *Chunk) Edit(e Edit, build BuildFunc) (applied bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.State() {
	case Empty, Queued, Generating:
		c.edits = append(c.edits, e)
		return false, nil
	case MeshReady, GpuResident:
		if !e.Apply(c.grid) {
			return false, errors.New("edit outside chunk grid")
		}
		m, err := build(c.grid)
		if err != nil {
			return false, err
		}
		c.mesh = m
		return true, nil
	default:
		return false, ErrDisposed
	}
}

// PendingEdits is the number of edits waiting for the worker.
func (c *Chunk) PendingEdits() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.edits)
}

// Evict requests destruction. A chunk queued for or undergoing generation
// moves to PendingDestruction and deferred is true: the worker finishes with
// it and Finalize completes the disposal. Any other live chunk moves straight
// to Disposed and the caller must Release it.
func (c *Chunk) Evict() (deferred bool) {
	for {
		s := c.State()
		switch s {
		case Queued, Generating:
			if c.cas(s, PendingDestruction) {
				return true
			}
		case Empty, MeshReady, GpuResident:
			if c.cas(s, Disposed) {
				return false
			}
		default:
			return s == PendingDestruction
		}
	}
}

// Finalize moves PendingDestruction to Disposed once the worker has let go.
func (c *Chunk) Finalize() bool { return c.cas(PendingDestruction, Disposed) }

// Release frees the chunk's buffers and hands its grid back to pool. It must
// run on the main thread after the chunk reached Disposed.
func (c *Chunk) Release(dev gpu.Device, pool *world.Pool) {
	c.mu.Lock()
	g := c.grid
	c.grid = nil
	c.mesh = nil
	c.edits = nil
	c.triangles = 0
	c.mu.Unlock()

	pool.Release(g)
	dev.Release(c.handles)
	c.handles = gpu.Handles{}
}
