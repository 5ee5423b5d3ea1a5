package gpu

import (
	"errors"

	"github.com/OCharnyshevich/meinkraft/internal/engine/mesh"
)

// ErrOutOfMemory is returned when buffer storage cannot be allocated.
var ErrOutOfMemory = errors.New("gpu: out of memory")

// Handles references the buffers backing one chunk. The zero value holds no buffers.
type Handles struct {
	Array    uint32
	Vertices uint32
	UVs      uint32
	Normals  uint32
}

// Valid reports whether h refers to created buffers.
func (h Handles) Valid() bool { return h.Array != 0 }

// Device owns GPU buffer storage. Every method must be called from the thread
// that owns the graphics context.
type Device interface {
	// CreateBuffers allocates an empty buffer set for one chunk.
	CreateBuffers() (Handles, error)
	// Upload replaces the buffer contents of h with m.
	Upload(h Handles, m *mesh.Mesh) error
	// Release frees h. Releasing zero handles is a no-op.
	Release(h Handles)
}
