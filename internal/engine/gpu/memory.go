package gpu

import (
	"fmt"
	"sync"

	"github.com/OCharnyshevich/meinkraft/internal/engine/mesh"
)

// MemoryDevice is a headless Device that keeps uploaded meshes in memory.
type MemoryDevice struct {
	// MaxBuffers caps the number of live buffer sets; zero means unlimited.
	MaxBuffers int

	mu          sync.Mutex
	next        uint32
	live        map[uint32]*mesh.Mesh
	bytes       int
	uploads     int
	failUploads int
}

// NewMemoryDevice creates an empty MemoryDevice.
func NewMemoryDevice() *MemoryDevice {
	return &MemoryDevice{live: make(map[uint32]*mesh.Mesh)}
}

func (d *MemoryDevice) CreateBuffers() (Handles, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.MaxBuffers > 0 && len(d.live) >= d.MaxBuffers {
		return Handles{}, fmt.Errorf("create buffers (%d live): %w", len(d.live), ErrOutOfMemory)
	}
	base := d.next*4 + 1
	d.next++
	d.live[base] = nil
	return Handles{Array: base, Vertices: base + 1, UVs: base + 2, Normals: base + 3}, nil
}

func (d *MemoryDevice) Upload(h Handles, m *mesh.Mesh) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	prev, ok := d.live[h.Array]
	if !ok {
		return fmt.Errorf("upload to unknown buffer %d", h.Array)
	}
	if d.failUploads > 0 {
		d.failUploads--
		return fmt.Errorf("upload %d bytes: %w", m.Bytes(), ErrOutOfMemory)
	}
	if prev != nil {
		d.bytes -= prev.Bytes()
	}
	d.live[h.Array] = m
	d.bytes += m.Bytes()
	d.uploads++
	return nil
}

func (d *MemoryDevice) Release(h Handles) {
	if !h.Valid() {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if m, ok := d.live[h.Array]; ok {
		if m != nil {
			d.bytes -= m.Bytes()
		}
		delete(d.live, h.Array)
	}
}

// FailUploads makes the next n uploads fail with ErrOutOfMemory.
func (d *MemoryDevice) FailUploads(n int) {
	d.mu.Lock()
	d.failUploads = n
	d.mu.Unlock()
}

// Mesh returns the mesh last uploaded to h.
func (d *MemoryDevice) Mesh(h Handles) (*mesh.Mesh, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	m, ok := d.live[h.Array]
	return m, ok && m != nil
}

// MemoryStats is a snapshot of MemoryDevice usage.
type MemoryStats struct {
	Buffers int
	Bytes   int
	Uploads int
}

func (d *MemoryDevice) Stats() MemoryStats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return MemoryStats{Buffers: len(d.live), Bytes: d.bytes, Uploads: d.uploads}
}
