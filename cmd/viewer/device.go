package main

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/OCharnyshevich/meinkraft/internal/engine/gpu"
	"github.com/OCharnyshevich/meinkraft/internal/engine/mesh"
)

// device keeps one raylib mesh per chunk. It must only be used on the thread
// that created the window.
type device struct {
	maxBuffers int
	next       uint32
	meshes     map[uint32]*rl.Mesh
}

func newDevice(maxBuffers int) *device {
	return &device{maxBuffers: maxBuffers, meshes: make(map[uint32]*rl.Mesh)}
}

func (d *device) CreateBuffers() (gpu.Handles, error) {
	if d.maxBuffers > 0 && len(d.meshes) >= d.maxBuffers {
		return gpu.Handles{}, gpu.ErrOutOfMemory
	}
	d.next++
	d.meshes[d.next] = &rl.Mesh{}
	return gpu.Handles{Array: d.next}, nil
}

func (d *device) Upload(h gpu.Handles, m *mesh.Mesh) error {
	old, ok := d.meshes[h.Array]
	if !ok {
		return fmt.Errorf("upload to unknown mesh %d", h.Array)
	}
	unload(old)

	next := &rl.Mesh{}
	if n := m.VertexCount(); n > 0 {
		vertices := m.PositionsFloat32()
		texcoords := m.UVsFloat32()
		normals := m.NormalsFloat32()

		next.VertexCount = int32(n)
		next.TriangleCount = int32(m.TriangleCount())
		next.Vertices = &vertices[0]
		next.Texcoords = &texcoords[0]
		next.Normals = &normals[0]
		rl.UploadMesh(next, false)

		// raylib frees these on unload; the data now lives in VRAM
		next.Vertices = nil
		next.Texcoords = nil
		next.Normals = nil
		if next.VaoID == 0 {
			return fmt.Errorf("upload %d vertices: %w", n, gpu.ErrOutOfMemory)
		}
	}
	d.meshes[h.Array] = next
	return nil
}

func (d *device) Release(h gpu.Handles) {
	if m, ok := d.meshes[h.Array]; ok {
		unload(m)
		delete(d.meshes, h.Array)
	}
}

func (d *device) draw(h gpu.Handles, material rl.Material, model mgl32.Mat4) {
	m, ok := d.meshes[h.Array]
	if !ok || m.VaoID == 0 {
		return
	}
	rl.DrawMesh(*m, material, toMatrix(model))
}

func (d *device) close() {
	for id, m := range d.meshes {
		unload(m)
		delete(d.meshes, id)
	}
}

func unload(m *rl.Mesh) {
	if m.VaoID != 0 {
		rl.UnloadMesh(m)
		*m = rl.Mesh{}
	}
}

// toMatrix converts a column-major mathgl matrix to raylib's layout.
func toMatrix(m mgl32.Mat4) rl.Matrix {
	return rl.Matrix{
		M0: m[0], M4: m[4], M8: m[8], M12: m[12],
		M1: m[1], M5: m[5], M9: m[9], M13: m[13],
		M2: m[2], M6: m[6], M10: m[10], M14: m[14],
		M3: m[3], M7: m[7], M11: m[11], M15: m[15],
	}
}

var _ gpu.Device = (*device)(nil)
