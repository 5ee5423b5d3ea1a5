package mesh

import (
	"slices"

	"github.com/x448/float16"
)

// Per-vertex component counts.
const (
	PositionSize = 3
	UVSize       = 2
	NormalSize   = 3

	VerticesPerFace = 6
)

// Mesh is a flat-shaded triangle list in chunk-local voxel coordinates.
type Mesh struct {
	Positions []uint8           // x, y, z per vertex
	UVs       []float16.Float16 // u, v per vertex
	Normals   []int8            // x, y, z per vertex, each -1, 0 or 1
}

func (m *Mesh) VertexCount() int { return len(m.Positions) / PositionSize }

func (m *Mesh) FaceCount() int { return m.VertexCount() / VerticesPerFace }

func (m *Mesh) TriangleCount() int { return m.FaceCount() * 2 }

// Bytes is the size of the mesh's vertex data once uploaded.
func (m *Mesh) Bytes() int {
	return len(m.Positions) + 2*len(m.UVs) + len(m.Normals)
}

// Equal reports whether two meshes hold the same vertex sequence.
func (m *Mesh) Equal(o *Mesh) bool {
	return slices.Equal(m.Positions, o.Positions) &&
		slices.Equal(m.UVs, o.UVs) &&
		slices.Equal(m.Normals, o.Normals)
}

// UVsFloat32 widens the UVs for APIs that take single precision.
func (m *Mesh) UVsFloat32() []float32 {
	out := make([]float32, len(m.UVs))
	for i, v := range m.UVs {
		out[i] = v.Float32()
	}
	return out
}

// PositionsFloat32 widens the positions for APIs that take single precision.
func (m *Mesh) PositionsFloat32() []float32 {
	out := make([]float32, len(m.Positions))
	for i, v := range m.Positions {
		out[i] = float32(v)
	}
	return out
}

// NormalsFloat32 widens the normals for APIs that take single precision.
func (m *Mesh) NormalsFloat32() []float32 {
	out := make([]float32, len(m.Normals))
	for i, v := range m.Normals {
		out[i] = float32(v)
	}
	return out
}
