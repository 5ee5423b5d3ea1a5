package world

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ChunkWidth is the horizontal edge length of every chunk.
const ChunkWidth = 16

// ColumnHeight is the height of a column chunk. Top faces of the highest voxel
// sit at y=255, which keeps every vertex coordinate within a byte.
const ColumnHeight = 255

// Size holds grid dimensions in voxels.
type Size struct{ X, Y, Z int }

// Volume returns the number of voxels in a grid of this size.
func (s Size) Volume() int { return s.X * s.Y * s.Z }

// Layout describes how world space is cut into chunks.
type Layout struct {
	Name    string
	Size    Size
	Columns bool // chunks span the full height; chunk Y is always 0
}

var (
	// Cube cuts the world into 16×16×16 chunks addressed in three dimensions.
	Cube = Layout{Name: "cube", Size: Size{ChunkWidth, ChunkWidth, ChunkWidth}}
	// Column cuts the world into full-height columns addressed by X and Z.
	Column = Layout{Name: "column", Size: Size{ChunkWidth, ColumnHeight, ChunkWidth}, Columns: true}
)

// LayoutByName resolves a configured layout name.
func LayoutByName(name string) (Layout, error) {
	switch name {
	case Cube.Name, "":
		return Cube, nil
	case Column.Name:
		return Column, nil
	default:
		return Layout{}, fmt.Errorf("unknown layout %q", name)
	}
}

// ChunkOf returns the chunk containing a world-space position.
func (l Layout) ChunkOf(p mgl32.Vec3) ChunkPos {
	c := ChunkPos{
		X: int(math.Floor(float64(p.X()) / float64(l.Size.X))),
		Z: int(math.Floor(float64(p.Z()) / float64(l.Size.Z))),
	}
	if !l.Columns {
		c.Y = int(math.Floor(float64(p.Y()) / float64(l.Size.Y)))
	}
	return c
}

// ChunkOfBlock returns the chunk containing a voxel.
func (l Layout) ChunkOfBlock(b BlockPos) ChunkPos {
	c := ChunkPos{X: FloorDiv(b.X, l.Size.X), Z: FloorDiv(b.Z, l.Size.Z)}
	if !l.Columns {
		c.Y = FloorDiv(b.Y, l.Size.Y)
	}
	return c
}

// Local converts a world voxel position into coordinates inside its chunk.
// For column layouts y is passed through unchanged; callers bound-check it.
func (l Layout) Local(b BlockPos) (x, y, z int) {
	x = Mod(b.X, l.Size.X)
	z = Mod(b.Z, l.Size.Z)
	if l.Columns {
		return x, b.Y, z
	}
	return x, Mod(b.Y, l.Size.Y), z
}

// Origin returns the world position of the chunk's (0,0,0) voxel.
func (l Layout) Origin(c ChunkPos) BlockPos {
	return BlockPos{c.X * l.Size.X, c.Y * l.Size.Y, c.Z * l.Size.Z}
}

// Distance is the euclidean chunk-space distance between two chunks.
func (l Layout) Distance(a, b ChunkPos) float64 {
	return math.Sqrt(float64(a.DistSq(b)))
}

// Neighbours appends the axis neighbours of c to dst in the fixed order
// +x, -x, +y, -y, +z, -z. Column layouts skip the vertical pair.
func (l Layout) Neighbours(dst []ChunkPos, c ChunkPos) []ChunkPos {
	for _, d := range Directions {
		if l.Columns && d.Y != 0 {
			continue
		}
		dst = append(dst, c.Add(d))
	}
	return dst
}
