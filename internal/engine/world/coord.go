package world

import (
	"cmp"
	"fmt"
)

// ChunkPos identifies a chunk in chunk space (world space divided by the chunk size, floored).
type ChunkPos struct{ X, Y, Z int }

// BlockPos is an integer world-space voxel position.
type BlockPos struct{ X, Y, Z int }

func (c ChunkPos) String() string {
	return fmt.Sprintf("(%d,%d,%d)", c.X, c.Y, c.Z)
}

// Add returns c offset by d.
func (c ChunkPos) Add(d ChunkPos) ChunkPos {
	return ChunkPos{c.X + d.X, c.Y + d.Y, c.Z + d.Z}
}

// DistSq returns the squared euclidean distance between two chunk positions.
func (c ChunkPos) DistSq(o ChunkPos) int {
	dx, dy, dz := c.X-o.X, c.Y-o.Y, c.Z-o.Z
	return dx*dx + dy*dy + dz*dz
}

// Compare orders positions by X, then Y, then Z.
func (c ChunkPos) Compare(o ChunkPos) int {
	if r := cmp.Compare(c.X, o.X); r != 0 {
		return r
	}
	if r := cmp.Compare(c.Y, o.Y); r != 0 {
		return r
	}
	return cmp.Compare(c.Z, o.Z)
}

func (b BlockPos) String() string {
	return fmt.Sprintf("[%d,%d,%d]", b.X, b.Y, b.Z)
}

// FloorDiv divides rounding toward negative infinity.
func FloorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// Mod returns the non-negative remainder of a / b.
func Mod(a, b int) int {
	r := a % b
	if r < 0 {
		r += b
	}
	return r
}

// Directions lists the six axis-aligned unit offsets in the fixed traversal
// order +x, -x, +y, -y, +z, -z.
var Directions = [6]ChunkPos{
	{1, 0, 0},
	{-1, 0, 0},
	{0, 1, 0},
	{0, -1, 0},
	{0, 0, 1},
	{0, 0, -1},
}
