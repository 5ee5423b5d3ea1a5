package mesh

import "github.com/OCharnyshevich/meinkraft/internal/engine/block"

// face describes one of the six cube faces: the corner offsets of its two
// triangles, its normal, and the tile it samples inside a block's atlas region.
type face struct {
	dx, dy, dz int
	normal     [3]int8
	corners    [VerticesPerFace][3]uint8
	u0, u1     float32
	v0, v1     float32
}

const tile = block.TileSize

// faces is in the fixed order +x, -x, +y, -y, +z, -z.
var faces = [6]face{
	{
		dx: 1, normal: [3]int8{1, 0, 0},
		corners: [6][3]uint8{{1, 0, 1}, {1, 1, 1}, {1, 0, 0}, {1, 0, 0}, {1, 1, 1}, {1, 1, 0}},
		u0: 3 * tile, u1: 4 * tile, v0: tile, v1: 2 * tile,
	},
	{
		dx: -1, normal: [3]int8{-1, 0, 0},
		corners: [6][3]uint8{{0, 0, 0}, {0, 1, 0}, {0, 0, 1}, {0, 0, 1}, {0, 1, 0}, {0, 1, 1}},
		u0: tile, u1: 2 * tile, v0: tile, v1: 2 * tile,
	},
	{
		dy: 1, normal: [3]int8{0, 1, 0},
		corners: [6][3]uint8{{0, 1, 0}, {1, 1, 0}, {0, 1, 1}, {0, 1, 1}, {1, 1, 0}, {1, 1, 1}},
		u0: tile, u1: 2 * tile, v0: 2 * tile, v1: 3 * tile,
	},
	{
		dy: -1, normal: [3]int8{0, -1, 0},
		corners: [6][3]uint8{{1, 0, 0}, {0, 0, 0}, {1, 0, 1}, {1, 0, 1}, {0, 0, 0}, {0, 0, 1}},
		u0: tile, u1: 2 * tile, v0: 0, v1: tile,
	},
	{
		dz: 1, normal: [3]int8{0, 0, 1},
		corners: [6][3]uint8{{0, 0, 1}, {0, 1, 1}, {1, 0, 1}, {1, 0, 1}, {0, 1, 1}, {1, 1, 1}},
		u0: 2 * tile, u1: 3 * tile, v0: tile, v1: 2 * tile,
	},
	{
		dz: -1, normal: [3]int8{0, 0, -1},
		corners: [6][3]uint8{{1, 0, 0}, {1, 1, 0}, {0, 0, 0}, {0, 0, 0}, {1, 1, 0}, {0, 1, 0}},
		u0: 0, u1: tile, v0: tile, v1: 2 * tile,
	},
}

// uvs returns the six UV pairs of f for a block at atlas offset o.
func (f *face) uvs(o block.AtlasOffset) [VerticesPerFace][2]float32 {
	u0, u1 := o.U+f.u0, o.U+f.u1
	v0, v1 := o.V+f.v0, o.V+f.v1
	return [VerticesPerFace][2]float32{{u0, v0}, {u0, v1}, {u1, v0}, {u1, v0}, {u0, v1}, {u1, v1}}
}
