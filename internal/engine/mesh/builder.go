package mesh

import (
	"fmt"
	"math"

	"github.com/x448/float16"

	"github.com/OCharnyshevich/meinkraft/internal/engine/block"
	"github.com/OCharnyshevich/meinkraft/internal/engine/world"
)

// Builder turns voxel grids into face-culled meshes. It holds no mutable
// state and may be shared between goroutines.
type Builder struct {
	catalog *block.Catalog
}

// NewBuilder creates a Builder resolving atlas offsets through catalog.
func NewBuilder(catalog *block.Catalog) *Builder {
	return &Builder{catalog: catalog}
}

// Build emits two triangles for every face of a solid voxel whose neighbour is
// air or outside the grid. Faces on the grid boundary are always emitted.
// Non-air ids missing from the catalog panic.
func (b *Builder) Build(g *world.Grid) (*Mesh, error) {
	size := g.Size()
	if size.X > math.MaxUint8 || size.Y > math.MaxUint8 || size.Z > math.MaxUint8 {
		return nil, fmt.Errorf("grid %v too large for byte positions", size)
	}

	m := &Mesh{}
	for z := 0; z < size.Z; z++ {
		for y := 0; y < size.Y; y++ {
			for x := 0; x < size.X; x++ {
				id := g.At(x, y, z)
				if id == block.Air {
					continue
				}
				offset := b.catalog.Lookup(id)
				for i := range faces {
					f := &faces[i]
					if g.At(x+f.dx, y+f.dy, z+f.dz) != block.Air {
						continue
					}
					m.appendFace(f, uint8(x), uint8(y), uint8(z), offset)
				}
			}
		}
	}
	return m, nil
}

func (m *Mesh) appendFace(f *face, x, y, z uint8, offset block.AtlasOffset) {
	uvs := f.uvs(offset)
	for i, c := range f.corners {
		m.Positions = append(m.Positions, x+c[0], y+c[1], z+c[2])
		m.UVs = append(m.UVs, float16.Fromfloat32(uvs[i][0]), float16.Fromfloat32(uvs[i][1]))
		m.Normals = append(m.Normals, f.normal[0], f.normal[1], f.normal[2])
	}
}
