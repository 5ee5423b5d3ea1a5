package mesh

import (
	"testing"

	"github.com/x448/float16"

	"github.com/OCharnyshevich/meinkraft/internal/engine/block"
	"github.com/OCharnyshevich/meinkraft/internal/engine/world"
)

func build(t *testing.T, g *world.Grid) *Mesh {
	t.Helper()
	m, err := NewBuilder(block.Default()).Build(g)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return m
}

func TestBuildEmptyGrid(t *testing.T) {
	m := build(t, world.NewGrid(world.Cube.Size))
	if m.VertexCount() != 0 || m.TriangleCount() != 0 {
		t.Errorf("empty grid produced %d vertices", m.VertexCount())
	}
}

func TestBuildIsolatedVoxel(t *testing.T) {
	g := world.NewGrid(world.Cube.Size)
	g.Set(5, 6, 7, block.Stone)

	m := build(t, g)
	if m.FaceCount() != 6 {
		t.Errorf("faces = %d, want 6", m.FaceCount())
	}
	if m.TriangleCount() != 12 {
		t.Errorf("triangles = %d, want 12", m.TriangleCount())
	}
	if len(m.UVs) != m.VertexCount()*UVSize || len(m.Normals) != m.VertexCount()*NormalSize {
		t.Errorf("attribute lengths mismatch: pos %d uv %d normal %d", len(m.Positions), len(m.UVs), len(m.Normals))
	}

	for i := 0; i < m.VertexCount(); i++ {
		p := m.Positions[i*3 : i*3+3]
		if p[0] < 5 || p[0] > 6 || p[1] < 6 || p[1] > 7 || p[2] < 7 || p[2] > 8 {
			t.Fatalf("vertex %d = %v outside voxel bounds", i, p)
		}
	}
}

func TestBuildFaceNormalsAndOrder(t *testing.T) {
	g := world.NewGrid(world.Cube.Size)
	g.Set(0, 0, 0, block.Dirt)
	m := build(t, g)

	want := [][3]int8{{1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}, {0, 0, 1}, {0, 0, -1}}
	for f, n := range want {
		for v := 0; v < VerticesPerFace; v++ {
			i := (f*VerticesPerFace + v) * NormalSize
			got := [3]int8{m.Normals[i], m.Normals[i+1], m.Normals[i+2]}
			if got != n {
				t.Fatalf("face %d vertex %d normal = %v, want %v", f, v, got, n)
			}
		}
	}
}

func TestBuildFacesLieOnNormalPlane(t *testing.T) {
	g := world.NewGrid(world.Cube.Size)
	g.Set(3, 3, 3, block.Wood)
	m := build(t, g)

	for v := 0; v < m.VertexCount(); v++ {
		n := m.Normals[v*3 : v*3+3]
		p := m.Positions[v*3 : v*3+3]
		for axis := 0; axis < 3; axis++ {
			switch n[axis] {
			case 1:
				if p[axis] != 4 {
					t.Fatalf("vertex %d on +axis %d at %d", v, axis, p[axis])
				}
			case -1:
				if p[axis] != 3 {
					t.Fatalf("vertex %d on -axis %d at %d", v, axis, p[axis])
				}
			}
		}
	}
}

func TestBuildUVsInsideBlockRegion(t *testing.T) {
	c := block.Default()
	for _, id := range []block.ID{block.Stone, block.Grass, block.Dirt, block.Wood, block.Iron} {
		g := world.NewGrid(world.Cube.Size)
		g.Set(8, 8, 8, id)
		m := build(t, g)

		o := c.Lookup(id)
		for i := 0; i < len(m.UVs); i += 2 {
			u, v := m.UVs[i].Float32(), m.UVs[i+1].Float32()
			if u < o.U || u > o.U+4*block.TileSize || v < o.V || v > o.V+4*block.TileSize {
				t.Fatalf("block %d uv (%f,%f) outside region at %v", id, u, v, o)
			}
		}
	}
}

func TestBuildTopFaceUVs(t *testing.T) {
	g := world.NewGrid(world.Cube.Size)
	g.Set(0, 0, 0, block.Dirt)
	m := build(t, g)

	// +y is the third face; dirt sits at (0, 0.25).
	first := 2 * VerticesPerFace * UVSize
	want := []float32{0.0625, 0.375, 0.0625, 0.4375, 0.125, 0.375, 0.125, 0.375, 0.0625, 0.4375, 0.125, 0.4375}
	for i, w := range want {
		if got := m.UVs[first+i]; got != float16.Fromfloat32(w) {
			t.Errorf("uv[%d] = %f, want %f", i, got.Float32(), w)
		}
	}
}

func TestBuildCullsSharedFaces(t *testing.T) {
	g := world.NewGrid(world.Cube.Size)
	g.Set(4, 4, 4, block.Stone)
	g.Set(5, 4, 4, block.Stone)

	m := build(t, g)
	if m.FaceCount() != 10 {
		t.Errorf("two adjacent voxels: faces = %d, want 10", m.FaceCount())
	}
}

func fillCube(g *world.Grid, x0, y0, z0, n int, id block.ID) {
	for x := x0; x < x0+n; x++ {
		for y := y0; y < y0+n; y++ {
			for z := z0; z < z0+n; z++ {
				g.Set(x, y, z, id)
			}
		}
	}
}

func TestBuildCavityExposesInteriorFaces(t *testing.T) {
	g := world.NewGrid(world.Cube.Size)
	fillCube(g, 4, 4, 4, 2, block.Stone)

	before := build(t, g)
	if before.FaceCount() != 24 {
		t.Fatalf("2x2x2 cube faces = %d, want 24", before.FaceCount())
	}

	g.Set(4, 4, 4, block.Air)
	after := build(t, g)
	// One voxel removed: it loses 3 outer faces and exposes 3 inner ones.
	if after.FaceCount() != 24 {
		t.Fatalf("faces after removal = %d, want 24", after.FaceCount())
	}
	if after.Equal(before) {
		t.Fatal("rebuild after edit produced the same mesh")
	}

	inner := 0
	for v := 0; v < after.VertexCount(); v += VerticesPerFace {
		n := after.Normals[v*3 : v*3+3]
		p := after.Positions[v*3 : v*3+3]
		// A face pointing toward -axis that lies on plane 5 faces into the cavity.
		for axis := 0; axis < 3; axis++ {
			if n[axis] == -1 && p[axis] == 5 {
				inner++
			}
		}
	}
	if inner != 3 {
		t.Errorf("faces facing the cavity = %d, want 3", inner)
	}
}

func TestBuildSolidInteriorCulled(t *testing.T) {
	g := world.NewGrid(world.Cube.Size)
	fillCube(g, 0, 0, 0, 16, block.Stone)

	m := build(t, g)
	if want := 6 * 16 * 16; m.FaceCount() != want {
		t.Errorf("full chunk faces = %d, want %d boundary faces", m.FaceCount(), want)
	}
}

func TestBuildBoundaryFacesAlwaysEmitted(t *testing.T) {
	g := world.NewGrid(world.Cube.Size)
	g.Set(0, 7, 7, block.Grass)
	g.Set(1, 7, 7, block.Grass)
	m := build(t, g)

	found := false
	for v := 0; v < m.VertexCount(); v += VerticesPerFace {
		if m.Normals[v*3] == -1 && m.Positions[v*3] == 0 {
			found = true
		}
	}
	if !found {
		t.Error("face on the grid boundary was culled")
	}
}

func TestBuildIdempotent(t *testing.T) {
	g := world.NewGrid(world.Cube.Size)
	for i := 0; i < 16; i++ {
		g.Set(i, (i*7)%16, (i*3)%16, block.Iron)
		g.Set((i*5)%16, i, 15-i, block.Dirt)
	}
	a := build(t, g)
	b := build(t, g)
	if !a.Equal(b) {
		t.Error("rebuilding an unmodified grid changed the mesh")
	}
}

func TestBuildColumnTopFitsByte(t *testing.T) {
	g := world.NewGrid(world.Column.Size)
	g.Set(15, world.ColumnHeight-1, 15, block.Stone)
	m := build(t, g)

	top := uint8(0)
	for v := 0; v < m.VertexCount(); v++ {
		top = max(top, m.Positions[v*3+1])
	}
	if top != 255 {
		t.Errorf("highest vertex y = %d, want 255", top)
	}
}

func TestBuildUnknownBlockPanics(t *testing.T) {
	g := world.NewGrid(world.Cube.Size)
	g.Set(0, 0, 0, 99)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for unregistered block")
		}
	}()
	NewBuilder(block.Default()).Build(g)
}

func TestBuildRejectsOversizeGrid(t *testing.T) {
	g := world.NewGrid(world.Size{X: 16, Y: 256, Z: 16})
	if _, err := NewBuilder(block.Default()).Build(g); err == nil {
		t.Error("expected error for grid taller than 255")
	}
}

func TestFloat32Views(t *testing.T) {
	g := world.NewGrid(world.Cube.Size)
	g.Set(1, 1, 1, block.Stone)
	m := build(t, g)

	if len(m.PositionsFloat32()) != len(m.Positions) || len(m.NormalsFloat32()) != len(m.Normals) || len(m.UVsFloat32()) != len(m.UVs) {
		t.Fatal("float32 views changed lengths")
	}
	if m.Bytes() != len(m.Positions)+2*len(m.UVs)+len(m.Normals) {
		t.Error("Bytes mismatch")
	}
}
