package world

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestFloorDivMod(t *testing.T) {
	tests := []struct {
		a, b, div, mod int
	}{
		{0, 16, 0, 0},
		{15, 16, 0, 15},
		{16, 16, 1, 0},
		{-1, 16, -1, 15},
		{-16, 16, -1, 0},
		{-17, 16, -2, 15},
	}
	for _, tt := range tests {
		if got := FloorDiv(tt.a, tt.b); got != tt.div {
			t.Errorf("FloorDiv(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.div)
		}
		if got := Mod(tt.a, tt.b); got != tt.mod {
			t.Errorf("Mod(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.mod)
		}
	}
}

func TestChunkOf(t *testing.T) {
	tests := []struct {
		name   string
		layout Layout
		pos    mgl32.Vec3
		want   ChunkPos
	}{
		{"cube origin", Cube, mgl32.Vec3{0, 0, 0}, ChunkPos{0, 0, 0}},
		{"cube positive", Cube, mgl32.Vec3{17.5, 70, 31.9}, ChunkPos{1, 4, 1}},
		{"cube negative", Cube, mgl32.Vec3{-0.5, -16, -16.1}, ChunkPos{-1, -1, -2}},
		{"column ignores y", Column, mgl32.Vec3{-3, 200, 40}, ChunkPos{-1, 0, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.layout.ChunkOf(tt.pos); got != tt.want {
				t.Errorf("ChunkOf(%v) = %v, want %v", tt.pos, got, tt.want)
			}
		})
	}
}

func TestLocalAndOrigin(t *testing.T) {
	b := BlockPos{-1, 70, 33}

	c := Cube.ChunkOfBlock(b)
	if c != (ChunkPos{-1, 4, 2}) {
		t.Fatalf("Cube.ChunkOfBlock = %v", c)
	}
	x, y, z := Cube.Local(b)
	o := Cube.Origin(c)
	if o.X+x != b.X || o.Y+y != b.Y || o.Z+z != b.Z {
		t.Errorf("origin %v + local (%d,%d,%d) != %v", o, x, y, z, b)
	}

	c = Column.ChunkOfBlock(b)
	if c != (ChunkPos{-1, 0, 2}) {
		t.Fatalf("Column.ChunkOfBlock = %v", c)
	}
	if _, y, _ := Column.Local(b); y != 70 {
		t.Errorf("Column.Local y = %d, want 70", y)
	}
}

func TestNeighboursOrder(t *testing.T) {
	c := ChunkPos{1, 2, 3}

	got := Cube.Neighbours(nil, c)
	want := []ChunkPos{{2, 2, 3}, {0, 2, 3}, {1, 3, 3}, {1, 1, 3}, {1, 2, 4}, {1, 2, 2}}
	if len(got) != len(want) {
		t.Fatalf("Cube.Neighbours len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Cube.Neighbours[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	got = Column.Neighbours(nil, ChunkPos{0, 0, 0})
	if len(got) != 4 {
		t.Fatalf("Column.Neighbours len = %d, want 4", len(got))
	}
	for _, n := range got {
		if n.Y != 0 {
			t.Errorf("column neighbour %v has non-zero Y", n)
		}
	}
}

func TestLayoutByName(t *testing.T) {
	for _, name := range []string{"", "cube", "column"} {
		if _, err := LayoutByName(name); err != nil {
			t.Errorf("LayoutByName(%q): %v", name, err)
		}
	}
	if _, err := LayoutByName("sphere"); err == nil {
		t.Error("expected error for unknown layout")
	}
}

func TestCompareOrdersXYZ(t *testing.T) {
	a := ChunkPos{0, 5, 5}
	b := ChunkPos{1, 0, 0}
	if a.Compare(b) >= 0 || b.Compare(a) <= 0 || a.Compare(a) != 0 {
		t.Error("Compare must order by X first")
	}
	if (ChunkPos{0, 0, 1}).Compare(ChunkPos{0, 1, 0}) >= 0 {
		t.Error("Compare must order by Y before Z")
	}
}
