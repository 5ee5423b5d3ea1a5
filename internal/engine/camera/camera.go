package camera

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Viewpoint supplies the position streaming is centred on.
type Viewpoint interface {
	Position() mgl32.Vec3
}

// ViewProjection supplies the matrix a renderer draws with.
type ViewProjection interface {
	ViewProjection(aspect float32) mgl32.Mat4
}

// Camera is a viewpoint that can be rendered from and advanced in time.
type Camera interface {
	Viewpoint
	ViewProjection
	Direction() mgl32.Vec3
	Advance(dt float32)
}

const (
	fovY = 82.0
	near = 0.01
	far  = 1000.0
)

var up = mgl32.Vec3{0, 1, 0}

func viewProjection(pos, dir mgl32.Vec3, aspect float32) mgl32.Mat4 {
	proj := mgl32.Perspective(mgl32.DegToRad(fovY), aspect, near, far)
	return proj.Mul4(mgl32.LookAtV(pos, pos.Add(dir), up))
}

// New builds the camera variant called name, starting at spawn.
func New(name string, spawn mgl32.Vec3) (Camera, error) {
	switch name {
	case "fixed":
		return NewFixed(spawn, mgl32.Vec3{0, 0, 1}), nil
	case "flight":
		const r = 64
		return NewFlight([]mgl32.Vec3{
			spawn,
			spawn.Add(mgl32.Vec3{r, 0, 0}),
			spawn.Add(mgl32.Vec3{r, 0, r}),
			spawn.Add(mgl32.Vec3{0, 0, r}),
		}, 8), nil
	case "free":
		return NewFreeLook(spawn), nil
	default:
		return nil, fmt.Errorf("unknown camera %q", name)
	}
}

// Fixed never moves.
type Fixed struct {
	pos, dir mgl32.Vec3
}

func NewFixed(pos, dir mgl32.Vec3) *Fixed {
	return &Fixed{pos: pos, dir: dir.Normalize()}
}

func (f *Fixed) Position() mgl32.Vec3 { return f.pos }

func (f *Fixed) Direction() mgl32.Vec3 { return f.dir }

func (f *Fixed) ViewProjection(aspect float32) mgl32.Mat4 {
	return viewProjection(f.pos, f.dir, aspect)
}

func (f *Fixed) Advance(float32) {}
