package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Flight travels a closed loop of waypoints at constant speed.
type Flight struct {
	path  []mgl32.Vec3
	speed float32 // units per second
	loop  float32 // total path length

	leg int
	pos mgl32.Vec3
	dir mgl32.Vec3
}

// NewFlight starts at path[0]. A path of zero length never moves.
func NewFlight(path []mgl32.Vec3, speed float32) *Flight {
	f := &Flight{path: path, speed: speed, pos: path[0], dir: mgl32.Vec3{0, 0, 1}}
	for i := range path {
		f.loop += path[(i+1)%len(path)].Sub(path[i]).Len()
	}
	f.aim()
	return f
}

func (f *Flight) target() mgl32.Vec3 { return f.path[(f.leg+1)%len(f.path)] }

func (f *Flight) aim() {
	if d := f.target().Sub(f.pos); d.Len() > 0 {
		f.dir = d.Normalize()
	}
}

func (f *Flight) Position() mgl32.Vec3 { return f.pos }

// Direction points at the next waypoint.
func (f *Flight) Direction() mgl32.Vec3 { return f.dir }

func (f *Flight) ViewProjection(aspect float32) mgl32.Mat4 {
	return viewProjection(f.pos, f.dir, aspect)
}

// Advance moves dt seconds along the path, turning at waypoints.
func (f *Flight) Advance(dt float32) {
	if f.loop == 0 {
		return
	}
	step := float32(math.Mod(float64(f.speed*dt), float64(f.loop)))
	for step > 0 {
		to := f.target().Sub(f.pos)
		dist := to.Len()
		if step < dist {
			f.pos = f.pos.Add(to.Mul(step / dist))
			break
		}
		step -= dist
		f.pos = f.target()
		f.leg = (f.leg + 1) % len(f.path)
	}
	f.aim()
}
