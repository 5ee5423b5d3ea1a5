package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const maxPitch = 89.9

// FreeLook is steered by input: yaw and pitch in degrees, movement along the
// view direction and its horizontal side vector.
type FreeLook struct {
	pos        mgl32.Vec3
	pitch, yaw float32
	dir, side  mgl32.Vec3
}

func NewFreeLook(pos mgl32.Vec3) *FreeLook {
	f := &FreeLook{pos: pos}
	f.setRotation(0, 0)
	return f
}

func (f *FreeLook) setRotation(pitch, yaw float32) {
	f.pitch = min(max(pitch, -maxPitch), maxPitch)
	f.yaw = yaw

	p := float64(mgl32.DegToRad(f.pitch))
	y := float64(mgl32.DegToRad(f.yaw))
	f.dir = mgl32.Vec3{
		float32(math.Cos(p) * math.Sin(y)),
		float32(math.Sin(p)),
		float32(math.Cos(p) * math.Cos(y)),
	}
	f.side = up.Cross(f.dir).Normalize()
}

// Rotate adds to pitch and yaw.
func (f *FreeLook) Rotate(pitch, yaw float32) { f.setRotation(f.pitch+pitch, f.yaw+yaw) }

// Move steps forward along the view direction and sideways to the left.
// Negative values go back or right.
func (f *FreeLook) Move(forward, left float32) {
	f.pos = f.pos.Add(f.dir.Mul(forward)).Add(f.side.Mul(left))
}

func (f *FreeLook) Direction() mgl32.Vec3 { return f.dir }

func (f *FreeLook) Position() mgl32.Vec3 { return f.pos }

func (f *FreeLook) ViewProjection(aspect float32) mgl32.Mat4 {
	return viewProjection(f.pos, f.dir, aspect)
}

func (f *FreeLook) Advance(float32) {}
