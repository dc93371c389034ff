package pointcloud

import (
	"github.com/chewxy/math32"
)

// InitialAngle is the rotation angle the cloud starts at, facing the viewer.
const InitialAngle = math32.Pi

// Rotation accumulates the Y-axis rotation of the cloud. Each frame the angle moves by
// sin(t/1000)/500 where t is the elapsed time in milliseconds, so the cloud swings back and
// forth with a period of roughly 6.3 seconds.
type Rotation struct {
	angle  float32
	paused bool
}

// NewRotation creates a Rotation at InitialAngle.
//
// Returns:
//   - *Rotation: the new accumulator
func NewRotation() *Rotation {
	return &Rotation{angle: InitialAngle}
}

// Angle returns the current angle in radians.
func (r *Rotation) Angle() float32 {
	return r.angle
}

// Paused reports whether advancement is frozen.
func (r *Rotation) Paused() bool {
	return r.paused
}

// SetPaused freezes or resumes advancement.
func (r *Rotation) SetPaused(paused bool) {
	r.paused = paused
}

// Reset returns the angle to InitialAngle.
func (r *Rotation) Reset() {
	r.angle = InitialAngle
}

// Advance applies one frame's increment.
//
// Parameters:
//   - elapsedMillis: milliseconds since the viewer started
//
// Returns:
//   - float32: the new angle
func (r *Rotation) Advance(elapsedMillis int64) float32 {
	if r.paused {
		return r.angle
	}
	r.angle += math32.Sin(float32(elapsedMillis)/1000) / 500
	return r.angle
}
