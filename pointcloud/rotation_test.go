package pointcloud

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRotation_StartsAtPi(t *testing.T) {
	r := NewRotation()
	assert.InDelta(t, math.Pi, r.Angle(), 1e-6)
}

func TestRotation_AdvanceSequence(t *testing.T) {
	r := NewRotation()

	assert.InDelta(t, math.Pi, r.Advance(0), 1e-6)

	want := math.Pi + math.Sin(1)/500
	assert.InDelta(t, want, r.Advance(1000), 1e-5)

	want += math.Sin(math.Pi/2) / 500
	assert.InDelta(t, want, r.Advance(1571), 1e-5)
}

func TestRotation_PauseFreezesAngle(t *testing.T) {
	r := NewRotation()
	r.Advance(1000)
	before := r.Angle()

	r.SetPaused(true)
	assert.True(t, r.Paused())
	assert.Equal(t, before, r.Advance(2000))

	r.SetPaused(false)
	assert.NotEqual(t, before, r.Advance(2000))

	r.Reset()
	assert.InDelta(t, math.Pi, r.Angle(), 1e-6)
}
