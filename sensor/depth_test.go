package sensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawDepthToMeters(t *testing.T) {
	assert.Zero(t, RawDepthToMeters(RawDepthInvalid))
	assert.Zero(t, RawDepthToMeters(4000))
	assert.InDelta(t, 1/3.3309495161, RawDepthToMeters(0), 1e-6)
	assert.InDelta(t, 1/(800*-0.0030711016+3.3309495161), RawDepthToMeters(800), 1e-5)
	assert.Equal(t, RawDepthToMeters(800), depthLUT[800])
}

func TestDepthConverter_ProjectsThroughIntrinsics(t *testing.T) {
	const w, h = 640, 480
	depth := NewDepthFrame(w, h)
	depth.Raw[0] = 800
	center := 242*w + 339
	depth.Raw[center] = 700

	dst := make([]float32, w*h*3)
	c := NewDepthConverter(4)
	require.NoError(t, c.Convert(depth, dst))

	z := RawDepthToMeters(800)
	assert.InDelta(t, (0-DepthCx)*float64(z)/DepthFx, dst[0], 1e-5)
	assert.InDelta(t, (0-DepthCy)*float64(z)/DepthFy, dst[1], 1e-5)
	assert.InDelta(t, z, dst[2], 1e-6)

	zc := RawDepthToMeters(700)
	assert.InDelta(t, (339-DepthCx)*float64(zc)/DepthFx, dst[center*3], 1e-5)
	assert.InDelta(t, zc, dst[center*3+2], 1e-6)

	// Invalid pixels collapse to the origin.
	last := (w*h - 1) * 3
	assert.Equal(t, []float32{0, 0, 0}, dst[last:last+3])
}

func TestDepthConverter_BandCountDoesNotChangeResult(t *testing.T) {
	const w, h = 17, 13
	depth := NewDepthFrame(w, h)
	for i := range depth.Raw {
		depth.Raw[i] = uint16(500 + i%700)
	}

	serial := make([]float32, w*h*3)
	parallel := make([]float32, w*h*3)
	require.NoError(t, NewDepthConverter(1).Convert(depth, serial))
	require.NoError(t, NewDepthConverter(5).Convert(depth, parallel))
	assert.Equal(t, serial, parallel)
}

func TestDepthConverter_SizeMismatch(t *testing.T) {
	err := NewDepthConverter(1).Convert(NewDepthFrame(4, 4), make([]float32, 10))
	assert.ErrorIs(t, err, ErrFrameSize)
}
