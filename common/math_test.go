package common

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
)

func assertMatEqual(t *testing.T, want, got Mat4) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-5, "element %d", i)
	}
}

func TestMul4Identity(t *testing.T) {
	m := Translate4(1, 2, 3)
	assertMatEqual(t, m, Mul4(Identity4(), m))
	assertMatEqual(t, m, Mul4(m, Identity4()))
}

func TestTranslateScaleCompose(t *testing.T) {
	// T * S applies the scale first, then the translation.
	m := Mul4(Translate4(10, 20, 30), Scale4(2, 2, 2))
	p := TransformPoint(m, 1, 1, 1)
	assert.InDelta(t, 12, p[0], 1e-5)
	assert.InDelta(t, 22, p[1], 1e-5)
	assert.InDelta(t, 32, p[2], 1e-5)
	assert.InDelta(t, 1, p[3], 1e-5)
}

func TestRotateY4QuarterTurn(t *testing.T) {
	p := TransformPoint(RotateY4(math32.Pi/2), 1, 0, 0)
	assert.InDelta(t, 0, p[0], 1e-5)
	assert.InDelta(t, 0, p[1], 1e-5)
	assert.InDelta(t, -1, p[2], 1e-5)
}

func TestLookAtMovesEyeToOrigin(t *testing.T) {
	v := LookAt(0, 0, 5, 0, 0, 0, 0, 1, 0)
	p := TransformPoint(v, 0, 0, 5)
	assert.InDelta(t, 0, p[0], 1e-5)
	assert.InDelta(t, 0, p[1], 1e-5)
	assert.InDelta(t, 0, p[2], 1e-5)

	// The target ends up on the negative Z axis at the eye distance.
	q := TransformPoint(v, 0, 0, 0)
	assert.InDelta(t, -5, q[2], 1e-5)
}

func TestPerspectiveDepthRange(t *testing.T) {
	proj := Perspective(math32.Pi/3, 1, 1, 100)

	near := TransformPoint(proj, 0, 0, -1)
	far := TransformPoint(proj, 0, 0, -100)
	assert.InDelta(t, 0, near[2]/near[3], 1e-5)
	assert.InDelta(t, 1, far[2]/far[3], 1e-4)
}

func TestSliceToBytes(t *testing.T) {
	assert.Nil(t, SliceToBytes([]float32{}))
	assert.Len(t, SliceToBytes([]float32{1, 2, 3}), 12)
}

func TestResolution(t *testing.T) {
	r := Resolution{Width: 640, Height: 480}
	assert.Equal(t, 307200, r.PixelCount())
	assert.InDelta(t, 4.0/3.0, r.Aspect(), 1e-6)
	assert.Equal(t, 0, Resolution{Width: -1, Height: 2}.PixelCount())
	assert.Equal(t, float32(1), Resolution{Width: 3}.Aspect())
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, "b", Coalesce("", "b", "c"))
	assert.Equal(t, 0, Coalesce(0, 0))
}
