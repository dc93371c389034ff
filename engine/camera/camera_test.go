package camera

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-pointcloud/common"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func project(t *testing.T, m common.Mat4, x, y, z float32) (float32, float32, float32) {
	t.Helper()
	p := common.TransformPoint(m, x, y, z)
	require.NotZero(t, p[3])
	return p[0] / p[3], p[1] / p[3], p[2] / p[3]
}

func TestNewCamera_EyePlacement(t *testing.T) {
	c := NewCamera(WithViewport(800, 600))

	x, y, z := c.Eye()
	assert.Equal(t, float32(400), x)
	assert.Equal(t, float32(300), y)
	assert.InDelta(t, 300/math.Tan(math.Pi/6), z, 1e-2)
	assert.InDelta(t, z/10, c.Near(), 1e-3)
	assert.InDelta(t, z*10, c.Far(), 1e-1)
}

func TestViewProjection_ScreenSpaceCorners(t *testing.T) {
	c := NewCamera(WithViewport(800, 600))
	vp := c.ViewProjectionMatrix()

	// top-left of the z = 0 plane lands on the top-left of clip space
	x, y, z := project(t, vp, 0, 0, 0)
	assert.InDelta(t, -1, x, 1e-4)
	assert.InDelta(t, 1, y, 1e-4)
	assert.True(t, z > 0 && z < 1)

	x, y, _ = project(t, vp, 800, 600, 0)
	assert.InDelta(t, 1, x, 1e-4)
	assert.InDelta(t, -1, y, 1e-4)

	x, y, _ = project(t, vp, 400, 300, 0)
	assert.InDelta(t, 0, x, 1e-5)
	assert.InDelta(t, 0, y, 1e-5)
}

func TestViewProjection_CloserIsSmallerDepth(t *testing.T) {
	c := NewCamera(WithViewport(640, 480))
	vp := c.ViewProjectionMatrix()

	_, _, near := project(t, vp, 320, 240, 100)
	_, _, far := project(t, vp, 320, 240, -100)
	assert.Less(t, near, far)
}

func TestSetViewport_Recomputes(t *testing.T) {
	c := NewCamera()
	w, h := c.Viewport()
	assert.Equal(t, float32(640), w)
	assert.Equal(t, float32(480), h)

	c.SetViewport(1280, 720)
	x, y, _ := c.Eye()
	assert.Equal(t, float32(640), x)
	assert.Equal(t, float32(360), y)

	c.SetViewport(0, -3)
	w, h = c.Viewport()
	assert.Equal(t, float32(1), w)
	assert.Equal(t, float32(1), h)
}

func TestSetFov_Clamped(t *testing.T) {
	c := NewCamera()
	c.SetFov(0)
	assert.Greater(t, c.Fov(), float32(0))
	c.SetFov(10)
	assert.Less(t, c.Fov(), math32.Pi)
}

func TestUniform_ComposesModel(t *testing.T) {
	c := NewCamera(WithViewport(640, 480))
	model := common.Translate4(10, 20, 0)

	u := c.Uniform(model)
	want := common.Mul4(c.ViewProjectionMatrix(), model)
	assert.Equal(t, [16]float32(want), u.MVP)
}

func TestGPUPointUniform_Marshal(t *testing.T) {
	u := GPUPointUniform{}
	for i := range u.MVP {
		u.MVP[i] = float32(i)
	}

	buf := u.Marshal()
	require.Len(t, buf, 64)
	assert.Equal(t, 64, u.Size())
	assert.Equal(t, float32(5), math.Float32frombits(binary.LittleEndian.Uint32(buf[20:])))
	assert.Contains(t, GPUPointUniformSource, "struct PointUniform")
}

func TestNewCamera_ProviderLabel(t *testing.T) {
	c := NewCamera()
	assert.Contains(t, c.BindGroupProvider().Label(), "camera_")
}
