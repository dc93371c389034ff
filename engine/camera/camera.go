package camera

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-pointcloud/common"
	"github.com/Carmen-Shannon/oxy-pointcloud/engine/renderer/bind_group_provider"
	"github.com/chewxy/math32"
)

// DefaultFov is the vertical field of view of a new camera, 60 degrees.
const DefaultFov = math32.Pi / 3

// cameraCount is an atomic counter used to generate unique bind group provider names for each camera instance.
var cameraCount atomic.Uint64

type cameraImpl struct {
	mu *sync.Mutex

	width  float32
	height float32
	fov    float32

	eye  [3]float32
	near float32
	far  float32

	viewMatrix           common.Mat4
	projectionMatrix     common.Mat4
	viewProjectionMatrix common.Mat4

	bindGroupProvider bind_group_provider.BindGroupProvider
}

// Camera is a perspective camera laid out in screen space: the origin is the top-left corner
// of the viewport, x grows to the right, y grows downwards and the viewport plane z = 0 maps
// one unit to one pixel. The eye sits on the viewport centre at the distance where the field
// of view exactly covers the viewport height.
type Camera interface {
	// SetViewport resizes the viewport and recomputes every matrix.
	//
	// Parameters:
	//   - width: viewport width in pixels
	//   - height: viewport height in pixels
	SetViewport(width, height int)

	// Viewport returns the current viewport size.
	Viewport() (width, height float32)

	// Eye returns the eye position.
	//
	// Returns:
	//   - x, y, z: eye position in screen-space units
	Eye() (x, y, z float32)

	// Fov returns the vertical field of view in radians.
	Fov() float32

	// Near returns the near clipping plane distance.
	Near() float32

	// Far returns the far clipping plane distance.
	Far() float32

	// SetFov sets the vertical field of view in radians and recomputes the matrices.
	//
	// Parameters:
	//   - fov: field of view in radians, clamped to (0, π)
	SetFov(fov float32)

	// ViewMatrix returns the current view matrix (column-major).
	ViewMatrix() common.Mat4

	// ProjectionMatrix returns the current projection matrix (column-major).
	ProjectionMatrix() common.Mat4

	// ViewProjectionMatrix returns projection * view (column-major).
	ViewProjectionMatrix() common.Mat4

	// Uniform composes the model matrix with the view-projection into a GPUPointUniform.
	//
	// Parameters:
	//   - model: the model matrix
	//
	// Returns:
	//   - GPUPointUniform: the uniform ready to marshal
	Uniform(model common.Mat4) GPUPointUniform

	// BindGroupProvider returns the camera's bind group provider for GPU resources.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the bind group provider
	BindGroupProvider() bind_group_provider.BindGroupProvider
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera for a viewport. The viewport defaults to 640x480 when
// WithViewport is not given.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:     &sync.Mutex{},
		width:  640,
		height: 480,
		fov:    DefaultFov,
	}
	for _, option := range options {
		option(c)
	}
	if c.bindGroupProvider == nil {
		c.bindGroupProvider = bind_group_provider.NewBindGroupProvider(
			"camera_" + strconv.FormatUint(cameraCount.Add(1)-1, 10),
		)
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) SetViewport(width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.width = float32(max(width, 1))
	c.height = float32(max(height, 1))
	c.updateMatrices()
}

func (c *cameraImpl) Viewport() (width, height float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width, c.height
}

func (c *cameraImpl) Eye() (x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.eye[0], c.eye[1], c.eye[2]
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) SetFov(fov float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fov = clampFov(fov)
	c.updateMatrices()
}

func (c *cameraImpl) ViewMatrix() common.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() common.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() common.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) Uniform(model common.Mat4) GPUPointUniform {
	c.mu.Lock()
	defer c.mu.Unlock()
	return GPUPointUniform{MVP: common.Mul4(c.viewProjectionMatrix, model)}
}

func (c *cameraImpl) BindGroupProvider() bind_group_provider.BindGroupProvider {
	return c.bindGroupProvider
}

// updateMatrices recalculates the eye, clip planes and every matrix from the viewport and fov.
// Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	cx, cy := c.width/2, c.height/2
	dist := cy / math32.Tan(c.fov/2)
	c.eye = [3]float32{cx, cy, dist}
	c.near = dist / 10
	c.far = dist * 10

	c.viewMatrix = common.LookAt(cx, cy, dist, cx, cy, 0, 0, 1, 0)

	// y-down screen space: flip clip-space y after projecting
	c.projectionMatrix = common.Mul4(
		common.Scale4(1, -1, 1),
		common.Perspective(c.fov, c.width/c.height, c.near, c.far),
	)
	c.viewProjectionMatrix = common.Mul4(c.projectionMatrix, c.viewMatrix)
}

func clampFov(fov float32) float32 {
	const eps = 1e-3
	return min(max(fov, eps), math32.Pi-eps)
}
