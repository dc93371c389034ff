package pointcloud

import (
	"time"

	"github.com/Carmen-Shannon/oxy-pointcloud/common"
	"github.com/Carmen-Shannon/oxy-pointcloud/engine/camera"
)

// SceneBuilderOption is a functional option applied to a Scene during construction via NewScene.
type SceneBuilderOption func(*Scene)

// WithColorBuilder sets the video-to-color conversion settings.
//
// Parameters:
//   - b: the ColorBuilder to use
//
// Returns:
//   - SceneBuilderOption: a function that applies the color builder option to a Scene
func WithColorBuilder(b ColorBuilder) SceneBuilderOption {
	return func(sc *Scene) {
		sc.builder = b
	}
}

// WithShaderLoader sets where the point shaders are loaded from. Defaults to EmbeddedShaders.
//
// Parameters:
//   - loader: the ShaderLoader to use
//
// Returns:
//   - SceneBuilderOption: a function that applies the shader loader option to a Scene
func WithShaderLoader(loader ShaderLoader) SceneBuilderOption {
	return func(sc *Scene) {
		sc.loader = loader
	}
}

// WithViewport sets the initial viewport size.
//
// Parameters:
//   - width, height: the size in pixels
//
// Returns:
//   - SceneBuilderOption: a function that applies the viewport option to a Scene
func WithViewport(width, height int) SceneBuilderOption {
	return func(sc *Scene) {
		sc.Resize(width, height)
	}
}

// WithCamera replaces the default camera.
//
// Parameters:
//   - c: the Camera to use
//
// Returns:
//   - SceneBuilderOption: a function that applies the camera option to a Scene
func WithCamera(c camera.Camera) SceneBuilderOption {
	return func(sc *Scene) {
		sc.camera = c
	}
}

// WithSnapshotDir sets the directory snapshots are written to. An empty dir keeps the default.
//
// Parameters:
//   - dir: the output directory
//
// Returns:
//   - SceneBuilderOption: a function that applies the snapshot directory option to a Scene
func WithSnapshotDir(dir string) SceneBuilderOption {
	return func(sc *Scene) {
		sc.snapshotDir = common.Coalesce(dir, sc.snapshotDir)
	}
}

// WithClock replaces time.Now for rotation timing and snapshot names.
//
// Parameters:
//   - now: the clock function
//
// Returns:
//   - SceneBuilderOption: a function that applies the clock option to a Scene
func WithClock(now func() time.Time) SceneBuilderOption {
	return func(sc *Scene) {
		sc.now = now
	}
}
