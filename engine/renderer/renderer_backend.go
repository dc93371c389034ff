package renderer

import "errors"

// Errors surfaced by the renderer. Allocation failures are fatal at startup; frame errors
// drop the current frame.
var (
	// ErrBufferAllocation is returned when a GPU buffer cannot be created.
	ErrBufferAllocation = errors.New("gpu buffer allocation failed")

	// ErrPipelineNotFound is returned when a draw references an unregistered pipeline key.
	ErrPipelineNotFound = errors.New("pipeline not found")

	// ErrSurfaceUnavailable is returned by RenderFrame when no surface texture can be acquired,
	// for instance while the window is minimized.
	ErrSurfaceUnavailable = errors.New("surface unavailable")

	// ErrNoFrame is returned when a draw is encoded outside of RenderFrame.
	ErrNoFrame = errors.New("no frame in progress")
)

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// WebGPU guarantees support for 1 (off) and 4.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1). This is the default; points
	// are a single pixel wide and gain nothing from multisampling.
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4× multisample anti-aliasing.
	MSAA4x MSAASampleCount = 4
)

// RendererBackend is the top-level backend interface for the Renderer.
// It embeds the concrete backend interface for the selected GPU API.
type RendererBackend interface {
	wgpuRendererBackend
}
