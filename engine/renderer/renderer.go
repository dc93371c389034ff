package renderer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-pointcloud/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-pointcloud/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-pointcloud/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-pointcloud/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	pipelineCache map[string]pipeline.Pipeline

	backendType RendererBackendType
	backend     RendererBackend

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	presentMode          PresentMode
	msaa                 MSAASampleCount
	clearColor           wgpu.Color
}

// Frame is the drawing scope handed to the callback of Renderer.RenderFrame. It is only valid
// for the duration of the callback.
type Frame interface {
	// DrawPoints encodes one non-indexed draw of mesh.VertexCount() vertices with the cached
	// render pipeline. Every vertex stream the pipeline's vertex shader declares is bound from
	// the mesh provider in slot order, and bindGroups are bound to groups 0..n-1.
	//
	// Parameters:
	//   - pipelineKey: the unique identifier for the cached render Pipeline to use
	//   - mesh: the BindGroupProvider holding the vertex streams
	//   - bindGroups: the BindGroupProviders whose BindGroups will be set on the render pass
	//
	// Returns:
	//   - error: an error if the pipeline is not found or a stream or bind group is missing
	DrawPoints(pipelineKey string, mesh bind_group_provider.BindGroupProvider, bindGroups []bind_group_provider.BindGroupProvider) error
}

// Renderer defines the interface for the rendering system.
//
// This is a high-level API designed to simplify rendering tasks into a streamlined and idiomatic flow.
// The Renderer manages a cache of pipelines, GPU buffer creation and uploads, and the per-frame
// render pass. The Renderer also implements a backend which allows for multiple backend API
// implementations to exist.
type Renderer interface {
	// Pipeline retrieves the cached Pipeline associated with the given key, or nil.
	//
	// Parameters:
	//   - key: the unique identifier for the Pipeline to retrieve
	//
	// Returns:
	//   - pipeline.Pipeline: the Pipeline associated with the key, or nil if not found
	Pipeline(key string) pipeline.Pipeline

	// RegisterPipelines validates each pipeline and creates its GPU render pipeline via the
	// backend, then caches it by PipelineKey. Pipelines whose keys are already registered are
	// skipped to avoid duplicate GPU resource creation.
	//
	// Parameters:
	//   - pipelines: the Pipelines to register
	//
	// Returns:
	//   - error: an error if validation or pipeline creation fails
	RegisterPipelines(pipelines ...pipeline.Pipeline) error

	// ReplacePipeline creates the GPU pipeline for p and swaps it in for the cached pipeline
	// with the same key, releasing the old one. On failure the cached pipeline stays in place.
	//
	// Parameters:
	//   - p: the new pipeline
	//
	// Returns:
	//   - error: an error if validation or pipeline creation fails
	ReplacePipeline(p pipeline.Pipeline) error

	// BindGroupLayoutDescriptor returns the layout of a bind group of a registered pipeline,
	// with vertex and fragment visibility merged.
	//
	// Parameters:
	//   - pipelineKey: the registered pipeline key
	//   - group: the group index
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the merged descriptor
	//   - error: ErrPipelineNotFound or an error if the group is not declared
	BindGroupLayoutDescriptor(pipelineKey string, group int) (wgpu.BindGroupLayoutDescriptor, error)

	// Resize reconfigures the surface for a new size. A zero size leaves the surface
	// unconfigured and frames are dropped until the next non-zero resize.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	//
	// Returns:
	//   - error: an error if the surface attachments cannot be created
	Resize(width, height int) error

	// SetPresentMode sets the surface present mode. A call to Resize is required after
	// changing this for the new mode to take effect.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// InitVertexStreams creates one GPU vertex buffer per slot and stores them on the provider.
	// Existing buffers in the same slots are released.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created buffers on
	//   - sizes: the byte size of each stream keyed by vertex buffer slot
	//
	// Returns:
	//   - error: an error wrapping ErrBufferAllocation if a buffer cannot be created
	InitVertexStreams(provider bind_group_provider.BindGroupProvider, sizes map[int]uint64) error

	// InitBindGroup creates GPU buffers and a bind group from a layout descriptor and stores them
	// on the given BindGroupProvider. Buffer usage and size can be overridden per binding.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created bind group on
	//   - descriptor: the layout descriptor defining the bind group entries
	//   - bufferUsageOverrides: additional buffer usage flags to OR into the derived usage, keyed by binding index (nil safe)
	//   - bufferSizeOverrides: custom buffer sizes to use instead of MinBindingSize, keyed by binding index (nil safe)
	//
	// Returns:
	//   - error: an error wrapping ErrBufferAllocation if a buffer cannot be created
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferUsageOverrides map[int]wgpu.BufferUsage, bufferSizeOverrides map[int]uint64) error

	// WriteBuffers writes all staged uniform buffer writes to the GPU queue.
	//
	// Parameters:
	//   - writes: a slice of BufferWrite structs describing the data to write
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// WriteVertexStreams uploads vertex stream data to the GPU queue. Every write is checked
	// against the size of its target buffer before anything is queued.
	//
	// Parameters:
	//   - writes: a slice of VertexWrite structs describing the data to write
	//
	// Returns:
	//   - error: an error if a target buffer is missing or too small
	WriteVertexStreams(writes []bind_group_provider.VertexWrite) error

	// RenderFrame acquires the swapchain texture, begins the render pass and calls fn with the
	// frame scope. The pass is always ended, submitted and presented afterwards, including
	// when fn returns an error.
	//
	// Parameters:
	//   - fn: the draw callback
	//
	// Returns:
	//   - error: ErrSurfaceUnavailable if no surface texture was acquired, otherwise the error from fn
	RenderFrame(fn func(Frame) error) error

	// Release releases every cached pipeline and the GPU device.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer instance with the specified backend type for a window.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - window: the window whose surface descriptor and size are used
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new instance of Renderer configured with the specified backend and options
//   - error: an error if no adapter or device is available or the surface cannot be configured
func NewRenderer(backendType RendererBackendType, window window.Window, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		backendType:   backendType,
		presentMode:   PresentModeUncapped,
		msaa:          MSAAOff,
		clearColor:    wgpu.Color{R: 0, G: 0, B: 0, A: 1},
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	var err error
	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend, err = newWGPURendererBackend(window.SurfaceDescriptor(), r.forceFallbackAdapter, r.msaa, r.clearColor)
	}
	if err != nil {
		return nil, err
	}

	r.backend.SetPresentMode(r.presentMode)
	if err := r.backend.ConfigureSurface(window.Width(), window.Height()); err != nil {
		r.backend.Release()
		return nil, err
	}
	return r, nil
}

func (r *renderer) Resize(width, height int) error {
	return r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range pipelines {
		key := p.PipelineKey()
		if _, exists := r.pipelineCache[key]; exists {
			continue
		}
		if err := p.Validate(); err != nil {
			return err
		}
		if err := r.backend.RegisterRenderPipeline(p); err != nil {
			return fmt.Errorf("register pipeline %q: %w", key, err)
		}
		r.pipelineCache[key] = p
	}
	return nil
}

func (r *renderer) ReplacePipeline(p pipeline.Pipeline) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := r.backend.RegisterRenderPipeline(p); err != nil {
		return fmt.Errorf("replace pipeline %q: %w", p.PipelineKey(), err)
	}

	r.mu.Lock()
	old := r.pipelineCache[p.PipelineKey()]
	r.pipelineCache[p.PipelineKey()] = p
	r.mu.Unlock()

	if old != nil && old != p {
		old.Release()
	}
	return nil
}

func (r *renderer) BindGroupLayoutDescriptor(pipelineKey string, group int) (wgpu.BindGroupLayoutDescriptor, error) {
	p := r.Pipeline(pipelineKey)
	if p == nil {
		return wgpu.BindGroupLayoutDescriptor{}, fmt.Errorf("%w: %q", ErrPipelineNotFound, pipelineKey)
	}
	merged := mergeBindGroupLayouts(
		p.Shader(shader.ShaderTypeVertex).BindGroupLayoutDescriptors(),
		p.Shader(shader.ShaderTypeFragment).BindGroupLayoutDescriptors(),
	)
	desc, ok := merged[group]
	if !ok {
		return wgpu.BindGroupLayoutDescriptor{}, fmt.Errorf("pipeline %q declares no bind group %d", pipelineKey, group)
	}
	return desc, nil
}

func (r *renderer) InitVertexStreams(provider bind_group_provider.BindGroupProvider, sizes map[int]uint64) error {
	return r.backend.InitVertexStreams(provider, sizes)
}

func (r *renderer) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferUsageOverrides map[int]wgpu.BufferUsage, bufferSizeOverrides map[int]uint64) error {
	return r.backend.InitBindGroup(provider, descriptor, bufferUsageOverrides, bufferSizeOverrides)
}

func (r *renderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	r.backend.WriteBuffers(writes)
}

func (r *renderer) WriteVertexStreams(writes []bind_group_provider.VertexWrite) error {
	if err := validateVertexWrites(writes); err != nil {
		return err
	}
	r.backend.WriteVertexStreams(writes)
	return nil
}

func (r *renderer) RenderFrame(fn func(Frame) error) error {
	if err := r.backend.BeginFrame(); err != nil {
		return fmt.Errorf("%w: %w", ErrSurfaceUnavailable, err)
	}
	defer r.backend.Present()
	defer r.backend.EndFrame()

	return fn(&frame{r: r})
}

func (r *renderer) Release() {
	r.mu.Lock()
	for key, p := range r.pipelineCache {
		p.Release()
		delete(r.pipelineCache, key)
	}
	r.mu.Unlock()
	r.backend.Release()
}

// frame is the Frame handed to RenderFrame callbacks.
type frame struct {
	r *renderer
}

func (f *frame) DrawPoints(pipelineKey string, mesh bind_group_provider.BindGroupProvider, bindGroups []bind_group_provider.BindGroupProvider) error {
	p := f.r.Pipeline(pipelineKey)
	if p == nil {
		return fmt.Errorf("%w: %q", ErrPipelineNotFound, pipelineKey)
	}
	return f.r.backend.DrawPoints(p, mesh, bindGroups)
}

// validateVertexWrites checks that every write has a target buffer large enough for its data.
func validateVertexWrites(writes []bind_group_provider.VertexWrite) error {
	for _, w := range writes {
		if w.Provider.VertexBuffer(w.Slot) == nil {
			return fmt.Errorf("%s: no vertex buffer in slot %d", w.Provider.Label(), w.Slot)
		}
		size := w.Provider.VertexBufferSize(w.Slot)
		if end := w.Offset + uint64(len(w.Data)); end > size {
			return fmt.Errorf("%s: vertex write of %d bytes at offset %d overflows slot %d (%d bytes)",
				w.Provider.Label(), len(w.Data), w.Offset, w.Slot, size)
		}
		if len(w.Data)%4 != 0 || w.Offset%4 != 0 {
			return fmt.Errorf("%s: vertex write to slot %d is not 4-byte aligned", w.Provider.Label(), w.Slot)
		}
	}
	return nil
}
