package bind_group_provider

import (
	"slices"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
)

// bindGroupProvider is the unexported implementation of BindGroupProvider.
type bindGroupProvider struct {
	mu sync.RWMutex

	// label is a debug label added for convenience.
	label string

	// The following fields are GPU allocated resources and must be released when no longer needed. They are populated by the Renderer during initialization, not by user-creation.

	// bindGroup is the GPU bind group created for this provider, or nil if not initialized with the Renderer.
	bindGroup *wgpu.BindGroup
	// bindGroupLayout is the GPU bind group layout created for this provider, or nil if not initialized with the Renderer.
	bindGroupLayout *wgpu.BindGroupLayout
	// buffers holds the GPU uniform/storage buffers created for this provider, keyed by binding index.
	buffers map[int]*wgpu.Buffer

	// vertexBuffers holds one GPU vertex buffer per vertex stream, keyed by vertex buffer slot.
	vertexBuffers map[int]*wgpu.Buffer
	// vertexSizes holds the byte size each vertex buffer was created with, keyed by slot.
	vertexSizes map[int]uint64
	// vertexCount is the number of vertices drawn for this provider per draw call.
	vertexCount int
}

// BindGroupProvider defines the interface for components that require GPU bind group resources
// or vertex streams. Components (Camera, Model) hold a BindGroupProvider to describe their GPU
// binding requirements. The Renderer then uses this provider to initialize and update GPU resources.
//
// Usage pattern:
//  1. Component creates a BindGroupProvider with a debug label
//  2. Renderer.InitBindGroup(provider, ...) creates uniform buffers and the bind group, or
//     Renderer.InitVertexStreams(provider, sizes) creates one vertex buffer per slot
//  3. Renderer.WriteBuffers / WriteVertexStreams update the data every frame
//  4. DrawPoints binds BindGroup() and every VertexBuffer(slot) in slot order
type BindGroupProvider interface {
	// Release releases any GPU resources held by this provider.
	Release()

	// Label returns the debug label for this provider.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// BindGroup returns the created bind group for shader binding.
	// Returns nil if GPU resources have not been initialized.
	//
	// Returns:
	//   - *wgpu.BindGroup: the bind group or nil
	BindGroup() *wgpu.BindGroup

	// BindGroupLayout returns the created bind group layout for this provider.
	//
	// Returns:
	//   - *wgpu.BindGroupLayout: the bind group layout or nil
	BindGroupLayout() *wgpu.BindGroupLayout

	// Buffer returns the uniform buffer at a binding index.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.Buffer: the buffer or nil
	Buffer(binding int) *wgpu.Buffer

	// Bindings returns the binding indices that hold a buffer, in ascending order.
	Bindings() []int

	// VertexBuffer returns the GPU vertex buffer bound at a vertex buffer slot, or nil.
	//
	// Parameters:
	//   - slot: the vertex buffer slot
	//
	// Returns:
	//   - *wgpu.Buffer: the vertex buffer or nil
	VertexBuffer(slot int) *wgpu.Buffer

	// VertexBufferSize returns the byte size the vertex buffer at a slot was created with,
	// or 0 when the slot is empty.
	//
	// Parameters:
	//   - slot: the vertex buffer slot
	//
	// Returns:
	//   - uint64: the buffer size in bytes
	VertexBufferSize(slot int) uint64

	// VertexSlots returns the populated vertex buffer slots in ascending order.
	//
	// Returns:
	//   - []int: the sorted slots
	VertexSlots() []int

	// VertexCount returns the number of vertices for draw calls.
	VertexCount() int

	// SetBindGroup sets the bind group after GPU initialization.
	//
	// Parameters:
	//   - bg: the created bind group
	SetBindGroup(bg *wgpu.BindGroup)

	// SetBindGroupLayout sets the bind group layout after GPU initialization.
	//
	// Parameters:
	//   - bgl: the created bind group layout
	SetBindGroupLayout(bgl *wgpu.BindGroupLayout)

	// SetBuffer sets the uniform buffer for a binding after GPU initialization.
	//
	// Parameters:
	//   - binding: the binding index
	//   - buf: the created buffer
	SetBuffer(binding int, buf *wgpu.Buffer)

	// SetVertexBuffer stores the GPU vertex buffer for a slot. A previous buffer in the same
	// slot is released. A nil buffer clears the slot.
	//
	// Parameters:
	//   - slot: the vertex buffer slot
	//   - buf: the created vertex buffer
	//   - size: the size buf was created with, in bytes
	SetVertexBuffer(slot int, buf *wgpu.Buffer, size uint64)

	// SetVertexCount sets the number of vertices for draw calls.
	//
	// Parameters:
	//   - count: the vertex count
	SetVertexCount(count int)
}

// Compile-time check that bindGroupProvider implements BindGroupProvider
var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates a new BindGroupProvider with the provided options.
//
// Parameters:
//   - label: a debug label used for every GPU object created for this provider
//   - options: a variadic list of options to configure the provider
//
// Returns:
//   - BindGroupProvider: a new instance of BindGroupProvider configured with the provided options
func NewBindGroupProvider(label string, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		label:         label,
		buffers:       make(map[int]*wgpu.Buffer),
		vertexBuffers: make(map[int]*wgpu.Buffer),
		vertexSizes:   make(map[int]uint64),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) BindGroup() *wgpu.BindGroup {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.bindGroup
}

func (p *bindGroupProvider) BindGroupLayout() *wgpu.BindGroupLayout {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.bindGroupLayout
}

func (p *bindGroupProvider) Buffer(binding int) *wgpu.Buffer {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.buffers[binding]
}

func (p *bindGroupProvider) Bindings() []int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return sortedKeys(p.buffers)
}

func (p *bindGroupProvider) VertexBuffer(slot int) *wgpu.Buffer {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.vertexBuffers[slot]
}

func (p *bindGroupProvider) VertexBufferSize(slot int) uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.vertexSizes[slot]
}

func (p *bindGroupProvider) VertexSlots() []int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return sortedKeys(p.vertexBuffers)
}

func (p *bindGroupProvider) VertexCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.vertexCount
}

func (p *bindGroupProvider) SetBindGroup(bg *wgpu.BindGroup) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bindGroup = bg
}

func (p *bindGroupProvider) SetBindGroupLayout(bgl *wgpu.BindGroupLayout) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bindGroupLayout = bgl
}

func (p *bindGroupProvider) SetBuffer(binding int, buf *wgpu.Buffer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.buffers[binding] = buf
}

func (p *bindGroupProvider) SetVertexBuffer(slot int, buf *wgpu.Buffer, size uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if old := p.vertexBuffers[slot]; old != nil && old != buf {
		old.Release()
	}
	if buf == nil {
		delete(p.vertexBuffers, slot)
		delete(p.vertexSizes, slot)
		return
	}
	p.vertexBuffers[slot] = buf
	p.vertexSizes[slot] = size
}

func (p *bindGroupProvider) SetVertexCount(count int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.vertexCount = max(count, 0)
}

func (p *bindGroupProvider) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, buf := range p.buffers {
		if buf != nil {
			buf.Release()
		}
		delete(p.buffers, i)
	}
	for i, buf := range p.vertexBuffers {
		if buf != nil {
			buf.Release()
		}
		delete(p.vertexBuffers, i)
		delete(p.vertexSizes, i)
	}
	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	if p.bindGroupLayout != nil {
		p.bindGroupLayout.Release()
		p.bindGroupLayout = nil
	}
}

func sortedKeys(m map[int]*wgpu.Buffer) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
