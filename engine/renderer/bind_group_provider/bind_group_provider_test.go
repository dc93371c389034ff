package bind_group_provider

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
)

func TestNewBindGroupProvider_Label(t *testing.T) {
	p := NewBindGroupProvider("Camera")
	assert.Equal(t, "Camera", p.Label())
	assert.Nil(t, p.BindGroup())
	assert.Nil(t, p.Buffer(0))
	assert.Empty(t, p.VertexSlots())
}

func TestVertexSlots_Sorted(t *testing.T) {
	p := NewBindGroupProvider("Mesh",
		WithVertexBuffer(2, &wgpu.Buffer{}, 8),
		WithVertexBuffer(0, &wgpu.Buffer{}, 12),
		WithVertexBuffer(1, &wgpu.Buffer{}, 16),
	)
	assert.Equal(t, []int{0, 1, 2}, p.VertexSlots())
	assert.Equal(t, uint64(16), p.VertexBufferSize(1))
	assert.Equal(t, uint64(0), p.VertexBufferSize(5))
}

func TestBindings_Sorted(t *testing.T) {
	p := NewBindGroupProvider("Uniforms", WithBuffer(3, &wgpu.Buffer{}), WithBuffer(1, &wgpu.Buffer{}))
	assert.Equal(t, []int{1, 3}, p.Bindings())
}

func TestVertexCount_ClampsNegative(t *testing.T) {
	p := NewBindGroupProvider("Mesh", WithVertexCount(12))
	assert.Equal(t, 12, p.VertexCount())

	p.SetVertexCount(-4)
	assert.Equal(t, 0, p.VertexCount())
}

func TestSetVertexBuffer_NilClearsSlot(t *testing.T) {
	p := NewBindGroupProvider("Mesh")
	p.SetVertexBuffer(1, nil, 64)
	assert.Empty(t, p.VertexSlots())
	assert.Equal(t, uint64(0), p.VertexBufferSize(1))
}
