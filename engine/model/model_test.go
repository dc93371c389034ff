package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewModel_SizesStreams(t *testing.T) {
	m := NewModel(WithName("cloud"), WithVertexCount(640*480))

	assert.Equal(t, "cloud", m.Name())
	assert.Equal(t, 640*480, m.VertexCount())
	assert.Equal(t, 640*480, m.MeshProvider().VertexCount())
	assert.Equal(t, "cloud Mesh", m.MeshProvider().Label())
	assert.Equal(t, map[int]uint64{
		PositionSlot: 640 * 480 * 12,
		ColorSlot:    640 * 480 * 16,
	}, m.StreamSizes())
}

func TestValidateStreams(t *testing.T) {
	m := NewModel(WithVertexCount(2))

	assert.NoError(t, m.ValidateStreams(make([]float32, 6), make([]float32, 8)))
	assert.Error(t, m.ValidateStreams(make([]float32, 5), make([]float32, 8)))
	assert.Error(t, m.ValidateStreams(make([]float32, 6), make([]float32, 4)))
}

func TestGPUSources(t *testing.T) {
	assert.Contains(t, GPUPositionSource, "@location(0)")
	assert.Contains(t, GPUColorSource, "@location(1)")
}
