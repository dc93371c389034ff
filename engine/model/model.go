package model

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-pointcloud/engine/renderer/bind_group_provider"
)

// model is the implementation of the Model interface.
type model struct {
	name        string
	vertexCount int
	provider    bind_group_provider.BindGroupProvider
}

// Model describes a point mesh made of two per-vertex streams: positions (3 floats) and
// colors (4 floats). The GPU buffers live on the MeshProvider and are sized for VertexCount
// vertices; streams are rewritten wholesale every frame.
type Model interface {
	// Name retrieves the model identifier.
	Name() string

	// VertexCount returns the number of points drawn per frame.
	VertexCount() int

	// MeshProvider retrieves the BindGroupProvider holding the stream buffers.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the mesh provider
	MeshProvider() bind_group_provider.BindGroupProvider

	// StreamSizes returns the byte size of each vertex stream keyed by slot.
	//
	// Returns:
	//   - map[int]uint64: stream sizes in bytes
	StreamSizes() map[int]uint64

	// ValidateStreams checks that the position and color streams hold exactly VertexCount
	// vertices.
	//
	// Parameters:
	//   - positions: the position stream, 3 floats per vertex
	//   - colors: the color stream, 4 floats per vertex
	//
	// Returns:
	//   - error: an error describing the first mismatch
	ValidateStreams(positions, colors []float32) error
}

var _ Model = &model{}

// NewModel creates a point Model. The provider is created with the model name as its label
// unless one is supplied.
//
// Parameters:
//   - options: functional options
//
// Returns:
//   - Model: the model
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{name: "points"}
	for _, opt := range options {
		opt(m)
	}
	if m.provider == nil {
		m.provider = bind_group_provider.NewBindGroupProvider(m.name + " Mesh")
	}
	m.provider.SetVertexCount(m.vertexCount)
	return m
}

func (m *model) Name() string {
	return m.name
}

func (m *model) VertexCount() int {
	return m.vertexCount
}

func (m *model) MeshProvider() bind_group_provider.BindGroupProvider {
	return m.provider
}

func (m *model) StreamSizes() map[int]uint64 {
	n := uint64(m.vertexCount)
	return map[int]uint64{
		PositionSlot: n * PositionStride,
		ColorSlot:    n * ColorStride,
	}
}

func (m *model) ValidateStreams(positions, colors []float32) error {
	if want := m.vertexCount * PositionComponents; len(positions) != want {
		return fmt.Errorf("model %s: position stream has %d floats, want %d", m.name, len(positions), want)
	}
	if want := m.vertexCount * ColorComponents; len(colors) != want {
		return fmt.Errorf("model %s: color stream has %d floats, want %d", m.name, len(colors), want)
	}
	return nil
}
