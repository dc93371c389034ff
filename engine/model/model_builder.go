package model

import (
	"github.com/Carmen-Shannon/oxy-pointcloud/engine/renderer/bind_group_provider"
)

// ModelBuilderOption is a functional option for configuring a Model via NewModel.
type ModelBuilderOption func(*model)

// WithName is an option builder that sets the name of the Model.
//
// Parameters:
//   - name: the model identifier
//
// Returns:
//   - ModelBuilderOption: a function that applies the name option to a model
func WithName(name string) ModelBuilderOption {
	return func(m *model) {
		m.name = name
	}
}

// WithVertexCount is an option builder that sets how many points the Model draws.
//
// Parameters:
//   - count: the number of vertices, normally sensor width * height
//
// Returns:
//   - ModelBuilderOption: a function that applies the vertex count option to a model
func WithVertexCount(count int) ModelBuilderOption {
	return func(m *model) {
		m.vertexCount = max(count, 0)
	}
}

// WithMeshProvider is an option builder that supplies an existing BindGroupProvider.
//
// Parameters:
//   - provider: the provider to hold the stream buffers
//
// Returns:
//   - ModelBuilderOption: a function that applies the provider option to a model
func WithMeshProvider(provider bind_group_provider.BindGroupProvider) ModelBuilderOption {
	return func(m *model) {
		m.provider = provider
	}
}
