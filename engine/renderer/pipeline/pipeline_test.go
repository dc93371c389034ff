package pipeline

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-pointcloud/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	vertSource = "struct P { @location(0) v: vec3f, }\n@vertex fn vs(p: P) -> @builtin(position) vec4f { return vec4f(p.v, 1.0); }"
	fragSource = "@fragment fn fs() -> @location(0) vec4f { return vec4f(1.0); }"
)

func shaders(t *testing.T) (shader.Shader, shader.Shader) {
	t.Helper()
	vs, err := shader.NewShader("vs", shader.ShaderTypeVertex, vertSource)
	require.NoError(t, err)
	fs, err := shader.NewShader("fs", shader.ShaderTypeFragment, fragSource)
	require.NoError(t, err)
	return vs, fs
}

func TestNewPipeline_Defaults(t *testing.T) {
	p := NewPipeline("points")

	assert.Equal(t, "points", p.PipelineKey())
	assert.Equal(t, wgpu.PrimitiveTopologyPointList, p.Topology())
	assert.True(t, p.DepthTestEnabled())
	assert.True(t, p.DepthWriteEnabled())
	assert.False(t, p.BlendEnabled())
	assert.Equal(t, wgpu.CullModeNone, p.CullMode())
	assert.Nil(t, p.RenderPipeline())
}

func TestNewPipeline_Options(t *testing.T) {
	p := NewPipeline("lines",
		WithTopology(wgpu.PrimitiveTopologyLineList),
		WithDepthTestEnabled(false),
		WithBlendEnabled(true),
		WithCullMode(wgpu.CullModeBack),
	)
	assert.Equal(t, wgpu.PrimitiveTopologyLineList, p.Topology())
	assert.False(t, p.DepthTestEnabled())
	assert.True(t, p.BlendEnabled())
	assert.Equal(t, wgpu.CullModeBack, p.CullMode())
}

func TestValidate(t *testing.T) {
	vs, fs := shaders(t)

	assert.ErrorIs(t, NewPipeline("empty").Validate(), ErrIncompletePipeline)
	assert.ErrorIs(t, NewPipeline("swapped", WithVertexShader(fs), WithFragmentShader(vs)).Validate(), ErrIncompletePipeline)
	assert.NoError(t, NewPipeline("ok", WithVertexShader(vs), WithFragmentShader(fs)).Validate())
}

func TestWithShaders_KeepsConfiguration(t *testing.T) {
	vs, fs := shaders(t)
	p := NewPipeline("points", WithBlendEnabled(true))

	rebuilt := p.WithShaders(vs, fs)
	assert.Equal(t, "points", rebuilt.PipelineKey())
	assert.True(t, rebuilt.BlendEnabled())
	assert.Same(t, vs, rebuilt.Shader(shader.ShaderTypeVertex))
	assert.Same(t, fs, rebuilt.Shader(shader.ShaderTypeFragment))
	assert.Nil(t, p.Shader(shader.ShaderTypeVertex))
}
