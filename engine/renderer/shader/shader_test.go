package shader

import (
	"errors"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-pointcloud/assets"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewShaderFromFS_CloudVertex(t *testing.T) {
	s, err := NewShaderFromFS("cloud_vert", ShaderTypeVertex, assets.Shaders, assets.CloudVertex)
	require.NoError(t, err)

	assert.Equal(t, "vs_main", s.EntryPoint())
	assert.Equal(t, ShaderTypeVertex, s.ShaderType())
	assert.Equal(t, "cloud_vert", s.Module().Label)
	assert.NotContains(t, s.Source(), "@oxy:")

	layouts := s.VertexLayouts()
	require.Len(t, layouts, 2)
	assert.Equal(t, uint64(12), layouts[0].ArrayStride)
	assert.Equal(t, wgpu.VertexFormatFloat32x3, layouts[0].Attributes[0].Format)
	assert.Equal(t, uint32(0), layouts[0].Attributes[0].ShaderLocation)
	assert.Equal(t, uint64(16), layouts[1].ArrayStride)
	assert.Equal(t, wgpu.VertexFormatFloat32x4, layouts[1].Attributes[0].Format)
	assert.Equal(t, uint32(1), layouts[1].Attributes[0].ShaderLocation)

	desc := s.BindGroupLayoutDescriptor(0)
	require.Len(t, desc.Entries, 1)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, desc.Entries[0].Buffer.Type)
	assert.Equal(t, uint64(64), desc.Entries[0].Buffer.MinBindingSize)
	assert.Equal(t, wgpu.ShaderStageVertex, desc.Entries[0].Visibility)
	assert.Equal(t, "uniforms", s.BindGroupVarName(0, 0))

	binding, ok := s.BindGroupFromVarName(0, "uniforms")
	assert.True(t, ok)
	assert.Equal(t, 0, binding)

	require.Len(t, s.Declarations(), 1)
	assert.Equal(t, AnnotationArgPointUniform, s.Declarations()[0].Args[2])
}

func TestNewShaderFromFS_CloudFragment(t *testing.T) {
	s, err := NewShaderFromFS("cloud_frag", ShaderTypeFragment, assets.Shaders, assets.CloudFragment)
	require.NoError(t, err)

	assert.Equal(t, "fs_main", s.EntryPoint())
	assert.Empty(t, s.VertexLayouts())
	assert.Empty(t, s.BindGroupLayoutDescriptors())
}

func TestNewShader_SlotOrderFollowsLocation(t *testing.T) {
	src := `
struct ColorInput {
    @location(1) color: vec4f,
}
struct PositionInput {
    @location(0) vertex: vec3f,
}
@vertex
fn main(c: ColorInput, p: PositionInput) -> @builtin(position) vec4f {
    return vec4f(p.vertex, 1.0) * c.color;
}
`
	s, err := NewShader("ordered", ShaderTypeVertex, src)
	require.NoError(t, err)

	layouts := s.VertexLayouts()
	require.Len(t, layouts, 2)
	assert.Equal(t, uint32(0), layouts[0].Attributes[0].ShaderLocation)
	assert.Equal(t, uint32(1), layouts[1].Attributes[0].ShaderLocation)
}

func TestNewShader_Errors(t *testing.T) {
	tests := []struct {
		name   string
		typ    ShaderType
		source string
	}{
		{name: "empty", typ: ShaderTypeVertex, source: ""},
		{name: "no entry point", typ: ShaderTypeFragment, source: "fn helper() {}"},
		{name: "unknown annotation", typ: ShaderTypeVertex, source: "//@oxy:bogus\n@vertex fn main() {}"},
		{name: "unknown include", typ: ShaderTypeVertex, source: "//@oxy:include camera\n@vertex fn main() {}"},
		{name: "texture binding", typ: ShaderTypeFragment, source: "@group(0) @binding(0) var tex: texture_2d<f32>;\n@fragment fn main() {}"},
		{name: "unsized binding", typ: ShaderTypeFragment, source: "@group(0) @binding(0) var<uniform> u: Missing;\n@fragment fn main() {}"},
		{name: "unsupported type", typ: ShaderType(7), source: "@vertex fn main() {}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewShader(tt.name, tt.typ, tt.source)
			assert.ErrorIs(t, err, ErrShaderSource)
		})
	}
}

func TestNewShaderFromFile_Missing(t *testing.T) {
	_, err := NewShaderFromFile("missing", ShaderTypeVertex, filepath.Join(t.TempDir(), "nope.wgsl"))
	assert.True(t, errors.Is(err, ErrShaderSource))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestNewShaderFromFile_RecordsOrigin(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "frag.wgsl")
	writeFile(t, path, "@fragment fn fs() -> @location(0) vec4f { return vec4f(1.0); }")

	s, err := NewShaderFromFile("frag", ShaderTypeFragment, path)
	require.NoError(t, err)
	assert.Equal(t, path, s.Origin())
	assert.Equal(t, "fs", s.EntryPoint())
}

func TestShaderType_String(t *testing.T) {
	assert.Equal(t, "vertex", ShaderTypeVertex.String())
	assert.Equal(t, "fragment", ShaderTypeFragment.String())
	assert.Equal(t, "ShaderType(9)", ShaderType(9).String())
}
