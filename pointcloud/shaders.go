package pointcloud

import (
	"path/filepath"

	"github.com/Carmen-Shannon/oxy-pointcloud/assets"
	"github.com/Carmen-Shannon/oxy-pointcloud/engine/renderer/shader"
)

// Shader keys of the point-cloud pipeline.
const (
	VertexShaderKey   = "cloud.vert"
	FragmentShaderKey = "cloud.frag"
)

// ShaderLoader produces the vertex and fragment shader of the point pipeline. The scene calls
// it once at startup and again for every hot reload.
type ShaderLoader func() (vs, fs shader.Shader, err error)

// EmbeddedShaders loads the shader pair compiled into the binary.
//
// Returns:
//   - ShaderLoader: a loader reading from assets.Shaders
func EmbeddedShaders() ShaderLoader {
	return func() (shader.Shader, shader.Shader, error) {
		vs, err := shader.NewShaderFromFS(VertexShaderKey, shader.ShaderTypeVertex, assets.Shaders, assets.CloudVertex)
		if err != nil {
			return nil, nil, err
		}
		fs, err := shader.NewShaderFromFS(FragmentShaderKey, shader.ShaderTypeFragment, assets.Shaders, assets.CloudFragment)
		if err != nil {
			return nil, nil, err
		}
		return vs, fs, nil
	}
}

// DirShaders loads cloud.vert.wgsl and cloud.frag.wgsl from a directory on every call, so
// edits on disk are picked up by a reload.
//
// Parameters:
//   - dir: the directory holding the shader pair
//
// Returns:
//   - ShaderLoader: a loader reading from dir
func DirShaders(dir string) ShaderLoader {
	return func() (shader.Shader, shader.Shader, error) {
		vs, err := shader.NewShaderFromFile(VertexShaderKey, shader.ShaderTypeVertex, filepath.Join(dir, filepath.Base(assets.CloudVertex)))
		if err != nil {
			return nil, nil, err
		}
		fs, err := shader.NewShaderFromFile(FragmentShaderKey, shader.ShaderTypeFragment, filepath.Join(dir, filepath.Base(assets.CloudFragment)))
		if err != nil {
			return nil, nil, err
		}
		return vs, fs, nil
	}
}
