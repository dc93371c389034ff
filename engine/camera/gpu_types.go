package camera

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUPointUniformSource is the canonical WGSL definition of the PointUniform struct.
// Matches GPUPointUniform layout exactly (64 bytes).
//
//go:embed assets/point_uniform.wgsl
var GPUPointUniformSource string

// GPUPointUniform is the GPU-aligned representation of the point-cloud uniform buffer.
// Size: 64 bytes.
type GPUPointUniform struct {
	MVP [16]float32 // offset 0: model-view-projection matrix (mat4x4<f32>), column-major
}

// Size returns the size of the GPUPointUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (64)
func (g *GPUPointUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUPointUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUPointUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.MVP[i]))
	}
	return buf
}
