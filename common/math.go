package common

import (
	"unsafe"

	"github.com/chewxy/math32"
)

// Mat4 is a 4x4 matrix stored in column-major order (WebGPU convention).
type Mat4 [16]float32

// Identity4 returns the 4x4 identity matrix.
//
// Returns:
//   - Mat4: the identity matrix
func Identity4() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// SliceToBytes reinterprets a slice as raw bytes for GPU buffer uploads.
// The returned slice aliases the input, so it must not outlive or be mutated behind it.
//
// Parameters:
//   - data: source slice of any fixed-size element type
//
// Returns:
//   - []byte: byte view of the input, or nil if the input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), int(unsafe.Sizeof(zero))*len(data))
}

// Mul4 returns the product a * b of two column-major matrices.
//
// Parameters:
//   - a: left-hand matrix
//   - b: right-hand matrix
//
// Returns:
//   - Mat4: the product a * b
func Mul4(a, b Mat4) Mat4 {
	var out Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += a[k*4+row] * b[col*4+k]
			}
			out[col*4+row] = sum
		}
	}
	return out
}

// Translate4 returns a translation matrix.
//
// Parameters:
//   - x, y, z: translation along each axis
//
// Returns:
//   - Mat4: the translation matrix
func Translate4(x, y, z float32) Mat4 {
	m := Identity4()
	m[12], m[13], m[14] = x, y, z
	return m
}

// Scale4 returns a non-uniform scale matrix.
//
// Parameters:
//   - x, y, z: scale factor along each axis
//
// Returns:
//   - Mat4: the scale matrix
func Scale4(x, y, z float32) Mat4 {
	m := Identity4()
	m[0], m[5], m[10] = x, y, z
	return m
}

// RotateY4 returns a right-handed rotation about the Y axis.
//
// Parameters:
//   - angle: rotation in radians
//
// Returns:
//   - Mat4: the rotation matrix
func RotateY4(angle float32) Mat4 {
	s, c := math32.Sincos(angle)
	m := Identity4()
	m[0], m[2] = c, -s
	m[8], m[10] = s, c
	return m
}

// TransformPoint applies m to the point (x, y, z, 1) and returns the homogeneous result.
//
// Parameters:
//   - m: the transform
//   - x, y, z: the point
//
// Returns:
//   - [4]float32: the transformed homogeneous point
func TransformPoint(m Mat4, x, y, z float32) [4]float32 {
	return [4]float32{
		m[0]*x + m[4]*y + m[8]*z + m[12],
		m[1]*x + m[5]*y + m[9]*z + m[13],
		m[2]*x + m[6]*y + m[10]*z + m[14],
		m[3]*x + m[7]*y + m[11]*z + m[15],
	}
}

// Perspective returns a perspective projection mapping view-space depth to the WebGPU
// clip range [0, 1].
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport width / height
//   - near: near plane distance (> 0)
//   - far: far plane distance (> near)
//
// Returns:
//   - Mat4: the projection matrix
func Perspective(fovY, aspect, near, far float32) Mat4 {
	f := 1 / math32.Tan(fovY/2)
	var m Mat4
	m[0] = f / aspect
	m[5] = f
	m[10] = far / (near - far)
	m[11] = -1
	m[14] = near * far / (near - far)
	return m
}

// LookAt returns a view matrix for an eye at (ex, ey, ez) looking at (cx, cy, cz).
//
// Parameters:
//   - ex, ey, ez: eye position
//   - cx, cy, cz: look-at target
//   - ux, uy, uz: up direction
//
// Returns:
//   - Mat4: the view matrix
func LookAt(ex, ey, ez, cx, cy, cz, ux, uy, uz float32) Mat4 {
	zx, zy, zz := normalize3(ex-cx, ey-cy, ez-cz)
	xx, xy, xz := normalize3(uy*zz-uz*zy, uz*zx-ux*zz, ux*zy-uy*zx)
	yx, yy, yz := zy*xz-zz*xy, zz*xx-zx*xz, zx*xy-zy*xx

	return Mat4{
		xx, yx, zx, 0,
		xy, yy, zy, 0,
		xz, yz, zz, 0,
		-(xx*ex + xy*ey + xz*ez), -(yx*ex + yy*ey + yz*ez), -(zx*ex + zy*ey + zz*ez), 1,
	}
}

// normalize3 returns the unit vector of (x, y, z), or the input unchanged if it has zero length.
func normalize3(x, y, z float32) (float32, float32, float32) {
	l := math32.Sqrt(x*x + y*y + z*z)
	if l == 0 {
		return x, y, z
	}
	return x / l, y / l, z / l
}
