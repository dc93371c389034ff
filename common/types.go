// package common contains plain value types and helpers shared across the viewer. They are not
// interface-wrapped; sensor, scene and renderer code pass them around by value.
package common

// Resolution is a sensor or surface size in pixels.
type Resolution struct {
	Width  int
	Height int
}

// PixelCount returns Width * Height, or 0 if either dimension is not positive.
//
// Returns:
//   - int: the number of pixels
func (r Resolution) PixelCount() int {
	if r.Width <= 0 || r.Height <= 0 {
		return 0
	}
	return r.Width * r.Height
}

// Aspect returns Width / Height, or 1 when Height is zero.
//
// Returns:
//   - float32: the aspect ratio
func (r Resolution) Aspect() float32 {
	if r.Height == 0 {
		return 1
	}
	return float32(r.Width) / float32(r.Height)
}
