// Package pointcloud turns sensor frames into GPU-ready point streams and draws them.
//
// The ColorBuilder converts a packed 0xAARRGGBB video frame into the interleaved RGBA float
// color stream consumed by the point shader. The Scene owns one ColorBuffer for its lifetime
// and rebuilds it in place every frame before uploading it together with the sensor's
// depth-to-world positions.
package pointcloud

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-pointcloud/common"
)

const (
	// DefaultSkipRows is the number of leading sensor rows excluded from recoloring.
	DefaultSkipRows = 35

	// DefaultDivisor is the intensity divisor applied to each 8-bit channel. At 100 rather
	// than 255 bright channels exceed 1.0 and saturate.
	DefaultDivisor float32 = 100

	// ColorComponents is the number of floats written per pixel (r, g, b, a).
	ColorComponents = 4
)

// ErrBufferSize is returned when a color buffer or video frame does not match the frame size.
var ErrBufferSize = errors.New("pointcloud: buffer size does not match frame dimensions")

// Alignment selects how the read index and the write index relate when rows are skipped.
type Alignment int

const (
	// AlignShift reads pixel i+offset and writes it to color slot i. The image is shifted up
	// by the skipped rows and the trailing offset slots keep whatever they held before.
	AlignShift Alignment = iota

	// AlignCrop reads and writes the same slot i+offset. The leading band of offset slots is
	// never written, so the skipped rows keep their previous colors instead of the tail.
	AlignCrop
)

// String implements fmt.Stringer.
func (a Alignment) String() string {
	switch a {
	case AlignShift:
		return "shift"
	case AlignCrop:
		return "crop"
	default:
		return fmt.Sprintf("Alignment(%d)", int(a))
	}
}

// ParseAlignment parses "shift" or "crop".
//
// Parameters:
//   - s: the alignment name
//
// Returns:
//   - Alignment: the parsed alignment
//   - error: an error if s is not a known alignment
func ParseAlignment(s string) (Alignment, error) {
	switch s {
	case "shift", "":
		return AlignShift, nil
	case "crop":
		return AlignCrop, nil
	default:
		return AlignShift, fmt.Errorf("pointcloud: unknown alignment %q (want shift or crop)", s)
	}
}

// ColorBuffer is the interleaved r, g, b, a float stream for one frame, 4 floats per pixel.
type ColorBuffer []float32

// NewColorBuffer allocates a zeroed ColorBuffer for width*height pixels.
//
// Parameters:
//   - width, height: frame dimensions in pixels
//
// Returns:
//   - ColorBuffer: a buffer of length width*height*4
func NewColorBuffer(width, height int) ColorBuffer {
	if width <= 0 || height <= 0 {
		return ColorBuffer{}
	}
	return make(ColorBuffer, width*height*ColorComponents)
}

// ColorBuilder converts packed video frames into ColorBuffers.
type ColorBuilder struct {
	// SkipRows is the number of leading rows excluded from recoloring.
	SkipRows int
	// Divisor scales each 8-bit channel into the float color range.
	Divisor float32
	// Alignment selects shift or crop indexing.
	Alignment Alignment
}

// NewColorBuilder returns a ColorBuilder with the default row skip, divisor and shift alignment.
//
// Returns:
//   - ColorBuilder: the builder
func NewColorBuilder() ColorBuilder {
	return ColorBuilder{
		SkipRows:  DefaultSkipRows,
		Divisor:   DefaultDivisor,
		Alignment: AlignShift,
	}
}

// Offset returns the row-skip offset in pixels for a frame of the given width.
//
// Parameters:
//   - width: frame width in pixels
//
// Returns:
//   - int: width * SkipRows, never negative
func (b ColorBuilder) Offset(width int) int {
	if width <= 0 || b.SkipRows <= 0 {
		return 0
	}
	return width * b.SkipRows
}

// Build recolors dst in place from the packed pixels of one frame.
//
// For each i in [0, width*height - offset) the pixel at i+offset is split into its red
// (bits 16-23), green (bits 8-15) and blue (bits 0-7) channels, each divided by Divisor, and
// written with alpha 1 at slot i (AlignShift) or slot i+offset (AlignCrop). Slots outside the
// written range are left untouched. When width*height <= offset nothing is written.
//
// Parameters:
//   - dst: the color buffer to overwrite, length width*height*4
//   - pixels: the packed video frame, length width*height
//   - width, height: frame dimensions in pixels
//
// Returns:
//   - error: ErrBufferSize if dst or pixels do not match the dimensions
func (b ColorBuilder) Build(dst ColorBuffer, pixels []uint32, width, height int) error {
	n := width * height
	if width <= 0 || height <= 0 || len(pixels) != n || len(dst) != n*ColorComponents {
		return fmt.Errorf("%w: %dx%d frame, %d pixels, %d floats", ErrBufferSize, width, height, len(pixels), len(dst))
	}

	divisor := common.Coalesce(b.Divisor, DefaultDivisor)
	offset := b.Offset(width)
	write := 0
	if b.Alignment == AlignCrop {
		write = offset
	}

	for i := 0; i < n-offset; i++ {
		c := pixels[i+offset]
		o := (i + write) * ColorComponents
		dst[o] = float32(c>>16&0xff) / divisor
		dst[o+1] = float32(c>>8&0xff) / divisor
		dst[o+2] = float32(c&0xff) / divisor
		dst[o+3] = 1
	}
	return nil
}
