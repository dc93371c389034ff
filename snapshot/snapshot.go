// Package snapshot writes the current video frame and color buffer to lossless WebP files.
package snapshot

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/HugoSmits86/nativewebp"
)

// ErrEmptyFrame is returned when there is nothing to write.
var ErrEmptyFrame = errors.New("snapshot: empty frame")

// timeLayout names snapshot files so they sort chronologically.
const timeLayout = "20060102-150405.000"

// Paths are the files written by one snapshot.
type Paths struct {
	Video  string
	Colors string
}

// VideoImage converts packed 0xAARRGGBB pixels into an opaque NRGBA image.
//
// Parameters:
//   - pixels: the packed pixels, length width*height
//   - width, height: the image size
//
// Returns:
//   - *image.NRGBA: the image
//   - error: ErrEmptyFrame if the sizes do not match
func VideoImage(pixels []uint32, width, height int) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 || len(pixels) != width*height {
		return nil, fmt.Errorf("%w: %d pixels for %dx%d", ErrEmptyFrame, len(pixels), width, height)
	}
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i, p := range pixels {
		o := i * 4
		img.Pix[o] = uint8(p >> 16)
		img.Pix[o+1] = uint8(p >> 8)
		img.Pix[o+2] = uint8(p)
		img.Pix[o+3] = 0xff
	}
	return img, nil
}

// ColorImage converts an interleaved r, g, b, a float buffer into an NRGBA image. Channels are
// clamped to [0, 1] first, so over-saturated values show as full intensity.
//
// Parameters:
//   - colors: the color buffer, length width*height*4
//   - width, height: the image size
//
// Returns:
//   - *image.NRGBA: the image
//   - error: ErrEmptyFrame if the sizes do not match
func ColorImage(colors []float32, width, height int) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 || len(colors) != width*height*4 {
		return nil, fmt.Errorf("%w: %d floats for %dx%d", ErrEmptyFrame, len(colors), width, height)
	}
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i, c := range colors {
		img.Pix[i] = toByte(c)
	}
	return img, nil
}

func toByte(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 0xff
	default:
		return uint8(v*255 + 0.5)
	}
}

// Write saves both images into dir, creating it if needed.
//
// Parameters:
//   - dir: the output directory
//   - at: the timestamp used in the file names
//   - pixels: the packed video frame
//   - colors: the color buffer built from it
//   - width, height: the frame size
//
// Returns:
//   - Paths: the written files
//   - error: an error if either image cannot be built or written
func Write(dir string, at time.Time, pixels []uint32, colors []float32, width, height int) (Paths, error) {
	video, err := VideoImage(pixels, width, height)
	if err != nil {
		return Paths{}, err
	}
	col, err := ColorImage(colors, width, height)
	if err != nil {
		return Paths{}, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Paths{}, fmt.Errorf("snapshot: create %s: %w", dir, err)
	}

	stamp := at.Format(timeLayout)
	paths := Paths{
		Video:  filepath.Join(dir, "video-"+stamp+".webp"),
		Colors: filepath.Join(dir, "colors-"+stamp+".webp"),
	}
	if err := encodeFile(paths.Video, video); err != nil {
		return Paths{}, err
	}
	if err := encodeFile(paths.Colors, col); err != nil {
		return Paths{}, err
	}
	return paths, nil
}

func encodeFile(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("snapshot: create %s: %w", path, err)
	}
	if err := nativewebp.Encode(f, img, nil); err != nil {
		f.Close()
		return fmt.Errorf("snapshot: encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("snapshot: close %s: %w", path, err)
	}
	return nil
}
