// Package sensor provides depth-camera frame sources for the point-cloud viewer.
//
// A Sensor owns a capture goroutine that grabs raw video and depth frames from a backend,
// optionally mirrors them, converts depth to world-space positions and publishes the result
// through a single-slot mailbox. Consumers call Latest once per render frame and read the
// returned Frame until their next call.
package sensor

import (
	"errors"
	"fmt"
)

const (
	// KinectWidth is the native Kinect v1 frame width.
	KinectWidth = 640
	// KinectHeight is the native Kinect v1 frame height.
	KinectHeight = 480
	// RawDepthInvalid is the raw disparity value the sensor reports for pixels without a reading.
	RawDepthInvalid = 2047
)

var (
	// ErrUnavailable is returned when the selected sensor backend cannot be opened.
	ErrUnavailable = errors.New("sensor: device unavailable")
	// ErrClosed is returned by Start after the sensor has been stopped.
	ErrClosed = errors.New("sensor: closed")
	// ErrFrameSize is returned when a backend produces a frame that does not match the sensor size.
	ErrFrameSize = errors.New("sensor: frame size mismatch")
)

// Kind names a sensor backend.
type Kind string

const (
	KindSynthetic Kind = "synthetic"
	KindPlayback  Kind = "playback"
	KindFreenect  Kind = "freenect"
)

// ParseKind parses a backend name.
//
// Parameters:
//   - s: the backend name
//
// Returns:
//   - Kind: the parsed kind
//   - error: an error if s is not a known backend
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindSynthetic, KindPlayback, KindFreenect:
		return k, nil
	case "":
		return KindSynthetic, nil
	default:
		return "", fmt.Errorf("sensor: unknown kind %q (want synthetic, playback or freenect)", s)
	}
}

// VideoFrame is one RGB camera image, packed as 0xAARRGGBB per pixel in row-major order.
// The alpha byte is unused.
type VideoFrame struct {
	Width  int
	Height int
	Pixels []uint32
}

// NewVideoFrame allocates a zeroed VideoFrame.
func NewVideoFrame(width, height int) *VideoFrame {
	return &VideoFrame{Width: width, Height: height, Pixels: make([]uint32, width*height)}
}

// DepthFrame is one raw 11-bit disparity image in row-major order.
type DepthFrame struct {
	Width  int
	Height int
	Raw    []uint16
}

// NewDepthFrame allocates a DepthFrame with every pixel set to RawDepthInvalid.
func NewDepthFrame(width, height int) *DepthFrame {
	d := &DepthFrame{Width: width, Height: height, Raw: make([]uint16, width*height)}
	for i := range d.Raw {
		d.Raw[i] = RawDepthInvalid
	}
	return d
}

// Frame is a matched video image and converted depth positions.
type Frame struct {
	// Seq increases by one for every frame the capture loop publishes.
	Seq uint64
	// Video is the camera image.
	Video *VideoFrame
	// Positions holds x, y, z in meters for every pixel, 3 floats per pixel.
	Positions []float32
}

func newFrame(width, height int) *Frame {
	return &Frame{
		Video:     NewVideoFrame(width, height),
		Positions: make([]float32, width*height*3),
	}
}

// Stats is a snapshot of a sensor's capture counters.
type Stats struct {
	// Published is the number of frames handed to the mailbox.
	Published uint64
	// Dropped is the number of published frames overwritten before a consumer took them.
	Dropped uint64
	// Errors is the number of grab failures.
	Errors uint64
}
