//go:build freenect

package sensor

/*
#cgo LDFLAGS: -lfreenect_sync -lfreenect
#include <libfreenect/libfreenect.h>
#include <libfreenect/libfreenect_sync.h>
*/
import "C"

import (
	"context"
	"fmt"
	"time"
	"unsafe"
)

// freenectSource reads a Kinect v1 through the libfreenect synchronous wrapper. The wrapper runs
// its own USB thread; each grab copies the newest buffers it holds.
type freenectSource struct {
	index  C.int
	period time.Duration
}

func newFreenectSource(cfg *sensorConfig) (*freenectSource, error) {
	cfg.width, cfg.height = KinectWidth, KinectHeight
	s := &freenectSource{
		index:  C.int(cfg.deviceIndex),
		period: time.Duration(float64(time.Second) / cfg.frameRate),
	}

	// A first depth read opens the device; failure means no Kinect is attached.
	var (
		data unsafe.Pointer
		ts   C.uint32_t
	)
	if rc := C.freenect_sync_get_depth(&data, &ts, s.index, C.FREENECT_DEPTH_11BIT); rc != 0 {
		return nil, fmt.Errorf("%w: freenect device %d (rc=%d)", ErrUnavailable, cfg.deviceIndex, int(rc))
	}
	return s, nil
}

func (s *freenectSource) grab(ctx context.Context, video *VideoFrame, depth *DepthFrame) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n := KinectWidth * KinectHeight
	if len(video.Pixels) != n || len(depth.Raw) != n {
		return fmt.Errorf("%w: freenect requires %dx%d", ErrFrameSize, KinectWidth, KinectHeight)
	}

	var (
		data unsafe.Pointer
		ts   C.uint32_t
	)
	if rc := C.freenect_sync_get_depth(&data, &ts, s.index, C.FREENECT_DEPTH_11BIT); rc != 0 {
		return fmt.Errorf("sensor: freenect depth read failed (rc=%d)", int(rc))
	}
	copy(depth.Raw, unsafe.Slice((*uint16)(data), n))

	if rc := C.freenect_sync_get_video(&data, &ts, s.index, C.FREENECT_VIDEO_RGB); rc != 0 {
		return fmt.Errorf("sensor: freenect video read failed (rc=%d)", int(rc))
	}
	rgb := unsafe.Slice((*byte)(data), n*3)
	for i := range n {
		video.Pixels[i] = 0xff000000 | uint32(rgb[i*3])<<16 | uint32(rgb[i*3+1])<<8 | uint32(rgb[i*3+2])
	}

	// The sync wrapper returns immediately with a repeated buffer when polled faster than the
	// device rate.
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.period):
	}
	return nil
}

func (s *freenectSource) close() error {
	C.freenect_sync_stop()
	return nil
}
