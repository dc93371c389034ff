//go:build !freenect

package sensor

import (
	"context"
	"fmt"
)

// freenectSource is unavailable in builds without the freenect tag.
type freenectSource struct{}

func newFreenectSource(_ *sensorConfig) (*freenectSource, error) {
	return nil, fmt.Errorf("%w: built without libfreenect support (rebuild with -tags freenect)", ErrUnavailable)
}

func (s *freenectSource) grab(ctx context.Context, _ *VideoFrame, _ *DepthFrame) error {
	return ErrUnavailable
}

func (s *freenectSource) close() error {
	return nil
}
