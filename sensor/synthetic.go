package sensor

import (
	"context"
	"fmt"
	"time"

	"github.com/chewxy/math32"
)

// syntheticSource renders an animated rippling dome in front of a flat wall. It needs no
// hardware and produces frames at a fixed rate.
type syntheticSource struct {
	width   int
	height  int
	ticker  *time.Ticker
	started time.Time
}

func newSyntheticSource(cfg *sensorConfig) *syntheticSource {
	return &syntheticSource{
		width:   cfg.width,
		height:  cfg.height,
		ticker:  time.NewTicker(time.Duration(float64(time.Second) / cfg.frameRate)),
		started: time.Now(),
	}
}

func (s *syntheticSource) grab(ctx context.Context, video *VideoFrame, depth *DepthFrame) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case now := <-s.ticker.C:
		return s.render(now.Sub(s.started), video, depth)
	}
}

// render draws the scene at elapsed time t.
func (s *syntheticSource) render(t time.Duration, video *VideoFrame, depth *DepthFrame) error {
	w, h := s.width, s.height
	if len(video.Pixels) != w*h || len(depth.Raw) != w*h {
		return fmt.Errorf("%w: synthetic %dx%d", ErrFrameSize, w, h)
	}

	phase := float32(t.Seconds())
	cx, cy := float32(w)/2, float32(h)/2
	radius := math32.Min(cx, cy) * 0.8

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			dx, dy := float32(x)-cx, float32(y)-cy
			r := math32.Hypot(dx, dy)

			var raw float32
			switch {
			case x < w/32 || x >= w-w/32:
				// Side bands with no reading, like the Kinect's occlusion shadow.
				raw = RawDepthInvalid
			case r < radius:
				// Dome, closer at the center, with a travelling ripple.
				k := 1 - (r*r)/(radius*radius)
				raw = 900 - 250*k + 12*math32.Sin(r/9-phase*3)
			default:
				raw = 960
			}
			depth.Raw[i] = uint16(raw)

			u, v := float32(x)/float32(w), float32(y)/float32(h)
			red := uint32(127 + 127*math32.Sin(u*6+phase))
			green := uint32(127 + 127*math32.Sin(v*6+phase*1.3))
			blue := uint32(127 + 127*math32.Cos((u+v)*4-phase))
			video.Pixels[i] = 0xff000000 | red<<16 | green<<8 | blue
		}
	}
	return nil
}

func (s *syntheticSource) close() error {
	s.ticker.Stop()
	return nil
}
