package sensor

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// Kinect v1 depth camera intrinsics.
const (
	DepthFx = 5.9421434211923247e+02
	DepthFy = 5.9104053696870778e+02
	DepthCx = 3.3930780975300314e+02
	DepthCy = 2.4273913761751615e+02
)

// RawDepthToMeters converts an 11-bit raw disparity to meters. Values at or above
// RawDepthInvalid convert to 0.
//
// Parameters:
//   - raw: the raw sensor value
//
// Returns:
//   - float32: distance along the optical axis in meters
func RawDepthToMeters(raw uint16) float32 {
	if raw >= RawDepthInvalid {
		return 0
	}
	return float32(1.0 / (float64(raw)*-0.0030711016 + 3.3309495161))
}

// depthLUT holds RawDepthToMeters for every 11-bit value.
var depthLUT = func() [RawDepthInvalid + 1]float32 {
	var lut [RawDepthInvalid + 1]float32
	for i := range lut {
		lut[i] = RawDepthToMeters(uint16(i))
	}
	return lut
}()

// DepthConverter turns raw depth frames into world-space positions. Rows are split into bands
// and converted in parallel on a worker pool; Convert returns after every band finished.
type DepthConverter interface {
	// Convert writes x, y, z for every pixel of depth into dst.
	//
	// Parameters:
	//   - depth: the raw frame
	//   - dst: the output, length depth.Width*depth.Height*3
	//
	// Returns:
	//   - error: ErrFrameSize if dst has the wrong length
	Convert(depth *DepthFrame, dst []float32) error
}

var _ DepthConverter = &depthConverter{}

type depthConverter struct {
	pool  worker.DynamicWorkerPool
	bands int
}

// NewDepthConverter creates a DepthConverter backed by a worker pool.
//
// Parameters:
//   - workers: the number of pool workers, 0 selects NumCPU-1
//
// Returns:
//   - DepthConverter: the converter
func NewDepthConverter(workers int) DepthConverter {
	if workers <= 0 {
		workers = max(runtime.NumCPU()-1, 1)
	}
	return &depthConverter{
		pool:  worker.NewDynamicWorkerPool(workers, 256, 1*time.Second),
		bands: workers,
	}
}

func (c *depthConverter) Convert(depth *DepthFrame, dst []float32) error {
	w, h := depth.Width, depth.Height
	if len(depth.Raw) != w*h || len(dst) != w*h*3 {
		return fmt.Errorf("%w: depth %dx%d with %d values into %d floats", ErrFrameSize, w, h, len(depth.Raw), len(dst))
	}

	bands := min(c.bands, h)
	if bands <= 1 {
		convertRows(depth, dst, 0, h)
		return nil
	}

	// Pool workers are reused across frames; the WaitGroup is the per-frame barrier.
	rowsPer := (h + bands - 1) / bands
	var wg sync.WaitGroup
	for id, y0 := 0, 0; y0 < h; id, y0 = id+1, y0+rowsPer {
		y1 := min(y0+rowsPer, h)
		wg.Add(1)
		c.pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				convertRows(depth, dst, y0, y1)
				return nil, nil
			},
		})
	}
	wg.Wait()
	return nil
}

// convertRows converts rows [y0, y1). Y grows downwards, matching image rows.
func convertRows(depth *DepthFrame, dst []float32, y0, y1 int) {
	w := depth.Width
	for y := y0; y < y1; y++ {
		fy := (float32(y) - DepthCy) / DepthFy
		for x := 0; x < w; x++ {
			i := y*w + x
			raw := depth.Raw[i]
			var z float32
			if int(raw) < len(depthLUT) {
				z = depthLUT[raw]
			}
			o := i * 3
			dst[o] = (float32(x) - DepthCx) * z / DepthFx
			dst[o+1] = fy * z
			dst[o+2] = z
		}
	}
}
