package sensor

// SensorBuilderOption configures Open.
type SensorBuilderOption func(*sensorConfig)

type sensorConfig struct {
	width       int
	height      int
	mirror      bool
	workers     int
	frameRate   float64
	playbackDir string
	deviceIndex int
}

func newSensorConfig() *sensorConfig {
	return &sensorConfig{
		width:     KinectWidth,
		height:    KinectHeight,
		mirror:    true,
		frameRate: 30,
	}
}

// WithSize sets the frame size for the synthetic and playback backends. The freenect backend
// always uses the native 640x480.
//
// Parameters:
//   - width, height: frame dimensions in pixels, ignored if not positive
//
// Returns:
//   - SensorBuilderOption: the option
func WithSize(width, height int) SensorBuilderOption {
	return func(c *sensorConfig) {
		if width > 0 && height > 0 {
			c.width = width
			c.height = height
		}
	}
}

// WithMirror sets the initial mirror state.
func WithMirror(enabled bool) SensorBuilderOption {
	return func(c *sensorConfig) {
		c.mirror = enabled
	}
}

// WithWorkers sets the number of depth conversion workers. 0 selects NumCPU-1.
func WithWorkers(n int) SensorBuilderOption {
	return func(c *sensorConfig) {
		c.workers = n
	}
}

// WithFrameRate sets the capture rate of the synthetic and playback backends in frames per second.
func WithFrameRate(fps float64) SensorBuilderOption {
	return func(c *sensorConfig) {
		if fps > 0 {
			c.frameRate = fps
		}
	}
}

// WithPlaybackDir sets the recording directory for the playback backend.
func WithPlaybackDir(dir string) SensorBuilderOption {
	return func(c *sensorConfig) {
		c.playbackDir = dir
	}
}

// WithDeviceIndex selects which attached Kinect the freenect backend opens.
func WithDeviceIndex(index int) SensorBuilderOption {
	return func(c *sensorConfig) {
		c.deviceIndex = index
	}
}
