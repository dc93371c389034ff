// Package config loads viewer settings from a TOML file and merges command-line overrides.
package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config holds every viewer setting. Zero values mean "use the default" and are filled by Resolve.
type Config struct {
	Sensor   SensorConfig   `toml:"sensor"`
	Window   WindowConfig   `toml:"window"`
	Color    ColorConfig    `toml:"color"`
	Shaders  ShaderConfig   `toml:"shaders"`
	Snapshot SnapshotConfig `toml:"snapshot"`
	Profile  bool           `toml:"profile"`
}

// SensorConfig selects and tunes the depth sensor backend.
type SensorConfig struct {
	Kind        string  `toml:"kind"`
	PlaybackDir string  `toml:"playback_dir"`
	Mirror      *bool   `toml:"mirror"`
	FrameRate   float64 `toml:"frame_rate"`
	Workers     int     `toml:"workers"`
	DeviceIndex int     `toml:"device_index"`
}

// WindowConfig controls the output window.
type WindowConfig struct {
	Title      string `toml:"title"`
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	Fullscreen bool   `toml:"fullscreen"`
	VSync      bool   `toml:"vsync"`
}

// ColorConfig tunes the video-to-color conversion.
type ColorConfig struct {
	Align    string  `toml:"align"`
	SkipRows *int    `toml:"skip_rows"`
	Divisor  float32 `toml:"divisor"`
}

// ShaderConfig points at the WGSL sources.
type ShaderConfig struct {
	// Dir overrides the embedded shaders with files from disk when set.
	Dir   string `toml:"dir"`
	Watch bool   `toml:"watch"`
}

// SnapshotConfig controls where snapshots are written.
type SnapshotConfig struct {
	Dir string `toml:"dir"`
}

// Defaults used by Resolve.
const (
	DefaultSensorKind  = "synthetic"
	DefaultFrameRate   = 30
	DefaultTitle       = "oxy-pointcloud"
	DefaultWidth       = 1280
	DefaultHeight      = 720
	DefaultAlign       = "shift"
	DefaultSkipRows    = 35
	DefaultDivisor     = 100
	DefaultSnapshotDir = "snapshots"
)

// Load reads a TOML config file. Unknown keys are rejected so typos surface at startup.
//
// Parameters:
//   - path: the file to read
//
// Returns:
//   - Config: the parsed config, unset fields zero
//   - error: an error if the file cannot be read or parsed
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML config data.
//
// Parameters:
//   - data: the TOML document
//
// Returns:
//   - Config: the parsed config
//   - error: a decode error
func Parse(data []byte) (Config, error) {
	var cfg Config
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Encode renders the config as TOML.
//
// Returns:
//   - []byte: the TOML document
//   - error: an encode error
func (c Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}

// Flags holds command-line values that override config file settings. Nil pointers and zero
// values mean "not given".
type Flags struct {
	Sensor       string
	PlaybackDir  string
	Fullscreen   *bool
	Width        int
	Height       int
	Mirror       *bool
	Align        string
	SkipRows     *int
	Divisor      float32
	ShaderDir    string
	WatchShaders *bool
	SnapshotDir  string
	VSync        *bool
	Profile      *bool
}

// Resolve applies flag overrides and then fills every unset field with its default.
//
// Parameters:
//   - flags: the command-line overrides
func (c *Config) Resolve(flags Flags) {
	// CLI flags override the config file
	if flags.Sensor != "" {
		c.Sensor.Kind = flags.Sensor
	}
	if flags.PlaybackDir != "" {
		c.Sensor.PlaybackDir = flags.PlaybackDir
	}
	if flags.Mirror != nil {
		c.Sensor.Mirror = boolPtr(*flags.Mirror)
	}
	if flags.Fullscreen != nil {
		c.Window.Fullscreen = *flags.Fullscreen
	}
	if flags.Width > 0 {
		c.Window.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Window.Height = flags.Height
	}
	if flags.VSync != nil {
		c.Window.VSync = *flags.VSync
	}
	if flags.Align != "" {
		c.Color.Align = flags.Align
	}
	if flags.SkipRows != nil {
		c.Color.SkipRows = intPtr(*flags.SkipRows)
	}
	if flags.Divisor != 0 {
		c.Color.Divisor = flags.Divisor
	}
	if flags.ShaderDir != "" {
		c.Shaders.Dir = flags.ShaderDir
	}
	if flags.WatchShaders != nil {
		c.Shaders.Watch = *flags.WatchShaders
	}
	if flags.SnapshotDir != "" {
		c.Snapshot.Dir = flags.SnapshotDir
	}
	if flags.Profile != nil {
		c.Profile = *flags.Profile
	}

	// Defaults
	if c.Sensor.Kind == "" {
		c.Sensor.Kind = DefaultSensorKind
	}
	if c.Sensor.Mirror == nil {
		c.Sensor.Mirror = boolPtr(true)
	}
	if c.Sensor.FrameRate <= 0 {
		c.Sensor.FrameRate = DefaultFrameRate
	}
	if c.Window.Title == "" {
		c.Window.Title = DefaultTitle
	}
	if c.Window.Width <= 0 {
		c.Window.Width = DefaultWidth
	}
	if c.Window.Height <= 0 {
		c.Window.Height = DefaultHeight
	}
	if c.Color.Align == "" {
		c.Color.Align = DefaultAlign
	}
	if c.Color.SkipRows == nil {
		c.Color.SkipRows = intPtr(DefaultSkipRows)
	}
	if c.Color.Divisor == 0 {
		c.Color.Divisor = DefaultDivisor
	}
	if c.Snapshot.Dir == "" {
		c.Snapshot.Dir = DefaultSnapshotDir
	}
}

// Validate checks cross-field constraints of a resolved config.
//
// Returns:
//   - error: the first violated constraint
func (c *Config) Validate() error {
	if c.Sensor.Kind == "playback" && c.Sensor.PlaybackDir == "" {
		return fmt.Errorf("config: sensor.playback_dir is required for the playback sensor")
	}
	if c.Color.SkipRows != nil && *c.Color.SkipRows < 0 {
		return fmt.Errorf("config: color.skip_rows must not be negative, got %d", *c.Color.SkipRows)
	}
	if c.Color.Divisor < 0 {
		return fmt.Errorf("config: color.divisor must be positive, got %g", c.Color.Divisor)
	}
	if c.Shaders.Watch && c.Shaders.Dir == "" {
		return fmt.Errorf("config: shaders.watch requires shaders.dir")
	}
	return nil
}

// MirrorEnabled returns the resolved mirror setting.
func (c *Config) MirrorEnabled() bool {
	return c.Sensor.Mirror == nil || *c.Sensor.Mirror
}

// SkipRowsValue returns the resolved row skip.
func (c *Config) SkipRowsValue() int {
	if c.Color.SkipRows == nil {
		return DefaultSkipRows
	}
	return *c.Color.SkipRows
}

func boolPtr(v bool) *bool { return &v }

func intPtr(v int) *int { return &v }
