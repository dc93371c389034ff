package main

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-pointcloud/config"
	"github.com/spf13/cobra"
)

// options holds the raw command-line values before they are folded into config.Flags.
type options struct {
	configPath   string
	sensor       string
	playbackDir  string
	fullscreen   bool
	width        int
	height       int
	noMirror     bool
	align        string
	skipRows     int
	divisor      float32
	shaderDir    string
	watchShaders bool
	snapshotDir  string
	vsync        bool
	profile      bool
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "oxy-pointcloud",
		Short:         "Live depth-sensor point cloud viewer",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&opts.configPath, "config", "", "TOML config file")
	f.StringVar(&opts.sensor, "sensor", "", "sensor backend: synthetic, playback or freenect")
	f.StringVar(&opts.playbackDir, "playback-dir", "", "directory of recorded frames for the playback sensor")
	f.BoolVar(&opts.fullscreen, "fullscreen", false, "cover the primary monitor")
	f.IntVar(&opts.width, "width", 0, "window width in pixels")
	f.IntVar(&opts.height, "height", 0, "window height in pixels")
	f.BoolVar(&opts.noMirror, "no-mirror", false, "disable horizontal mirroring of the sensor image")
	f.StringVar(&opts.align, "align", "", "color alignment for skipped rows: shift or crop")
	f.IntVar(&opts.skipRows, "skip-rows", 0, "leading video rows excluded from recoloring")
	f.Float32Var(&opts.divisor, "divisor", 0, "color channel intensity divisor")
	f.StringVar(&opts.shaderDir, "shader-dir", "", "load cloud.vert.wgsl and cloud.frag.wgsl from this directory")
	f.BoolVar(&opts.watchShaders, "watch-shaders", false, "reload shaders when files in --shader-dir change")
	f.StringVar(&opts.snapshotDir, "snapshot-dir", "", "directory for snapshots taken with P")
	f.BoolVar(&opts.vsync, "vsync", false, "wait for vertical blank when presenting")
	f.BoolVar(&opts.profile, "profile", false, "log frame rate and memory statistics every second")

	root.AddCommand(newConfigCommand(opts))
	return root
}

func newConfigCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the resolved configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			data, err := cfg.Encode()
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), string(data))
			return err
		},
	}
}

// loadConfig reads the config file, if any, and applies the flags the user actually set.
func loadConfig(cmd *cobra.Command, opts *options) (config.Config, error) {
	var cfg config.Config
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	cfg.Resolve(flagsFrom(cmd, opts))
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func flagsFrom(cmd *cobra.Command, opts *options) config.Flags {
	changed := func(name string) bool {
		return cmd.Flags().Changed(name)
	}
	flags := config.Flags{
		Sensor:      opts.sensor,
		PlaybackDir: opts.playbackDir,
		Width:       opts.width,
		Height:      opts.height,
		Align:       opts.align,
		Divisor:     opts.divisor,
		ShaderDir:   opts.shaderDir,
		SnapshotDir: opts.snapshotDir,
	}
	if changed("fullscreen") {
		flags.Fullscreen = &opts.fullscreen
	}
	if changed("no-mirror") {
		mirror := !opts.noMirror
		flags.Mirror = &mirror
	}
	if changed("skip-rows") {
		flags.SkipRows = &opts.skipRows
	}
	if changed("watch-shaders") {
		flags.WatchShaders = &opts.watchShaders
	}
	if changed("vsync") {
		flags.VSync = &opts.vsync
	}
	if changed("profile") {
		flags.Profile = &opts.profile
	}
	return flags
}
