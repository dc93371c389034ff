package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/Carmen-Shannon/oxy-pointcloud/config"
	"github.com/Carmen-Shannon/oxy-pointcloud/engine"
	"github.com/Carmen-Shannon/oxy-pointcloud/engine/renderer"
	"github.com/Carmen-Shannon/oxy-pointcloud/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-pointcloud/engine/window"
	"github.com/Carmen-Shannon/oxy-pointcloud/pointcloud"
	"github.com/Carmen-Shannon/oxy-pointcloud/sensor"
)

// run opens the sensor, window and GPU, then blocks in the window message loop until the
// window closes or the process is interrupted.
func run(ctx context.Context, cfg config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	align, err := pointcloud.ParseAlignment(cfg.Color.Align)
	if err != nil {
		return err
	}
	kind, err := sensor.ParseKind(cfg.Sensor.Kind)
	if err != nil {
		return err
	}

	dev, err := sensor.Open(kind,
		sensor.WithMirror(cfg.MirrorEnabled()),
		sensor.WithFrameRate(cfg.Sensor.FrameRate),
		sensor.WithWorkers(cfg.Sensor.Workers),
		sensor.WithPlaybackDir(cfg.Sensor.PlaybackDir),
		sensor.WithDeviceIndex(cfg.Sensor.DeviceIndex),
	)
	if err != nil {
		return err
	}

	win, err := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithWidth(cfg.Window.Width),
		window.WithHeight(cfg.Window.Height),
		window.WithFullscreen(cfg.Window.Fullscreen),
	)
	if err != nil {
		return err
	}
	defer win.Close()

	presentMode := renderer.PresentModeUncapped
	if cfg.Window.VSync {
		presentMode = renderer.PresentModeVSync
	}
	r, err := renderer.NewRenderer(renderer.BackendTypeWGPU, win, renderer.WithPresentMode(presentMode))
	if err != nil {
		return fmt.Errorf("renderer: %w", err)
	}

	loader := pointcloud.EmbeddedShaders()
	if cfg.Shaders.Dir != "" {
		loader = pointcloud.DirShaders(cfg.Shaders.Dir)
	}

	scene, err := pointcloud.NewScene(r, dev,
		pointcloud.WithViewport(win.Width(), win.Height()),
		pointcloud.WithShaderLoader(loader),
		pointcloud.WithSnapshotDir(cfg.Snapshot.Dir),
		pointcloud.WithColorBuilder(pointcloud.ColorBuilder{
			SkipRows:  cfg.SkipRowsValue(),
			Divisor:   cfg.Color.Divisor,
			Alignment: align,
		}),
	)
	if err != nil {
		r.Release()
		return err
	}

	if err := dev.Start(ctx); err != nil {
		scene.Release()
		r.Release()
		return err
	}
	defer func() {
		if err := dev.Stop(); err != nil {
			log.Printf("[Main] sensor stop: %v", err)
		}
	}()

	eng := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithProfiling(cfg.Profile),
		engine.WithTickRate(1),
	)

	if cfg.Shaders.Watch {
		w, err := shader.NewWatcher(cfg.Shaders.Dir)
		if err != nil {
			scene.Release()
			r.Release()
			return err
		}
		defer w.Close()
		go func() {
			for range w.Changes() {
				scene.RequestReload()
			}
		}()
		log.Printf("[Main] watching %s for shader changes", w.Dir())
	}

	win.SetKeyDownCallback(scene.HandleKey)
	win.SetScrollCallback(scene.HandleScroll)

	eng.SetResizeCallback(func(width, height int) {
		if err := r.Resize(width, height); err != nil {
			log.Printf("[Main] resize to %dx%d failed: %v", width, height, err)
			return
		}
		scene.Resize(width, height)
	})
	eng.SetRenderCallback(func(float32) {
		if err := scene.Render(); err != nil {
			log.Printf("[Main] frame dropped: %v", err)
		}
	})
	eng.SetTickCallback(func(float32) {
		if !cfg.Profile {
			return
		}
		ss, ds := scene.Stats(), dev.Stats()
		log.Printf("[Main] frames drawn=%d skipped=%d failed=%d | sensor published=%d dropped=%d errors=%d",
			ss.Drawn, ss.Skipped, ss.Failed, ds.Published, ds.Dropped, ds.Errors)
	})
	eng.SetShutdownCallback(func() {
		scene.Release()
		r.Release()
	})

	go func() {
		<-ctx.Done()
		eng.Quit()
	}()

	eng.Run()
	return nil
}
