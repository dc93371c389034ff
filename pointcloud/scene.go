package pointcloud

import (
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-pointcloud/common"
	"github.com/Carmen-Shannon/oxy-pointcloud/engine/camera"
	"github.com/Carmen-Shannon/oxy-pointcloud/engine/model"
	"github.com/Carmen-Shannon/oxy-pointcloud/engine/renderer"
	"github.com/Carmen-Shannon/oxy-pointcloud/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-pointcloud/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-pointcloud/engine/transform"
	"github.com/Carmen-Shannon/oxy-pointcloud/sensor"
	"github.com/Carmen-Shannon/oxy-pointcloud/snapshot"
	"github.com/cogentcore/webgpu/wgpu"
)

// Placement of the cloud in screen space: centered, pushed 600 units towards the viewer and
// scaled from meters to pixels.
const (
	CloudDepth float32 = 600
	CloudScale float32 = 400
)

// PipelineKey is the renderer cache key of the point pipeline.
const PipelineKey = "pointcloud"

// Renderer is the part of renderer.Renderer the scene draws with.
type Renderer interface {
	Pipeline(key string) pipeline.Pipeline
	RegisterPipelines(pipelines ...pipeline.Pipeline) error
	ReplacePipeline(p pipeline.Pipeline) error
	BindGroupLayoutDescriptor(pipelineKey string, group int) (wgpu.BindGroupLayoutDescriptor, error)
	InitVertexStreams(provider bind_group_provider.BindGroupProvider, sizes map[int]uint64) error
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferUsageOverrides map[int]wgpu.BufferUsage, bufferSizeOverrides map[int]uint64) error
	WriteBuffers(writes []bind_group_provider.BufferWrite)
	WriteVertexStreams(writes []bind_group_provider.VertexWrite) error
	RenderFrame(fn func(renderer.Frame) error) error
}

// SceneStats counts what happened to render frames.
type SceneStats struct {
	// Drawn is the number of frames that issued the point draw.
	Drawn uint64
	// Skipped is the number of frames dropped because no sensor frame was available yet.
	Skipped uint64
	// Failed is the number of frames dropped because of an upload or draw error.
	Failed uint64
	// Reloads is the number of successful shader reloads.
	Reloads uint64
}

// Scene draws the live point cloud of one sensor. Render, Resize, HandleKey and RequestReload
// may be called from different goroutines; all GPU work happens inside Render.
type Scene struct {
	renderer Renderer
	sensor   sensor.Sensor
	camera   camera.Camera
	points   model.Model

	builder  ColorBuilder
	colors   ColorBuffer
	rotation *Rotation
	stack    *transform.Stack
	loader   ShaderLoader

	snapshotDir string
	start       time.Time
	now         func() time.Time

	// Cross-goroutine requests, applied at the start of the next Render.
	width         atomic.Int32
	height        atomic.Int32
	paused        atomic.Bool
	reload        atomic.Bool
	snapshot      atomic.Bool
	snapshotsDone chan struct{}

	drawn, skipped, failed, reloads atomic.Uint64
}

// NewScene creates the GPU resources of the point cloud: the point pipeline, the two vertex
// streams sized for the sensor resolution and the uniform bind group.
//
// Parameters:
//   - r: the renderer to draw with
//   - s: the sensor providing frames
//   - options: variadic list of SceneBuilderOption functions
//
// Returns:
//   - *Scene: the scene
//   - error: a shader, pipeline or buffer allocation error
func NewScene(r Renderer, s sensor.Sensor, options ...SceneBuilderOption) (*Scene, error) {
	sc := &Scene{
		renderer:    r,
		sensor:      s,
		builder:     NewColorBuilder(),
		rotation:    NewRotation(),
		stack:       transform.NewStack(),
		loader:      EmbeddedShaders(),
		snapshotDir: "snapshots",
		now:         time.Now,
	}
	sc.width.Store(640)
	sc.height.Store(480)

	for _, opt := range options {
		opt(sc)
	}

	res := common.Resolution{Width: s.Width(), Height: s.Height()}
	sc.colors = NewColorBuffer(res.Width, res.Height)
	sc.points = model.NewModel(model.WithName("pointcloud"), model.WithVertexCount(res.PixelCount()))
	if sc.camera == nil {
		sc.camera = camera.NewCamera(camera.WithViewport(int(sc.width.Load()), int(sc.height.Load())))
	}

	vs, fs, err := sc.loader()
	if err != nil {
		return nil, err
	}
	p := pipeline.NewPipeline(PipelineKey,
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
		pipeline.WithTopology(wgpu.PrimitiveTopologyPointList),
	)
	if err := r.RegisterPipelines(p); err != nil {
		return nil, err
	}

	if err := r.InitVertexStreams(sc.points.MeshProvider(), sc.points.StreamSizes()); err != nil {
		return nil, err
	}

	desc, err := r.BindGroupLayoutDescriptor(PipelineKey, 0)
	if err != nil {
		return nil, err
	}
	if err := r.InitBindGroup(sc.camera.BindGroupProvider(), desc, nil, nil); err != nil {
		return nil, err
	}

	sc.start = sc.now()
	return sc, nil
}

// Render performs one frame: advance the rotation, rebuild and upload both vertex streams from
// the latest sensor frame, write the MVP uniform and draw every sensor pixel as a point. A
// missing sensor frame or a failed upload drops the frame.
//
// Returns:
//   - error: the reason the frame was dropped, nil when it was drawn or skipped for lack of data
func (sc *Scene) Render() error {
	sc.applyRequests()

	angle := sc.rotation.Advance(sc.now().Sub(sc.start).Milliseconds())

	frame := sc.sensor.Latest()
	if frame == nil || frame.Video == nil {
		sc.skipped.Add(1)
		return nil
	}

	if err := sc.upload(frame, angle); err != nil {
		sc.failed.Add(1)
		return err
	}

	if sc.snapshot.CompareAndSwap(true, false) {
		sc.writeSnapshot(frame)
	}

	err := sc.renderer.RenderFrame(func(f renderer.Frame) error {
		return f.DrawPoints(PipelineKey, sc.points.MeshProvider(), []bind_group_provider.BindGroupProvider{
			sc.camera.BindGroupProvider(),
		})
	})
	if err != nil {
		sc.failed.Add(1)
		return err
	}
	sc.drawn.Add(1)
	return nil
}

func (sc *Scene) upload(frame *sensor.Frame, angle float32) error {
	video := frame.Video
	if err := sc.builder.Build(sc.colors, video.Pixels, video.Width, video.Height); err != nil {
		return err
	}
	if err := sc.points.ValidateStreams(frame.Positions, sc.colors); err != nil {
		return err
	}

	mesh := sc.points.MeshProvider()
	if err := sc.renderer.WriteVertexStreams([]bind_group_provider.VertexWrite{
		{Provider: mesh, Slot: model.PositionSlot, Data: common.SliceToBytes(frame.Positions)},
		{Provider: mesh, Slot: model.ColorSlot, Data: common.SliceToBytes(sc.colors)},
	}); err != nil {
		return fmt.Errorf("upload point streams: %w", err)
	}

	uniform := sc.camera.Uniform(sc.ModelMatrix(angle))
	sc.renderer.WriteBuffers([]bind_group_provider.BufferWrite{
		{Provider: sc.camera.BindGroupProvider(), Binding: 0, Data: uniform.Marshal()},
	})
	return nil
}

// ModelMatrix returns translate(w/2, h/2, CloudDepth) * scale(CloudScale) * rotateY(angle) for
// the current viewport.
//
// Parameters:
//   - angle: the rotation about the Y axis in radians
//
// Returns:
//   - common.Mat4: the model matrix
func (sc *Scene) ModelMatrix(angle float32) common.Mat4 {
	w, h := sc.camera.Viewport()
	sc.stack.Reset()
	sc.stack.Push()
	sc.stack.Translate(w/2, h/2, CloudDepth)
	sc.stack.Scale(CloudScale)
	sc.stack.RotateY(angle)
	m := sc.stack.Top()
	sc.stack.Pop()
	return m
}

// applyRequests folds the requests made from other goroutines into render-goroutine state.
func (sc *Scene) applyRequests() {
	if w, h := sc.camera.Viewport(); int32(w) != sc.width.Load() || int32(h) != sc.height.Load() {
		sc.camera.SetViewport(int(sc.width.Load()), int(sc.height.Load()))
	}
	sc.rotation.SetPaused(sc.paused.Load())
	if sc.reload.CompareAndSwap(true, false) {
		if err := sc.reloadShaders(); err != nil {
			log.Printf("[Scene] shader reload failed, keeping previous pipeline: %v", err)
		} else {
			log.Printf("[Scene] shaders reloaded")
		}
	}
}

func (sc *Scene) reloadShaders() error {
	vs, fs, err := sc.loader()
	if err != nil {
		return err
	}
	current := sc.renderer.Pipeline(PipelineKey)
	if current == nil {
		return fmt.Errorf("%w: %q", renderer.ErrPipelineNotFound, PipelineKey)
	}
	if err := sc.renderer.ReplacePipeline(current.WithShaders(vs, fs)); err != nil {
		return err
	}
	sc.reloads.Add(1)
	return nil
}

// writeSnapshot copies the frame and color buffer and encodes them off the render goroutine.
func (sc *Scene) writeSnapshot(frame *sensor.Frame) {
	pixels := append([]uint32(nil), frame.Video.Pixels...)
	colors := append([]float32(nil), sc.colors...)
	width, height := frame.Video.Width, frame.Video.Height
	dir, at := sc.snapshotDir, sc.now()
	done := sc.snapshotsDone

	go func() {
		if done != nil {
			defer func() { done <- struct{}{} }()
		}
		paths, err := snapshot.Write(dir, at, pixels, colors, width, height)
		if err != nil {
			log.Printf("[Scene] snapshot failed: %v", err)
			return
		}
		log.Printf("[Scene] snapshot written: %s, %s", paths.Video, paths.Colors)
	}()
}

// Resize records a new viewport size. It is applied on the next Render; zero sizes are ignored.
//
// Parameters:
//   - width, height: the new size in pixels
func (sc *Scene) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	sc.width.Store(int32(width))
	sc.height.Store(int32(height))
}

// HandleKey applies a key binding: Space pauses the rotation, M toggles sensor mirroring and
// P requests a snapshot.
//
// Parameters:
//   - keyCode: the key code from the window
func (sc *Scene) HandleKey(keyCode uint32) {
	switch keyCode {
	case common.KeySpace:
		paused := !sc.paused.Load()
		sc.paused.Store(paused)
		log.Printf("[Scene] rotation paused: %t", paused)
	case common.KeyM:
		mirror := !sc.sensor.Mirror()
		sc.sensor.SetMirror(mirror)
		log.Printf("[Scene] mirror: %t", mirror)
	case common.KeyP:
		sc.snapshot.Store(true)
	}
}

// HandleScroll widens or narrows the field of view.
//
// Parameters:
//   - delta: the scroll offset, positive zooms in
func (sc *Scene) HandleScroll(delta float32) {
	sc.camera.SetFov(sc.camera.Fov() - delta*0.02)
}

// RequestReload asks the render goroutine to rebuild the pipeline from the shader loader.
func (sc *Scene) RequestReload() {
	sc.reload.Store(true)
}

// Angle returns the current rotation angle.
func (sc *Scene) Angle() float32 {
	return sc.rotation.Angle()
}

// Colors returns the scene-owned color buffer. It must only be read on the render goroutine.
func (sc *Scene) Colors() ColorBuffer {
	return sc.colors
}

// Stats returns the frame counters.
func (sc *Scene) Stats() SceneStats {
	return SceneStats{
		Drawn:   sc.drawn.Load(),
		Skipped: sc.skipped.Load(),
		Failed:  sc.failed.Load(),
		Reloads: sc.reloads.Load(),
	}
}

// Release frees the vertex streams and the uniform bind group. Call it from the render
// goroutine after the last Render.
func (sc *Scene) Release() {
	sc.points.MeshProvider().Release()
	sc.camera.BindGroupProvider().Release()
}
