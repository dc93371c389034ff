package pointcloud

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-pointcloud/common"
	"github.com/Carmen-Shannon/oxy-pointcloud/engine/model"
	"github.com/Carmen-Shannon/oxy-pointcloud/engine/renderer"
	"github.com/Carmen-Shannon/oxy-pointcloud/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-pointcloud/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-pointcloud/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-pointcloud/sensor"
	"github.com/chewxy/math32"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFrame struct {
	r *fakeRenderer
}

func (f *fakeFrame) DrawPoints(key string, mesh bind_group_provider.BindGroupProvider, groups []bind_group_provider.BindGroupProvider) error {
	f.r.draws++
	f.r.lastDrawCount = mesh.VertexCount()
	return f.r.drawErr
}

type fakeRenderer struct {
	pipelines     map[string]pipeline.Pipeline
	vertexWrites  []bind_group_provider.VertexWrite
	bufferWrites  []bind_group_provider.BufferWrite
	replaced      int
	draws         int
	frames        int
	lastDrawCount int
	drawErr       error
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{pipelines: make(map[string]pipeline.Pipeline)}
}

func (r *fakeRenderer) Pipeline(key string) pipeline.Pipeline { return r.pipelines[key] }

func (r *fakeRenderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	for _, p := range pipelines {
		if err := p.Validate(); err != nil {
			return err
		}
		r.pipelines[p.PipelineKey()] = p
	}
	return nil
}

func (r *fakeRenderer) ReplacePipeline(p pipeline.Pipeline) error {
	r.replaced++
	r.pipelines[p.PipelineKey()] = p
	return nil
}

func (r *fakeRenderer) BindGroupLayoutDescriptor(key string, group int) (wgpu.BindGroupLayoutDescriptor, error) {
	p := r.pipelines[key]
	if p == nil {
		return wgpu.BindGroupLayoutDescriptor{}, renderer.ErrPipelineNotFound
	}
	return p.Shader(shader.ShaderTypeVertex).BindGroupLayoutDescriptor(group), nil
}

func (r *fakeRenderer) InitVertexStreams(provider bind_group_provider.BindGroupProvider, sizes map[int]uint64) error {
	for slot, size := range sizes {
		provider.SetVertexBuffer(slot, &wgpu.Buffer{}, size)
	}
	return nil
}

func (r *fakeRenderer) InitBindGroup(provider bind_group_provider.BindGroupProvider, desc wgpu.BindGroupLayoutDescriptor, _ map[int]wgpu.BufferUsage, _ map[int]uint64) error {
	for _, e := range desc.Entries {
		provider.SetBuffer(int(e.Binding), &wgpu.Buffer{})
	}
	return nil
}

func (r *fakeRenderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	r.bufferWrites = append(r.bufferWrites[:0], writes...)
}

func (r *fakeRenderer) WriteVertexStreams(writes []bind_group_provider.VertexWrite) error {
	r.vertexWrites = append(r.vertexWrites[:0], writes...)
	return nil
}

func (r *fakeRenderer) RenderFrame(fn func(renderer.Frame) error) error {
	r.frames++
	return fn(&fakeFrame{r: r})
}

type fakeSensor struct {
	width, height int
	mirror        bool
	frame         *sensor.Frame
}

func newFakeSensor(width, height int) *fakeSensor {
	return &fakeSensor{width: width, height: height, mirror: true}
}

func (s *fakeSensor) Kind() sensor.Kind              { return sensor.KindSynthetic }
func (s *fakeSensor) Width() int                     { return s.width }
func (s *fakeSensor) Height() int                    { return s.height }
func (s *fakeSensor) Start(ctx context.Context) error { return nil }
func (s *fakeSensor) Stop() error                    { return nil }
func (s *fakeSensor) SetMirror(enabled bool)         { s.mirror = enabled }
func (s *fakeSensor) Mirror() bool                   { return s.mirror }
func (s *fakeSensor) Latest() *sensor.Frame          { return s.frame }
func (s *fakeSensor) Stats() sensor.Stats            { return sensor.Stats{} }

func (s *fakeSensor) publish(pixel uint32) {
	f := &sensor.Frame{
		Seq:       1,
		Video:     sensor.NewVideoFrame(s.width, s.height),
		Positions: make([]float32, s.width*s.height*3),
	}
	for i := range f.Video.Pixels {
		f.Video.Pixels[i] = pixel
	}
	s.frame = f
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func newTestScene(t *testing.T, options ...SceneBuilderOption) (*Scene, *fakeRenderer, *fakeSensor, *fakeClock) {
	t.Helper()
	r := newFakeRenderer()
	s := newFakeSensor(4, 3)
	clock := &fakeClock{t: time.Unix(1700000000, 0)}
	opts := append([]SceneBuilderOption{
		WithClock(clock.now),
		WithViewport(800, 600),
		WithColorBuilder(ColorBuilder{SkipRows: 1, Divisor: DefaultDivisor}),
	}, options...)
	sc, err := NewScene(r, s, opts...)
	require.NoError(t, err)
	return sc, r, s, clock
}

func TestNewScene_SizesStreamsForSensor(t *testing.T) {
	sc, r, _, _ := newTestScene(t)

	mesh := sc.points.MeshProvider()
	assert.Equal(t, 12, mesh.VertexCount())
	assert.Equal(t, uint64(12*model.PositionStride), mesh.VertexBufferSize(model.PositionSlot))
	assert.Equal(t, uint64(12*model.ColorStride), mesh.VertexBufferSize(model.ColorSlot))
	assert.NotNil(t, sc.camera.BindGroupProvider().Buffer(0))
	assert.NotNil(t, r.Pipeline(PipelineKey))
	assert.Equal(t, wgpu.PrimitiveTopologyPointList, r.Pipeline(PipelineKey).Topology())
	assert.Len(t, sc.Colors(), 12*4)
}

func TestNewScene_ShaderLoadError(t *testing.T) {
	boom := errors.New("no shaders")
	_, err := NewScene(newFakeRenderer(), newFakeSensor(2, 2), WithShaderLoader(func() (shader.Shader, shader.Shader, error) {
		return nil, nil, boom
	}))
	assert.ErrorIs(t, err, boom)
}

func TestRender_SkipsWithoutFrame(t *testing.T) {
	sc, r, _, _ := newTestScene(t)

	require.NoError(t, sc.Render())
	assert.Equal(t, 0, r.frames)
	assert.Empty(t, r.vertexWrites)
	assert.Equal(t, SceneStats{Skipped: 1}, sc.Stats())
}

func TestRender_UploadsStreamsAndDraws(t *testing.T) {
	sc, r, s, _ := newTestScene(t)
	s.publish(0xFF0080)

	require.NoError(t, sc.Render())

	require.Len(t, r.vertexWrites, 2)
	assert.Equal(t, model.PositionSlot, r.vertexWrites[0].Slot)
	assert.Len(t, r.vertexWrites[0].Data, 12*3*4)
	assert.Equal(t, model.ColorSlot, r.vertexWrites[1].Slot)
	assert.Len(t, r.vertexWrites[1].Data, 12*4*4)

	require.Len(t, r.bufferWrites, 1)
	assert.Len(t, r.bufferWrites[0].Data, 64)

	assert.Equal(t, 1, r.draws)
	assert.Equal(t, 12, r.lastDrawCount)
	assert.Equal(t, uint64(1), sc.Stats().Drawn)

	// one skipped row of four pixels in shift mode: the last four slots stay zero
	colors := sc.Colors()
	assert.InDelta(t, 2.55, colors[0], 1e-6)
	assert.InDelta(t, 1.28, colors[2], 1e-6)
	assert.Equal(t, float32(1), colors[7*4+3])
	assert.Equal(t, make([]float32, 16), []float32(colors[8*4:]))
}

func TestRender_DrawErrorCountsFailure(t *testing.T) {
	sc, r, s, _ := newTestScene(t)
	s.publish(0)
	r.drawErr = errors.New("lost device")

	assert.EqualError(t, sc.Render(), "lost device")
	assert.Equal(t, uint64(1), sc.Stats().Failed)
}

func TestRender_BadFrameSize(t *testing.T) {
	sc, r, s, _ := newTestScene(t)
	s.publish(0)
	s.frame.Video.Pixels = s.frame.Video.Pixels[:5]

	assert.ErrorIs(t, sc.Render(), ErrBufferSize)
	assert.Equal(t, 0, r.frames)
}

func TestRender_AdvancesRotation(t *testing.T) {
	sc, _, _, clock := newTestScene(t)
	assert.Equal(t, float32(InitialAngle), sc.Angle())

	clock.t = clock.t.Add(1500 * time.Millisecond)
	require.NoError(t, sc.Render())
	assert.InDelta(t, InitialAngle+math32.Sin(1.5)/500, sc.Angle(), 1e-6)

	sc.HandleKey(common.KeySpace)
	clock.t = clock.t.Add(time.Second)
	require.NoError(t, sc.Render())
	assert.InDelta(t, InitialAngle+math32.Sin(1.5)/500, sc.Angle(), 1e-6)
}

func TestModelMatrix_PlacesCloudInScreenSpace(t *testing.T) {
	sc, _, _, _ := newTestScene(t)

	origin := common.TransformPoint(sc.ModelMatrix(0), 0, 0, 0)
	assert.InDelta(t, 400, origin[0], 1e-4)
	assert.InDelta(t, 300, origin[1], 1e-4)
	assert.InDelta(t, 600, origin[2], 1e-4)

	x := common.TransformPoint(sc.ModelMatrix(0), 1, 0, 0)
	assert.InDelta(t, 800, x[0], 1e-3)

	// half a turn mirrors x around the center
	flipped := common.TransformPoint(sc.ModelMatrix(math32.Pi), 1, 0, 0)
	assert.InDelta(t, 0, flipped[0], 1e-3)
}

func TestResize_AppliedOnRender(t *testing.T) {
	sc, _, _, _ := newTestScene(t)

	sc.Resize(1024, 768)
	sc.Resize(0, 10)
	require.NoError(t, sc.Render())

	w, h := sc.camera.Viewport()
	assert.Equal(t, float32(1024), w)
	assert.Equal(t, float32(768), h)
}

func TestHandleKey_TogglesMirror(t *testing.T) {
	sc, _, s, _ := newTestScene(t)

	sc.HandleKey(common.KeyM)
	assert.False(t, s.mirror)
	sc.HandleKey(common.KeyM)
	assert.True(t, s.mirror)
}

func TestRequestReload_ReplacesPipeline(t *testing.T) {
	loads := 0
	embedded := EmbeddedShaders()
	sc, r, _, _ := newTestScene(t, WithShaderLoader(func() (shader.Shader, shader.Shader, error) {
		loads++
		return embedded()
	}))
	before := r.Pipeline(PipelineKey)

	sc.RequestReload()
	require.NoError(t, sc.Render())

	assert.Equal(t, 2, loads)
	assert.Equal(t, 1, r.replaced)
	assert.NotSame(t, before, r.Pipeline(PipelineKey))
	assert.Equal(t, uint64(1), sc.Stats().Reloads)

	// no request, no reload
	require.NoError(t, sc.Render())
	assert.Equal(t, 2, loads)
}

func TestRequestReload_FailureKeepsPipeline(t *testing.T) {
	fail := false
	embedded := EmbeddedShaders()
	sc, r, _, _ := newTestScene(t, WithShaderLoader(func() (shader.Shader, shader.Shader, error) {
		if fail {
			return nil, nil, errors.New("syntax error")
		}
		return embedded()
	}))
	before := r.Pipeline(PipelineKey)

	fail = true
	sc.RequestReload()
	require.NoError(t, sc.Render())
	assert.Same(t, before, r.Pipeline(PipelineKey))
	assert.Equal(t, 0, r.replaced)
}

func TestHandleKey_SnapshotWritesFiles(t *testing.T) {
	dir := t.TempDir()
	sc, _, s, _ := newTestScene(t, WithSnapshotDir(dir))
	sc.snapshotsDone = make(chan struct{}, 1)
	s.publish(0x336699)

	sc.HandleKey(common.KeyP)
	require.NoError(t, sc.Render())

	select {
	case <-sc.snapshotsDone:
	case <-time.After(5 * time.Second):
		t.Fatal("snapshot was not written")
	}
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, ".webp", filepath.Ext(e.Name()))
	}
}

func TestDirShaders(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"cloud.vert.wgsl", "cloud.frag.wgsl"} {
		data, err := os.ReadFile(filepath.Join("..", "assets", "shaders", name))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
	}

	vs, fs, err := DirShaders(dir)()
	require.NoError(t, err)
	assert.Equal(t, VertexShaderKey, vs.Key())
	assert.Equal(t, filepath.Join(dir, "cloud.vert.wgsl"), vs.Origin())
	assert.Equal(t, shader.ShaderTypeFragment, fs.ShaderType())

	_, _, err = DirShaders(t.TempDir())()
	assert.ErrorIs(t, err, os.ErrNotExist)
}
