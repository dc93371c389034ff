package sensor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForFrame(t *testing.T, s Sensor) *Frame {
	t.Helper()
	var f *Frame
	require.Eventually(t, func() bool {
		f = s.Latest()
		return f != nil
	}, 2*time.Second, 5*time.Millisecond)
	return f
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("playback")
	require.NoError(t, err)
	assert.Equal(t, KindPlayback, k)

	k, err = ParseKind("")
	require.NoError(t, err)
	assert.Equal(t, KindSynthetic, k)

	_, err = ParseKind("kinect2")
	assert.Error(t, err)
}

func TestOpen_UnknownKind(t *testing.T) {
	_, err := Open(Kind("lidar"))
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestSynthetic_PublishesFrames(t *testing.T) {
	s, err := Open(KindSynthetic, WithSize(64, 48), WithFrameRate(200), WithWorkers(2))
	require.NoError(t, err)
	assert.Equal(t, 64, s.Width())
	assert.Equal(t, 48, s.Height())
	assert.True(t, s.Mirror())

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	f := waitForFrame(t, s)
	assert.Len(t, f.Video.Pixels, 64*48)
	assert.Len(t, f.Positions, 64*48*3)
	assert.NotZero(t, f.Seq)

	// The dome center has a valid reading in front of the camera.
	center := (24*64 + 32) * 3
	assert.Greater(t, f.Positions[center+2], float32(0))

	// A frame stays stable until the next Latest call.
	seq := f.Seq
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, seq, f.Seq)

	require.Eventually(t, func() bool { return s.Latest().Seq > seq }, 2*time.Second, 5*time.Millisecond)
	assert.NotZero(t, s.Stats().Published)
}

func TestSensor_StartAfterStop(t *testing.T) {
	s, err := Open(KindSynthetic, WithSize(8, 8))
	require.NoError(t, err)

	require.NoError(t, s.Start(context.Background()))
	assert.Error(t, s.Start(context.Background()))
	require.NoError(t, s.Stop())
	require.NoError(t, s.Stop())
	assert.ErrorIs(t, s.Start(context.Background()), ErrClosed)
}

func TestSensor_MirrorFlipsVideo(t *testing.T) {
	src := &syntheticSource{width: 8, height: 4}
	plain := NewVideoFrame(8, 4)
	require.NoError(t, src.render(0, plain, NewDepthFrame(8, 4)))

	s := &sensor{
		width:     8,
		height:    4,
		src:       &fixedSource{video: plain.Pixels},
		converter: NewDepthConverter(1),
	}
	s.SetMirror(true)

	f := newFrame(8, 4)
	require.NoError(t, s.capture(context.Background(), f, NewDepthFrame(8, 4)))
	for y := 0; y < 4; y++ {
		for x := 0; x < 8; x++ {
			assert.Equal(t, plain.Pixels[y*8+x], f.Video.Pixels[y*8+7-x])
		}
	}
}

// fixedSource returns the same video frame every grab.
type fixedSource struct {
	video []uint32
}

func (f *fixedSource) grab(_ context.Context, video *VideoFrame, depth *DepthFrame) error {
	copy(video.Pixels, f.video)
	return nil
}

func (f *fixedSource) close() error {
	return nil
}
