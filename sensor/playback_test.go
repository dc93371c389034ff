package sensor

import (
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func writeImage(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		require.NoError(t, png.Encode(f, img))
	case ".jpg", ".jpeg":
		require.NoError(t, jpeg.Encode(f, img, &jpeg.Options{Quality: 100}))
	case ".webp":
		require.NoError(t, nativewebp.Encode(f, img, nil))
	case ".tga":
		require.NoError(t, tga.Encode(f, img))
	default:
		t.Fatalf("no encoder for %s", path)
	}
}

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestPackVideo_SameSize(t *testing.T) {
	px := PackVideo(solid(2, 2, color.RGBA{R: 0xff, G: 0x00, B: 0x80, A: 0xff}), 2, 2)
	assert.Equal(t, []uint32{0xffff0080, 0xffff0080, 0xffff0080, 0xffff0080}, px)
}

func TestPackVideo_Scales(t *testing.T) {
	px := PackVideo(solid(8, 6, color.RGBA{R: 10, G: 20, B: 30, A: 0xff}), 4, 3)
	require.Len(t, px, 12)
	for _, p := range px {
		assert.Equal(t, uint32(0xff0a141e), p)
	}
}

func TestPackDepth_ClampsAndScales(t *testing.T) {
	raw := []uint16{100, 3000, 700, 2047}
	px := PackDepth(DepthImage(raw, 2, 2), 4, 4)
	require.Len(t, px, 16)
	assert.Equal(t, uint16(100), px[0])
	assert.Equal(t, uint16(RawDepthInvalid), px[3])
	assert.Equal(t, uint16(700), px[15-3])
	assert.Equal(t, uint16(RawDepthInvalid), px[15])
}

func TestPlayback_LoopsRecording(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "video-0001.png"), solid(4, 4, color.RGBA{R: 1, A: 0xff}))
	writePNG(t, filepath.Join(dir, "video-0002.png"), solid(4, 4, color.RGBA{R: 2, A: 0xff}))
	raw := make([]uint16, 16)
	for i := range raw {
		raw[i] = 800
	}
	writePNG(t, filepath.Join(dir, "depth-0001.png"), DepthImage(raw, 4, 4))
	writePNG(t, filepath.Join(dir, "depth-0002.png"), DepthImage(raw, 4, 4))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	src, err := newPlaybackSource(&sensorConfig{width: 4, height: 4, frameRate: 1000, playbackDir: dir})
	require.NoError(t, err)
	defer src.close()
	require.Len(t, src.frames, 2)

	video, depth := NewVideoFrame(4, 4), NewDepthFrame(4, 4)
	for _, want := range []uint32{0xff010000, 0xff020000, 0xff010000} {
		require.NoError(t, src.grab(context.Background(), video, depth))
		assert.Equal(t, want, video.Pixels[0])
		assert.Equal(t, uint16(800), depth.Raw[5])
	}
}

func TestPlayback_Unavailable(t *testing.T) {
	_, err := Open(KindPlayback)
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = Open(KindPlayback, WithPlaybackDir(t.TempDir()))
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestDecodeImageFile_PNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "video-0001.png")
	writePNG(t, path, solid(2, 2, color.RGBA{R: 0xff, B: 0x80, A: 0xff}))

	img, err := decodeImageFile(path)
	require.NoError(t, err)
	assert.Equal(t, []uint32{0xffff0080, 0xffff0080, 0xffff0080, 0xffff0080}, PackVideo(img, 2, 2))
}

func TestDecodeImageFile_Unsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "video-0001.bmp")
	require.NoError(t, os.WriteFile(path, []byte("BM"), 0o644))

	_, err := decodeImageFile(path)
	assert.ErrorContains(t, err, "unsupported image format")
}

func TestPlayback_VideoFormats(t *testing.T) {
	want := color.RGBA{R: 200, G: 100, B: 50, A: 0xff}
	tests := []struct {
		name  string
		ext   string
		delta float64
	}{
		{name: "png", ext: ".png"},
		{name: "jpg", ext: ".jpg", delta: 4},
		{name: "jpeg uppercase", ext: ".JPEG", delta: 4},
		{name: "webp", ext: ".webp"},
		{name: "tga", ext: ".tga"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeImage(t, filepath.Join(dir, "video-0001"+tt.ext), solid(4, 4, want))
			raw := make([]uint16, 16)
			for i := range raw {
				raw[i] = 640
			}
			writePNG(t, filepath.Join(dir, "depth-0001.png"), DepthImage(raw, 4, 4))

			src, err := newPlaybackSource(&sensorConfig{width: 4, height: 4, frameRate: 1000, playbackDir: dir})
			require.NoError(t, err)
			defer src.close()
			require.Len(t, src.frames, 1)

			p := src.frames[0].pixels[5]
			assert.Equal(t, uint32(0xff), p>>24)
			assert.InDelta(t, float64(want.R), float64(p>>16&0xff), tt.delta)
			assert.InDelta(t, float64(want.G), float64(p>>8&0xff), tt.delta)
			assert.InDelta(t, float64(want.B), float64(p&0xff), tt.delta)
			assert.Equal(t, uint16(640), src.frames[0].raw[5])
		})
	}
}
