package sensor

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

// Playback recordings are a directory of paired files. Video frames are named video-* with a
// png, jpg, jpeg, webp or tga extension; depth frames are named depth-*.png and hold the raw
// 11-bit disparity in a 16-bit grayscale channel. Pairs are matched by sorted name order.
const (
	PlaybackVideoPrefix = "video-"
	PlaybackDepthPrefix = "depth-"
)

var playbackVideoExts = []string{".png", ".jpg", ".jpeg", ".webp", ".tga"}

// imageDecoders maps a lowercase file extension to its decoder. The tga package registers
// with an empty magic string, so image.Decode must not be used while it is linked in.
var imageDecoders = map[string]func(io.Reader) (image.Image, error){
	".png":  png.Decode,
	".jpg":  jpeg.Decode,
	".jpeg": jpeg.Decode,
	".webp": webp.Decode,
	".tga":  tga.Decode,
}

// ErrEmptyRecording is returned when a playback directory holds no usable frame pairs.
var ErrEmptyRecording = errors.New("sensor: recording has no frames")

type playbackFrame struct {
	pixels []uint32
	raw    []uint16
}

// playbackSource loops over a recording decoded into memory at open time.
type playbackSource struct {
	frames []playbackFrame
	next   int
	ticker *time.Ticker
}

func newPlaybackSource(cfg *sensorConfig) (*playbackSource, error) {
	if cfg.playbackDir == "" {
		return nil, fmt.Errorf("%w: playback directory not set", ErrUnavailable)
	}
	videos, depths, err := listRecording(cfg.playbackDir)
	if err != nil {
		return nil, err
	}

	n := min(len(videos), len(depths))
	if n == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyRecording, cfg.playbackDir)
	}
	if len(videos) != len(depths) {
		log.Printf("[Sensor] playback %s: %d video and %d depth frames, using %d pairs", cfg.playbackDir, len(videos), len(depths), n)
	}

	frames := make([]playbackFrame, 0, n)
	for i := 0; i < n; i++ {
		vimg, err := decodeImageFile(videos[i])
		if err != nil {
			return nil, err
		}
		dimg, err := decodeImageFile(depths[i])
		if err != nil {
			return nil, err
		}
		frames = append(frames, playbackFrame{
			pixels: PackVideo(vimg, cfg.width, cfg.height),
			raw:    PackDepth(dimg, cfg.width, cfg.height),
		})
	}

	return &playbackSource{
		frames: frames,
		ticker: time.NewTicker(time.Duration(float64(time.Second) / cfg.frameRate)),
	}, nil
}

func listRecording(dir string) (videos, depths []string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("sensor: read recording: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := strings.ToLower(filepath.Ext(name))
		switch {
		case strings.HasPrefix(name, PlaybackVideoPrefix) && slices.Contains(playbackVideoExts, ext):
			videos = append(videos, filepath.Join(dir, name))
		case strings.HasPrefix(name, PlaybackDepthPrefix) && ext == ".png":
			depths = append(depths, filepath.Join(dir, name))
		}
	}
	slices.Sort(videos)
	slices.Sort(depths)
	return videos, depths, nil
}

func decodeImageFile(path string) (image.Image, error) {
	decode, ok := imageDecoders[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, fmt.Errorf("sensor: decode %s: unsupported image format", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("sensor: open %s: %w", path, err)
	}
	defer f.Close()

	img, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("sensor: decode %s: %w", path, err)
	}
	return img, nil
}

// PackVideo scales img to width x height and packs it as 0xFFRRGGBB pixels.
//
// Parameters:
//   - img: the source image
//   - width, height: the target size
//
// Returns:
//   - []uint32: the packed pixels, length width*height
func PackVideo(img image.Image, width, height int) []uint32 {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	if img.Bounds().Dx() == width && img.Bounds().Dy() == height {
		draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
	} else {
		draw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	}

	out := make([]uint32, width*height)
	for i := range out {
		p := dst.Pix[i*4 : i*4+4 : i*4+4]
		out[i] = 0xff000000 | uint32(p[0])<<16 | uint32(p[1])<<8 | uint32(p[2])
	}
	return out
}

// PackDepth scales img to width x height with nearest-neighbour sampling, so invalid pixels are
// never blended into valid ones, and returns the raw values clamped to RawDepthInvalid.
//
// Parameters:
//   - img: the source image, normally 16-bit grayscale
//   - width, height: the target size
//
// Returns:
//   - []uint16: the raw depth values, length width*height
func PackDepth(img image.Image, width, height int) []uint16 {
	dst := image.NewGray16(image.Rect(0, 0, width, height))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)

	out := make([]uint16, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := dst.Gray16At(x, y).Y
			out[y*width+x] = min(v, RawDepthInvalid)
		}
	}
	return out
}

// DepthImage converts raw depth values into a 16-bit grayscale image in the playback format.
//
// Parameters:
//   - raw: the raw values, length width*height
//   - width, height: the image size
//
// Returns:
//   - *image.Gray16: the image
func DepthImage(raw []uint16, width, height int) *image.Gray16 {
	img := image.NewGray16(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetGray16(x, y, color.Gray16{Y: raw[y*width+x]})
		}
	}
	return img
}

func (p *playbackSource) grab(ctx context.Context, video *VideoFrame, depth *DepthFrame) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-p.ticker.C:
	}

	f := p.frames[p.next]
	p.next = (p.next + 1) % len(p.frames)
	if len(video.Pixels) != len(f.pixels) || len(depth.Raw) != len(f.raw) {
		return fmt.Errorf("%w: playback frame of %d pixels", ErrFrameSize, len(f.pixels))
	}
	copy(video.Pixels, f.pixels)
	copy(depth.Raw, f.raw)
	return nil
}

func (p *playbackSource) close() error {
	p.ticker.Stop()
	return nil
}
