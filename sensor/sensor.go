package sensor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// Sensor is a running source of matched video and depth frames.
type Sensor interface {
	// Kind returns the backend this sensor was opened with.
	Kind() Kind

	// Width returns the frame width in pixels.
	Width() int

	// Height returns the frame height in pixels.
	Height() int

	// Start launches the capture goroutine. It returns once capture is running; the goroutine
	// exits when ctx is cancelled or Stop is called.
	//
	// Parameters:
	//   - ctx: the lifetime of the capture goroutine
	//
	// Returns:
	//   - error: ErrClosed after Stop, or an error if already started
	Start(ctx context.Context) error

	// Stop halts capture, waits for the capture goroutine and releases the backend.
	//
	// Returns:
	//   - error: an error from the backend's release
	Stop() error

	// SetMirror enables or disables horizontal flipping of both streams.
	SetMirror(enabled bool)

	// Mirror reports whether horizontal flipping is enabled.
	Mirror() bool

	// Latest returns the newest frame, or nil if none has been captured yet. The returned frame
	// remains valid and unchanged until the next call to Latest. Latest must be called from a
	// single consumer goroutine.
	Latest() *Frame

	// Stats returns the capture counters.
	Stats() Stats
}

// source is a backend that fills caller-owned frames.
type source interface {
	// grab blocks until the next frame is available and writes it into video and depth.
	grab(ctx context.Context, video *VideoFrame, depth *DepthFrame) error
	// close releases the backend.
	close() error
}

var _ Sensor = &sensor{}

type sensor struct {
	kind      Kind
	width     int
	height    int
	src       source
	converter DepthConverter

	mirror atomic.Bool
	inbox  Mailbox[*Frame]
	free   chan *Frame
	errs   atomic.Uint64
	seq    uint64

	// current is owned by the consumer goroutine.
	current *Frame

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	started bool
	stopped bool

	retryDelay time.Duration
}

// Open creates a Sensor for the given backend. The sensor is idle until Start is called.
//
// Parameters:
//   - kind: the backend
//   - options: functional options
//
// Returns:
//   - Sensor: the sensor
//   - error: an error wrapping ErrUnavailable if the backend cannot be opened
func Open(kind Kind, options ...SensorBuilderOption) (Sensor, error) {
	cfg := newSensorConfig()
	for _, option := range options {
		option(cfg)
	}

	var (
		src source
		err error
	)
	switch kind {
	case KindSynthetic, "":
		kind = KindSynthetic
		src = newSyntheticSource(cfg)
	case KindPlayback:
		src, err = newPlaybackSource(cfg)
	case KindFreenect:
		src, err = newFreenectSource(cfg)
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrUnavailable, kind)
	}
	if err != nil {
		if errors.Is(err, ErrUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, kind, err)
	}

	s := &sensor{
		kind:       kind,
		width:      cfg.width,
		height:     cfg.height,
		src:        src,
		converter:  NewDepthConverter(cfg.workers),
		free:       make(chan *Frame, 3),
		retryDelay: 100 * time.Millisecond,
	}
	s.mirror.Store(cfg.mirror)
	log.Printf("[Sensor] opened %s backend at %dx%d (mirror=%v)", kind, cfg.width, cfg.height, cfg.mirror)
	return s, nil
}

func (s *sensor) Kind() Kind {
	return s.kind
}

func (s *sensor) Width() int {
	return s.width
}

func (s *sensor) Height() int {
	return s.height
}

func (s *sensor) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return ErrClosed
	}
	if s.started {
		return fmt.Errorf("sensor: %s already started", s.kind)
	}
	s.started = true

	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	go s.run(ctx)
	return nil
}

func (s *sensor) Stop() error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.stopped = true
	cancel, done := s.cancel, s.done
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
	if err := s.src.close(); err != nil {
		return fmt.Errorf("sensor: close %s: %w", s.kind, err)
	}
	return nil
}

func (s *sensor) SetMirror(enabled bool) {
	s.mirror.Store(enabled)
}

func (s *sensor) Mirror() bool {
	return s.mirror.Load()
}

func (s *sensor) Latest() *Frame {
	if f, ok := s.inbox.Take(); ok {
		if s.current != nil {
			s.release(s.current)
		}
		s.current = f
	}
	return s.current
}

func (s *sensor) Stats() Stats {
	return Stats{
		Published: s.inbox.Published(),
		Dropped:   s.inbox.Dropped(),
		Errors:    s.errs.Load(),
	}
}

// run is the capture loop. Grab failures are counted, logged and retried after a short delay;
// frames are never queued behind a slow consumer.
func (s *sensor) run(ctx context.Context) {
	defer close(s.done)

	depth := NewDepthFrame(s.width, s.height)
	for ctx.Err() == nil {
		f := s.acquire()
		if err := s.capture(ctx, f, depth); err != nil {
			s.release(f)
			if ctx.Err() != nil {
				return
			}
			s.errs.Add(1)
			log.Printf("[Sensor] %s frame dropped: %v", s.kind, err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(s.retryDelay):
			}
			continue
		}

		s.seq++
		f.Seq = s.seq
		if old, replaced := s.inbox.Put(f); replaced {
			s.release(old)
		}
	}
}

func (s *sensor) capture(ctx context.Context, f *Frame, depth *DepthFrame) error {
	if err := s.src.grab(ctx, f.Video, depth); err != nil {
		return err
	}
	if s.mirror.Load() {
		MirrorRows(f.Video.Pixels, s.width)
		MirrorRows(depth.Raw, s.width)
	}
	return s.converter.Convert(depth, f.Positions)
}

func (s *sensor) acquire() *Frame {
	select {
	case f := <-s.free:
		return f
	default:
		return newFrame(s.width, s.height)
	}
}

func (s *sensor) release(f *Frame) {
	select {
	case s.free <- f:
	default:
	}
}
