package profiler

import (
	"log"
	"math"
	"runtime"
	"sync/atomic"
	"time"
)

// Stats is one reporting window's worth of frame and memory statistics.
type Stats struct {
	// FPS is the average number of frames per second over the window.
	FPS float64
	// HeapMB is the live heap size in megabytes.
	HeapMB float64
	// AllocRateMB is the heap allocation rate in megabytes per second.
	AllocRateMB float64
	// GCCount is the cumulative number of completed GC cycles.
	GCCount uint32
	// SysMB is the total memory obtained from the OS in megabytes.
	SysMB float64
}

// Profiler tracks frame rate and memory statistics for the render loop.
// Tick is called from the render goroutine; FPS may be read from any goroutine.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastTotalAlloc uint64
	logging        bool

	fpsBits atomic.Uint64
}

// NewProfiler creates a Profiler with a one second reporting window.
//
// Parameters:
//   - logging: if true, each completed window is written to the log
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(logging bool) *Profiler {
	return &Profiler{
		lastTime:       time.Now(),
		updateInterval: time.Second,
		logging:        logging,
	}
}

// SetLogging enables or disables logging of completed windows.
//
// Parameters:
//   - enabled: true to log stats every window
func (p *Profiler) SetLogging(enabled bool) {
	p.logging = enabled
}

// FPS returns the frame rate measured over the last completed window.
//
// Returns:
//   - float64: frames per second, 0 before the first window completes
func (p *Profiler) FPS() float64 {
	return math.Float64frombits(p.fpsBits.Load())
}

// Tick records one frame. When the reporting window has elapsed it computes Stats,
// publishes the new FPS value and optionally logs the window.
//
// Returns:
//   - Stats: the statistics of the window that just completed
//   - bool: true if a window completed on this tick
func (p *Profiler) Tick() (Stats, bool) {
	return p.tickAt(time.Now())
}

func (p *Profiler) tickAt(now time.Time) (Stats, bool) {
	p.frameCount++
	elapsed := now.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return Stats{}, false
	}

	runtime.ReadMemStats(&p.memStats)
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc

	s := Stats{
		FPS:         float64(p.frameCount) / elapsed.Seconds(),
		HeapMB:      float64(p.memStats.Alloc) / 1024 / 1024,
		AllocRateMB: float64(allocDelta) / 1024 / 1024 / elapsed.Seconds(),
		GCCount:     p.memStats.NumGC,
		SysMB:       float64(p.memStats.Sys) / 1024 / 1024,
	}
	p.fpsBits.Store(math.Float64bits(s.FPS))

	if p.logging {
		log.Printf("[Profiler] FPS: %.2f | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d | Sys: %.2f MB",
			s.FPS, s.HeapMB, s.AllocRateMB, s.GCCount, s.SysMB)
	}

	p.frameCount = 0
	p.lastTime = now
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return s, true
}
