package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickReportsAfterInterval(t *testing.T) {
	p := NewProfiler(false)
	start := p.lastTime

	for i := 1; i < 30; i++ {
		_, done := p.tickAt(start.Add(time.Duration(i) * 10 * time.Millisecond))
		require.False(t, done)
	}
	assert.Zero(t, p.FPS())

	s, done := p.tickAt(start.Add(time.Second))
	require.True(t, done)
	assert.InDelta(t, 30.0, s.FPS, 1e-9)
	assert.InDelta(t, 30.0, p.FPS(), 1e-9)
	assert.Zero(t, p.frameCount)
}
