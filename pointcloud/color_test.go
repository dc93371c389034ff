package pointcloud

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frame(width, height int, fill func(i int) uint32) []uint32 {
	px := make([]uint32, width*height)
	for i := range px {
		px[i] = fill(i)
	}
	return px
}

func TestColorBuilder_LengthIsFourPerPixel(t *testing.T) {
	buf := NewColorBuffer(640, 480)
	assert.Len(t, buf, 640*480*4)

	b := NewColorBuilder()
	require.NoError(t, b.Build(buf, frame(640, 480, func(int) uint32 { return 0x123456 }), 640, 480))
	assert.Len(t, buf, 640*480*4)
}

func TestColorBuilder_SingleMagentaPixel(t *testing.T) {
	b := ColorBuilder{SkipRows: 0, Divisor: DefaultDivisor}
	buf := NewColorBuffer(1, 1)

	require.NoError(t, b.Build(buf, []uint32{0xFF0080}, 1, 1))
	assert.InDelta(t, 2.55, buf[0], 1e-6)
	assert.InDelta(t, 0.0, buf[1], 1e-6)
	assert.InDelta(t, 1.28, buf[2], 1e-6)
	assert.Equal(t, float32(1), buf[3])
}

func TestColorBuilder_AlphaByteIgnored(t *testing.T) {
	b := ColorBuilder{Divisor: DefaultDivisor}
	buf := NewColorBuffer(1, 1)

	require.NoError(t, b.Build(buf, []uint32{0xAB0A141E}, 1, 1))
	assert.InDelta(t, 0.10, buf[0], 1e-6)
	assert.InDelta(t, 0.20, buf[1], 1e-6)
	assert.InDelta(t, 0.30, buf[2], 1e-6)
	assert.Equal(t, float32(1), buf[3])
}

func TestColorBuilder_ShiftReadsOffsetPixel(t *testing.T) {
	const w, h = 4, 40
	b := NewColorBuilder()
	offset := b.Offset(w)
	require.Equal(t, w*DefaultSkipRows, offset)

	px := frame(w, h, func(i int) uint32 { return uint32(i) & 0xff })
	buf := NewColorBuffer(w, h)
	require.NoError(t, b.Build(buf, px, w, h))

	for i := 0; i < w*h-offset; i++ {
		p := px[i+offset]
		assert.InDelta(t, float32(p>>16&0xff)/100, buf[i*4], 1e-6)
		assert.InDelta(t, float32(p>>8&0xff)/100, buf[i*4+1], 1e-6)
		assert.InDelta(t, float32(p&0xff)/100, buf[i*4+2], 1e-6)
		assert.Equal(t, float32(1), buf[i*4+3])
	}
}

func TestColorBuilder_ShiftLeavesTailStale(t *testing.T) {
	const w, h = 2, 40
	b := NewColorBuilder()
	offset := b.Offset(w)

	buf := NewColorBuffer(w, h)
	for i := range buf {
		buf[i] = -7
	}
	require.NoError(t, b.Build(buf, frame(w, h, func(int) uint32 { return 0x646464 }), w, h))

	for i := 0; i < w*h-offset; i++ {
		assert.Equal(t, float32(1), buf[i*4], "slot %d", i)
	}
	for i := w*h - offset; i < w*h; i++ {
		assert.Equal(t, float32(-7), buf[i*4], "slot %d", i)
		assert.Equal(t, float32(-7), buf[i*4+3], "slot %d", i)
	}
}

func TestColorBuilder_CropKeepsPixelPosition(t *testing.T) {
	const w, h = 2, 40
	b := NewColorBuilder()
	b.Alignment = AlignCrop
	offset := b.Offset(w)

	buf := NewColorBuffer(w, h)
	for i := range buf {
		buf[i] = -7
	}
	px := frame(w, h, func(i int) uint32 { return uint32(i) })
	require.NoError(t, b.Build(buf, px, w, h))

	for i := 0; i < offset; i++ {
		assert.Equal(t, float32(-7), buf[i*4], "slot %d", i)
	}
	for i := offset; i < w*h; i++ {
		assert.InDelta(t, float32(px[i]&0xff)/100, buf[i*4+2], 1e-6, "slot %d", i)
		assert.Equal(t, float32(1), buf[i*4+3])
	}
}

func TestColorBuilder_Idempotent(t *testing.T) {
	const w, h = 8, 50
	b := NewColorBuilder()
	px := frame(w, h, func(i int) uint32 { return uint32(i*2654435761) & 0xffffff })

	first := NewColorBuffer(w, h)
	require.NoError(t, b.Build(first, px, w, h))
	second := append(ColorBuffer(nil), first...)
	require.NoError(t, b.Build(second, px, w, h))

	assert.Equal(t, first, second)
}

func TestColorBuilder_FrameSmallerThanOffsetWritesNothing(t *testing.T) {
	const w, h = 10, 35
	b := NewColorBuilder()
	buf := NewColorBuffer(w, h)
	for i := range buf {
		buf[i] = 0.5
	}

	require.NoError(t, b.Build(buf, frame(w, h, func(int) uint32 { return 0xffffff }), w, h))
	for _, v := range buf {
		assert.Equal(t, float32(0.5), v)
	}
}

func TestColorBuilder_SizeMismatch(t *testing.T) {
	b := NewColorBuilder()

	err := b.Build(NewColorBuffer(4, 4), make([]uint32, 15), 4, 4)
	assert.ErrorIs(t, err, ErrBufferSize)

	err = b.Build(make(ColorBuffer, 10), make([]uint32, 16), 4, 4)
	assert.ErrorIs(t, err, ErrBufferSize)

	err = b.Build(ColorBuffer{}, nil, 0, 0)
	assert.ErrorIs(t, err, ErrBufferSize)
}

func TestParseAlignment(t *testing.T) {
	a, err := ParseAlignment("crop")
	require.NoError(t, err)
	assert.Equal(t, AlignCrop, a)

	a, err = ParseAlignment("")
	require.NoError(t, err)
	assert.Equal(t, AlignShift, a)

	_, err = ParseAlignment("stretch")
	assert.Error(t, err)
	assert.Equal(t, "shift", AlignShift.String())
}
