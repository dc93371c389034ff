package sensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMirrorRows(t *testing.T) {
	pix := []uint16{1, 2, 3, 4, 5, 6}
	MirrorRows(pix, 3)
	assert.Equal(t, []uint16{3, 2, 1, 6, 5, 4}, pix)

	MirrorRows(pix, 3)
	assert.Equal(t, []uint16{1, 2, 3, 4, 5, 6}, pix)
}

func TestMirrorRows_SingleColumn(t *testing.T) {
	pix := []uint32{7, 8}
	MirrorRows(pix, 1)
	assert.Equal(t, []uint32{7, 8}, pix)
}
