//go:build !freenect

package sensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFreenect_UnavailableWithoutTag(t *testing.T) {
	_, err := Open(KindFreenect)
	assert.ErrorIs(t, err, ErrUnavailable)
}
