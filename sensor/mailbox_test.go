package sensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMailbox_TakeEmpty(t *testing.T) {
	var m Mailbox[int]
	v, ok := m.Take()
	assert.False(t, ok)
	assert.Zero(t, v)
}

func TestMailbox_OverwriteCountsDrops(t *testing.T) {
	var m Mailbox[int]

	_, replaced := m.Put(1)
	assert.False(t, replaced)
	old, replaced := m.Put(2)
	assert.True(t, replaced)
	assert.Equal(t, 1, old)
	m.Put(3)

	v, ok := m.Take()
	assert.True(t, ok)
	assert.Equal(t, 3, v)
	assert.Equal(t, uint64(2), m.Dropped())
	assert.Equal(t, uint64(3), m.Published())

	_, ok = m.Take()
	assert.False(t, ok)
}
