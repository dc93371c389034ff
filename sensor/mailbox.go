package sensor

import (
	"sync"
	"sync/atomic"
)

// Mailbox is a single-slot, latest-value hand-off between one producer and one consumer.
// Put overwrites an unconsumed value and counts it as dropped, so a slow consumer always sees
// the newest value and the producer never blocks.
type Mailbox[T any] struct {
	mu      sync.Mutex
	value   T
	full    bool
	dropped atomic.Uint64
	puts    atomic.Uint64
}

// Put stores v, replacing any value not yet taken.
//
// Parameters:
//   - v: the value to publish
//
// Returns:
//   - T: the replaced value, zero if the slot was empty
//   - bool: true if a value was replaced
func (m *Mailbox[T]) Put(v T) (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.puts.Add(1)
	old, replaced := m.value, m.full
	if replaced {
		m.dropped.Add(1)
	}
	m.value = v
	m.full = true
	return old, replaced
}

// Take removes and returns the stored value.
//
// Returns:
//   - T: the value, zero if the slot was empty
//   - bool: true if a value was present
func (m *Mailbox[T]) Take() (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero T
	if !m.full {
		return zero, false
	}
	v := m.value
	m.value = zero
	m.full = false
	return v, true
}

// Dropped returns how many values were overwritten before being taken.
func (m *Mailbox[T]) Dropped() uint64 {
	return m.dropped.Load()
}

// Published returns how many values were put.
func (m *Mailbox[T]) Published() uint64 {
	return m.puts.Load()
}
