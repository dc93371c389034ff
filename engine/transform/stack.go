// Package transform provides a push/pop matrix stack for composing per-frame model transforms.
// Each operation post-multiplies the current matrix, so calls read in the order they apply to
// the drawing coordinate system: Translate then Scale then RotateY yields T * S * Ry.
package transform

import (
	"github.com/Carmen-Shannon/oxy-pointcloud/common"
)

// Stack is a matrix stack. The zero value is not usable; create one with NewStack.
type Stack struct {
	current common.Mat4
	saved   []common.Mat4
}

// NewStack creates a Stack whose current matrix is the identity.
//
// Returns:
//   - *Stack: the new stack
func NewStack() *Stack {
	return &Stack{current: common.Identity4()}
}

// Push saves the current matrix.
func (s *Stack) Push() {
	s.saved = append(s.saved, s.current)
}

// Pop restores the most recently pushed matrix.
//
// Returns:
//   - bool: false if there was nothing to pop (the current matrix is left unchanged)
func (s *Stack) Pop() bool {
	if len(s.saved) == 0 {
		return false
	}
	s.current = s.saved[len(s.saved)-1]
	s.saved = s.saved[:len(s.saved)-1]
	return true
}

// Depth returns the number of pushed matrices.
func (s *Stack) Depth() int {
	return len(s.saved)
}

// Reset clears all saved matrices and loads the identity.
func (s *Stack) Reset() {
	s.saved = s.saved[:0]
	s.current = common.Identity4()
}

// Translate post-multiplies a translation.
func (s *Stack) Translate(x, y, z float32) {
	s.current = common.Mul4(s.current, common.Translate4(x, y, z))
}

// Scale post-multiplies a uniform scale.
func (s *Stack) Scale(f float32) {
	s.current = common.Mul4(s.current, common.Scale4(f, f, f))
}

// RotateY post-multiplies a rotation about the Y axis (radians).
func (s *Stack) RotateY(angle float32) {
	s.current = common.Mul4(s.current, common.RotateY4(angle))
}

// Top returns the current matrix.
func (s *Stack) Top() common.Mat4 {
	return s.current
}
