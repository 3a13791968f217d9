package vm

import (
	"fmt"
	"strings"
)

// ---------------------------------------------------------------------------
// Stack
// ---------------------------------------------------------------------------

// Stack is a LIFO of signed integers used by machines for both data and
// saved program pointers. Underflow is never an error: popping or peeking
// an empty stack yields 0 and latches an inspectable "popped empty" flag
// that the next push clears.
//
// A stack may optionally be clipped to a fixed signed width, in which case
// pushed values saturate at the representable min/max instead of wrapping.
type Stack struct {
	data  []int64
	empty bool

	// clipping bounds; both zero means unbounded
	min, max int64
	overflow bool
}

// NewStack creates an empty, unbounded stack.
func NewStack() *Stack {
	return &Stack{}
}

// NewClippedStack creates a stack whose values saturate at the bounds of a
// signed integer of the given bit width.
func NewClippedStack(bits int) *Stack {
	max := int64(1)<<uint(bits-1) - 1
	return &Stack{min: -max - 1, max: max}
}

// Len returns the number of values on the stack.
func (s *Stack) Len() int {
	return len(s.data)
}

// Clear empties the stack and resets the underflow and overflow flags.
func (s *Stack) Clear() {
	s.data = s.data[:0]
	s.empty = false
	s.overflow = false
}

// Push adds a value to the top of the stack, clipping it to the configured
// width if the stack is bounded. Pushing clears the underflow flag.
func (s *Stack) Push(v int64) {
	s.empty = false
	if s.min != 0 || s.max != 0 {
		if v > s.max {
			v = s.max
			s.overflow = true
		} else if v < s.min {
			v = s.min
			s.overflow = true
		}
	}
	s.data = append(s.data, v)
}

// Pop removes and returns the top value. An empty stack yields 0 and sets
// the underflow flag.
func (s *Stack) Pop() int64 {
	if n := len(s.data); n > 0 {
		v := s.data[n-1]
		s.data = s.data[:n-1]
		return v
	}
	s.empty = true
	return 0
}

// Pop2 removes and returns the top two values, topmost first. Missing
// values are 0 and set the underflow flag.
func (s *Stack) Pop2() (int64, int64) {
	a := s.Pop()
	b := s.Pop()
	return a, b
}

// Peek returns the top value without removing it. An empty stack yields 0
// and sets the underflow flag.
func (s *Stack) Peek() int64 {
	if n := len(s.data); n > 0 {
		return s.data[n-1]
	}
	s.empty = true
	return 0
}

// Peek2 returns the top two values, topmost first, without removing them.
func (s *Stack) Peek2() (int64, int64) {
	switch n := len(s.data); {
	case n > 1:
		return s.data[n-1], s.data[n-2]
	case n > 0:
		s.empty = true
		return s.data[n-1], 0
	}
	s.empty = true
	return 0, 0
}

// PoppedEmpty reports whether the stack has been popped or peeked while
// empty since the last push or clear.
func (s *Stack) PoppedEmpty() bool {
	return s.empty
}

// Overflowed reports whether a pushed value has been clipped.
func (s *Stack) Overflowed() bool {
	return s.overflow
}

// Values returns a bottom-to-top copy of the stack's contents.
func (s *Stack) Values() []int64 {
	out := make([]int64, len(s.data))
	copy(out, s.data)
	return out
}

// String renders the stack bottom-to-top for traces and tests.
func (s *Stack) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, v := range s.data {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%d", v)
	}
	b.WriteByte(')')
	return b.String()
}
