package graphicsstate

import (
	"github.com/tsawler/preflight/model"
)

// State is one graphics state snapshot. It is a plain value: assigning a
// State copies it completely.
type State struct {
	// Current Transformation Matrix
	CTM model.Matrix
}

// NewState creates a graphics state with default values
func NewState() State {
	return State{
		CTM: model.Identity(),
	}
}

// Stack is the graphics state stack driven by the q, Q and cm operators.
// The zero value is ready to use and behaves like NewStack().
type Stack struct {
	frames []State
}

// NewStack creates a stack holding a single default state
func NewStack() *Stack {
	s := &Stack{}
	s.Reset()
	return s
}

// Reset discards every frame and starts again from a single default state.
func (s *Stack) Reset() {
	s.frames = append(s.frames[:0], NewState())
}

func (s *Stack) ensure() {
	if len(s.frames) == 0 {
		s.Reset()
	}
}

// Push duplicates the current state and makes the copy current (q operator)
func (s *Stack) Push() {
	s.ensure()
	s.frames = append(s.frames, s.frames[len(s.frames)-1])
}

// Pop discards the current state and makes the previous one current
// (Q operator). The last remaining state is never popped; Pop reports false
// in that case and leaves the stack untouched.
func (s *Stack) Pop() bool {
	s.ensure()
	if len(s.frames) == 1 {
		return false
	}
	s.frames = s.frames[:len(s.frames)-1]
	return true
}

// Current returns the top state for in-place updates. The pointer is only
// valid until the next Push, Pop or Reset.
func (s *Stack) Current() *State {
	s.ensure()
	return &s.frames[len(s.frames)-1]
}

// Concat applies a transformation matrix to the CTM (cm operator):
// CTM' = m × CTM.
func (s *Stack) Concat(m model.Matrix) {
	cur := s.Current()
	cur.CTM = m.Multiply(cur.CTM)
}

// Depth returns the number of states on the stack (always at least 1)
func (s *Stack) Depth() int {
	s.ensure()
	return len(s.frames)
}
