// Package history provides a bounded undo/redo stack of mask snapshots.
package history

import (
	"github.com/Kushalc123/maskselector/internal/mask"
)

// DefaultCapacity bounds history growth when no explicit capacity is given.
const DefaultCapacity = 32

// Stack is a linear undo/redo history over full mask snapshots. The entry at
// the cursor is the current state; entries past the cursor are redoable and
// are discarded as soon as a new commit arrives from a non-tip position.
type Stack struct {
	snapshots []*mask.Mask
	cursor    int
	capacity  int
}

// NewStack creates a history seeded with one snapshot of the initial mask.
// Capacities below 1 fall back to DefaultCapacity.
func NewStack(initial *mask.Mask, capacity int) *Stack {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Stack{
		snapshots: []*mask.Mask{initial.Clone()},
		cursor:    0,
		capacity:  capacity,
	}
}

// Commit deep-copies the mask, discards any redoable entries, and appends the
// copy as the new current state. The oldest snapshot is evicted when the
// capacity is exceeded.
func (s *Stack) Commit(m *mask.Mask) {
	s.snapshots = append(s.snapshots[:s.cursor+1], m.Clone())
	s.cursor++

	if len(s.snapshots) > s.capacity {
		s.snapshots = s.snapshots[1:]
		s.cursor--
	}
}

// Undo steps back one snapshot and returns a copy of it. Returns (nil, false)
// when there is nothing to undo; this is a normal result, not an error.
func (s *Stack) Undo() (*mask.Mask, bool) {
	if s.cursor == 0 {
		return nil, false
	}
	s.cursor--
	return s.snapshots[s.cursor].Clone(), true
}

// Redo steps forward one snapshot and returns a copy of it. Returns
// (nil, false) when there is nothing to redo.
func (s *Stack) Redo() (*mask.Mask, bool) {
	if s.cursor >= len(s.snapshots)-1 {
		return nil, false
	}
	s.cursor++
	return s.snapshots[s.cursor].Clone(), true
}

// CanUndo reports whether a snapshot exists behind the cursor.
func (s *Stack) CanUndo() bool { return s.cursor > 0 }

// CanRedo reports whether a snapshot exists ahead of the cursor.
func (s *Stack) CanRedo() bool { return s.cursor < len(s.snapshots)-1 }

// Len returns the number of stored snapshots.
func (s *Stack) Len() int { return len(s.snapshots) }
