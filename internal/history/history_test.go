package history

import (
	"testing"

	"github.com/Kushalc123/maskselector/internal/mask"
)

// stamped returns a 4x4 mask with pixel (n%4, n/4) selected.
func stamped(n int) *mask.Mask {
	m := mask.New(4, 4)
	m.Set(n%4, n/4, true)
	return m
}

func TestInitialState(t *testing.T) {
	s := NewStack(mask.New(4, 4), 8)
	if s.Len() != 1 {
		t.Fatalf("expected 1 initial snapshot, got %d", s.Len())
	}
	if s.CanUndo() || s.CanRedo() {
		t.Fatal("fresh history must have nothing to undo or redo")
	}
	if _, ok := s.Undo(); ok {
		t.Fatal("undo on fresh history must report false")
	}
	if _, ok := s.Redo(); ok {
		t.Fatal("redo on fresh history must report false")
	}
}

func TestCommitSnapshotsAreCopies(t *testing.T) {
	s := NewStack(mask.New(4, 4), 8)
	live := stamped(5)
	s.Commit(live)
	live.Set(0, 0, true)

	m, ok := s.Undo()
	if !ok {
		t.Fatal("expected undo to succeed")
	}
	if m.Count() != 0 {
		t.Fatal("undo must return the empty initial mask")
	}
	m2, ok := s.Redo()
	if !ok {
		t.Fatal("expected redo to succeed")
	}
	if m2.Get(0, 0) {
		t.Fatal("mutating the live mask after commit must not affect snapshots")
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	s := NewStack(mask.New(4, 4), 8)
	for i := 0; i < 3; i++ {
		s.Commit(stamped(i))
	}

	before := stamped(2)
	if _, ok := s.Undo(); !ok {
		t.Fatal("undo failed")
	}
	after, ok := s.Redo()
	if !ok {
		t.Fatal("redo failed")
	}
	if !after.Equal(before) {
		t.Fatal("undo then redo must restore the pre-undo mask")
	}
}

func TestCommitTruncatesRedoTail(t *testing.T) {
	s := NewStack(mask.New(4, 4), 8)
	s.Commit(stamped(0))
	s.Commit(stamped(1))

	if _, ok := s.Undo(); !ok {
		t.Fatal("undo failed")
	}
	s.Commit(stamped(9))

	if s.CanRedo() {
		t.Fatal("commit after undo must discard the redo tail")
	}
	m, ok := s.Undo()
	if !ok || !m.Equal(stamped(0)) {
		t.Fatal("history order corrupted after truncation")
	}
}

func TestCapacityBound(t *testing.T) {
	const capacity = 4
	s := NewStack(mask.New(4, 4), capacity)

	for n := 1; n <= 10; n++ {
		s.Commit(stamped(n))
		want := n + 1
		if want > capacity {
			want = capacity
		}
		if s.Len() != want {
			t.Fatalf("after %d commits: len=%d want %d", n, s.Len(), want)
		}
	}

	// Cursor must still sit on the newest snapshot.
	m, ok := s.Undo()
	if !ok || !m.Equal(stamped(9)) {
		t.Fatal("cursor drifted during eviction")
	}
}

func TestUndoToEvictionFloor(t *testing.T) {
	s := NewStack(mask.New(4, 4), 3)
	for n := 0; n < 6; n++ {
		s.Commit(stamped(n))
	}

	// Walk all the way back; the floor is the oldest retained snapshot.
	steps := 0
	for {
		if _, ok := s.Undo(); !ok {
			break
		}
		steps++
	}
	if steps != 2 {
		t.Fatalf("expected 2 undo steps with capacity 3, got %d", steps)
	}
}

func TestCapacityFallback(t *testing.T) {
	s := NewStack(mask.New(2, 2), 0)
	if s.capacity != DefaultCapacity {
		t.Fatalf("capacity %d, want fallback %d", s.capacity, DefaultCapacity)
	}
}
