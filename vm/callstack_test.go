package vm

import (
	"strings"
	"testing"

	"github.com/mirage-lang/mirage/value"
)

func TestCallStackPushPopTop(t *testing.T) {
	s := NewCallStack()
	if s.Depth() != 0 {
		t.Fatalf("Depth() = %d, want 0", s.Depth())
	}

	f := NewFrame("main", nil, 0, false)
	if err := s.Push(f); err != nil {
		t.Fatalf("Push returned error: %v", err)
	}
	if s.Depth() != 1 {
		t.Errorf("Depth() = %d, want 1", s.Depth())
	}
	if s.Top() != f {
		t.Error("Top() did not return the pushed frame")
	}
	if popped := s.Pop(); popped != f {
		t.Error("Pop() did not return the pushed frame")
	}
	if s.Pop() != nil {
		t.Error("Pop() on an empty stack should return nil")
	}
}

func TestCallStackPushOverflow(t *testing.T) {
	s := &CallStack{maxSize: 2}
	if err := s.Push(NewFrame("a", nil, 0, false)); err != nil {
		t.Fatalf("first push failed: %v", err)
	}
	if err := s.Push(NewFrame("b", nil, 0, false)); err == nil {
		t.Error("expected the second push to exceed maxSize=2")
	}
}

func TestBacktraceRendersFrameNames(t *testing.T) {
	s := NewCallStack()
	s.Push(NewFrame("main", nil, 0, false))
	s.Push(NewFrame("helper", map[string]value.MiValue(nil), 1, true))
	bt := s.Backtrace()
	if !strings.Contains(bt, "at helper") || !strings.Contains(bt, "at main") {
		t.Errorf("backtrace missing expected frame names: %q", bt)
	}
}

func TestBacktraceCoalescesIdenticalFrames(t *testing.T) {
	s := NewCallStack()
	for i := 0; i < 5; i++ {
		s.Push(NewFrame("recurse", nil, 1, true))
	}
	bt := s.Backtrace()
	if strings.Count(bt, "at recurse") != 1 {
		t.Errorf("expected identical consecutive frames to coalesce into one group, got: %q", bt)
	}
	if !strings.Contains(bt, "times called") {
		t.Errorf("expected a times-called marker, got: %q", bt)
	}
}

func TestBacktraceCapsAtMaxFrames(t *testing.T) {
	s := NewCallStack()
	for i := 0; i < maxBacktraceFrames+5; i++ {
		s.Push(NewFrame("f"+string(rune('a'+i)), nil, i, true))
	}
	bt := s.Backtrace()
	if strings.Count(bt, "at f") != maxBacktraceFrames {
		t.Errorf("expected exactly %d distinct frame groups, got %d in: %q",
			maxBacktraceFrames, strings.Count(bt, "at f"), bt)
	}
}
