package vm

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mirage-lang/mirage/value"
)

// MaxCallStackDepth bounds recursion the way the reference runtime's
// CallStack does: one less than this many frames may be live at once.
const MaxCallStackDepth = 4000

// maxBacktraceFrames caps how many distinct frame groups get_backtrace_string
// renders before truncating, regardless of how deep the stack actually is.
const maxBacktraceFrames = 8

// CallStack is the frame stack a running program unwinds on return and
// walks on throw to render a backtrace.
type CallStack struct {
	maxSize int
	frames  []*Frame
}

// NewCallStack creates an empty call stack with the default depth limit.
func NewCallStack() *CallStack {
	return &CallStack{maxSize: MaxCallStackDepth}
}

// Push adds a frame, reporting an error if doing so would reach the depth
// limit.
func (s *CallStack) Push(f *Frame) error {
	if len(s.frames)+1 >= s.maxSize {
		return fmt.Errorf("call stack size exceeded the maximum limit of %d", s.maxSize)
	}
	s.frames = append(s.frames, f)
	return nil
}

// Pop removes and returns the top frame, or nil if the stack is empty.
func (s *CallStack) Pop() *Frame {
	if len(s.frames) == 0 {
		return nil
	}
	f := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	return f
}

// Top returns the current frame, or nil if the stack is empty.
func (s *CallStack) Top() *Frame {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}

// Depth reports how many frames are currently live.
func (s *CallStack) Depth() int {
	return len(s.frames)
}

// Backtrace renders the stack from most to least recent, coalescing
// consecutive identical frames (same name, arguments, locals, and return
// site — the common shape of unbounded recursion) into a single entry
// suffixed with "<N times called>", and stops after maxBacktraceFrames
// distinct groups.
func (s *CallStack) Backtrace() string {
	var b strings.Builder
	var prev *Frame
	prevCount := 1
	groups := 0

	for i := len(s.frames) - 1; i >= 0; i-- {
		frame := s.frames[i]

		if prev != nil && framesEqual(prev, frame) {
			prevCount++
			continue
		}
		if groups >= maxBacktraceFrames {
			break
		}

		if prev != nil {
			if prevCount > 1 {
				fmt.Fprintf(&b, "\t<%d times called>\n", prevCount)
			}
			b.WriteByte('\n')
		}

		prev = frame
		prevCount = 1

		fmt.Fprintf(&b, "at %s\n", frame.Name)
		b.WriteString("\t- Arguments:\n")
		for _, name := range sortedKeys(frame.Args) {
			fmt.Fprintf(&b, "\t\t%s: %s\n", name, frame.Args[name].String())
		}
		b.WriteString("\t- Local Variables:\n")
		for _, name := range sortedKeys(frame.Locals) {
			fmt.Fprintf(&b, "\t\t%s: %s\n", name, frame.Locals[name].String())
		}
		if frame.HasReturnAddr {
			fmt.Fprintf(&b, "\t- Return Address: %d\n", frame.ReturnAddr)
		}
		if frame.HandlesError {
			fmt.Fprintf(&b, "\t- Error Handling Address: %d\n", frame.ErrorHandlingAddr)
		}

		groups++
	}

	if prev != nil && prevCount > 1 {
		fmt.Fprintf(&b, " <%d times called>", prevCount)
	}

	return b.String()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func framesEqual(a, b *Frame) bool {
	if a.Name != b.Name || a.ReturnAddr != b.ReturnAddr || a.HasReturnAddr != b.HasReturnAddr {
		return false
	}
	if a.HandlesError != b.HandlesError || a.ErrorHandlingAddr != b.ErrorHandlingAddr {
		return false
	}
	return valueMapsEqual(a.Args, b.Args) && valueMapsEqual(a.Locals, b.Locals)
}

func valueMapsEqual(a, b map[string]value.MiValue) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		other, ok := b[k]
		if !ok || !v.Equal(other) {
			return false
		}
	}
	return true
}
