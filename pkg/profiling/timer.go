// Package profiling times the phases of a single hydrate invocation and
// writes pprof profiles on request.
package profiling

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"
)

// Stopper ends a timed span.
type Stopper interface {
	Stop()
}

type span struct {
	name     string
	start    time.Time
	duration time.Duration
	children []*span
	timer    *Timer
}

func (s *span) Stop() {
	s.timer.end(s, time.Since(s.start))
}

// Timer records nested spans. Spans must be stopped in reverse start order;
// concurrent spans are recorded under whichever span is open when they
// start.
type Timer struct {
	mu    sync.Mutex
	on    bool
	root  *span
	stack []*span
	now   func() time.Time
}

// NewTimer creates a disabled Timer.
func NewTimer() *Timer {
	return &Timer{now: time.Now}
}

var defaultTimer = NewTimer()

// Enable turns the timer on. Spans started before Enable are not recorded.
func (t *Timer) Enable() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.on {
		return
	}
	t.on = true
	t.root = &span{name: "total", start: t.now(), timer: t}
	t.stack = []*span{t.root}
}

// Enabled reports whether spans are being recorded.
func (t *Timer) Enabled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.on
}

// Start opens a span named name, usually ended with defer.
func (t *Timer) Start(name string) Stopper {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.on {
		return noop{}
	}
	s := &span{name: name, start: t.now(), timer: t}
	parent := t.stack[len(t.stack)-1]
	parent.children = append(parent.children, s)
	t.stack = append(t.stack, s)
	return s
}

func (t *Timer) end(s *span, d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s.duration = d
	for i := len(t.stack) - 1; i > 0; i-- {
		if t.stack[i] == s {
			t.stack = t.stack[:i]
			return
		}
	}
}

// Summarize writes the span tree with each span's share of the total.
func (t *Timer) Summarize(w io.Writer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.on {
		return
	}
	total := time.Since(t.root.start)
	fmt.Fprintf(w, "timing: %v total\n", total.Round(100*time.Microsecond))
	for _, child := range t.root.children {
		writeSpan(w, child, 1, total)
	}
}

func writeSpan(w io.Writer, s *span, depth int, total time.Duration) {
	share := 0.0
	if total > 0 {
		share = float64(s.duration) / float64(total) * 100
	}
	fmt.Fprintf(w, "%s%s %v (%.1f%%)\n", strings.Repeat("  ", depth), s.name, s.duration.Round(100*time.Microsecond), share)

	sort.SliceStable(s.children, func(i, j int) bool {
		return s.children[i].start.Before(s.children[j].start)
	})
	for _, child := range s.children {
		writeSpan(w, child, depth+1, total)
	}
}

type noop struct{}

func (noop) Stop() {}

// Enable turns on the process-wide timer.
func Enable() { defaultTimer.Enable() }

// Start opens a span on the process-wide timer.
func Start(name string) Stopper { return defaultTimer.Start(name) }

// Summarize writes the process-wide timer's spans.
func Summarize(w io.Writer) { defaultTimer.Summarize(w) }
