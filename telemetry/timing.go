package telemetry

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// TimingCollector records spans in start order. Nesting is expressed by
// dotted names ("store.load.users"); the report indents one level per dot.
type TimingCollector struct {
	mu    sync.Mutex
	spans []*timedSpan
}

type timedSpan struct {
	name  string
	start time.Time
	end   time.Time
}

// NewTimingCollector creates an empty collector.
func NewTimingCollector() *TimingCollector {
	return &TimingCollector{}
}

// Start begins a span.
func (c *TimingCollector) Start(name string) Span {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := &timedSpan{name: name, start: time.Now()}
	c.spans = append(c.spans, s)
	return &collectorSpan{collector: c, span: s}
}

// Report writes one line per span, indented by name depth, with the
// duration right-aligned.
func (c *TimingCollector) Report(w io.Writer) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.spans) == 0 {
		return
	}

	width := 0
	for _, s := range c.spans {
		if n := len(s.label()); n > width {
			width = n
		}
	}
	for _, s := range c.spans {
		_, _ = fmt.Fprintf(w, "%-*s  %s\n", width, s.label(), formatDuration(s.duration()))
	}
}

func (s *timedSpan) label() string {
	depth := strings.Count(s.name, ".")
	parts := strings.Split(s.name, ".")
	return strings.Repeat("  ", depth) + parts[len(parts)-1]
}

func (s *timedSpan) duration() time.Duration {
	if s.end.IsZero() {
		return 0
	}
	return s.end.Sub(s.start)
}

func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%dms", d.Milliseconds())
	default:
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
}

type collectorSpan struct {
	collector *TimingCollector
	span      *timedSpan
}

func (s *collectorSpan) End() {
	s.collector.mu.Lock()
	defer s.collector.mu.Unlock()
	s.span.end = time.Now()
}
