package telemetry

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestNoOpCollector(t *testing.T) {
	c := noOpCollector{}
	span := c.Start("anything")
	span.End()

	var buf bytes.Buffer
	c.Report(&buf)
	if buf.Len() != 0 {
		t.Errorf("expected empty report, got %q", buf.String())
	}
}

func TestFromContextReturnsNoOpWhenMissing(t *testing.T) {
	c := FromContext(context.Background())
	if _, ok := c.(noOpCollector); !ok {
		t.Errorf("expected noOpCollector, got %T", c)
	}
}

func TestWithCollector(t *testing.T) {
	collector := NewTimingCollector()
	ctx := WithCollector(context.Background(), collector)

	if got := FromContext(ctx); got != collector {
		t.Errorf("expected the attached collector, got %T", got)
	}
}

func TestStartSpanWithoutCollector(t *testing.T) {
	// Must not panic and must not record anything anywhere.
	span := StartSpan(context.Background(), "store.load")
	span.End()
}

func TestTimingCollectorReport(t *testing.T) {
	collector := NewTimingCollector()
	ctx := WithCollector(context.Background(), collector)

	outer := StartSpan(ctx, "store.load")
	inner := StartSpan(ctx, "store.load.users")
	inner.End()
	outer.End()

	var buf bytes.Buffer
	collector.Report(&buf)
	out := buf.String()

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 report lines, got %d: %q", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "  load") {
		t.Errorf("expected first line to carry the span name, got %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "    users") {
		t.Errorf("expected nested span to be indented by depth, got %q", lines[1])
	}
}

func TestTimingCollectorEmptyReport(t *testing.T) {
	var buf bytes.Buffer
	NewTimingCollector().Report(&buf)
	if buf.Len() != 0 {
		t.Errorf("expected no output for an empty collector, got %q", buf.String())
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{250 * time.Microsecond, "250µs"},
		{3 * time.Millisecond, "3ms"},
		{1500 * time.Millisecond, "1.50s"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
