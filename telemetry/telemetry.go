// Package telemetry provides lightweight operation timing. A Collector
// travels through context; code that wants timing starts a span and ends it,
// and code that doesn't carry a collector pays for a no-op.
//
// Example:
//
//	collector := telemetry.NewTimingCollector()
//	ctx := telemetry.WithCollector(context.Background(), collector)
//
//	span := telemetry.StartSpan(ctx, "store.load")
//	// ... work ...
//	span.End()
//
//	collector.Report(os.Stderr)
package telemetry

import (
	"context"
	"io"
)

type contextKey struct{}

var collectorKey = contextKey{}

// Collector records timing spans and renders a report.
type Collector interface {
	// Start begins a span. End it when the operation completes.
	Start(name string) Span

	// Report writes the collected spans to w.
	Report(w io.Writer)
}

// Span is one timed operation.
type Span interface {
	// End stops the span and records its duration.
	End()
}

// WithCollector attaches a collector to the context.
func WithCollector(ctx context.Context, c Collector) context.Context {
	return context.WithValue(ctx, collectorKey, c)
}

// FromContext returns the context's collector, or a no-op collector when
// none is attached.
func FromContext(ctx context.Context) Collector {
	if c, ok := ctx.Value(collectorKey).(Collector); ok {
		return c
	}
	return noOpCollector{}
}

// StartSpan starts a span on the context's collector. Convenience for the
// common start-work-end pattern.
func StartSpan(ctx context.Context, name string) Span {
	return FromContext(ctx).Start(name)
}
