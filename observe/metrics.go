// Package observe provides OpenTelemetry metrics for the concept compiler.
//
// The binary installs an SDK provider with [InitProvider] and takes its
// instruments from [Provider.Metrics]; tests use [NewMetrics] with their
// own provider.
package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/nathoo/conceptc/types"
)

const meterName = "github.com/nathoo/conceptc"

// Metrics holds the compiler's metric instruments. All fields are safe for
// concurrent use.
type Metrics struct {
	// FilesCompiled counts compiled documents. Attribute: status=ok|error.
	FilesCompiled metric.Int64Counter

	// Concepts counts concept records produced.
	Concepts metric.Int64Counter

	// Diagnostics counts diagnostics. Attribute: severity.
	Diagnostics metric.Int64Counter

	// CompileDuration tracks per-document compile time.
	CompileDuration metric.Float64Histogram
}

var durationBuckets = []float64{
	0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1,
}

// NewMetrics creates the instruments on the given provider.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.FilesCompiled, err = m.Int64Counter("conceptc.files.compiled",
		metric.WithDescription("Documents compiled, by status."),
	); err != nil {
		return nil, err
	}
	if met.Concepts, err = m.Int64Counter("conceptc.concepts",
		metric.WithDescription("Concept records produced."),
	); err != nil {
		return nil, err
	}
	if met.Diagnostics, err = m.Int64Counter("conceptc.diagnostics",
		metric.WithDescription("Diagnostics reported, by severity."),
	); err != nil {
		return nil, err
	}
	if met.CompileDuration, err = m.Float64Histogram("conceptc.compile.duration",
		metric.WithDescription("Time to compile one document."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBuckets...),
	); err != nil {
		return nil, err
	}
	return met, nil
}

// RecordCompile records the outcome of compiling one document. A nil
// collection records a failed compile.
func (m *Metrics) RecordCompile(ctx context.Context, c *types.Collection, elapsed time.Duration) {
	status := "ok"
	if c == nil {
		status = "error"
	}
	m.FilesCompiled.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
	m.CompileDuration.Record(ctx, elapsed.Seconds())
	if c == nil {
		return
	}

	m.Concepts.Add(ctx, int64(len(c.Concepts)))
	counts := map[types.Severity]int64{}
	for _, d := range c.Diagnostics {
		counts[d.Severity]++
	}
	for sev, n := range counts {
		m.Diagnostics.Add(ctx, n, metric.WithAttributes(attribute.String("severity", string(sev))))
	}
}
