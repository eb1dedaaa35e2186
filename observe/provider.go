package observe

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/resource"
)

// ProviderConfig configures the OpenTelemetry SDK meter provider.
type ProviderConfig struct {
	// ServiceName is reported as service.name. Default: "conceptc".
	ServiceName string

	// ServiceVersion is reported as service.version.
	ServiceVersion string
}

// Provider is the SDK meter provider installed by [InitProvider]. Metrics
// are read in-process through a manual reader.
type Provider struct {
	mp     *sdkmetric.MeterProvider
	reader *sdkmetric.ManualReader
}

// InitProvider creates an SDK meter provider backed by a manual reader and
// registers it as the global provider. Call Shutdown when done.
func InitProvider(cfg ProviderConfig) (*Provider, error) {
	if cfg.ServiceName == "" {
		cfg.ServiceName = "conceptc"
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			attribute.String("service.name", cfg.ServiceName),
			attribute.String("service.version", cfg.ServiceVersion),
		),
	)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)
	otel.SetMeterProvider(mp)
	return &Provider{mp: mp, reader: reader}, nil
}

// Metrics creates the compiler's instruments on this provider.
func (p *Provider) Metrics() (*Metrics, error) {
	return NewMetrics(p.mp)
}

// Shutdown flushes and closes the provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	return p.mp.Shutdown(ctx)
}

// Summary is a snapshot of the compiler's metrics.
type Summary struct {
	Files       int64
	Failed      int64
	Concepts    int64
	Diagnostics map[string]int64 // by severity
	CompileTime time.Duration    // summed over documents
}

// String renders the summary on one line, severities in name order.
func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d file(s), %d failed, %d concepts", s.Files, s.Failed, s.Concepts)
	sevs := make([]string, 0, len(s.Diagnostics))
	for sev := range s.Diagnostics {
		sevs = append(sevs, sev)
	}
	sort.Strings(sevs)
	for _, sev := range sevs {
		fmt.Fprintf(&b, ", %d %s", s.Diagnostics[sev], sev)
	}
	fmt.Fprintf(&b, ", compiled in %s", s.CompileTime.Round(time.Microsecond))
	return b.String()
}

// Summary collects the current metric totals.
func (p *Provider) Summary(ctx context.Context) (Summary, error) {
	var rm metricdata.ResourceMetrics
	if err := p.reader.Collect(ctx, &rm); err != nil {
		return Summary{}, fmt.Errorf("collecting metrics: %w", err)
	}
	return summarize(rm), nil
}

func summarize(rm metricdata.ResourceMetrics) Summary {
	s := Summary{Diagnostics: map[string]int64{}}
	for _, sm := range rm.ScopeMetrics {
		if sm.Scope.Name != meterName {
			continue
		}
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					switch m.Name {
					case "conceptc.files.compiled":
						s.Files += dp.Value
						if v, ok := dp.Attributes.Value("status"); ok && v.AsString() == "error" {
							s.Failed += dp.Value
						}
					case "conceptc.concepts":
						s.Concepts += dp.Value
					case "conceptc.diagnostics":
						v, _ := dp.Attributes.Value("severity")
						s.Diagnostics[v.AsString()] += dp.Value
					}
				}
			case metricdata.Histogram[float64]:
				if m.Name != "conceptc.compile.duration" {
					continue
				}
				for _, dp := range data.DataPoints {
					s.CompileTime += time.Duration(dp.Sum * float64(time.Second))
				}
			}
		}
	}
	return s
}
