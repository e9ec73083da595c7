// Package observe provides application-wide observability primitives for
// linguabridge: OpenTelemetry metrics and tracing for the classification →
// quote → guidance → response pipeline.
//
// Metrics are recorded through the OpenTelemetry Metrics API; a Prometheus
// exporter bridge is available via [InitProvider] so that metrics can be
// scraped from the standard /metrics endpoint. A package-level default
// [Metrics] instance ([DefaultMetrics]) is provided for convenience; tests
// should use [NewMetrics] with a custom [metric.MeterProvider] to avoid
// cross-test pollution.
package observe

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name for all linguabridge metrics.
const meterName = "github.com/AnmolMathad15/real-time-linguistic-bridge"

// Stage labels used on the per-stage histogram and fallback counter.
const (
	StageClassify  = "classify"
	StageTranslate = "translate"
	StageQuote     = "quote"
	StageGuide     = "guide"
	StageRender    = "render"
)

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// StageDuration tracks per-stage latency. Use with attribute
	// "stage" set to one of the Stage* constants.
	StageDuration metric.Float64Histogram

	// PipelineDuration tracks end-to-end process() latency.
	PipelineDuration metric.Float64Histogram

	// Intents counts classified utterances. Attributes: "intent", "language".
	Intents metric.Int64Counter

	// Quotes counts price resolutions. Attribute: "source" (ladder rung).
	Quotes metric.Int64Counter

	// Fallbacks counts degraded-path activations. Attribute: "stage".
	Fallbacks metric.Int64Counter

	// Responses counts rendered responses. Attributes: "language", "fallback".
	Responses metric.Int64Counter
}

// latencyBuckets defines histogram bucket boundaries (in seconds). The
// pipeline is pure in-memory computation, so the buckets skew far lower than
// typical RPC latencies.
var latencyBuckets = []float64{
	0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.05, 0.25, 1,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.StageDuration, err = m.Float64Histogram("linguabridge.stage.duration",
		metric.WithDescription("Latency of one pipeline stage, by stage name."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.PipelineDuration, err = m.Float64Histogram("linguabridge.pipeline.duration",
		metric.WithDescription("End-to-end utterance-to-response latency."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.Intents, err = m.Int64Counter("linguabridge.intents",
		metric.WithDescription("Classified utterances by intent and language."),
	); err != nil {
		return nil, err
	}
	if met.Quotes, err = m.Int64Counter("linguabridge.quotes",
		metric.WithDescription("Price resolutions by ladder source."),
	); err != nil {
		return nil, err
	}
	if met.Fallbacks, err = m.Int64Counter("linguabridge.fallbacks",
		metric.WithDescription("Degraded-path activations by stage."),
	); err != nil {
		return nil, err
	}
	if met.Responses, err = m.Int64Counter("linguabridge.responses",
		metric.WithDescription("Rendered responses by language and fallback flag."),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// defaultMetrics is the lazily-initialised package-level Metrics instance.
var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it on
// first call using [otel.GetMeterProvider]. Subsequent calls return the same
// pointer. Panics if instrument creation fails (should not happen with the
// global provider).
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// RecordStage records one stage's latency.
func (m *Metrics) RecordStage(ctx context.Context, stage string, d time.Duration) {
	m.StageDuration.Record(ctx, d.Seconds(),
		metric.WithAttributes(attribute.String("stage", stage)))
}

// RecordIntent increments the intent counter.
func (m *Metrics) RecordIntent(ctx context.Context, intent, language string) {
	m.Intents.Add(ctx, 1, metric.WithAttributes(
		attribute.String("intent", intent),
		attribute.String("language", language),
	))
}

// RecordQuote increments the quote counter by resolution source.
func (m *Metrics) RecordQuote(ctx context.Context, source string) {
	m.Quotes.Add(ctx, 1, metric.WithAttributes(attribute.String("source", source)))
}

// RecordFallback increments the fallback counter for a stage.
func (m *Metrics) RecordFallback(ctx context.Context, stage string) {
	m.Fallbacks.Add(ctx, 1, metric.WithAttributes(attribute.String("stage", stage)))
}

// RecordResponse increments the response counter.
func (m *Metrics) RecordResponse(ctx context.Context, language string, fallback bool) {
	m.Responses.Add(ctx, 1, metric.WithAttributes(
		attribute.String("language", language),
		attribute.Bool("fallback", fallback),
	))
}
