package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Observability bundles the OpenTelemetry meter and tracer used by the engine.
// A nil *Observability is valid and records nothing.
type Observability struct {
	meterProvider  *metric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	meter          otelmetric.Meter
	tracer         trace.Tracer
	opCounter      otelmetric.Int64Counter
	opDuration     otelmetric.Float64Histogram
}

func New(serviceName string) *Observability {
	// spans carry trace ids into request logs; nothing exports them yet
	tracerProvider := sdktrace.NewTracerProvider(sdktrace.WithSampler(sdktrace.AlwaysSample()))
	otel.SetTracerProvider(tracerProvider)

	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return &Observability{
			tracerProvider: tracerProvider,
			tracer:         tracerProvider.Tracer(serviceName),
		}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	opCounter, _ := meter.Int64Counter(
		"search.operations",
		otelmetric.WithDescription("Number of engine operations processed"),
	)

	opDuration, _ := meter.Float64Histogram(
		"search.operation.duration",
		otelmetric.WithDescription("Engine operation duration"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider:  provider,
		tracerProvider: tracerProvider,
		meter:          meter,
		tracer:         tracerProvider.Tracer(serviceName),
		opCounter:      opCounter,
		opDuration:     opDuration,
	}
}

// StartSpan opens a span named after the engine operation.
func (o *Observability) StartSpan(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if o == nil || o.tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return o.tracer.Start(ctx, operation, trace.WithAttributes(attrs...))
}

func (o *Observability) RecordOperation(ctx context.Context, operation, status string) {
	if o == nil || o.opCounter == nil {
		return
	}
	o.opCounter.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("status", status),
	))
}

func (o *Observability) RecordDuration(ctx context.Context, operation string, duration time.Duration) {
	if o == nil || o.opDuration == nil {
		return
	}
	o.opDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
		attribute.String("operation", operation),
	))
}

// TraceID returns the hex trace id of the span in ctx, or "" when none is recording.
func TraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return ""
	}
	return sc.TraceID().String()
}

func (o *Observability) Shutdown() {
	if o == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if o.tracerProvider != nil {
		_ = o.tracerProvider.Shutdown(ctx)
	}
	if o.meterProvider != nil {
		_ = o.meterProvider.Shutdown(ctx)
	}
}
