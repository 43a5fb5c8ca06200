// Package telemetry wires the OpenTelemetry tracer used across the
// pipeline and tool registry (SPEC_FULL.md §2/§4: "one span per pipeline
// stage, one span per tool call"). Grounded on the teacher's
// internal/observability.Tracer, trimmed to the in-process span-recording
// surface this core needs — no OTLP exporter wiring, since nothing here
// ships spans to a remote collector yet; a BatchSpanProcessor pointed at
// an OTLP exporter is a drop-in addition to NewProvider when one is
// needed.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "kickai"

// NewProvider builds a TracerProvider recording every span (no sampling)
// and installs it as the global provider, so any package calling
// otel.Tracer(tracerName) picks it up without being handed a reference.
func NewProvider() *sdktrace.TracerProvider {
	provider := sdktrace.NewTracerProvider(sdktrace.WithSampler(sdktrace.AlwaysSample()))
	otel.SetTracerProvider(provider)
	return provider
}

// Tracer returns this module's named tracer.
func Tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// StartStage starts a span for one pipeline stage (spec.md §4.4).
func StartStage(ctx context.Context, stage string) (context.Context, trace.Span) {
	return Tracer().Start(ctx, "pipeline."+stage, trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("pipeline.stage", stage)))
}

// StartToolCall starts a span for one tool invocation (spec.md §4.1).
func StartToolCall(ctx context.Context, toolID string) (context.Context, trace.Span) {
	return Tracer().Start(ctx, "tool."+toolID, trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("tool.id", toolID)))
}

// End finishes span, recording err as a span error when non-nil.
func End(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
