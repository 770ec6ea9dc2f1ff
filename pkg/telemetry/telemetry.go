package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	// ServiceName is the service name for the token issuer client
	ServiceName = "x509-token-issuer"

	// TracerName is the tracer name for the token issuer client
	TracerName = "github.com/scitokens/x509-token-issuer"

	// MeterName is the meter name for the token issuer client
	MeterName = "github.com/scitokens/x509-token-issuer"
)

// Operations reported on spans and metrics.
const (
	OperationDiscovery = "discovery"
	OperationToken     = "token"
	OperationMacaroon  = "macaroon"
)

var (
	// tracer is the global tracer for the token issuer client
	tracer trace.Tracer

	// meter is the global meter for the token issuer client
	meter metric.Meter

	// RequestCounter counts issuer operations by operation name
	RequestCounter metric.Int64Counter

	// RequestDuration tracks the duration of issuer operations in milliseconds
	RequestDuration metric.Float64Histogram

	// ErrorCounter counts failed issuer operations by operation and error kind
	ErrorCounter metric.Int64Counter
)

// Init initializes the telemetry package with the global providers.
// Until it is called, spans go to the global tracer and no metrics are recorded.
func Init() {
	tracer = otel.GetTracerProvider().Tracer(TracerName)
	meter = otel.GetMeterProvider().Meter(MeterName)

	// A failed instrument stays nil and is skipped by RecordOutcome.
	RequestCounter, _ = meter.Int64Counter("issuer.requests",
		metric.WithDescription("Number of issuer operations"),
		metric.WithUnit("1"))

	RequestDuration, _ = meter.Float64Histogram("issuer.duration",
		metric.WithDescription("Duration of issuer operations"),
		metric.WithUnit("ms"))

	ErrorCounter, _ = meter.Int64Counter("issuer.errors",
		metric.WithDescription("Number of failed issuer operations"),
		metric.WithUnit("1"))
}

// IssuerAttr tags a span with the issuer or resource URL being contacted.
func IssuerAttr(url string) attribute.KeyValue {
	return attribute.String("issuer.url", url)
}

// StartSpan starts a client span for one issuer operation.
func StartSpan(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	t := tracer
	if t == nil {
		t = otel.GetTracerProvider().Tracer(TracerName)
	}

	allAttrs := append([]attribute.KeyValue{
		attribute.String("issuer.operation", operation),
	}, attrs...)

	return t.Start(ctx, "issuer."+operation,
		trace.WithAttributes(allAttrs...),
		trace.WithSpanKind(trace.SpanKindClient))
}

// RecordOutcome records the result of an operation on its span and in the
// metrics. errKind is empty on success.
func RecordOutcome(ctx context.Context, span trace.Span, operation, errKind string, elapsed time.Duration) {
	opAttr := attribute.String("issuer.operation", operation)

	if errKind != "" {
		kindAttr := attribute.String("issuer.error.kind", errKind)
		if span != nil {
			span.SetAttributes(kindAttr)
			span.SetStatus(codes.Error, errKind)
		}
		if ErrorCounter != nil {
			ErrorCounter.Add(ctx, 1, metric.WithAttributes(opAttr, kindAttr))
		}
	} else if span != nil {
		span.SetStatus(codes.Ok, "")
	}

	if RequestCounter != nil {
		RequestCounter.Add(ctx, 1, metric.WithAttributes(opAttr))
	}
	if RequestDuration != nil {
		RequestDuration.Record(ctx, float64(elapsed.Microseconds())/1000, metric.WithAttributes(opAttr))
	}
}
