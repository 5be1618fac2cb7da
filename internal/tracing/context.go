// Package tracing wraps OpenTelemetry for the console: a provider with
// pluggable exporters, a registry middleware that opens a span per function
// call, and trace ID propagation through context.
package tracing

import (
	"context"
	"crypto/rand"
	"encoding/hex"

	"go.opentelemetry.io/otel/trace"
)

type contextKey string

const traceIDKey contextKey = "trace_id"

// TraceIDFromContext returns the trace ID stored in ctx, or "".
func TraceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(traceIDKey).(string); ok {
		return v
	}
	return ""
}

// ContextWithTraceID stores traceID in ctx. An empty ID leaves ctx unchanged.
func ContextWithTraceID(ctx context.Context, traceID string) context.Context {
	if traceID == "" {
		return ctx
	}
	return context.WithValue(ctx, traceIDKey, traceID)
}

// StartExecution opens the span covering one console submission and stores
// its trace ID in the returned context. With a no-op tracer the span has no
// valid ID, so a random one is generated to keep log lines correlated.
func StartExecution(ctx context.Context, tracer trace.Tracer, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	ctx, span := tracer.Start(ctx, SpanExecute, opts...)
	traceID := GenerateTraceID()
	if sc := span.SpanContext(); sc.TraceID().IsValid() {
		traceID = sc.TraceID().String()
	}
	return ContextWithTraceID(ctx, traceID), span
}

// GenerateTraceID creates a random 32-character hex trace ID.
func GenerateTraceID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
