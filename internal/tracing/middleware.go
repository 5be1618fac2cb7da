package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zirconconsole/zircon/internal/registry"
)

// NewHandlerMiddleware returns registry middleware that opens a child span
// for every function call. A nil tracer yields a pass-through.
func NewHandlerMiddleware(tracer trace.Tracer) registry.Middleware {
	if tracer == nil {
		return func(_ string, next registry.Handler) registry.Handler { return next }
	}
	return func(name string, next registry.Handler) registry.Handler {
		return func(ctx context.Context, args []any) (any, error) {
			ctx, span := tracer.Start(ctx, SpanPrefixFunction+name, trace.WithSpanKind(trace.SpanKindInternal))
			defer span.End()

			span.SetAttributes(
				attribute.String(AttrFunctionName, name),
				attribute.Int(AttrArgCount, len(args)),
			)
			if id := TraceIDFromContext(ctx); id != "" {
				span.SetAttributes(attribute.String(AttrTraceID, id))
			}

			result, err := next(ctx, args)
			RecordResult(span, err)
			return result, err
		}
	}
}

// RecordResult sets span status from err.
func RecordResult(span trace.Span, err error) {
	if err == nil {
		span.SetStatus(codes.Ok, "")
		return
	}
	span.RecordError(err)
	span.AddEvent(EventErrorOccurred, trace.WithAttributes(attribute.String(AttrErrorMessage, err.Error())))
	span.SetStatus(codes.Error, err.Error())
}
