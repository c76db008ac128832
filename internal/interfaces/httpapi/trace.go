package httpapi

import (
	"context"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const handlerSpanPrefix = "httpapi.Handler."

var apiTracer = otel.Tracer("cricket-fantasy/internal/interfaces/httpapi")

// startSpan opens a child span for handler entry points only. Middleware and
// response helpers run inside the otelhttp server span and get it back
// unchanged.
func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() || !shouldCreateHTTPAPISpan(name) {
		// Filtered routes such as /healthz carry no parent span.
		return ctx, nonRecordingSpan(parent)
	}
	return apiTracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func shouldCreateHTTPAPISpan(name string) bool {
	return strings.HasPrefix(name, handlerSpanPrefix)
}

// pathAttrs copies the named path values of r onto span attributes.
func pathAttrs(r *http.Request, names ...string) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(names))
	for _, name := range names {
		if value := r.PathValue(name); value != "" {
			attrs = append(attrs, attribute.String("http.path."+name, value))
		}
	}
	return attrs
}

// nonRecordingSpan lets callers defer End without ending the parent.
func nonRecordingSpan(parent trace.Span) trace.Span {
	return trace.SpanFromContext(trace.ContextWithSpanContext(context.Background(), parent.SpanContext()))
}
