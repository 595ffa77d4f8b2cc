package observability

import (
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("finitefield.org/catalog-admin/internal/admin/observability")

// TraceMiddleware continues the caller's trace from the request headers and
// starts a server span. Spans are exported only when the binary installs a
// tracer provider; the trace context is propagated either way. The trace id is
// added to the request logger when present.
func TraceMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
			ctx, span := tracer.Start(ctx, r.Method+" "+r.URL.Path, trace.WithSpanKind(trace.SpanKindServer))
			defer span.End()
			span.SetAttributes(
				attribute.String("http.request.method", r.Method),
				attribute.String("url.path", r.URL.Path),
			)

			if sc := span.SpanContext(); sc.HasTraceID() {
				ctx = WithLogger(ctx, FromContext(ctx).With(zap.String("trace_id", sc.TraceID().String())))
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
