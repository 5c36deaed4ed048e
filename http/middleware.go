package http

import (
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

type Middleware func(next Handler) Handler

// RecoverMiddleware turns a panicking handler into a 500 response.
func RecoverMiddleware(logger *slog.Logger) Middleware {
	return func(next Handler) Handler {
		return func(ctx *RequestCtx) {
			defer func() {
				if recovered := recover(); recovered != nil {
					logger.ErrorContext(ctx.Context(), "handler panicked",
						"panic", fmt.Sprint(recovered),
						"conn.id", ctx.ConnID.String(),
						"url.path", string(ctx.Request.Path()),
					)

					ctx.Response.Reset()
					ctx.Response.WithStatus(StatusInternalServerError).WithText(StatusText(StatusInternalServerError))
				}
			}()

			next(ctx)
		}
	}
}

// TraceMiddleware starts a server span per request, continuing any trace
// context the client propagated in its headers.
func TraceMiddleware(tracer trace.Tracer) Middleware {
	return func(next Handler) Handler {
		return func(ctx *RequestCtx) {
			parent := ctx.Context()
			carrier := requestCarrier{req: &ctx.Request}
			spanCtx := otel.GetTextMapPropagator().Extract(parent, carrier)

			spanCtx, span := tracer.Start(spanCtx, string(ctx.Request.Method)+" "+string(ctx.Request.Path()),
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					attribute.String("http.request.method", string(ctx.Request.Method)),
					attribute.String("url.path", string(ctx.Request.Path())),
					attribute.String("network.protocol.version", string(ctx.Request.Proto)),
					attribute.String("kiezel.conn.id", ctx.ConnID.String()),
				),
			)
			defer span.End()
			defer ctx.SetContext(parent)

			ctx.SetContext(spanCtx)
			next(ctx)

			span.SetAttributes(attribute.Int("http.response.status_code", int(ctx.Response.Status)))
			if ctx.Response.Status >= StatusInternalServerError {
				span.SetStatus(codes.Error, StatusText(ctx.Response.Status))
			}
		}
	}
}

// requestCarrier exposes request headers to OpenTelemetry propagators.
// Extraction is read-only; Set is a no-op.
type requestCarrier struct {
	req *Request
}

var _ propagation.TextMapCarrier = requestCarrier{}

func (c requestCarrier) Get(key string) string {
	v, _ := c.req.Header(key)
	return string(v)
}

func (c requestCarrier) Set(string, string) {}

func (c requestCarrier) Keys() []string {
	keys := make([]string, 0, len(c.req.Headers))
	for _, h := range c.req.Headers {
		keys = append(keys, string(h.Name))
	}
	return keys
}
