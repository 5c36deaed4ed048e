package http

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const instrumentationName = "github.com/freekieb7/kiezel/http"

type serverMetrics struct {
	accepted    metric.Int64Counter
	active      metric.Int64UpDownCounter
	requests    metric.Int64Counter
	parseErrors metric.Int64Counter
}

func newServerMetrics(meter metric.Meter) (*serverMetrics, error) {
	var (
		m   serverMetrics
		err error
	)

	m.accepted, err = meter.Int64Counter("http.server.connections.accepted",
		metric.WithDescription("Number of accepted TCP connections"),
		metric.WithUnit("{connection}"))
	if err != nil {
		return nil, err
	}

	m.active, err = meter.Int64UpDownCounter("http.server.connections.active",
		metric.WithDescription("Number of connections currently being served"),
		metric.WithUnit("{connection}"))
	if err != nil {
		return nil, err
	}

	m.requests, err = meter.Int64Counter("http.server.requests",
		metric.WithDescription("Number of responses written, by status code"),
		metric.WithUnit("{request}"))
	if err != nil {
		return nil, err
	}

	m.parseErrors, err = meter.Int64Counter("http.server.parse_errors",
		metric.WithDescription("Number of requests rejected by the parser"),
		metric.WithUnit("{request}"))
	if err != nil {
		return nil, err
	}

	return &m, nil
}

// defaultMetrics falls back to the global meter provider.
func defaultMetrics() *serverMetrics {
	m, err := newServerMetrics(otel.Meter(instrumentationName))
	if err != nil {
		otel.Handle(err)
		m, _ = newServerMetrics(noop.NewMeterProvider().Meter(instrumentationName))
	}
	return m
}

func (m *serverMetrics) connOpened(ctx context.Context) {
	m.accepted.Add(ctx, 1)
	m.active.Add(ctx, 1)
}

func (m *serverMetrics) connClosed(ctx context.Context) {
	m.active.Add(ctx, -1)
}

func (m *serverMetrics) responded(ctx context.Context, status uint16) {
	m.requests.Add(ctx, 1, metric.WithAttributes(attribute.Int("http.response.status_code", int(status))))
}

func (m *serverMetrics) rejected(ctx context.Context, status ParseStatus) {
	m.parseErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("error.type", status.String())))
}
