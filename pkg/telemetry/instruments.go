package telemetry

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

// Int64Counter registers a counter on the global meter provider. Registration
// errors yield a no-op counter so instrumentation never breaks a request path.
func Int64Counter(scope, name, description string) metric.Int64Counter {
	c, err := otel.Meter(scope).Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		c, _ = noop.NewMeterProvider().Meter(scope).Int64Counter(name)
	}
	return c
}

// Float64Histogram registers a histogram on the global meter provider with
// the same no-op fallback as Int64Counter.
func Float64Histogram(scope, name, description, unit string) metric.Float64Histogram {
	h, err := otel.Meter(scope).Float64Histogram(name,
		metric.WithDescription(description),
		metric.WithUnit(unit),
	)
	if err != nil {
		h, _ = noop.NewMeterProvider().Meter(scope).Float64Histogram(name)
	}
	return h
}

// Tracer returns a tracer from the global provider set up by Setup.
func Tracer(scope string) trace.Tracer {
	return otel.Tracer(scope)
}
