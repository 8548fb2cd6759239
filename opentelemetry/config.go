package opentelemetry

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/get-eventually/messagedb-browser/opentelemetry"

// Names of the metrics recorded by InstrumentedBrowser.
const (
	DurationMetricName = "messagedb.browser.duration"
	MessagesMetricName = "messagedb.browser.messages"
)

type settings struct {
	meterProvider  metric.MeterProvider
	tracerProvider trace.TracerProvider
	attributes     []attribute.KeyValue
}

// Option customizes the instrumentation set up by NewInstrumentedBrowser.
type Option func(*settings)

// WithMeterProvider sets the metric.MeterProvider the measurements are recorded with.
// The global one is used otherwise.
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(s *settings) { s.meterProvider = provider }
}

// WithTracerProvider sets the trace.TracerProvider the spans are started with.
// The global one is used otherwise.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(s *settings) { s.tracerProvider = provider }
}

// WithAttributes adds attributes to every span and measurement,
// e.g. to tell apart browsers reading from different databases.
func WithAttributes(attributes ...attribute.KeyValue) Option {
	return func(s *settings) { s.attributes = append(s.attributes, attributes...) }
}

// instruments holds what InstrumentedBrowser records its calls with.
type instruments struct {
	tracer        trace.Tracer
	duration      metric.Int64Histogram
	messagesCount metric.Int64Counter
	attributes    []attribute.KeyValue
}

func newInstruments(options []Option) (instruments, error) {
	s := settings{
		meterProvider:  otel.GetMeterProvider(),
		tracerProvider: otel.GetTracerProvider(),
	}

	for _, option := range options {
		option(&s)
	}

	meter := s.meterProvider.Meter(instrumentationName)

	duration, err := meter.Int64Histogram(
		DurationMetricName,
		metric.WithUnit("ms"),
		metric.WithDescription("Duration in milliseconds of messagedb.Browser operations."),
	)
	if err != nil {
		return instruments{}, fmt.Errorf("failed to register %s, %w", DurationMetricName, err)
	}

	messagesCount, err := meter.Int64Counter(
		MessagesMetricName,
		metric.WithUnit("{message}"),
		metric.WithDescription("Number of messages returned by messagedb.Browser.GetMessages."),
	)
	if err != nil {
		return instruments{}, fmt.Errorf("failed to register %s, %w", MessagesMetricName, err)
	}

	return instruments{
		tracer:        s.tracerProvider.Tracer(instrumentationName),
		duration:      duration,
		messagesCount: messagesCount,
		attributes:    s.attributes,
	}, nil
}

// with returns the static attributes followed by extra, without sharing
// the backing array of the static ones.
func (in instruments) with(extra ...attribute.KeyValue) []attribute.KeyValue {
	all := make([]attribute.KeyValue, 0, len(in.attributes)+len(extra))
	all = append(all, in.attributes...)

	return append(all, extra...)
}
