package opentelemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/get-eventually/messagedb-browser/messagedb"
	"github.com/get-eventually/messagedb-browser/opentelemetry"
)

type stubBrowser struct {
	names    []string
	messages []messagedb.Message
	err      error

	expressions []string
}

func (b *stubBrowser) ListActiveStreamNames(context.Context) ([]string, error) {
	return b.names, b.err
}

func (b *stubBrowser) GetMessages(_ context.Context, expression string) ([]messagedb.Message, error) {
	b.expressions = append(b.expressions, expression)
	return b.messages, b.err
}

func newInstrumented(t *testing.T, browser messagedb.Browser) *opentelemetry.InstrumentedBrowser {
	t.Helper()

	instrumented, err := opentelemetry.NewInstrumentedBrowser(
		browser,
		opentelemetry.WithMeterProvider(metricnoop.NewMeterProvider()),
		opentelemetry.WithTracerProvider(tracenoop.NewTracerProvider()),
	)
	require.NoError(t, err)

	return instrumented
}

func TestInstrumentedBrowser(t *testing.T) {
	ctx := context.Background()

	t.Run("it returns the wrapped results", func(t *testing.T) {
		stub := &stubBrowser{
			names:    []string{"order-2", "order-1"},
			messages: []messagedb.Message{{ID: "1", StreamName: "order-1"}},
		}
		browser := newInstrumented(t, stub)

		names, err := browser.ListActiveStreamNames(ctx)
		require.NoError(t, err)
		assert.Equal(t, stub.names, names)

		messages, err := browser.GetMessages(ctx, "order-*")
		require.NoError(t, err)
		assert.Equal(t, stub.messages, messages)
		assert.Equal(t, []string{"order-*"}, stub.expressions)
	})

	t.Run("it returns the wrapped errors unchanged", func(t *testing.T) {
		expectedErr := &messagedb.DecodeError{Column: messagedb.DataColumn, GlobalPosition: 3, Err: errors.New("bad")}
		browser := newInstrumented(t, &stubBrowser{err: expectedErr})

		messages, err := browser.GetMessages(ctx, "order-1")
		assert.Nil(t, messages)
		assert.Same(t, expectedErr, err)

		names, err := browser.ListActiveStreamNames(ctx)
		assert.Nil(t, names)
		assert.Same(t, expectedErr, err)
	})

	t.Run("it works with the global providers", func(t *testing.T) {
		browser, err := opentelemetry.NewInstrumentedBrowser(&stubBrowser{})
		require.NoError(t, err)

		_, err = browser.GetMessages(ctx, "order-1")
		assert.NoError(t, err)
	})
}

type recordingProviders struct {
	spans  *tracetest.SpanRecorder
	reader *sdkmetric.ManualReader
}

func newRecorded(t *testing.T, browser messagedb.Browser, options ...opentelemetry.Option) (*opentelemetry.InstrumentedBrowser, recordingProviders) {
	t.Helper()

	providers := recordingProviders{
		spans:  tracetest.NewSpanRecorder(),
		reader: sdkmetric.NewManualReader(),
	}

	options = append(options,
		opentelemetry.WithTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(providers.spans))),
		opentelemetry.WithMeterProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(providers.reader))),
	)

	instrumented, err := opentelemetry.NewInstrumentedBrowser(browser, options...)
	require.NoError(t, err)

	return instrumented, providers
}

func (p recordingProviders) metrics(t *testing.T) map[string]metricdata.Metrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, p.reader.Collect(context.Background(), &rm))

	metrics := make(map[string]metricdata.Metrics)

	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			metrics[m.Name] = m
		}
	}

	return metrics
}

func spanAttribute(span sdktrace.ReadOnlySpan, key attribute.Key) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if kv.Key == key {
			return kv.Value, true
		}
	}

	return attribute.Value{}, false
}

func TestInstrumentedBrowser_Recording(t *testing.T) {
	ctx := context.Background()

	t.Run("successful reads are recorded", func(t *testing.T) {
		stub := &stubBrowser{
			names:    []string{"order-1"},
			messages: []messagedb.Message{{ID: "1"}, {ID: "2"}, {ID: "3"}},
		}
		browser, providers := newRecorded(t, stub, opentelemetry.WithAttributes(opentelemetry.SchemaKey.String("message_store")))

		_, err := browser.GetMessages(ctx, "order-*")
		require.NoError(t, err)

		_, err = browser.ListActiveStreamNames(ctx)
		require.NoError(t, err)

		spans := providers.spans.Ended()
		require.Len(t, spans, 2)

		assert.Equal(t, opentelemetry.GetMessagesSpanName, spans[0].Name())
		assert.Equal(t, opentelemetry.ListActiveStreamNamesSpanName, spans[1].Name())

		for _, span := range spans {
			assert.Equal(t, codes.Unset, span.Status().Code)

			schema, ok := spanAttribute(span, opentelemetry.SchemaKey)
			assert.True(t, ok)
			assert.Equal(t, "message_store", schema.AsString())

			_, ok = spanAttribute(span, opentelemetry.ErrorKindKey)
			assert.False(t, ok)
		}

		expression, ok := spanAttribute(spans[0], opentelemetry.StreamExpressionKey)
		require.True(t, ok)
		assert.Equal(t, "order-*", expression.AsString())

		count, ok := spanAttribute(spans[0], opentelemetry.ResultCountKey)
		require.True(t, ok)
		assert.Equal(t, int64(3), count.AsInt64())

		metrics := providers.metrics(t)

		messages, ok := metrics[opentelemetry.MessagesMetricName].Data.(metricdata.Sum[int64])
		require.True(t, ok)
		require.Len(t, messages.DataPoints, 1)
		assert.Equal(t, int64(3), messages.DataPoints[0].Value)

		schema, ok := messages.DataPoints[0].Attributes.Value(opentelemetry.SchemaKey)
		assert.True(t, ok)
		assert.Equal(t, "message_store", schema.AsString())

		duration, ok := metrics[opentelemetry.DurationMetricName].Data.(metricdata.Histogram[int64])
		require.True(t, ok)
		require.Len(t, duration.DataPoints, 2)

		operations := make([]string, 0, len(duration.DataPoints))

		for _, dp := range duration.DataPoints {
			assert.Equal(t, uint64(1), dp.Count)

			operation, ok := dp.Attributes.Value(opentelemetry.OperationKey)
			require.True(t, ok)

			operations = append(operations, operation.AsString())
		}

		assert.ElementsMatch(t, []string{"get_messages", "list_active_stream_names"}, operations)
	})

	failures := []struct {
		kind string
		err  error
	}{
		{kind: "address", err: &messagedb.AddressError{Expression: "*", Reason: "no category"}},
		{kind: "connectivity", err: &messagedb.ConnectivityError{Op: "read", Err: context.DeadlineExceeded}},
		{kind: "query", err: &messagedb.QueryError{Op: "read", Code: "P0001", Err: errors.New("boom")}},
		{kind: "decode", err: &messagedb.DecodeError{Column: messagedb.DataColumn, Err: errors.New("bad")}},
		{kind: "unknown", err: errors.New("boom")},
	}

	for _, tc := range failures {
		t.Run("failed reads are recorded as "+tc.kind+" errors", func(t *testing.T) {
			browser, providers := newRecorded(t, &stubBrowser{err: tc.err})

			_, err := browser.GetMessages(ctx, "order-1")
			require.Error(t, err)

			spans := providers.spans.Ended()
			require.Len(t, spans, 1)
			assert.Equal(t, codes.Error, spans[0].Status().Code)
			assert.Equal(t, tc.err.Error(), spans[0].Status().Description)

			kind, ok := spanAttribute(spans[0], opentelemetry.ErrorKindKey)
			require.True(t, ok)
			assert.Equal(t, tc.kind, kind.AsString())

			duration, ok := providers.metrics(t)[opentelemetry.DurationMetricName].Data.(metricdata.Histogram[int64])
			require.True(t, ok)
			require.Len(t, duration.DataPoints, 1)

			kind, ok = duration.DataPoints[0].Attributes.Value(opentelemetry.ErrorKindKey)
			require.True(t, ok)
			assert.Equal(t, tc.kind, kind.AsString())
		})
	}
}
