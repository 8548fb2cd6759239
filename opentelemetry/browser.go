// Package opentelemetry provides OpenTelemetry instrumentation, traces and
// metrics, for the messagedb.Browser operations.
package opentelemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/get-eventually/messagedb-browser/messagedb"
)

// Names of the spans created by InstrumentedBrowser.
const (
	ListActiveStreamNamesSpanName = "messagedb.Browser.ListActiveStreamNames"
	GetMessagesSpanName           = "messagedb.Browser.GetMessages"
)

// Attribute keys used by InstrumentedBrowser.
const (
	StreamExpressionKey attribute.Key = "messagedb.stream.expression"
	ResultCountKey      attribute.Key = "messagedb.result.count"
	ErrorKindKey        attribute.Key = "messagedb.error.kind"
	OperationKey        attribute.Key = "messagedb.operation"
	SchemaKey           attribute.Key = "messagedb.schema"
)

var _ messagedb.Browser = &InstrumentedBrowser{}

// InstrumentedBrowser wraps a messagedb.Browser to record a span and
// a duration measurement for every call, and the number of messages returned.
//
// Use NewInstrumentedBrowser to create a new instance.
type InstrumentedBrowser struct {
	instruments

	browser messagedb.Browser
}

// NewInstrumentedBrowser returns browser wrapped with OpenTelemetry instrumentation.
//
// An error is returned if the metrics could not be registered.
func NewInstrumentedBrowser(browser messagedb.Browser, options ...Option) (*InstrumentedBrowser, error) {
	in, err := newInstruments(options)
	if err != nil {
		return nil, fmt.Errorf("opentelemetry.NewInstrumentedBrowser: %w", err)
	}

	return &InstrumentedBrowser{instruments: in, browser: browser}, nil
}

// errorKind names the class of a messagedb error, for use as a low-cardinality attribute.
func errorKind(err error) string {
	var (
		addressErr      *messagedb.AddressError
		connectivityErr *messagedb.ConnectivityError
		queryErr        *messagedb.QueryError
		decodeErr       *messagedb.DecodeError
	)

	switch {
	case errors.As(err, &addressErr):
		return "address"
	case errors.As(err, &connectivityErr):
		return "connectivity"
	case errors.As(err, &queryErr):
		return "query"
	case errors.As(err, &decodeErr):
		return "decode"
	default:
		return "unknown"
	}
}

func (ib *InstrumentedBrowser) end(ctx context.Context, span trace.Span, operation string, start time.Time, err error) {
	attributes := ib.with(OperationKey.String(operation))

	if err != nil {
		kind := ErrorKindKey.String(errorKind(err))
		attributes = append(attributes, kind)

		span.SetAttributes(kind)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	ib.duration.Record(ctx, time.Since(start).Milliseconds(), metric.WithAttributes(attributes...))
	span.End()
}

// ListActiveStreamNames calls the wrapped messagedb.Browser and records a span and metrics around it.
func (ib *InstrumentedBrowser) ListActiveStreamNames(ctx context.Context) (names []string, err error) {
	ctx, span := ib.tracer.Start(ctx, ListActiveStreamNamesSpanName, trace.WithAttributes(ib.attributes...))
	start := time.Now()

	defer func() {
		ib.end(ctx, span, "list_active_stream_names", start, err)
	}()

	names, err = ib.browser.ListActiveStreamNames(ctx)
	span.SetAttributes(ResultCountKey.Int(len(names)))

	return names, err
}

// GetMessages calls the wrapped messagedb.Browser and records a span and metrics around it.
func (ib *InstrumentedBrowser) GetMessages(ctx context.Context, expression string) (messages []messagedb.Message, err error) {
	ctx, span := ib.tracer.Start(ctx, GetMessagesSpanName, trace.WithAttributes(
		ib.with(StreamExpressionKey.String(expression))...,
	))
	start := time.Now()

	defer func() {
		ib.end(ctx, span, "get_messages", start, err)
	}()

	messages, err = ib.browser.GetMessages(ctx, expression)
	span.SetAttributes(ResultCountKey.Int(len(messages)))
	ib.messagesCount.Add(ctx, int64(len(messages)), metric.WithAttributes(ib.attributes...))

	return messages, err
}
