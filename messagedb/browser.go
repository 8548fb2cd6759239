package messagedb

import (
	"context"
	"fmt"

	"github.com/get-eventually/messagedb-browser/logger"
)

// Browser is the read interface exposed to the callers of the message store.
type Browser interface {
	// ListActiveStreamNames returns the names of the most recently written
	// streams, most recent first.
	ListActiveStreamNames(ctx context.Context) ([]string, error)

	// GetMessages returns a page of messages addressed by a stream name
	// expression, in global position order.
	GetMessages(ctx context.Context, expression string) ([]Message, error)
}

var _ Browser = &Gateway{}

// Gateway is the Browser implementation backed by a Message DB database.
//
// Use NewGateway to create a new instance.
type Gateway struct {
	store     Store
	directory Directory
	page      PageRequest
	logger    logger.Logger
}

// NewGateway returns a Gateway running its queries on conn, usually a *pgxpool.Pool.
func NewGateway(conn Querier, options ...Option[*Gateway]) *Gateway {
	g := &Gateway{
		store:     Store{Conn: conn, Schema: DefaultSchema},
		directory: Directory{Conn: conn, Schema: DefaultSchema, Limit: DefaultActiveStreamsLimit},
		page:      DefaultPageRequest(),
	}

	for _, opt := range options {
		opt.apply(g)
	}

	return g
}

// ListActiveStreamNames implements Browser.
func (g *Gateway) ListActiveStreamNames(ctx context.Context) ([]string, error) {
	names, err := g.directory.ActiveStreamNames(ctx)
	if err != nil {
		logger.Error(g.logger, "Failed to list active stream names", logger.Err(err))
		return nil, fmt.Errorf("messagedb.Gateway: failed to list active stream names, %w", err)
	}

	logger.Debug(g.logger, "Listed active stream names", logger.With("count", len(names)))

	return names, nil
}

// GetMessages implements Browser.
//
// The expression is resolved with ResolveAddress and the read starts from
// the configured page, DefaultPageRequest unless set through WithPage.
func (g *Gateway) GetMessages(ctx context.Context, expression string) ([]Message, error) {
	address, err := ResolveAddress(expression)
	if err != nil {
		logger.Debug(g.logger, "Rejected stream name expression", logger.With("expression", expression), logger.Err(err))
		return nil, fmt.Errorf("messagedb.Gateway: failed to resolve address, %w", err)
	}

	rows, err := g.store.Read(ctx, address, g.page)
	if err != nil {
		logger.Error(g.logger, "Failed to read messages",
			logger.With("expression", expression),
			logger.Err(err),
		)

		return nil, fmt.Errorf("messagedb.Gateway: failed to read messages, %w", err)
	}

	messages, err := DecodeMessages(rows)
	if err != nil {
		logger.Error(g.logger, "Failed to decode messages",
			logger.With("expression", expression),
			logger.Err(err),
		)

		return nil, fmt.Errorf("messagedb.Gateway: failed to decode messages, %w", err)
	}

	logger.Debug(g.logger, "Read messages",
		logger.With("expression", expression),
		logger.With("count", len(messages)),
	)

	return messages, nil
}
