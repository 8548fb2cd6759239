package messagedb

import "github.com/get-eventually/messagedb-browser/logger"

// Option can be used to change the configuration of an object.
type Option[T any] interface {
	apply(T)
}

type option[T any] func(T)

func newOption[T any](f func(T)) option[T] { return option[T](f) }

func (apply option[T]) apply(val T) { apply(val) }

// WithPage sets the page every Gateway.GetMessages call reads, in place of
// DefaultPageRequest. Any condition set in the page is ignored.
func WithPage(page PageRequest) Option[*Gateway] {
	return newOption(func(g *Gateway) {
		page.Condition = nil
		g.page = page
	})
}

// WithActiveStreamsLimit sets the maximum number of names returned by
// Gateway.ListActiveStreamNames.
func WithActiveStreamsLimit(limit int) Option[*Gateway] {
	return newOption(func(g *Gateway) {
		g.directory.Limit = limit
	})
}

// WithSchema sets the schema the Message DB objects live in, if other than DefaultSchema.
func WithSchema(schema string) Option[*Gateway] {
	return newOption(func(g *Gateway) {
		g.store.Schema = schema
		g.directory.Schema = schema
	})
}

// WithLogger sets the logger used by the Gateway. No logs are written by default.
func WithLogger(l logger.Logger) Option[*Gateway] {
	return newOption(func(g *Gateway) {
		g.logger = l
	})
}
