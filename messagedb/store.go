package messagedb

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// DefaultSchema is the PostgreSQL schema Message DB installs its objects in.
const DefaultSchema = "message_store"

// Querier runs a query and returns its rows. *pgxpool.Pool, *pgx.Conn and
// pgx.Tx all satisfy it.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// messageColumns are selected explicitly, instead of using '*', so that the
// write time is carried over as text.
const messageColumns = `id::text AS id,
	stream_name::text AS stream_name,
	type::text AS type,
	position,
	global_position,
	data::text AS data,
	metadata::text AS metadata,
	time::text AS time`

// Store reads pages of messages through the Message DB read functions,
// get_stream_messages and get_category_messages.
//
// Store issues independent read statements and holds no state of its own,
// so it is safe for concurrent use as long as Conn is.
type Store struct {
	Conn Querier

	// Schema is the schema holding the store functions, DefaultSchema if empty.
	Schema string
}

func (s Store) function(name string) string {
	schema := s.Schema
	if schema == "" {
		schema = DefaultSchema
	}

	return pgx.Identifier{schema, name}.Sanitize()
}

// Read reads a page of messages from the stream or the category addressed.
//
// For a CategoryAddress, the address condition is applied to the read
// in place of the page one.
func (s Store) Read(ctx context.Context, address Address, page PageRequest) ([]Row, error) {
	switch addr := address.(type) {
	case ExactAddress:
		return s.ReadStream(ctx, addr.StreamName, page)
	case CategoryAddress:
		return s.ReadCategory(ctx, addr.Category, page.withCondition(addr.Condition))
	default:
		return nil, fmt.Errorf("messagedb.Store: unexpected address type, %T", addr)
	}
}

// ReadStream reads a page of messages from a single stream, in position order.
func (s Store) ReadStream(ctx context.Context, streamName string, page PageRequest) ([]Row, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM %s($1::varchar, $2::bigint, $3::bigint, $4::varchar)",
		messageColumns, s.function("get_stream_messages"),
	)

	rows, err := s.Conn.Query(ctx, query, streamName, page.Position, page.BatchSize, page.Condition)
	if err != nil {
		return nil, classifyError("messagedb.Store.ReadStream", err)
	}

	return collectMessageRows("messagedb.Store.ReadStream", rows)
}

// ReadCategory reads a page of messages from all the streams of a category,
// in global position order.
func (s Store) ReadCategory(ctx context.Context, category string, page PageRequest) ([]Row, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM %s($1::varchar, $2::bigint, $3::bigint,
			$4::varchar, $5::bigint, $6::bigint, $7::varchar)`,
		messageColumns, s.function("get_category_messages"),
	)

	rows, err := s.Conn.Query(
		ctx, query,
		category,
		page.Position,
		page.BatchSize,
		page.Correlation,
		page.ConsumerGroupMember,
		page.ConsumerGroupSize,
		page.Condition,
	)
	if err != nil {
		return nil, classifyError("messagedb.Store.ReadCategory", err)
	}

	return collectMessageRows("messagedb.Store.ReadCategory", rows)
}

func collectMessageRows(op string, rows pgx.Rows) ([]Row, error) {
	result, err := pgx.CollectRows(rows, pgx.RowToStructByName[Row])
	if err != nil {
		return nil, classifyError(op, err)
	}

	return result, nil
}
