package messagedb

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// DefaultActiveStreamsLimit is the number of stream names returned by
// Directory.ActiveStreamNames when no limit is set.
const DefaultActiveStreamsLimit = 25

// Directory lists the streams present in the store, reading the messages
// table directly.
type Directory struct {
	Conn Querier

	// Schema is the schema holding the messages table, DefaultSchema if empty.
	Schema string

	// Limit is the maximum number of names returned, DefaultActiveStreamsLimit if zero.
	Limit int
}

// ActiveStreamNames returns the distinct stream names in the store, most
// recently written first.
func (d Directory) ActiveStreamNames(ctx context.Context) ([]string, error) {
	schema, limit := d.Schema, d.Limit
	if schema == "" {
		schema = DefaultSchema
	}

	if limit <= 0 {
		limit = DefaultActiveStreamsLimit
	}

	query := fmt.Sprintf(
		`SELECT stream_name FROM %s
		GROUP BY stream_name
		ORDER BY max(global_position) DESC
		LIMIT $1`,
		pgx.Identifier{schema, "messages"}.Sanitize(),
	)

	rows, err := d.Conn.Query(ctx, query, limit)
	if err != nil {
		return nil, classifyError("messagedb.Directory.ActiveStreamNames", err)
	}

	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, classifyError("messagedb.Directory.ActiveStreamNames", err)
	}

	return names, nil
}
