package postgrestest

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// QueryRower runs a query returning a single row, like *pgxpool.Pool does.
type QueryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Message is a fixture message to write in the store.
type Message struct {
	StreamName string
	Type       string
	Data       any
	// Metadata is written as NULL when nil.
	Metadata any
}

// WriteMessage writes msg through message_store.write_message and returns
// the id assigned to it and its position in the stream.
func WriteMessage(ctx context.Context, conn QueryRower, msg Message) (id string, position int64, err error) {
	data, err := json.Marshal(msg.Data)
	if err != nil {
		return "", 0, fmt.Errorf("postgrestest.WriteMessage: failed to marshal data, %w", err)
	}

	var metadata []byte

	if msg.Metadata != nil {
		if metadata, err = json.Marshal(msg.Metadata); err != nil {
			return "", 0, fmt.Errorf("postgrestest.WriteMessage: failed to marshal metadata, %w", err)
		}
	}

	id = uuid.NewString()

	row := conn.QueryRow(
		ctx,
		"SELECT message_store.write_message($1::varchar, $2::varchar, $3::varchar, $4::jsonb, $5::jsonb)",
		id, msg.StreamName, msg.Type, string(data), nullableString(metadata),
	)

	if err := row.Scan(&position); err != nil {
		return "", 0, fmt.Errorf("postgrestest.WriteMessage: failed to write message, %w", err)
	}

	return id, position, nil
}

func nullableString(b []byte) *string {
	if b == nil {
		return nil
	}

	s := string(b)

	return &s
}
