package messagedb

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Object is a decoded JSON object. Numbers are kept as json.Number, so that
// integers larger than 2^53 keep their exact value.
type Object map[string]any

// Row is a message as returned by the store read functions, before its JSON
// columns are decoded.
type Row struct {
	ID             string  `db:"id"`
	StreamName     string  `db:"stream_name"`
	Type           string  `db:"type"`
	Position       int64   `db:"position"`
	GlobalPosition int64   `db:"global_position"`
	Data           *string `db:"data"`
	Metadata       *string `db:"metadata"`
	Time           string  `db:"time"`
}

// Message is a message read from the store.
type Message struct {
	ID             string `json:"id"`
	StreamName     string `json:"stream_name"`
	Type           string `json:"type"`
	Position       int64  `json:"position"`
	GlobalPosition int64  `json:"global_position"`
	// Metadata is nil when the message has been written without metadata.
	Metadata Object `json:"metadata"`
	Data     Object `json:"data"`
	// Time is the write time as formatted by the store.
	Time string `json:"time"`
}

// Columns decoded by DecodeMessage, as reported by DecodeError.
const (
	DataColumn     = "data"
	MetadataColumn = "metadata"
)

var (
	errNotAnObject = errors.New("value is not a JSON object")
	errNullData    = errors.New("value is NULL")
)

// DecodeMessage decodes the JSON columns of a Row into a Message.
//
// The data column must hold a JSON object. The metadata column must hold a
// JSON object too, unless it is NULL. Any other content fails with a *DecodeError.
func DecodeMessage(row Row) (Message, error) {
	if row.Data == nil {
		return Message{}, &DecodeError{Column: DataColumn, GlobalPosition: row.GlobalPosition, Err: errNullData}
	}

	data, err := decodeObject(*row.Data)
	if err != nil {
		return Message{}, &DecodeError{Column: DataColumn, GlobalPosition: row.GlobalPosition, Err: err}
	}

	var metadata Object

	if row.Metadata != nil {
		if metadata, err = decodeObject(*row.Metadata); err != nil {
			return Message{}, &DecodeError{Column: MetadataColumn, GlobalPosition: row.GlobalPosition, Err: err}
		}
	}

	return Message{
		ID:             row.ID,
		StreamName:     row.StreamName,
		Type:           row.Type,
		Position:       row.Position,
		GlobalPosition: row.GlobalPosition,
		Metadata:       metadata,
		Data:           data,
		Time:           row.Time,
	}, nil
}

// DecodeMessages decodes all rows, in order.
//
// Decoding stops at the first row that fails, in which case no message is returned.
func DecodeMessages(rows []Row) ([]Message, error) {
	messages := make([]Message, 0, len(rows))

	for _, row := range rows {
		msg, err := DecodeMessage(row)
		if err != nil {
			return nil, err
		}

		messages = append(messages, msg)
	}

	return messages, nil
}

func decodeObject(raw string) (Object, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	var obj Object
	if err := dec.Decode(&obj); err != nil {
		return nil, fmt.Errorf("invalid json, %w", err)
	}

	// Decoding 'null' leaves the map nil.
	if obj == nil {
		return nil, errNotAnObject
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("invalid json, unexpected data after top-level value")
	}

	return obj, nil
}
