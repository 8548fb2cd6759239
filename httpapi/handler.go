// Package httpapi exposes a messagedb.Browser over HTTP, with JSON responses.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/get-eventually/messagedb-browser/logger"
	"github.com/get-eventually/messagedb-browser/messagedb"
)

// StreamQueryParameter is the query parameter holding the stream name expression
// of a messages request.
const StreamQueryParameter = "stream"

// Pinger checks that the database is reachable. *pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// Handler serves the messagedb.Browser operations:
//
//	GET /streams                   the most recently active stream names
//	GET /messages?stream=<expr>    the messages addressed by a stream name expression
//	GET /healthz                   204 if the database answers, 503 otherwise
type Handler struct {
	Browser messagedb.Browser
	// Pinger is used by /healthz. The endpoint always succeeds when nil.
	Pinger Pinger
	Logger logger.Logger
}

// NewServeMux returns a http.ServeMux routing the requests to h.
func (h Handler) NewServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /streams", h.listActiveStreamNames)
	mux.HandleFunc("GET /messages", h.getMessages)
	mux.HandleFunc("GET /healthz", h.healthz)

	return mux
}

func (h Handler) listActiveStreamNames(w http.ResponseWriter, r *http.Request) {
	names, err := h.Browser.ListActiveStreamNames(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	if names == nil {
		names = []string{}
	}

	h.writeJSON(w, http.StatusOK, names)
}

func (h Handler) getMessages(w http.ResponseWriter, r *http.Request) {
	expression := r.URL.Query().Get(StreamQueryParameter)
	if expression == "" {
		h.writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "missing '" + StreamQueryParameter + "' query parameter",
			Kind:  "address",
		})

		return
	}

	messages, err := h.Browser.GetMessages(r.Context(), expression)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if messages == nil {
		messages = []messagedb.Message{}
	}

	h.writeJSON(w, http.StatusOK, messages)
}

func (h Handler) healthz(w http.ResponseWriter, r *http.Request) {
	if h.Pinger != nil {
		if err := h.Pinger.Ping(r.Context()); err != nil {
			logger.Warn(h.Logger, "Health check failed", logger.Err(err))
			w.WriteHeader(http.StatusServiceUnavailable)

			return
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

// errorStatus maps a messagedb error to the response status and error kind.
func errorStatus(err error) (int, string) {
	var (
		addressErr      *messagedb.AddressError
		connectivityErr *messagedb.ConnectivityError
		queryErr        *messagedb.QueryError
		decodeErr       *messagedb.DecodeError
	)

	switch {
	case errors.As(err, &addressErr):
		return http.StatusBadRequest, "address"
	case errors.As(err, &connectivityErr):
		return http.StatusServiceUnavailable, "connectivity"
	case errors.As(err, &queryErr):
		return http.StatusBadGateway, "query"
	case errors.As(err, &decodeErr):
		return http.StatusBadGateway, "decode"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func (h Handler) writeError(w http.ResponseWriter, err error) {
	status, kind := errorStatus(err)
	h.writeJSON(w, status, ErrorResponse{Error: err.Error(), Kind: kind})
}

func (h Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error(h.Logger, "Failed to write response body", logger.Err(err))
	}
}
