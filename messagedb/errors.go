package messagedb

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// AddressError is returned when a stream name expression cannot be resolved
// into a stream or a category address.
type AddressError struct {
	Expression string
	Reason     string
}

func (err *AddressError) Error() string {
	return fmt.Sprintf("invalid stream name expression %q: %s", err.Expression, err.Reason)
}

// ConnectivityError is returned when the message store could not be reached,
// either because no connection could be established or checked out of the pool,
// or because the connection failed while the statement was running.
type ConnectivityError struct {
	Op  string
	Err error
}

func (err *ConnectivityError) Error() string {
	return fmt.Sprintf("%s: message store unreachable, %v", err.Op, err.Err)
}

func (err *ConnectivityError) Unwrap() error { return err.Err }

// QueryError is returned when the message store received the statement but
// failed to execute it, e.g. a malformed statement, a missing permission or an
// exception raised by one of the store functions.
type QueryError struct {
	Op string
	// Code is the SQLSTATE code reported by PostgreSQL, if any.
	Code string
	Err  error
}

func (err *QueryError) Error() string {
	if err.Code != "" {
		return fmt.Sprintf("%s: query failed (sqlstate %s), %v", err.Op, err.Code, err.Err)
	}

	return fmt.Sprintf("%s: query failed, %v", err.Op, err.Err)
}

func (err *QueryError) Unwrap() error { return err.Err }

// DecodeError is returned when a JSON column of a message row does not hold
// a JSON object.
type DecodeError struct {
	Column         string
	GlobalPosition int64
	Err            error
}

func (err *DecodeError) Error() string {
	return fmt.Sprintf(
		"failed to decode %s column of message at global position %d, %v",
		err.Column, err.GlobalPosition, err.Err,
	)
}

func (err *DecodeError) Unwrap() error { return err.Err }

// classifyError maps a pgx failure into either a ConnectivityError or a QueryError.
//
// Connection failures are checked first: a server refusing a new connection
// is reported as a *pgconn.ConnectError wrapping a *pgconn.PgError.
func classifyError(op string, err error) error {
	if isConnectivityFailure(err) {
		return &ConnectivityError{Op: op, Err: err}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if isConnectivityCode(pgErr.Code) {
			return &ConnectivityError{Op: op, Err: err}
		}

		return &QueryError{Op: op, Code: pgErr.Code, Err: err}
	}

	return &QueryError{Op: op, Err: err}
}

func isConnectivityFailure(err error) bool {
	var (
		connectErr *pgconn.ConnectError
		netErr     net.Error
	)

	switch {
	case errors.As(err, &connectErr), errors.As(err, &netErr):
		return true
	case pgconn.Timeout(err), errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return true
	default:
		return false
	}
}

// isConnectivityCode reports whether a SQLSTATE code means the server could
// not serve the connection, rather than the statement being wrong.
func isConnectivityCode(code string) bool {
	switch code {
	case "53300", // too_many_connections
		"57P01", // admin_shutdown
		"57P02", // crash_shutdown
		"57P03": // cannot_connect_now
		return true
	default:
		// Class 08: connection exception.
		return strings.HasPrefix(code, "08")
	}
}
