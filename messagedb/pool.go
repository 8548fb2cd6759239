package messagedb

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultMaxConns is the default size of the connection pool opened by Connect.
const DefaultMaxConns = 5

// PoolConfig is the configuration of the connection pool opened by Connect.
type PoolConfig struct {
	// DSN is the connection string of the Message DB database.
	DSN string

	// MaxConns is the size of the pool, DefaultMaxConns if zero.
	MaxConns int32

	// EnableSQLCondition turns on the message_store.sql_condition setting
	// on every connection. Message DB rejects reads with a condition,
	// and so category reads issued by the Gateway, unless it is on.
	EnableSQLCondition bool
}

// Connect opens a connection pool to the Message DB database.
//
// The pool is safe for concurrent use. Callers own it and must Close it.
func Connect(ctx context.Context, config PoolConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(config.DSN)
	if err != nil {
		return nil, fmt.Errorf("messagedb.Connect: invalid dsn, %w", err)
	}

	poolConfig.MaxConns = config.MaxConns
	if poolConfig.MaxConns <= 0 {
		poolConfig.MaxConns = DefaultMaxConns
	}

	if config.EnableSQLCondition {
		poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
			if _, err := conn.Exec(ctx, "SET message_store.sql_condition TO on"); err != nil {
				return fmt.Errorf("messagedb.Connect: failed to enable sql condition, %w", err)
			}

			return nil
		}
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, classifyError("messagedb.Connect", err)
	}

	return pool, nil
}
