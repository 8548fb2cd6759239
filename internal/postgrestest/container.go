package postgrestest

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Container is a running PostgreSQL container with the message_store schema installed.
type Container struct {
	*postgres.PostgresContainer

	ConnectionDSN string
}

// NewContainer starts a PostgreSQL container through testcontainers and
// installs the message_store schema in it.
//
// Callers are responsible for terminating the container.
func NewContainer(ctx context.Context) (*Container, error) {
	withContext := func(msg string, err error) error {
		return fmt.Errorf("postgrestest.NewContainer: %s, %w", msg, err)
	}

	container, err := postgres.Run(
		ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("message_store"),
		postgres.WithUsername("message_store"),
		postgres.WithPassword("notasecret"),
		testcontainers.WithWaitStrategy(
			//nolint:mnd // It's ok to use a magic number here.
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, withContext("failed to run new container", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, withContext("failed to get connection dsn", err)
	}

	if err := InstallSchema(ctx, dsn); err != nil {
		_ = container.Terminate(ctx)
		return nil, withContext("failed to install message store schema", err)
	}

	return &Container{
		PostgresContainer: container,
		ConnectionDSN:     dsn,
	}, nil
}
