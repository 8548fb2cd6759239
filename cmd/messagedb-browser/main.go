// Package main contains the entrypoint for the Message DB browser HTTP API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/get-eventually/messagedb-browser/httpapi"
	"github.com/get-eventually/messagedb-browser/logger/zaplogger"
	"github.com/get-eventually/messagedb-browser/messagedb"
	"github.com/get-eventually/messagedb-browser/opentelemetry"
)

func newLogger(development bool) (*zap.Logger, error) {
	if development {
		return zap.NewDevelopment()
	}

	return zap.NewProduction()
}

func run(ctx context.Context) error {
	cfg, err := parseConfig()
	if err != nil {
		return fmt.Errorf("messagedb-browser.main: failed to parse config, %w", err)
	}

	zapLogger, err := newLogger(cfg.Log.Development)
	if err != nil {
		return fmt.Errorf("messagedb-browser.main: failed to initialize logger, %w", err)
	}

	//nolint:errcheck // No need for this error to come up if it happens.
	defer zapLogger.Sync()

	log := zaplogger.Wrap(zapLogger)

	pool, err := messagedb.Connect(ctx, messagedb.PoolConfig{
		DSN:                cfg.Database.URL,
		MaxConns:           cfg.Database.MaxConns,
		EnableSQLCondition: cfg.Database.SQLCondition,
	})
	if err != nil {
		return fmt.Errorf("messagedb-browser.main: failed to connect to the message store, %w", err)
	}

	defer pool.Close()

	page := messagedb.DefaultPageRequest()
	page.BatchSize = cfg.BatchSize

	gateway := messagedb.NewGateway(pool,
		messagedb.WithSchema(cfg.Database.Schema),
		messagedb.WithPage(page),
		messagedb.WithActiveStreamsLimit(cfg.ActiveStreamsLimit),
		messagedb.WithLogger(log),
	)

	browser, err := opentelemetry.NewInstrumentedBrowser(gateway,
		opentelemetry.WithAttributes(opentelemetry.SchemaKey.String(cfg.Database.Schema)),
	)
	if err != nil {
		return fmt.Errorf("messagedb-browser.main: failed to instrument browser, %w", err)
	}

	handler := httpapi.Handler{
		Browser: browser,
		Pinger:  pool,
		Logger:  log,
	}

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      h2c.NewHandler(handler.NewServeMux(), &http2.Server{}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		zapLogger.Sugar().Infow("http server started",
			"address", cfg.Server.Address,
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("messagedb-browser.main: http server exited with error, %w", err)
		}

		return nil
	})

	group.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		zapLogger.Info("shutting down http server")

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("messagedb-browser.main: failed to shut down http server, %w", err)
		}

		return nil
	})

	return group.Wait()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
