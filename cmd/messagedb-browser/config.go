package main

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type config struct {
	Database struct {
		URL          string `default:"postgres://message_store:@localhost/message_store" required:"true"`
		Schema       string `default:"message_store" required:"true"`
		MaxConns     int32  `default:"5" split_words:"true"`
		SQLCondition bool   `default:"true" split_words:"true"`
	}

	Server struct {
		Address         string        `default:":8080" required:"true"`
		ReadTimeout     time.Duration `default:"10s" split_words:"true"`
		WriteTimeout    time.Duration `default:"10s" split_words:"true"`
		ShutdownTimeout time.Duration `default:"10s" split_words:"true"`
	}

	Log struct {
		Development bool `default:"false"`
	}

	BatchSize          int64 `default:"100" split_words:"true"`
	ActiveStreamsLimit int   `default:"25" split_words:"true"`
}

func parseConfig() (*config, error) {
	var cfg config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse from env, %w", err)
	}

	if cfg.BatchSize <= 0 {
		return nil, fmt.Errorf("config: BATCH_SIZE must be positive, got %d", cfg.BatchSize)
	}

	return &cfg, nil
}
