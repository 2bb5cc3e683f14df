// Command antolinimport loads the Antolin reading-program title list (a semicolon separated
// CSV export) into the antolin table.
//
//	antolinimport -csv antolin.csv -batch 500
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AntonStoeckl/library-entitytable/config"
)

var ErrMissingCSV = errors.New("missing -csv")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	if err := run(ctx, os.Args[1:], logger); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			logger.Error("antolin import failed", "error", err.Error())
		}
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, logger *slog.Logger) error {
	fs := flag.NewFlagSet("antolinimport", flag.ContinueOnError)

	var (
		csvPath   = fs.String("csv", "", "Path of the Antolin CSV export")
		batchSize = fs.Int("batch", defaultBatchSize, "Number of titles per insert statement")
		envFile   = fs.String("env", ".env", "Environment file to load")
	)

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *csvPath == "" {
		return ErrMissingCSV
	}

	if err := config.LoadEnv(*envFile); err != nil {
		return fmt.Errorf("loading %s: %w", *envFile, err)
	}

	file, err := os.Open(*csvPath)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	poolConfig, err := config.PostgresPGXPoolConfig(config.PostgresDSN())
	if err != nil {
		return err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx) // ignored if already committed
	}()

	importer, err := NewImporter(tx, *batchSize, logger)
	if err != nil {
		return err
	}

	start := time.Now()

	stats, err := importer.Import(ctx, file)
	if err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}

	logger.Info("antolin import completed",
		"imported", stats.Imported,
		"skipped", stats.Skipped,
		"batches", stats.Batches,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return nil
}
