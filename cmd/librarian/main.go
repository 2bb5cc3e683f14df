// Command librarian filters, lists and finds library entities and prints them as JSON.
//
//	librarian -entity items -f title=cat -f author=cat -op or -limit 20 -order title
//	librarian -entity patrons -f email=example.org -find
//	librarian -entity checkouts -where "returned is null" -order -due_date -total
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/jackc/pgx/v5/pgxpool"
	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-entitytable/config"
	"github.com/AntonStoeckl/library-entitytable/entitytable"
	"github.com/AntonStoeckl/library-entitytable/entitytable/postgresengine"
	"github.com/AntonStoeckl/library-entitytable/library"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type fieldOutput struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Match string `json:"match"`
}

type listOutput struct {
	Rows  []any  `json:"rows"`
	Total *int64 `json:"total,omitempty"`
}

type findOutput struct {
	Found  bool `json:"found"`
	Entity any  `json:"entity,omitempty"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "librarian:", err)
		}
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	if err = config.LoadEnv(cfg.EnvFile); err != nil {
		return fmt.Errorf("loading %s: %w", cfg.EnvFile, err)
	}

	logger := newLogger(stderr, cfg.Debug)

	db, closeDb, err := openDb(ctx, cfg.Adapter, config.PostgresDSN(), logger)
	if err != nil {
		return err
	}
	defer closeDb()

	catalog, err := library.NewCatalog(db, entitytable.WithLogger(logger))
	if err != nil {
		return err
	}

	return execute(ctx, cfg, catalog, stdout)
}

func execute(ctx context.Context, cfg Config, catalog *library.Catalog, stdout io.Writer) error {
	encoder := json.NewEncoder(stdout)
	encoder.SetIndent("", "  ")

	if cfg.ListFields {
		fields, err := catalog.Fields(cfg.Entity)
		if err != nil {
			return err
		}

		output := make([]fieldOutput, 0, len(fields))
		for _, field := range fields {
			label := field.Label
			if label == "" {
				label = field.Name
			}
			output = append(output, fieldOutput{Name: field.Name, Label: label, Match: field.QueryOp.String()})
		}

		return encoder.Encode(output)
	}

	if cfg.Find {
		entity, found, err := catalog.Find(ctx, cfg.Entity, cfg.EntityQuery())
		if err != nil {
			return err
		}

		return encoder.Encode(findOutput{Found: found, Entity: entity})
	}

	result, err := catalog.List(ctx, cfg.Entity, cfg.EntityQuery())
	if err != nil {
		return err
	}

	return encoder.Encode(listOutput{Rows: result.Rows, Total: result.Total})
}

func newLogger(output io.Writer, debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewJSONHandler(output, &slog.HandlerOptions{Level: level}))
}

func openDb(ctx context.Context, adapter, dsn string, logger *slog.Logger) (entitytable.Db, func(), error) {
	switch adapter {
	case adapterSQL:
		sqlDB, err := config.PostgresSQLDBConfig(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}

		db, err := postgresengine.NewDbFromSQLDB(sqlDB, postgresengine.WithLogger(logger))
		if err != nil {
			_ = sqlDB.Close()
			return nil, nil, err
		}

		return db, func() { _ = sqlDB.Close() }, nil

	case adapterSQLX:
		sqlxDB, err := config.PostgresSQLXConfig(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}

		db, err := postgresengine.NewDbFromSQLX(sqlxDB, postgresengine.WithLogger(logger))
		if err != nil {
			_ = sqlxDB.Close()
			return nil, nil, err
		}

		return db, func() { _ = sqlxDB.Close() }, nil

	default:
		poolConfig, err := config.PostgresPGXPoolConfig(dsn)
		if err != nil {
			return nil, nil, err
		}

		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return nil, nil, err
		}

		db, closeReplica, err := newPGXDb(ctx, pool, logger)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}

		return db, func() { closeReplica(); pool.Close() }, nil
	}
}

// newPGXDb routes queries to the replica when LIBRARY_REPLICA_DSN is set.
func newPGXDb(ctx context.Context, pool *pgxpool.Pool, logger *slog.Logger) (entitytable.Db, func(), error) {
	replicaDSN := config.PostgresReplicaDSN()
	if replicaDSN == "" {
		db, err := postgresengine.NewDbFromPGXPool(pool, postgresengine.WithLogger(logger))
		return db, func() {}, err
	}

	replicaConfig, err := config.PostgresPGXPoolConfig(replicaDSN)
	if err != nil {
		return nil, nil, err
	}

	replica, err := pgxpool.NewWithConfig(ctx, replicaConfig)
	if err != nil {
		return nil, nil, err
	}

	db, err := postgresengine.NewDbFromPGXPoolWithReplica(pool, replica, postgresengine.WithLogger(logger))
	if err != nil {
		replica.Close()
		return nil, nil, err
	}

	return db, replica.Close, nil
}
