package main

import (
	"context"
	"fmt"
	"log/slog"

	"libraryapi/internal/book"
	"libraryapi/internal/config"
	"libraryapi/internal/platform/database"
)

// store is the opened book repository plus the hooks main needs around it.
type store struct {
	repo  book.Repository
	ping  func(ctx context.Context) error
	close func()
}

// openStore connects to the configured driver and brings the schema up to date.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*store, error) {
	switch cfg.DBDriver {
	case database.DriverPostgres:
		pool, err := database.OpenPostgres(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		results, err := database.Migrate(ctx, database.DriverPostgres, database.PostgresSQLDB(pool))
		if err != nil {
			pool.Close()
			return nil, err
		}
		logger.Info("database connection OK",
			slog.String("driver", cfg.DBDriver),
			slog.String("dsn", database.RedactDSN(cfg.DatabaseDSN)),
			slog.Int("migrations_applied", len(results)),
		)
		return &store{
			repo:  book.NewPostgresRepo(pool, cfg.DBTimeout),
			ping:  pool.Ping,
			close: pool.Close,
		}, nil

	case database.DriverSQLite:
		db, err := database.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		results, err := database.Migrate(ctx, database.DriverSQLite, db.DB)
		if err != nil {
			db.Close()
			return nil, err
		}
		logger.Info("database connection OK",
			slog.String("driver", cfg.DBDriver),
			slog.String("path", cfg.SQLitePath),
			slog.Int("migrations_applied", len(results)),
		)
		return &store{
			repo:  book.NewSQLiteRepo(db, cfg.DBTimeout),
			ping:  db.PingContext,
			close: func() { _ = db.Close() },
		}, nil
	}
	return nil, fmt.Errorf("unsupported driver %q", cfg.DBDriver)
}
