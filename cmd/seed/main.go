package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"libraryapi/internal/book"
	"libraryapi/internal/config"
	"libraryapi/internal/platform/database"
)

func main() {
	config.LoadEnvFiles()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	ctx := context.Background()

	cfg, err := config.LoadDatabase()
	if err != nil {
		logger.Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	repo, closeStore, err := openRepository(ctx, cfg)
	if err != nil {
		logger.Error("open store", slog.Any("error", err))
		os.Exit(1)
	}
	defer closeStore()

	created, skipped, err := seed(ctx, book.NewService(repo), sampleBooks())
	if err != nil {
		logger.Error("seed books", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("seed complete", slog.Int("created", created), slog.Int("skipped", skipped))
}

func openRepository(ctx context.Context, cfg config.Database) (book.Repository, func(), error) {
	if cfg.Driver == database.DriverSQLite {
		db, err := database.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if _, err := database.Migrate(ctx, cfg.Driver, db.DB); err != nil {
			db.Close()
			return nil, nil, err
		}
		return book.NewSQLiteRepo(db, cfg.Timeout), func() { _ = db.Close() }, nil
	}

	pool, err := database.OpenPostgres(ctx, cfg.DSN)
	if err != nil {
		return nil, nil, err
	}
	if _, err := database.Migrate(ctx, database.DriverPostgres, database.PostgresSQLDB(pool)); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return book.NewPostgresRepo(pool, cfg.Timeout), pool.Close, nil
}

// seed creates every valid book that is not stored yet.
func seed(ctx context.Context, service *book.Service, books []book.Book) (created, skipped int, err error) {
	for _, b := range books {
		if violations := book.Validate(b); len(violations) > 0 {
			skipped++
			continue
		}
		ok, err := service.Create(ctx, b)
		if err != nil {
			return created, skipped, err
		}
		if ok {
			created++
		} else {
			skipped++
		}
	}
	return created, skipped, nil
}

func sampleBooks() []book.Book {
	date := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }
	return []book.Book{
		{ISBN: "978-0-13-468599-1", Title: "Systems Design", Author: "A. Engineer", PageCount: 200, ShortDescription: "An introduction to designing distributed systems.", ReleaseDate: date(2019, time.March, 4)},
		{ISBN: "978-0-13-419044-0", Title: "The Go Programming Language", Author: "Alan Donovan, Brian Kernighan", PageCount: 380, ShortDescription: "A tour of Go from the basics to concurrency.", ReleaseDate: date(2015, time.October, 26)},
		{ISBN: "978-1-4493-7332-0", Title: "Designing Data-Intensive Applications", Author: "Martin Kleppmann", PageCount: 616, ShortDescription: "Reliable, scalable and maintainable data systems.", ReleaseDate: date(2017, time.March, 16)},
		{ISBN: "978-0-201-63361-0", Title: "Design Patterns", Author: "Gamma, Helm, Johnson, Vlissides", PageCount: 395, ShortDescription: "Elements of reusable object-oriented software.", ReleaseDate: date(1994, time.October, 31)},
		{ISBN: "0-13-110362-8", Title: "The C Programming Language", Author: "Brian Kernighan, Dennis Ritchie", PageCount: 272, ShortDescription: "The classic reference for C.", ReleaseDate: date(1988, time.April, 1)},
	}
}
