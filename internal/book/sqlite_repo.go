package book

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const booksTable = "books"

var sqliteDialect = goqu.Dialect("sqlite3")

// bookRow is the SQLite representation; release_date is stored as RFC 3339 text.
type bookRow struct {
	ISBN             string `db:"isbn"`
	Title            string `db:"title"`
	Author           string `db:"author"`
	PageCount        int    `db:"page_count"`
	ShortDescription string `db:"short_description"`
	ReleaseDate      string `db:"release_date"`
}

func toRow(b Book) goqu.Record {
	return goqu.Record{
		"isbn":              b.ISBN,
		"title":             b.Title,
		"author":            b.Author,
		"page_count":        b.PageCount,
		"short_description": b.ShortDescription,
		"release_date":      b.ReleaseDate.UTC().Format(time.RFC3339Nano),
	}
}

func (row bookRow) toBook() (Book, error) {
	releaseDate, err := time.Parse(time.RFC3339Nano, row.ReleaseDate)
	if err != nil {
		return Book{}, fmt.Errorf("parse release_date of %s: %w", row.ISBN, err)
	}
	return Book{
		ISBN:             row.ISBN,
		Title:            row.Title,
		Author:           row.Author,
		PageCount:        row.PageCount,
		ShortDescription: row.ShortDescription,
		ReleaseDate:      releaseDate,
	}, nil
}

type SQLiteRepo struct {
	db      *sqlx.DB
	timeout time.Duration
}

func NewSQLiteRepo(db *sqlx.DB, timeout time.Duration) *SQLiteRepo {
	return &SQLiteRepo{db: db, timeout: timeout}
}

func (r *SQLiteRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *SQLiteRepo) selectBooks() *goqu.SelectDataset {
	return sqliteDialect.From(booksTable).
		Select("isbn", "title", "author", "page_count", "short_description", "release_date").
		Prepared(true)
}

func (r *SQLiteRepo) Insert(ctx context.Context, b Book) error {
	query, args, err := sqliteDialect.Insert(booksTable).Rows(toRow(b)).Prepared(true).ToSQL()
	if err != nil {
		return err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if _, err := r.db.ExecContext(timeoutCtx, query, args...); err != nil {
		if isSQLiteUniqueViolation(err) {
			return ErrDuplicateISBN
		}
		return err
	}
	return nil
}

func (r *SQLiteRepo) GetByISBN(ctx context.Context, isbn string) (Book, error) {
	query, args, err := r.selectBooks().Where(goqu.C("isbn").Eq(isbn)).Limit(1).ToSQL()
	if err != nil {
		return Book{}, err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var row bookRow
	if err := r.db.GetContext(timeoutCtx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return row.toBook()
}

func (r *SQLiteRepo) List(ctx context.Context) ([]Book, error) {
	return r.list(ctx, r.selectBooks())
}

func (r *SQLiteRepo) SearchByTitle(ctx context.Context, term string) ([]Book, error) {
	pattern := "%" + escapeLike(term) + "%"
	ds := r.selectBooks().Where(goqu.L(`LOWER(title) LIKE LOWER(?) ESCAPE '\'`, pattern))
	return r.list(ctx, ds)
}

func (r *SQLiteRepo) Update(ctx context.Context, b Book) error {
	record := toRow(b)
	delete(record, "isbn")
	query, args, err := sqliteDialect.Update(booksTable).
		Set(record).
		Where(goqu.C("isbn").Eq(b.ISBN)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return err
	}
	return r.execAffectingOne(ctx, query, args...)
}

func (r *SQLiteRepo) Delete(ctx context.Context, isbn string) error {
	query, args, err := sqliteDialect.Delete(booksTable).
		Where(goqu.C("isbn").Eq(isbn)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return err
	}
	return r.execAffectingOne(ctx, query, args...)
}

func (r *SQLiteRepo) list(ctx context.Context, ds *goqu.SelectDataset) ([]Book, error) {
	query, args, err := ds.Order(goqu.C("title").Asc(), goqu.C("isbn").Asc()).ToSQL()
	if err != nil {
		return nil, err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var rows []bookRow
	if err := r.db.SelectContext(timeoutCtx, &rows, query, args...); err != nil {
		return nil, err
	}

	out := make([]Book, 0, len(rows))
	for _, row := range rows {
		b, err := row.toBook()
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// execAffectingOne runs a keyed mutation and reports ErrNotFound if no row matched.
func (r *SQLiteRepo) execAffectingOne(ctx context.Context, query string, args ...any) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	res, err := r.db.ExecContext(timeoutCtx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func isSQLiteUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
		return true
	case sqlite3.SQLITE_CONSTRAINT:
		// Connections without extended result codes only report the primary code.
		return strings.Contains(sqliteErr.Error(), "UNIQUE constraint failed")
	}
	return false
}
