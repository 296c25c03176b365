// Package sqlstore implements bookshelf.Store on SQLite. By default the
// database is in memory and lives as long as the Store; a file dsn persists it.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"pollex.nl/bookshelf"
	"pollex.nl/bookshelf/sqlmodel"
)

type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

var _ bookshelf.Store = (*Store)(nil)

// MemoryDSN names a fresh shared-cache in-memory database, so two stores in one
// process never see each other's rows.
func MemoryDSN() string {
	return fmt.Sprintf("file:bookshelf-%s?mode=memory&cache=shared", uuid.NewString())
}

// Open connects to dsn, creates missing tables and seeds an empty database. An
// empty dsn opens a private in-memory database.
func Open(ctx context.Context, dsn string, logger *zap.Logger) (*Store, error) {
	if dsn == "" {
		dsn = MemoryDSN()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	// A single connection serialises writers and keeps the in-memory database
	// alive between queries.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	store := &Store{db: db, logger: logger}
	if err := store.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Debug("sqlite store ready", zap.String("dsn", dsn))

	return store, nil
}

func (store *Store) migrate(ctx context.Context) error {
	if _, err := store.db.ExecContext(ctx, migrate); err != nil {
		return errors.Wrap(err, "migrate")
	}

	authors, err := authorSchema.Query().Count(ctx, store.db)
	if err != nil {
		return errors.Wrap(err, "count authors")
	}
	if authors > 0 {
		store.logger.Debug("database already seeded", zap.Int64("authors", authors))
		return nil
	}

	for _, author := range bookshelf.SeedAuthors() {
		if _, err := store.insert(ctx, "authors", []string{"id", "name"}, author.ID, author.Name); err != nil {
			return errors.Wrap(err, "seed authors")
		}
	}
	for _, book := range bookshelf.SeedBooks() {
		if _, err := store.insert(ctx, "books", []string{"id", "name", "author_id"}, book.ID, book.Name, book.AuthorID); err != nil {
			return errors.Wrap(err, "seed books")
		}
	}

	return nil
}

func (store *Store) Books(ctx context.Context) ([]bookshelf.Book, error) {
	rows, err := bookSchema.Query().Collect(ctx, store.db)
	if err != nil {
		return nil, errors.Wrap(err, "list books")
	}

	return booksToDomain(rows), nil
}

func (store *Store) Book(ctx context.Context, id int32) (bookshelf.Book, error) {
	row, err := bookSchema.Query().
		ModifyQuery(sqlmodel.WhereEq("id", id)).
		CollectOne(ctx, store.db)
	if err != nil {
		return bookshelf.Book{}, lookupError(err, "book", id)
	}

	return row.domain(), nil
}

func (store *Store) Authors(ctx context.Context) ([]bookshelf.Author, error) {
	rows, err := authorSchema.Query("id", "name").Collect(ctx, store.db)
	if err != nil {
		return nil, errors.Wrap(err, "list authors")
	}

	return authorsToDomain(rows), nil
}

func (store *Store) Author(ctx context.Context, id int32) (bookshelf.Author, error) {
	row, err := authorSchema.Query("id", "name").
		ModifyQuery(sqlmodel.WhereEq("id", id)).
		CollectOne(ctx, store.db)
	if err != nil {
		return bookshelf.Author{}, lookupError(err, "author", id)
	}

	return row.domain(), nil
}

// BooksByAuthor resolves the author's books relation against a bare parent, so
// books pointing at an author that does not exist are still found.
func (store *Store) BooksByAuthor(ctx context.Context, authorID int32) ([]bookshelf.Book, error) {
	parents := []authorRow{{ID: authorID}}
	err := authorSchema.Relations["books"].Resolve(ctx, store.db, parents, []string{"*"})
	if err != nil {
		return nil, errors.Wrapf(err, "books of author %d", authorID)
	}

	return booksToDomain(parents[0].Books), nil
}

// AddAuthor lets SQLite assign the rowid. Rows are never deleted, so the
// assigned id is always the row count plus one.
func (store *Store) AddAuthor(ctx context.Context, name string) (bookshelf.Author, error) {
	id, err := store.insert(ctx, "authors", []string{"name"}, name)
	if err != nil {
		return bookshelf.Author{}, errors.Wrap(err, "add author")
	}

	return bookshelf.Author{ID: id, Name: name}, nil
}

func (store *Store) AddBook(ctx context.Context, name string, authorID int32) (bookshelf.Book, error) {
	id, err := store.insert(ctx, "books", []string{"name", "author_id"}, name, authorID)
	if err != nil {
		return bookshelf.Book{}, errors.Wrap(err, "add book")
	}

	return bookshelf.Book{ID: id, Name: name, AuthorID: authorID}, nil
}

func (store *Store) Close() error {
	return store.db.Close()
}

// insert fails once SQLite hands out a rowid the GraphQL Int scalar cannot
// carry; the row is still written in that case.
func (store *Store) insert(ctx context.Context, table string, columns []string, values ...any) (int32, error) {
	id, err := sqlmodel.Insert(ctx, store.db, table, columns, values...)
	if err != nil {
		return 0, err
	}
	if id > math.MaxInt32 {
		return 0, errors.Errorf("%s id %d overflows int32", table, id)
	}

	store.logger.Debug("row inserted", zap.String("table", table), zap.Int64("id", id))

	return int32(id), nil
}

func lookupError(err error, kind string, id int32) error {
	if errors.Is(err, sql.ErrNoRows) {
		return errors.Wrapf(bookshelf.ErrNotFound, "%s %d", kind, id)
	}

	return errors.Wrapf(err, "get %s %d", kind, id)
}
