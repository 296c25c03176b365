package bookshelf

import (
	"context"

	"github.com/pkg/errors"
)

// ErrNotFound is returned by single record lookups when no record has the id.
var ErrNotFound = errors.New("record not found")

// Store owns the authors and books collections. Records are only ever
// appended; a new record gets the id len(collection)+1.
type Store interface {
	Books(ctx context.Context) ([]Book, error)
	Book(ctx context.Context, id int32) (Book, error)
	Authors(ctx context.Context) ([]Author, error)
	Author(ctx context.Context, id int32) (Author, error)

	// BooksByAuthor returns the books referencing authorID in insertion order,
	// whether or not that author exists.
	BooksByAuthor(ctx context.Context, authorID int32) ([]Book, error)

	AddAuthor(ctx context.Context, name string) (Author, error)
	AddBook(ctx context.Context, name string, authorID int32) (Book, error)

	Close() error
}

// IsNotFound reports whether err, or any error it wraps, is ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
