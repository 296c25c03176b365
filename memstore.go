package bookshelf

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// MemoryStore keeps both collections in slices. Every lookup is a linear scan.
type MemoryStore struct {
	mu      sync.RWMutex
	authors []Author
	books   []Book
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns a store seeded with SeedAuthors and SeedBooks.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		authors: SeedAuthors(),
		books:   SeedBooks(),
	}
}

func (store *MemoryStore) Books(_ context.Context) ([]Book, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	return append([]Book(nil), store.books...), nil
}

func (store *MemoryStore) Book(_ context.Context, id int32) (Book, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	book, ok := lo.Find(store.books, func(book Book) bool { return book.ID == id })
	if !ok {
		return Book{}, errors.Wrapf(ErrNotFound, "book %d", id)
	}

	return book, nil
}

func (store *MemoryStore) Authors(_ context.Context) ([]Author, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	return append([]Author(nil), store.authors...), nil
}

func (store *MemoryStore) Author(_ context.Context, id int32) (Author, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	author, ok := lo.Find(store.authors, func(author Author) bool { return author.ID == id })
	if !ok {
		return Author{}, errors.Wrapf(ErrNotFound, "author %d", id)
	}

	return author, nil
}

func (store *MemoryStore) BooksByAuthor(_ context.Context, authorID int32) ([]Book, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	return lo.Filter(store.books, func(book Book, _ int) bool { return book.AuthorID == authorID }), nil
}

// AddAuthor appends an author. The write lock is held across reading the
// length and appending, so concurrent callers never share an id.
func (store *MemoryStore) AddAuthor(_ context.Context, name string) (Author, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	author := Author{ID: int32(len(store.authors)) + 1, Name: name}
	store.authors = append(store.authors, author)

	return author, nil
}

func (store *MemoryStore) AddBook(_ context.Context, name string, authorID int32) (Book, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	book := Book{ID: int32(len(store.books)) + 1, Name: name, AuthorID: authorID}
	store.books = append(store.books, book)

	return book, nil
}

func (store *MemoryStore) Close() error { return nil }
