// Package storetest checks a bookshelf.Store implementation against the
// behaviour every backend shares.
package storetest

import (
	"context"
	"sync"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pollex.nl/bookshelf"
)

// Run executes the suite. newStore must return a freshly seeded store on every
// call.
func Run(t *testing.T, newStore func(t *testing.T) bookshelf.Store) {
	ctx := context.Background()

	t.Run("books returns the seed in insertion order", func(t *testing.T) {
		store := newStore(t)

		books, err := store.Books(ctx)
		require.NoError(t, err)
		assert.Equal(t, bookshelf.SeedBooks(), books)
	})

	t.Run("authors returns the seed in insertion order", func(t *testing.T) {
		store := newStore(t)

		authors, err := store.Authors(ctx)
		require.NoError(t, err)
		assert.Equal(t, bookshelf.SeedAuthors(), authors)
	})

	t.Run("book by id", func(t *testing.T) {
		store := newStore(t)

		book, err := store.Book(ctx, 4)
		require.NoError(t, err)
		assert.Equal(t, "Avengers Endgame", book.Name)
		assert.EqualValues(t, 2, book.AuthorID)

		_, err = store.Book(ctx, 999)
		assert.ErrorIs(t, err, bookshelf.ErrNotFound)
		assert.True(t, bookshelf.IsNotFound(err))
	})

	t.Run("author by id", func(t *testing.T) {
		store := newStore(t)

		author, err := store.Author(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, "Prince KK. Adjei", author.Name)

		_, err = store.Author(ctx, 0)
		assert.ErrorIs(t, err, bookshelf.ErrNotFound)
	})

	t.Run("books by author keep their order", func(t *testing.T) {
		store := newStore(t)

		books, err := store.BooksByAuthor(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t,
			[]string{"Cracking the Coding Interview", "Book of Life", "Rich Dad Poor Dad"},
			lo.Map(books, func(book bookshelf.Book, _ int) string { return book.Name }),
		)

		books, err = store.BooksByAuthor(ctx, 42)
		require.NoError(t, err)
		assert.Empty(t, books)
	})

	t.Run("add author appends with the next id", func(t *testing.T) {
		store := newStore(t)

		before, err := store.Authors(ctx)
		require.NoError(t, err)

		author, err := store.AddAuthor(ctx, "New Author")
		require.NoError(t, err)
		assert.EqualValues(t, len(before)+1, author.ID)
		assert.Equal(t, "New Author", author.Name)

		after, err := store.Authors(ctx)
		require.NoError(t, err)
		require.Len(t, after, len(before)+1)
		assert.Equal(t, author, after[len(after)-1])
	})

	t.Run("add author does not deduplicate names", func(t *testing.T) {
		store := newStore(t)

		first, err := store.AddAuthor(ctx, "Twin")
		require.NoError(t, err)
		second, err := store.AddAuthor(ctx, "Twin")
		require.NoError(t, err)
		assert.NotEqual(t, first.ID, second.ID)
	})

	t.Run("add book shows up under its author", func(t *testing.T) {
		store := newStore(t)

		book, err := store.AddBook(ctx, "X", 1)
		require.NoError(t, err)
		assert.EqualValues(t, len(bookshelf.SeedBooks())+1, book.ID)

		books, err := store.BooksByAuthor(ctx, 1)
		require.NoError(t, err)
		require.Len(t, books, 4)
		assert.Equal(t, book, books[3])
	})

	t.Run("add book with a dangling author id", func(t *testing.T) {
		store := newStore(t)

		book, err := store.AddBook(ctx, "Orphan", 999)
		require.NoError(t, err)

		stored, err := store.Book(ctx, book.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 999, stored.AuthorID)

		_, err = store.Author(ctx, stored.AuthorID)
		assert.ErrorIs(t, err, bookshelf.ErrNotFound)
	})

	t.Run("concurrent appends get distinct ids", func(t *testing.T) {
		store := newStore(t)

		const writers = 16
		ids := make([]int32, writers)
		var wg sync.WaitGroup
		for i := 0; i < writers; i++ {
			i := i
			wg.Add(1)
			go func() {
				defer wg.Done()
				book, err := store.AddBook(ctx, "parallel", 2)
				assert.NoError(t, err)
				ids[i] = book.ID
			}()
		}
		wg.Wait()

		assert.Len(t, lo.Uniq(ids), writers)
		books, err := store.Books(ctx)
		require.NoError(t, err)
		assert.Len(t, books, len(bookshelf.SeedBooks())+writers)
	})
}
