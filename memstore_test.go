package bookshelf_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pollex.nl/bookshelf"
	"pollex.nl/bookshelf/storetest"
)

func TestMemoryStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) bookshelf.Store {
		return bookshelf.NewMemoryStore()
	})
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	store := bookshelf.NewMemoryStore()

	books, err := store.Books(context.Background())
	require.NoError(t, err)
	books[0].Name = "mutated"

	book, err := store.Book(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Cracking the Coding Interview", book.Name)
}
