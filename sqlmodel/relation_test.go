package sqlmodel_test

import (
	"context"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pollex.nl/bookshelf/sqlmodel"
)

func TestBasicModelRelation(t *testing.T) {
	db, sq := setupDB(t)
	seed(sq)

	t.Run("relation all fields", func(t *testing.T) {
		authors, err := author.Query("id", "books").
			Collect(context.Background(), db)
		require.NoError(t, err)

		require.Len(t, authors, 2)
		require.Len(t, authors[0].Books, 2)
		require.Len(t, authors[1].Books, 2)
		require.NotEmpty(t, authors[0].Books[0].Name)
		require.NotEmpty(t, authors[0].Books[1].Name)
		require.NotEmpty(t, authors[0].Books[0].AuthorID)
		require.NotEmpty(t, authors[0].Books[1].AuthorID)
	})

	t.Run("base and relation all fields", func(t *testing.T) {
		authors, err := author.Query("*", "books").
			Collect(context.Background(), db)
		require.NoError(t, err)

		require.Len(t, authors, 2)
		require.Len(t, authors[0].Books, 2)
		require.NotEmpty(t, authors[0].Name)
		require.NotEmpty(t, authors[0].Books[0].Name)
	})

	t.Run("children keep their order", func(t *testing.T) {
		authors, err := author.Query("*", "books").
			Collect(context.Background(), db)
		require.NoError(t, err)

		assert.Equal(t,
			[]string{"Life of Jeff", "Cooking like Jeff"},
			lo.Map(authors[0].Books, func(b Book, _ int) string { return b.Name }),
		)
	})

	t.Run("nested relations with specific fields", func(t *testing.T) {
		authors, err := author.Query("id", "name", "books.id", "books.author_id", "books.comments.name", "books.comments.book_id").
			Collect(context.Background(), db)
		require.NoError(t, err)

		require.Len(t, authors, 2)
		require.Len(t, authors[0].Books, 2)
		require.Len(t, authors[1].Books, 2)
		require.Len(t, authors[0].Books[0].Comments, 1)
		require.Len(t, authors[0].Books[1].Comments, 1)
		require.Len(t, authors[1].Books[0].Comments, 1)
		require.Len(t, authors[1].Books[1].Comments, 1)

		require.Empty(t, authors[0].Books[0].Name)
		require.Empty(t, authors[0].Books[0].Comments[0].ID)
	})

	t.Run("backref", func(t *testing.T) {
		books, err := book.Query("*", "comments", "comments.book").
			Collect(context.Background(), db)
		require.NoError(t, err)

		require.Len(t, books, 4)
		for _, book := range books {
			assert.Equal(t, book.ID, book.Comments[0].Book.ID)
		}
	})

	t.Run("automatically select fields required for relation", func(t *testing.T) {
		authors, err := author.Query("books.name").
			Collect(context.Background(), db)
		require.NoError(t, err)

		require.Len(t, authors, 2)
		require.Len(t, authors[0].Books, 2)
		require.Len(t, authors[1].Books, 2)

		require.NotEmpty(t, authors[0].ID)
		require.NotEmpty(t, authors[0].Books[0].AuthorID)
		require.NotEmpty(t, authors[0].Books[0].Name)
		require.Empty(t, authors[0].Books[0].ID)
	})

	t.Run("has one leaves dangling references unset", func(t *testing.T) {
		_, err := sqlmodel.Insert(context.Background(), db, "books",
			[]string{"name", "author_id"}, "Ghost written", 99)
		require.NoError(t, err)

		books, err := book.Query("*", "author").Collect(context.Background(), db)
		require.NoError(t, err)

		require.Len(t, books, 5)
		require.NotNil(t, books[0].Author)
		assert.Equal(t, "Jeff", books[0].Author.Name)
		assert.Nil(t, books[4].Author)
	})
}

func TestRelationResolveWithoutParentQuery(t *testing.T) {
	db, sq := setupDB(t)
	seed(sq)

	parents := []Author{{ID: 2}}
	err := author.Relations["books"].Resolve(context.Background(), db, parents, []string{"*"})
	require.NoError(t, err)

	require.Len(t, parents[0].Books, 2)
	assert.Equal(t, "Sing baby sing", parents[0].Books[0].Name)

	var none []Author
	assert.NoError(t, author.Relations["books"].Resolve(context.Background(), db, none, []string{"*"}))
}
