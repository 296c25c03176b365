package sqlmodel_test

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pollex.nl/bookshelf/sqlmodel"
)

var (
	comment = sqlmodel.New[Comment]("book_comments").
		AddSimpleField("id", func(t *Comment) any { return &t.ID }).
		AddSimpleField("name", func(t *Comment) any { return &t.Name }).
		AddSimpleField("book_id", func(t *Comment) any { return &t.BookID })

	book = sqlmodel.New[Book]("books").
		AddSimpleField("id", func(t *Book) any { return &t.ID }).
		AddSimpleField("name", func(t *Book) any { return &t.Name }).
		AddSimpleField("author_id", func(t *Book) any { return &t.AuthorID }).
		ModifyQuery(sqlmodel.OrderBy("id")).
		AddRelation("comments",
			sqlmodel.HasMany(comment,
				func(book Book, comment Comment) bool { return comment.BookID == book.ID },
				func(book *Book, comments []Comment) { book.Comments = comments },
				sqlmodel.WhereIDs("book_id", func(book Book) uint64 { return book.ID }),
				sqlmodel.DependsOn("id", "comments.book_id"),
			),
		)

	author = sqlmodel.New[Author]("authors").
		AddSimpleField("id", func(t *Author) any { return &t.ID }).
		AddSimpleField("name", func(t *Author) any { return &t.Name }).
		AddField(
			"tags",
			sqlmodel.Col("tags"),
			func(t *Author) (sqlmodel.Ptrs, sqlmodel.Action) {
				var tagString string
				return sqlmodel.Ptrs{&tagString}, func() {
					t.Tags = strings.Split(tagString, ",")
				}
			},
		).
		ModifyQuery(sqlmodel.OrderBy("id")).
		AddRelation(
			"books",
			sqlmodel.HasMany(book,
				func(author Author, book Book) bool { return book.AuthorID == author.ID },
				func(author *Author, books []Book) { author.Books = books },
				sqlmodel.WhereIDs("author_id", func(a Author) uint64 { return a.ID }),
				sqlmodel.DependsOn("id", "books.author_id"),
			),
		)
)

func init() {
	comment.AddRelation(
		"book",
		sqlmodel.HasOne(book,
			func(c Comment, b Book) bool { return c.BookID == b.ID },
			func(c *Comment, b Book) { c.Book = &b },
			sqlmodel.WhereIDs("id", func(c Comment) uint64 { return c.BookID }),
			sqlmodel.DependsOn(),
		))
	book.AddRelation(
		"author",
		sqlmodel.HasOne(author,
			func(b Book, a Author) bool { return b.AuthorID == a.ID },
			func(b *Book, a Author) { b.Author = &a },
			sqlmodel.WhereIDs("id", func(b Book) uint64 { return b.AuthorID }),
			sqlmodel.DependsOn("author_id"),
		))
}

func TestBasicModelUsage(t *testing.T) {
	db, sq := setupDB(t)
	seed(sq)

	t.Run("select fields", func(t *testing.T) {
		authors, err := author.Query("id", "tags").Collect(context.Background(), db)
		require.NoError(t, err)

		assert.Len(t, authors, 2)
		for i := 0; i < 2; i++ {
			assert.Empty(t, authors[i].Name)
			assert.NotEmpty(t, authors[i].ID)
			assert.NotEmpty(t, authors[i].Tags)
		}
		assert.Equal(t, []string{"cool", "awesome"}, authors[0].Tags)
	})

	t.Run("select all by not providing fields", func(t *testing.T) {
		authors, err := author.Query().Collect(context.Background(), db)
		require.NoError(t, err)

		assert.Len(t, authors, 2)
		for i := 0; i < 2; i++ {
			assert.NotEmpty(t, authors[i].Name)
			assert.NotEmpty(t, authors[i].ID)
			assert.NotEmpty(t, authors[i].Tags)
		}
	})

	t.Run("unknown field is an error", func(t *testing.T) {
		authors, err := author.Query("id", "age").Collect(context.Background(), db)
		assert.ErrorIs(t, err, sqlmodel.ErrNoSuchField)
		assert.Nil(t, authors)
	})

	t.Run("nesting into a plain field is an error", func(t *testing.T) {
		_, err := author.Query("name.first").Collect(context.Background(), db)
		assert.ErrorIs(t, err, sqlmodel.ErrNoSuchRelation)
	})

	t.Run("unknown nested field is an error", func(t *testing.T) {
		_, err := author.Query("books.isbn").Collect(context.Background(), db)
		assert.ErrorIs(t, err, sqlmodel.ErrNoSuchField)
	})

	t.Run("count", func(t *testing.T) {
		count, err := author.Query().Count(context.Background(), db)
		require.NoError(t, err)
		assert.EqualValues(t, 2, count)

		count, err = book.Query().
			ModifyQuery(sqlmodel.WhereEq("author_id", 2)).
			Count(context.Background(), db)
		require.NoError(t, err)
		assert.EqualValues(t, 2, count)
	})
}

func TestSchemaCheck(t *testing.T) {
	assert.NoError(t, author.Check("name"))
	assert.NoError(t, author.Check("books"))
	assert.NoError(t, author.Check("books.comments.name"))
	assert.NoError(t, author.Check("*"))
	assert.ErrorIs(t, author.Check("books.comments.score"), sqlmodel.ErrNoSuchField)
	assert.ErrorIs(t, author.Check("name.first"), sqlmodel.ErrNoSuchRelation)
}

func TestInsert(t *testing.T) {
	db, sq := setupDB(t)
	seed(sq)
	ctx := context.Background()

	id, err := sqlmodel.Insert(ctx, db, "authors", []string{"name", "tags"}, "Prince", "purple")
	require.NoError(t, err)
	assert.EqualValues(t, 3, id)

	inserted, err := author.Query().
		ModifyQuery(sqlmodel.WhereEq("id", id)).
		CollectOne(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, "Prince", inserted.Name)
	assert.Equal(t, []string{"purple"}, inserted.Tags)

	_, err = sqlmodel.Insert(ctx, db, "authors", []string{"id", "name", "tags"}, 1, "Dup", "")
	assert.Error(t, err)
}

func TestCollectOne(t *testing.T) {
	db, sq := setupDB(t)
	seed(sq)

	t.Run("CollectOne should return one item", func(t *testing.T) {
		author, err := author.Query().
			ModifyQuery(func(q sqlmodel.Q, table string) sqlmodel.Q { return q.Where("id = ?", 2) }).
			CollectOne(context.Background(), db)
		require.NoError(t, err)
		assert.NotNil(t, author)
		assert.NotEmpty(t, author.ID)
		assert.NotEmpty(t, author.Name)
		assert.Empty(t, author.Books)
	})

	t.Run("CollectOne should error on many returns", func(t *testing.T) {
		author, err := author.Query().
			CollectOne(context.Background(), db)
		assert.ErrorIs(t, err, sqlmodel.ErrTooManyResults)
		assert.Nil(t, author)
	})

	t.Run("CollectOne should error on no returns", func(t *testing.T) {
		author, err := author.Query().
			ModifyQuery(func(q sqlmodel.Q, table string) sqlmodel.Q { return q.Where("false") }).
			CollectOne(context.Background(), db)
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, author)
	})
}
