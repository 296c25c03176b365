package sqlstore

import (
	"github.com/samber/lo"

	"pollex.nl/bookshelf"
	"pollex.nl/bookshelf/sqlmodel"
)

type authorRow struct {
	ID   int32
	Name string

	Books []bookRow
}

type bookRow struct {
	ID       int32
	Name     string
	AuthorID int32
}

func (row authorRow) domain() bookshelf.Author {
	return bookshelf.Author{ID: row.ID, Name: row.Name}
}

func (row bookRow) domain() bookshelf.Book {
	return bookshelf.Book{ID: row.ID, Name: row.Name, AuthorID: row.AuthorID}
}

func authorsToDomain(rows []authorRow) []bookshelf.Author {
	return lo.Map(rows, func(row authorRow, _ int) bookshelf.Author { return row.domain() })
}

func booksToDomain(rows []bookRow) []bookshelf.Book {
	return lo.Map(rows, func(row bookRow, _ int) bookshelf.Book { return row.domain() })
}

var bookSchema = sqlmodel.New[bookRow]("books").
	AddSimpleField("id", func(t *bookRow) any { return &t.ID }).
	AddSimpleField("name", func(t *bookRow) any { return &t.Name }).
	AddSimpleField("author_id", func(t *bookRow) any { return &t.AuthorID }).
	ModifyQuery(sqlmodel.OrderBy("id"))

var authorSchema = sqlmodel.New[authorRow]("authors").
	AddSimpleField("id", func(t *authorRow) any { return &t.ID }).
	AddSimpleField("name", func(t *authorRow) any { return &t.Name }).
	ModifyQuery(sqlmodel.OrderBy("id")).
	AddRelation("books",
		sqlmodel.HasMany(bookSchema,
			func(author authorRow, book bookRow) bool { return book.AuthorID == author.ID },
			func(author *authorRow, books []bookRow) { author.Books = books },
			sqlmodel.WhereIDs("author_id", func(author authorRow) int32 { return author.ID }),
			sqlmodel.DependsOn("id", "books.author_id"),
		),
	)

const migrate = `
	create table if not exists authors (
		id integer primary key,
		name text not null
	);
	create table if not exists books (
		id integer primary key,
		name text not null,
		author_id integer not null
	);
	`
