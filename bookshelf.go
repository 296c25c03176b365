// Package bookshelf holds the author and book records served over GraphQL and
// the Store contract every backend implements.
package bookshelf

// Ids are int32 to match the GraphQL Int scalar they are served as.
type Author struct {
	ID   int32
	Name string
}

type Book struct {
	ID   int32
	Name string

	// AuthorID is not checked against the authors collection. A book may point
	// at an author that does not exist.
	AuthorID int32
}

// SeedAuthors returns the authors every store starts with, in insertion order.
func SeedAuthors() []Author {
	return []Author{
		{ID: 1, Name: "Mustapha B. Ibrahim"},
		{ID: 2, Name: "Kelvin A. Boateng"},
		{ID: 3, Name: "Prince KK. Adjei"},
	}
}

// SeedBooks returns the books every store starts with, in insertion order.
func SeedBooks() []Book {
	return []Book{
		{ID: 1, Name: "Cracking the Coding Interview", AuthorID: 1},
		{ID: 2, Name: "Book of Life", AuthorID: 1},
		{ID: 3, Name: "Rich Dad Poor Dad", AuthorID: 1},
		{ID: 4, Name: "Avengers Endgame", AuthorID: 2},
		{ID: 5, Name: "Spiderman No Way Home", AuthorID: 2},
		{ID: 6, Name: "Black Panther", AuthorID: 2},
		{ID: 7, Name: "Captain America", AuthorID: 3},
		{ID: 8, Name: "Ada the Snake Girl", AuthorID: 3},
	}
}
