package graph

import (
	"context"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"pollex.nl/bookshelf"
)

// Resolver is the root of both Query and Mutation.
type Resolver struct {
	store bookshelf.Store
}

type idArgs struct {
	ID *int32
}

func (r *Resolver) Books(ctx context.Context) ([]*bookResolver, error) {
	books, err := r.store.Books(ctx)
	if err != nil {
		return nil, err
	}

	return r.books(books), nil
}

func (r *Resolver) Book(ctx context.Context, args idArgs) (*bookResolver, error) {
	if args.ID == nil {
		return nil, nil
	}

	book, err := r.store.Book(ctx, *args.ID)
	if bookshelf.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &bookResolver{root: r, book: book}, nil
}

func (r *Resolver) Authors(ctx context.Context) ([]*authorResolver, error) {
	authors, err := r.store.Authors(ctx)
	if err != nil {
		return nil, err
	}

	return lo.Map(authors, func(author bookshelf.Author, _ int) *authorResolver {
		return &authorResolver{root: r, author: author}
	}), nil
}

func (r *Resolver) Author(ctx context.Context, args idArgs) (*authorResolver, error) {
	if args.ID == nil {
		return nil, nil
	}

	return r.author(ctx, *args.ID)
}

func (r *Resolver) AddBook(ctx context.Context, args struct {
	Name     string
	AuthorID int32
}) (*bookResolver, error) {
	book, err := r.store.AddBook(ctx, args.Name, args.AuthorID)
	if err != nil {
		return nil, errors.Wrap(err, "addBook")
	}

	return &bookResolver{root: r, book: book}, nil
}

func (r *Resolver) AddAuthor(ctx context.Context, args struct {
	Name string
}) (*authorResolver, error) {
	author, err := r.store.AddAuthor(ctx, args.Name)
	if err != nil {
		return nil, errors.Wrap(err, "addAuthor")
	}

	return &authorResolver{root: r, author: author}, nil
}

// author resolves to nil for an unknown id.
func (r *Resolver) author(ctx context.Context, id int32) (*authorResolver, error) {
	author, err := r.store.Author(ctx, id)
	if bookshelf.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &authorResolver{root: r, author: author}, nil
}

func (r *Resolver) books(books []bookshelf.Book) []*bookResolver {
	return lo.Map(books, func(book bookshelf.Book, _ int) *bookResolver {
		return &bookResolver{root: r, book: book}
	})
}

type bookResolver struct {
	root *Resolver
	book bookshelf.Book
}

func (b *bookResolver) ID() int32       { return b.book.ID }
func (b *bookResolver) Name() string    { return b.book.Name }
func (b *bookResolver) AuthorID() int32 { return b.book.AuthorID }

func (b *bookResolver) Author(ctx context.Context) (*authorResolver, error) {
	return b.root.author(ctx, b.book.AuthorID)
}

type authorResolver struct {
	root   *Resolver
	author bookshelf.Author
}

func (a *authorResolver) ID() int32    { return a.author.ID }
func (a *authorResolver) Name() string { return a.author.Name }

func (a *authorResolver) Books(ctx context.Context) ([]*bookResolver, error) {
	books, err := a.root.store.BooksByAuthor(ctx, a.author.ID)
	if err != nil {
		return nil, err
	}

	return a.root.books(books), nil
}
