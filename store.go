package library

import "context"

// Author is a writer known to the library. Authors are created implicitly the
// first time a book names them and are never deleted.
type Author struct {
	ID   string
	Name string
	Born *int32
}

// Book references exactly one author by identifier. Books are immutable once
// created.
type Book struct {
	ID        string
	Title     *string
	Published *int32
	AuthorID  string
	Genres    []string
}

// User is an account that can log in and appear as the current user of a
// request. Friends is only populated by UserByID.
type User struct {
	ID            string
	Username      string
	FavoriteGenre string
	Friends       []*User
}

// AuthorBookCount is the projection returned by the authors-with-book-count
// aggregation.
type AuthorBookCount struct {
	Author
	BookCount int32
}

// BookFilter narrows a book listing. Zero values mean "no filter"; both
// filters combine as a logical AND.
type BookFilter struct {
	// AuthorID matches books whose author reference equals the identifier
	AuthorID string
	// Genre matches books whose genre list contains the exact string
	Genre string
}

// Store abstracts document persistence for the three collections. Every call
// takes the request context so a cancelled request stops waiting on the
// store. Individual operations are atomic; sequences of them are not, so
// find-or-create flows built on top can race.
type Store interface {
	BookCount(ctx context.Context) (int32, error)
	AuthorCount(ctx context.Context) (int32, error)

	// Books lists books matching the filter, in insertion order.
	Books(ctx context.Context, filter BookFilter) ([]*Book, error)
	// AddBook persists the book and assigns its identifier.
	AddBook(ctx context.Context, book *Book) error

	// AuthorByName returns nil with no error when no author matches.
	AuthorByName(ctx context.Context, name string) (*Author, error)
	AuthorByID(ctx context.Context, id string) (*Author, error)
	// AddAuthor persists the author and assigns its identifier.
	AddAuthor(ctx context.Context, author *Author) error
	// SetAuthorBorn updates the born field of an existing author.
	SetAuthorBorn(ctx context.Context, id string, born int32) error
	// AuthorsWithBookCounts joins authors to the books referencing them and
	// projects a per-author count. Authors with no books appear with 0.
	AuthorsWithBookCounts(ctx context.Context) ([]*AuthorBookCount, error)

	// UserByUsername returns nil with no error when no user matches.
	UserByUsername(ctx context.Context, username string) (*User, error)
	// UserByID resolves a user with its friends relation populated.
	UserByID(ctx context.Context, id string) (*User, error)
	// AddUser persists the user and assigns its identifier.
	AddUser(ctx context.Context, user *User) error

	// Close releases the underlying connection, if any.
	Close(ctx context.Context) error
}
