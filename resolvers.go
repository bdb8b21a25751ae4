package library

import (
	"context"
	"errors"

	graphql "github.com/graph-gophers/graphql-go"
)

// devPassword is the only password login accepts. It is a development stub
// carried over from the original service: accounts have no stored credential.
// TODO: accept a password on createUser and verify against a stored hash.
const devPassword = "secret"

// Resolver is the root resolver. The store and token authority are injected
// at construction so resolvers can be exercised without the transport.
type Resolver struct {
	store Store
	auth  *Auth
	log   Logger
}

// NewResolver builds the root resolver around a store and token authority.
func NewResolver(store Store, auth *Auth) *Resolver {
	return &Resolver{
		store: store,
		auth:  auth,
		log:   log,
	}
}

// BookCount returns the total number of books. The underlying cause is kept
// out of the response on purpose; read failures are opaque to clients.
func (r *Resolver) BookCount(ctx context.Context) (int32, error) {
	count, err := r.store.BookCount(ctx)
	if err != nil {
		r.log.Warn("book count failed: ", err)
		return 0, errors.New("unable to fetch book count")
	}
	return count, nil
}

// AuthorCount returns the total number of authors.
func (r *Resolver) AuthorCount(ctx context.Context) (int32, error) {
	count, err := r.store.AuthorCount(ctx)
	if err != nil {
		r.log.Warn("author count failed: ", err)
		return 0, errors.New("unable to fetch author count")
	}
	return count, nil
}

// AllBooks lists books, optionally narrowed by author name and genre. A name
// that matches no author drops the author filter instead of emptying the
// result; clients of the original service depend on that.
func (r *Resolver) AllBooks(ctx context.Context, args struct {
	Author *string
	Genre  *string
}) ([]*bookResolver, error) {
	filter := BookFilter{}

	if args.Author != nil {
		author, err := r.store.AuthorByName(ctx, *args.Author)
		if err != nil {
			return nil, errors.New("unable to fetch books")
		}
		if author != nil {
			filter.AuthorID = author.ID
		}
	}

	if args.Genre != nil {
		filter.Genre = *args.Genre
	}

	books, err := r.store.Books(ctx, filter)
	if err != nil {
		r.log.Warn("book listing failed: ", err)
		return nil, errors.New("unable to fetch books")
	}

	resolvers := make([]*bookResolver, 0, len(books))
	for _, book := range books {
		resolvers = append(resolvers, &bookResolver{store: r.store, book: book})
	}
	return resolvers, nil
}

// AllAuthors returns every author together with the number of books
// referencing them, including authors with none.
func (r *Resolver) AllAuthors(ctx context.Context) ([]*authorCountResolver, error) {
	counts, err := r.store.AuthorsWithBookCounts(ctx)
	if err != nil {
		r.log.Warn("author aggregation failed: ", err)
		return nil, errors.New("unable to fetch authors with book count")
	}

	resolvers := make([]*authorCountResolver, 0, len(counts))
	for _, count := range counts {
		resolvers = append(resolvers, &authorCountResolver{count: count})
	}
	return resolvers, nil
}

// Me resolves the user attached to the request context, if any.
func (r *Resolver) Me(ctx context.Context) *userResolver {
	user := CurrentUser(ctx)
	if user == nil {
		return nil
	}
	return &userResolver{user: user}
}

// AddBook creates a book, creating its author first when the name is not
// known yet. The two writes are not atomic; concurrent calls for the same
// unseen name can each create an author.
func (r *Resolver) AddBook(ctx context.Context, args struct {
	Title     *string
	Author    string
	Published *int32
	Genres    []string
}) (*bookResolver, error) {
	author, err := r.store.AuthorByName(ctx, args.Author)
	if err != nil {
		return nil, &InputError{Reason: "saving book failed", InvalidArgs: args.Author, Err: err}
	}

	if author == nil {
		author = &Author{Name: args.Author}
		if err := r.store.AddAuthor(ctx, author); err != nil {
			return nil, &InputError{Reason: "saving author failed", InvalidArgs: args.Author, Err: err}
		}
	}

	book := &Book{
		Title:     args.Title,
		Published: args.Published,
		AuthorID:  author.ID,
		Genres:    args.Genres,
	}
	if err := r.store.AddBook(ctx, book); err != nil {
		return nil, &InputError{Reason: "saving book failed", InvalidArgs: args.Author, Err: err}
	}

	return &bookResolver{store: r.store, book: book, author: author}, nil
}

// EditAuthor sets the birth year of an existing author. An unknown name is a
// structured error, not a crash.
func (r *Resolver) EditAuthor(ctx context.Context, args struct {
	Name      string
	SetBornTo int32
}) (*authorResolver, error) {
	author, err := r.store.AuthorByName(ctx, args.Name)
	if err != nil {
		return nil, &InputError{Reason: "editing author failed", InvalidArgs: args.Name, Err: err}
	}
	if author == nil {
		return nil, &InputError{Reason: "author not found", InvalidArgs: args.Name}
	}

	if err := r.store.SetAuthorBorn(ctx, author.ID, args.SetBornTo); err != nil {
		return nil, &InputError{Reason: "editing author failed", InvalidArgs: args.Name, Err: err}
	}

	born := args.SetBornTo
	author.Born = &born
	return &authorResolver{author: author}, nil
}

// CreateUser registers a new account.
func (r *Resolver) CreateUser(ctx context.Context, args struct {
	Username      string
	FavoriteGenre string
}) (*userResolver, error) {
	user := &User{
		Username:      args.Username,
		FavoriteGenre: args.FavoriteGenre,
	}
	if err := r.store.AddUser(ctx, user); err != nil {
		return nil, &InputError{Reason: "creating the user failed", InvalidArgs: args.Username, Err: err}
	}
	return &userResolver{user: user}, nil
}

// Login checks the credentials and issues a signed token embedding the
// username and user identifier.
func (r *Resolver) Login(ctx context.Context, args struct {
	Username string
	Password string
}) (*tokenResolver, error) {
	user, err := r.store.UserByUsername(ctx, args.Username)
	if err != nil {
		r.log.Warn("user lookup failed: ", err)
		return nil, errors.New("unable to fetch user")
	}
	if user == nil || args.Password != devPassword {
		return nil, &CredentialsError{}
	}

	token, err := r.auth.Sign(user)
	if err != nil {
		r.log.Warn("token signing failed: ", err)
		return nil, errors.New("unable to issue token")
	}
	return &tokenResolver{value: token}, nil
}

type authorResolver struct {
	author *Author
}

func (r *authorResolver) Name() string {
	return r.author.Name
}

func (r *authorResolver) Born() *int32 {
	return r.author.Born
}

func (r *authorResolver) ID() graphql.ID {
	return graphql.ID(r.author.ID)
}

type bookResolver struct {
	store Store
	book  *Book
	// author is set eagerly on the write path; the field resolver falls back
	// to a store lookup when it is nil
	author *Author
}

func (r *bookResolver) Title() *string {
	return r.book.Title
}

func (r *bookResolver) Published() *int32 {
	return r.book.Published
}

func (r *bookResolver) Genres() []string {
	return r.book.Genres
}

func (r *bookResolver) ID() graphql.ID {
	return graphql.ID(r.book.ID)
}

// Author resolves the book's non-null author reference.
func (r *bookResolver) Author(ctx context.Context) (*authorResolver, error) {
	if r.author != nil {
		return &authorResolver{author: r.author}, nil
	}

	author, err := r.store.AuthorByID(ctx, r.book.AuthorID)
	if err != nil {
		return nil, errors.New("unable to fetch author")
	}
	if author == nil {
		return nil, errors.New("book references an unknown author")
	}
	return &authorResolver{author: author}, nil
}

type authorCountResolver struct {
	count *AuthorBookCount
}

func (r *authorCountResolver) Name() string {
	return r.count.Name
}

func (r *authorCountResolver) Born() *int32 {
	return r.count.Born
}

func (r *authorCountResolver) BookCount() int32 {
	return r.count.BookCount
}

type userResolver struct {
	user *User
}

func (r *userResolver) Username() string {
	return r.user.Username
}

func (r *userResolver) FavoriteGenre() string {
	return r.user.FavoriteGenre
}

func (r *userResolver) Friends() []*userResolver {
	friends := make([]*userResolver, 0, len(r.user.Friends))
	for _, friend := range r.user.Friends {
		friends = append(friends, &userResolver{user: friend})
	}
	return friends
}

func (r *userResolver) ID() graphql.ID {
	return graphql.ID(r.user.ID)
}

type tokenResolver struct {
	value string
}

func (r *tokenResolver) Value() string {
	return r.value
}
