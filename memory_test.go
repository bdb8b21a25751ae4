package library

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_assignsIdentifiers(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	author := &Author{Name: "Robert Martin"}
	require.NoError(t, store.AddAuthor(ctx, author))
	assert.NotEmpty(t, author.ID)

	book := &Book{Title: strPtr("Clean Code"), AuthorID: author.ID, Genres: []string{"refactoring"}}
	require.NoError(t, store.AddBook(ctx, book))
	assert.NotEmpty(t, book.ID)
	assert.NotEqual(t, author.ID, book.ID)

	user := &User{Username: "ada", FavoriteGenre: "refactoring"}
	require.NoError(t, store.AddUser(ctx, user))
	assert.NotEmpty(t, user.ID)
}

func TestMemoryStore_rejectsBookWithoutAuthor(t *testing.T) {
	store := NewMemoryStore()

	err := store.AddBook(context.Background(), &Book{Title: strPtr("Orphaned")})
	assert.Error(t, err)
}

func TestMemoryStore_bookFilters(t *testing.T) {
	store := seedStore(t)
	ctx := context.Background()

	robert, err := store.AuthorByName(ctx, "Robert Martin")
	require.NoError(t, err)
	require.NotNil(t, robert)

	// by author
	books, err := store.Books(ctx, BookFilter{AuthorID: robert.ID})
	require.NoError(t, err)
	assert.Len(t, books, 2)

	// by genre
	books, err = store.Books(ctx, BookFilter{Genre: "classic"})
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Crime and punishment", *books[0].Title)

	// both filters AND together
	books, err = store.Books(ctx, BookFilter{AuthorID: robert.ID, Genre: "agile"})
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Agile software development", *books[0].Title)

	// no filter returns everything
	books, err = store.Books(ctx, BookFilter{})
	require.NoError(t, err)
	assert.Len(t, books, 3)
}

func TestMemoryStore_setAuthorBorn(t *testing.T) {
	store := seedStore(t)
	ctx := context.Background()

	sandi, err := store.AuthorByName(ctx, "Sandi Metz")
	require.NoError(t, err)
	require.Nil(t, sandi.Born)

	require.NoError(t, store.SetAuthorBorn(ctx, sandi.ID, 1957))

	updated, err := store.AuthorByID(ctx, sandi.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.Born)
	assert.Equal(t, int32(1957), *updated.Born)

	// an unknown identifier is an explicit error
	assert.Error(t, store.SetAuthorBorn(ctx, "unknown-id", 1957))
}

func TestMemoryStore_authorsWithBookCounts(t *testing.T) {
	store := seedStore(t)

	counts, err := store.AuthorsWithBookCounts(context.Background())
	require.NoError(t, err)
	require.Len(t, counts, 3)

	byName := map[string]int32{}
	for _, count := range counts {
		byName[count.Name] = count.BookCount
	}

	assert.Equal(t, int32(2), byName["Robert Martin"])
	assert.Equal(t, int32(1), byName["Fyodor Dostoevsky"])
	// an author with no books still appears
	assert.Equal(t, int32(0), byName["Sandi Metz"])
}

func TestMemoryStore_handsOutCopies(t *testing.T) {
	store := seedStore(t)
	ctx := context.Background()

	author, err := store.AuthorByName(ctx, "Robert Martin")
	require.NoError(t, err)

	// mutating the returned value must not touch the stored document
	author.Name = "Someone Else"

	unchanged, err := store.AuthorByName(ctx, "Robert Martin")
	require.NoError(t, err)
	require.NotNil(t, unchanged)
}

func TestMemoryStore_userLookups(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	ada := &User{Username: "ada", FavoriteGenre: "refactoring"}
	require.NoError(t, store.AddUser(ctx, ada))

	found, err := store.UserByUsername(ctx, "ada")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, ada.ID, found.ID)

	missing, err := store.UserByUsername(ctx, "grace")
	require.NoError(t, err)
	assert.Nil(t, missing)

	missing, err = store.UserByID(ctx, "unknown-id")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
