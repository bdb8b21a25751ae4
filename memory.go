package library

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/segmentio/ksuid"
)

// MemoryStore keeps every collection in process memory. It backs the test
// suite and the --in-memory development mode, where no document database is
// available. Individual calls are serialized by the mutex; multi-call
// sequences have the same race window as any other Store.
type MemoryStore struct {
	mu      sync.RWMutex
	authors []*Author
	books   []*Book
	users   []*User
	friends map[string][]string
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		friends: map[string][]string{},
	}
}

func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

func (s *MemoryStore) BookCount(ctx context.Context) (int32, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int32(len(s.books)), nil
}

func (s *MemoryStore) AuthorCount(ctx context.Context) (int32, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int32(len(s.authors)), nil
}

func (s *MemoryStore) Books(ctx context.Context, filter BookFilter) ([]*Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	books := []*Book{}
	for _, book := range s.books {
		if filter.AuthorID != "" && book.AuthorID != filter.AuthorID {
			continue
		}
		if filter.Genre != "" && !containsGenre(book.Genres, filter.Genre) {
			continue
		}
		books = append(books, copyBook(book))
	}
	return books, nil
}

func (s *MemoryStore) AddBook(ctx context.Context, book *Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if book.AuthorID == "" {
		return errors.New("book has no author reference")
	}

	book.ID = ksuid.New().String()
	s.books = append(s.books, copyBook(book))
	return nil
}

func (s *MemoryStore) AuthorByName(ctx context.Context, name string) (*Author, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, author := range s.authors {
		if author.Name == name {
			return copyAuthor(author), nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) AuthorByID(ctx context.Context, id string) (*Author, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, author := range s.authors {
		if author.ID == id {
			return copyAuthor(author), nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) AddAuthor(ctx context.Context, author *Author) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	author.ID = ksuid.New().String()
	s.authors = append(s.authors, copyAuthor(author))
	return nil
}

func (s *MemoryStore) SetAuthorBorn(ctx context.Context, id string, born int32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, author := range s.authors {
		if author.ID == id {
			value := born
			author.Born = &value
			return nil
		}
	}
	return errors.New("author does not exist")
}

func (s *MemoryStore) AuthorsWithBookCounts(ctx context.Context) ([]*AuthorBookCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make([]*AuthorBookCount, 0, len(s.authors))
	for _, author := range s.authors {
		count := int32(0)
		for _, book := range s.books {
			if book.AuthorID == author.ID {
				count++
			}
		}
		counts = append(counts, &AuthorBookCount{
			Author:    *copyAuthor(author),
			BookCount: count,
		})
	}
	return counts, nil
}

func (s *MemoryStore) UserByUsername(ctx context.Context, username string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Username == username {
			return copyUser(user), nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) UserByID(ctx context.Context, id string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.ID == id {
			resolved := copyUser(user)
			for _, friendID := range s.friends[id] {
				for _, friend := range s.users {
					if friend.ID == friendID {
						resolved.Friends = append(resolved.Friends, copyUser(friend))
					}
				}
			}
			return resolved, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) AddUser(ctx context.Context, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user.ID = ksuid.New().String()
	s.users = append(s.users, copyUser(user))
	return nil
}

// AddFriend records a friends edge between two users. There is no mutation
// for this in the schema; it exists so the friends relation can be seeded.
func (s *MemoryStore) AddFriend(userID, friendID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.friends[userID] = append(s.friends[userID], friendID)
}

func containsGenre(genres []string, genre string) bool {
	for _, g := range genres {
		if g == genre {
			return true
		}
	}
	return false
}

// the store hands out copies so callers can't mutate its state in place

func copyAuthor(author *Author) *Author {
	copied := *author
	return &copied
}

func copyBook(book *Book) *Book {
	copied := *book
	copied.Genres = append([]string{}, book.Genres...)
	return &copied
}

func copyUser(user *User) *User {
	copied := *user
	copied.Friends = nil
	return &copied
}
