package library

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore is the production Store, backed by three collections in a
// single database.
type MongoStore struct {
	client  *mongo.Client
	authors *mongo.Collection
	books   *mongo.Collection
	users   *mongo.Collection
}

// collection documents. Identifiers only become hex strings at the Store
// boundary.

type authorDoc struct {
	ID   primitive.ObjectID `bson:"_id,omitempty"`
	Name string             `bson:"name"`
	Born *int32             `bson:"born,omitempty"`
}

type bookDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     *string            `bson:"title,omitempty"`
	Published *int32             `bson:"published,omitempty"`
	Author    primitive.ObjectID `bson:"author"`
	Genres    []string           `bson:"genres"`
}

type userDoc struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty"`
	Username      string               `bson:"username"`
	FavoriteGenre string               `bson:"favoriteGenre"`
	Friends       []primitive.ObjectID `bson:"friends,omitempty"`
}

type authorCountDoc struct {
	ID        primitive.ObjectID `bson:"_id"`
	Name      string             `bson:"name"`
	Born      *int32             `bson:"born,omitempty"`
	BookCount int32              `bson:"bookCount"`
}

// DialMongo connects to the document store behind the given connection
// string and verifies the connection with a ping before returning.
func DialMongo(ctx context.Context, uri string, database string) (*MongoStore, error) {
	log.WithFields(LoggerFields{"database": database}).Info("connecting to mongodb")

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "unable to connect to mongodb")
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, errors.Wrap(err, "unable to reach mongodb")
	}

	db := client.Database(database)
	return &MongoStore{
		client:  client,
		authors: db.Collection("authors"),
		books:   db.Collection("books"),
		users:   db.Collection("users"),
	}, nil
}

// Close tears down the connection established by DialMongo.
func (s *MongoStore) Close(ctx context.Context) error {
	return errors.Wrap(s.client.Disconnect(ctx), "unable to disconnect from mongodb")
}

func (s *MongoStore) BookCount(ctx context.Context) (int32, error) {
	count, err := s.books.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, errors.Wrap(err, "unable to count books")
	}
	return int32(count), nil
}

func (s *MongoStore) AuthorCount(ctx context.Context) (int32, error) {
	count, err := s.authors.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, errors.Wrap(err, "unable to count authors")
	}
	return int32(count), nil
}

func (s *MongoStore) Books(ctx context.Context, filter BookFilter) ([]*Book, error) {
	query := bson.D{}
	if filter.AuthorID != "" {
		authorID, err := primitive.ObjectIDFromHex(filter.AuthorID)
		if err != nil {
			return nil, errors.Wrap(err, "invalid author id")
		}
		query = append(query, bson.E{Key: "author", Value: authorID})
	}
	if filter.Genre != "" {
		// matching a scalar against an array field checks membership
		query = append(query, bson.E{Key: "genres", Value: filter.Genre})
	}

	cursor, err := s.books.Find(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "unable to list books")
	}

	docs := []bookDoc{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "unable to decode books")
	}

	books := make([]*Book, 0, len(docs))
	for i := range docs {
		books = append(books, docs[i].toBook())
	}
	return books, nil
}

func (s *MongoStore) AddBook(ctx context.Context, book *Book) error {
	authorID, err := primitive.ObjectIDFromHex(book.AuthorID)
	if err != nil {
		return errors.Wrap(err, "invalid author id")
	}

	result, err := s.books.InsertOne(ctx, bookDoc{
		Title:     book.Title,
		Published: book.Published,
		Author:    authorID,
		Genres:    book.Genres,
	})
	if err != nil {
		return errors.Wrap(err, "unable to save book")
	}

	book.ID = result.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

func (s *MongoStore) AuthorByName(ctx context.Context, name string) (*Author, error) {
	doc := authorDoc{}
	err := s.authors.FindOne(ctx, bson.D{{Key: "name", Value: name}}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "unable to find author")
	}
	return doc.toAuthor(), nil
}

func (s *MongoStore) AuthorByID(ctx context.Context, id string) (*Author, error) {
	authorID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errors.Wrap(err, "invalid author id")
	}

	doc := authorDoc{}
	err = s.authors.FindOne(ctx, bson.D{{Key: "_id", Value: authorID}}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "unable to find author")
	}
	return doc.toAuthor(), nil
}

func (s *MongoStore) AddAuthor(ctx context.Context, author *Author) error {
	result, err := s.authors.InsertOne(ctx, authorDoc{
		Name: author.Name,
		Born: author.Born,
	})
	if err != nil {
		return errors.Wrap(err, "unable to save author")
	}

	author.ID = result.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

func (s *MongoStore) SetAuthorBorn(ctx context.Context, id string, born int32) error {
	authorID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.Wrap(err, "invalid author id")
	}

	result, err := s.authors.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: authorID}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "born", Value: born}}}},
	)
	if err != nil {
		return errors.Wrap(err, "unable to update author")
	}
	if result.MatchedCount == 0 {
		return errors.New("author does not exist")
	}
	return nil
}

// AuthorsWithBookCounts joins books onto authors by their reference field
// and projects the list size, so authors with no books come back with 0.
func (s *MongoStore) AuthorsWithBookCounts(ctx context.Context) ([]*AuthorBookCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "books"},
			{Key: "localField", Value: "_id"},
			{Key: "foreignField", Value: "author"},
			{Key: "as", Value: "books"},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "name", Value: 1},
			{Key: "born", Value: 1},
			{Key: "bookCount", Value: bson.D{{Key: "$size", Value: "$books"}}},
		}}},
	}

	cursor, err := s.authors.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, errors.Wrap(err, "unable to aggregate authors")
	}

	docs := []authorCountDoc{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "unable to decode author counts")
	}

	counts := make([]*AuthorBookCount, 0, len(docs))
	for i := range docs {
		doc := docs[i]
		counts = append(counts, &AuthorBookCount{
			Author: Author{
				ID:   doc.ID.Hex(),
				Name: doc.Name,
				Born: doc.Born,
			},
			BookCount: doc.BookCount,
		})
	}
	return counts, nil
}

func (s *MongoStore) UserByUsername(ctx context.Context, username string) (*User, error) {
	doc := userDoc{}
	err := s.users.FindOne(ctx, bson.D{{Key: "username", Value: username}}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "unable to find user")
	}
	return doc.toUser(), nil
}

// UserByID resolves a user with its friends populated one level deep.
func (s *MongoStore) UserByID(ctx context.Context, id string) (*User, error) {
	userID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errors.Wrap(err, "invalid user id")
	}

	doc := userDoc{}
	err = s.users.FindOne(ctx, bson.D{{Key: "_id", Value: userID}}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "unable to find user")
	}

	user := doc.toUser()
	if len(doc.Friends) > 0 {
		cursor, err := s.users.Find(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: doc.Friends}}}})
		if err != nil {
			return nil, errors.Wrap(err, "unable to find friends")
		}

		friendDocs := []userDoc{}
		if err := cursor.All(ctx, &friendDocs); err != nil {
			return nil, errors.Wrap(err, "unable to decode friends")
		}

		for i := range friendDocs {
			user.Friends = append(user.Friends, friendDocs[i].toUser())
		}
	}
	return user, nil
}

func (s *MongoStore) AddUser(ctx context.Context, user *User) error {
	result, err := s.users.InsertOne(ctx, userDoc{
		Username:      user.Username,
		FavoriteGenre: user.FavoriteGenre,
	})
	if err != nil {
		return errors.Wrap(err, "unable to save user")
	}

	user.ID = result.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

func (d authorDoc) toAuthor() *Author {
	return &Author{
		ID:   d.ID.Hex(),
		Name: d.Name,
		Born: d.Born,
	}
}

func (d bookDoc) toBook() *Book {
	return &Book{
		ID:        d.ID.Hex(),
		Title:     d.Title,
		Published: d.Published,
		AuthorID:  d.Author.Hex(),
		Genres:    d.Genres,
	}
}

func (d userDoc) toUser() *User {
	return &User{
		ID:            d.ID.Hex(),
		Username:      d.Username,
		FavoriteGenre: d.FavoriteGenre,
	}
}
