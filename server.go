package library

import (
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/pkg/errors"
)

// Server joins the schema contract with the resolver implementations and
// exposes the HTTP handlers for the API. Construct one with New.
type Server struct {
	schema *graphql.Schema
	store  Store
	auth   *Auth
	log    Logger
}

// Option modifies the server during construction
type Option func(*Server)

// WithLogger overrides the logger used by the server's handlers
func WithLogger(logger Logger) Option {
	return func(s *Server) {
		s.log = logger
	}
}

// New constructs a Server around a store and token authority. Parsing the
// schema against the resolvers happens here, so a contract/implementation
// mismatch fails at startup instead of on the first request.
func New(store Store, auth *Auth, opts ...Option) (*Server, error) {
	server := &Server{
		store: store,
		auth:  auth,
		log:   log,
	}

	for _, opt := range opts {
		opt(server)
	}

	schema, err := graphql.ParseSchema(Schema, NewResolver(store, auth))
	if err != nil {
		return nil, errors.Wrap(err, "unable to parse schema")
	}
	server.schema = schema

	return server, nil
}
