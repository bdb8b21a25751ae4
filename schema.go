package library

// Schema is the static contract of the API. It is joined with the resolver
// implementations when the server is constructed, so resolvers can be tested
// without going through the transport.
const Schema = `
	schema {
		query: Query
		mutation: Mutation
	}

	type Query {
		bookCount: Int!
		authorCount: Int!
		allBooks(author: String, genre: String): [Book!]!
		allAuthors: [AllAuthors!]!
		me: User
	}

	type Mutation {
		addBook(
			title: String
			author: String!
			published: Int
			genres: [String!]!
		): Book
		editAuthor(name: String!, setBornTo: Int!): Author
		createUser(username: String!, favoriteGenre: String!): User
		login(username: String!, password: String!): Token
	}

	type Author {
		name: String!
		born: Int
		id: ID!
	}

	type Book {
		title: String
		published: Int
		author: Author!
		genres: [String!]!
		id: ID!
	}

	# an author together with the number of books referencing them
	type AllAuthors {
		name: String!
		born: Int
		bookCount: Int!
	}

	type User {
		username: String!
		favoriteGenre: String!
		friends: [User!]!
		id: ID!
	}

	type Token {
		value: String!
	}
`
