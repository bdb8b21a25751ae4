package library

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer(t *testing.T, store Store) *Server {
	t.Helper()

	server, err := New(store, NewAuth("test-secret"))
	require.NoError(t, err)

	return server
}

func TestHTTPHandler_missingQuery(t *testing.T) {
	server := testServer(t, seedStore(t))

	// the incoming request
	request := httptest.NewRequest("POST", "/graphql", strings.NewReader(`
		{
			"query": ""
		}
	`))
	// a recorder so we can check what the handler responded with
	responseRecorder := httptest.NewRecorder()

	server.GraphQLHandler(responseRecorder, request)

	// make sure we got an error code
	assert.Equal(t, http.StatusUnprocessableEntity, responseRecorder.Result().StatusCode)
}

func TestHTTPHandler_query(t *testing.T) {
	server := testServer(t, seedStore(t))

	request := httptest.NewRequest("POST", "/graphql", strings.NewReader(`
		{
			"query": "{ bookCount authorCount }"
		}
	`))
	responseRecorder := httptest.NewRecorder()

	server.GraphQLHandler(responseRecorder, request)

	result := responseRecorder.Result()
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Equal(t, "application/json", result.Header.Get("Content-Type"))
	assert.JSONEq(t, `{"data": {"bookCount": 3, "authorCount": 3}}`, responseRecorder.Body.String())
}

func TestHTTPHandler_queryWithVariables(t *testing.T) {
	server := testServer(t, seedStore(t))

	request := httptest.NewRequest("POST", "/graphql", strings.NewReader(`
		{
			"query": "query Books($genre: String) { allBooks(genre: $genre) { title } }",
			"variables": {"genre": "patterns"}
		}
	`))
	responseRecorder := httptest.NewRecorder()

	server.GraphQLHandler(responseRecorder, request)

	assert.Equal(t, http.StatusOK, responseRecorder.Result().StatusCode)
	assert.JSONEq(t, `{"data": {"allBooks": [{"title": "Agile software development"}]}}`, responseRecorder.Body.String())
}

func TestHTTPHandler_getRequest(t *testing.T) {
	server := testServer(t, seedStore(t))

	request := httptest.NewRequest("GET", "/graphql?query={bookCount}", nil)
	responseRecorder := httptest.NewRecorder()

	server.GraphQLHandler(responseRecorder, request)

	assert.Equal(t, http.StatusOK, responseRecorder.Result().StatusCode)
	assert.JSONEq(t, `{"data": {"bookCount": 3}}`, responseRecorder.Body.String())
}

func TestHTTPHandler_batch(t *testing.T) {
	server := testServer(t, seedStore(t))

	request := httptest.NewRequest("POST", "/graphql", strings.NewReader(`
		[
			{"query": "{ bookCount }"},
			{"query": "{ authorCount }"}
		]
	`))
	responseRecorder := httptest.NewRecorder()

	server.GraphQLHandler(responseRecorder, request)

	// a batch request gets a list back, in operation order
	assert.Equal(t, http.StatusOK, responseRecorder.Result().StatusCode)
	assert.JSONEq(t, `[
		{"data": {"bookCount": 3}},
		{"data": {"authorCount": 3}}
	]`, responseRecorder.Body.String())
}

func TestHTTPHandler_invalidToken(t *testing.T) {
	server := testServer(t, seedStore(t))

	request := httptest.NewRequest("POST", "/graphql", strings.NewReader(`
		{
			"query": "{ bookCount }"
		}
	`))
	request.Header.Set("Authorization", "Bearer garbage")
	responseRecorder := httptest.NewRecorder()

	server.GraphQLHandler(responseRecorder, request)

	// a bad token fails the whole request before any operation runs
	result := responseRecorder.Result()
	assert.Equal(t, http.StatusBadRequest, result.StatusCode)

	payload := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(responseRecorder.Body.Bytes(), &payload))
	assert.NotEmpty(t, payload["errors"])
}

func TestHTTPHandler_malformedBody(t *testing.T) {
	server := testServer(t, seedStore(t))

	request := httptest.NewRequest("POST", "/graphql", strings.NewReader(`not json at all`))
	responseRecorder := httptest.NewRecorder()

	server.GraphQLHandler(responseRecorder, request)

	assert.Equal(t, http.StatusUnprocessableEntity, responseRecorder.Result().StatusCode)
}

// the full journey from registration to an authenticated me query
func TestHTTPHandler_loginRoundTrip(t *testing.T) {
	server := testServer(t, NewMemoryStore())

	do := func(body string, headers map[string]string) *httptest.ResponseRecorder {
		request := httptest.NewRequest("POST", "/graphql", strings.NewReader(body))
		for key, value := range headers {
			request.Header.Set(key, value)
		}
		responseRecorder := httptest.NewRecorder()
		server.GraphQLHandler(responseRecorder, request)
		return responseRecorder
	}

	// register ada
	created := do(`{"query": "mutation { createUser(username: \"ada\", favoriteGenre: \"refactoring\") { username } }"}`, nil)
	require.Equal(t, http.StatusOK, created.Result().StatusCode)
	assert.JSONEq(t, `{"data": {"createUser": {"username": "ada"}}}`, created.Body.String())

	// log in with the development password
	loggedIn := do(`{"query": "mutation { login(username: \"ada\", password: \"secret\") { value } }"}`, nil)
	require.Equal(t, http.StatusOK, loggedIn.Result().StatusCode)

	payload := struct {
		Data struct {
			Login struct {
				Value string `json:"value"`
			} `json:"login"`
		} `json:"data"`
	}{}
	require.NoError(t, json.Unmarshal(loggedIn.Body.Bytes(), &payload))
	require.NotEmpty(t, payload.Data.Login.Value)

	// present the token and ask who we are
	me := do(`{"query": "{ me { username favoriteGenre } }"}`, map[string]string{
		"Authorization": "Bearer " + payload.Data.Login.Value,
	})
	require.Equal(t, http.StatusOK, me.Result().StatusCode)
	assert.JSONEq(t, `{"data": {"me": {"username": "ada", "favoriteGenre": "refactoring"}}}`, me.Body.String())
}

func TestPlaygroundHandler(t *testing.T) {
	server := testServer(t, seedStore(t))

	// GET requests see the UI
	request := httptest.NewRequest("GET", "/", nil)
	responseRecorder := httptest.NewRecorder()
	server.PlaygroundHandler(responseRecorder, request)

	assert.Contains(t, responseRecorder.Body.String(), "GraphQL Playground")

	// POST requests fall through to the query handler
	request = httptest.NewRequest("POST", "/", strings.NewReader(`{"query": "{ bookCount }"}`))
	responseRecorder = httptest.NewRecorder()
	server.PlaygroundHandler(responseRecorder, request)

	assert.JSONEq(t, `{"data": {"bookCount": 3}}`, responseRecorder.Body.String())
}
