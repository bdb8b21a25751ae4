package library

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	gqlerrors "github.com/graph-gophers/graphql-go/errors"
)

// HTTPOperation is the incoming payload when sending POST requests to the API
type HTTPOperation struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}

func formatErrors(data interface{}, err error) map[string]interface{} {
	// the final list of formatted errors
	var errList []*gqlerrors.QueryError

	if qerr, ok := err.(*gqlerrors.QueryError); ok {
		errList = []*gqlerrors.QueryError{qerr}
	} else {
		errList = []*gqlerrors.QueryError{
			{Message: err.Error()},
		}
	}

	return map[string]interface{}{
		"data":   data,
		"errors": errList,
	}
}

// GraphQLHandler returns the primary endpoint for the API. The endpoint
// responds to queries on both GET and POST requests. POST requests can either
// be a single object with { query, variables, operationName } or a list of
// that object.
func (s *Server) GraphQLHandler(w http.ResponseWriter, r *http.Request) {
	// this handler can handle multiple operations sent in the same request.
	// Internally, it models a single operation as a list of one.
	operations := []*HTTPOperation{}

	// the error we have encountered when extracting query input
	var payloadErr error
	// track if we're in batch mode
	batchMode := false

	if r.Method == http.MethodGet {
		parameters := r.URL.Query()

		// the operation we have to perform
		operation := &HTTPOperation{}

		if query, hasQuery := parameters["query"]; hasQuery {
			operation.Query = query[0]
		}

		if variableInput, ok := parameters["variables"]; ok {
			variables := map[string]interface{}{}

			if err := json.Unmarshal([]byte(variableInput[0]), &variables); err != nil {
				payloadErr = errors.New("variables must be a json object")
			}

			operation.Variables = variables
		}

		if operationName, ok := parameters["operationName"]; ok {
			operation.OperationName = operationName[0]
		}

		operations = append(operations, operation)
	} else if r.Method == http.MethodPost {
		// read the full request body
		body, err := io.ReadAll(r.Body)
		if err != nil {
			payloadErr = fmt.Errorf("encountered error reading body: %s", err.Error())
		}

		// there are two possible options for receiving information from a post request
		// the first is that the user provides an object in the form of { query, variables, operationName }
		// the second option is a list of that object

		singleQuery := &HTTPOperation{}
		// if we were given a single object
		if err = json.Unmarshal(body, &singleQuery); err == nil {
			operations = append(operations, singleQuery)
		} else {
			// we could have been given a list
			batch := []*HTTPOperation{}

			if err = json.Unmarshal(body, &batch); err != nil {
				payloadErr = fmt.Errorf("encountered error parsing body: %s", err.Error())
			} else {
				operations = batch
			}

			batchMode = true
		}
	}

	// anything other than a GET or POST leaves us with nothing to execute
	if len(operations) == 0 && payloadErr == nil {
		payloadErr = errors.New("could not find query body")
	}

	// if there was an error retrieving the payload
	if payloadErr != nil {
		response, _ := json.Marshal(formatErrors(nil, payloadErr))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write(response)
		return
	}

	// the current user is resolved once from the Authorization header and
	// shared by every operation in the request. A token that fails
	// verification fails the whole request; only an absent header means
	// an anonymous request.
	user, err := s.auth.UserFromHeader(r.Context(), s.store, r.Header.Get("Authorization"))
	if err != nil {
		s.log.Warn("invalid authorization header: ", err)
		response, _ := json.Marshal(formatErrors(nil, errors.New("invalid token")))
		emitResponse(w, http.StatusBadRequest, string(response))
		return
	}
	ctx := WithCurrentUser(r.Context(), user)

	// we have to respond to each operation in the right order
	results := []interface{}{}

	// the status code to report
	statusCode := http.StatusOK

	for _, operation := range operations {
		if operation.Query == "" {
			statusCode = http.StatusUnprocessableEntity
			results = append(results, formatErrors(nil, errors.New("could not find query body")))
			continue
		}

		response := s.schema.Exec(ctx, operation.Query, operation.OperationName, operation.Variables)

		// the engine's response envelope already has the right shape
		results = append(results, response)
	}

	// the final result depends on whether we are executing in batch mode or not
	var finalResponse interface{}
	if batchMode {
		finalResponse = results
	} else {
		finalResponse = results[0]
	}

	response, err := json.Marshal(finalResponse)
	if err != nil {
		// if we couldn't serialize the response then we're in internal error territory
		statusCode = http.StatusInternalServerError
		response, _ = json.Marshal(formatErrors(nil, err))
	}

	emitResponse(w, statusCode, string(response))
}

func emitResponse(w http.ResponseWriter, code int, response string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	fmt.Fprint(w, response)
}

// PlaygroundHandler returns a http.HandlerFunc which on GET requests shows
// the user an interface that they can use to interact with the API. On
// POSTs the endpoint executes the designated query
func (s *Server) PlaygroundHandler(w http.ResponseWriter, r *http.Request) {
	// on POSTs, we have to send the request to the graphql handler
	if r.Method == http.MethodPost {
		s.GraphQLHandler(w, r)
		return
	}

	_ = writePlayground(w, PlaygroundConfig{Endpoint: "/graphql"})
}
