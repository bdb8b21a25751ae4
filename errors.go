package library

import "fmt"

// codeBadUserInput is the extension code clients key off of for
// validation-style failures, matching the Apollo convention.
const codeBadUserInput = "BAD_USER_INPUT"

// InputError is returned when a mutation fails because of the input it was
// given, either directly (an unknown author name) or through the store
// rejecting the write. It surfaces in the response envelope as a GraphQL
// error with a BAD_USER_INPUT extension carrying the attempted input and the
// underlying cause.
type InputError struct {
	// Reason is the client-facing message
	Reason string
	// InvalidArgs is the offending input, usually the author name
	InvalidArgs string
	// Err is the underlying store error, if any
	Err error
}

func (e *InputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// Extensions implements the hook the engine uses to attach structured data to
// the error entry in the response.
func (e *InputError) Extensions() map[string]interface{} {
	ext := map[string]interface{}{
		"code": codeBadUserInput,
	}
	if e.InvalidArgs != "" {
		ext["invalidArgs"] = e.InvalidArgs
	}
	if e.Err != nil {
		ext["error"] = e.Err.Error()
	}
	return ext
}

// CredentialsError is the explicit authentication failure returned by the
// login mutation. The message is deliberately the same for an unknown
// username and a wrong password.
type CredentialsError struct{}

func (e *CredentialsError) Error() string {
	return "wrong credentials"
}

func (e *CredentialsError) Extensions() map[string]interface{} {
	return map[string]interface{}{
		"code": codeBadUserInput,
	}
}
