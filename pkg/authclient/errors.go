package authclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrSessionTerminated is returned when the server ends the session: the
// user is blocked, the token is invalid or the role is not allowed.
var ErrSessionTerminated = errors.New("session terminated")

// Messages the server uses for responses that end a session.
const (
	msgUserBlocked  = "User is Blocked"
	msgInvalidToken = "Invalid token"
	msgForbidden    = "Unauthorized"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("quizhub: %d %s", e.Status, e.Message)
}

type errorEnvelope struct {
	Error string `json:"error"`
}

// readAPIError consumes resp's body and turns it into an *APIError.
func readAPIError(resp *http.Response) *APIError {
	defer resp.Body.Close()

	var env errorEnvelope
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err := json.Unmarshal(raw, &env); err != nil || env.Error == "" {
		env.Error = http.StatusText(resp.StatusCode)
	}
	return &APIError{Status: resp.StatusCode, Message: env.Error}
}

func isTerminal(e *APIError) bool {
	switch e.Status {
	case http.StatusUnauthorized:
		return e.Message == msgUserBlocked || e.Message == msgInvalidToken
	case http.StatusForbidden:
		return e.Message == msgForbidden
	default:
		return false
	}
}
