package api

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is returned whenever the remote API answers 401, from any
// endpoint. By the time a caller sees it the session has already been torn
// down.
var ErrUnauthorized = errors.New("unauthorized: please log in again")

// RequestError is a non-success API response. Message carries the server's
// human-readable message when the error body had one.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

func newRequestError(status int, message string) *RequestError {
	if message == "" {
		message = fmt.Sprintf("request failed with status %d", status)
	}
	return &RequestError{Status: status, Message: message}
}
