package leaders

import (
	"errors"
	"fmt"
)

var (
	// ErrConnection is returned when the cookie endpoint refuses to hand out a
	// token, it is never fatal by itself.
	ErrConnection = errors.New("failed to acquire session cookie")
	// ErrRejected is returned when a request still fails after the session was
	// refreshed.
	ErrRejected       = errors.New("request rejected after refreshing the session")
	ErrCountriesFetch = errors.New("failed to get countries")
	ErrLeadersFetch   = errors.New("failed to retrieve leaders data")
)

// StatusError carries the HTTP status of the last failed response.
type StatusError struct {
	Url    string
	Status int
	Err    error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: GET %s returned status %d", e.Err, e.Url, e.Status)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}
