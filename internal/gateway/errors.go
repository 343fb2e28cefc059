package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrTransport wraps failures where no response was received.
var ErrTransport = errors.New("transport failure")

// StatusError reports a response that did not satisfy the operation's success predicate.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d %s", e.Op, e.StatusCode, http.StatusText(e.StatusCode))
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}
