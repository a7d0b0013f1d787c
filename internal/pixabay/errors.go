package pixabay

import (
	"fmt"
	"net/http"
)

// StatusError reports a non-success HTTP status
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected HTTP status: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("unexpected HTTP status: %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Body)
}

// StatusText returns the standard text for the status code
func (e *StatusError) StatusText() string {
	return http.StatusText(e.StatusCode)
}
