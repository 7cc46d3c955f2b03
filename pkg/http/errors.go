package http

import (
	"fmt"
	"net/http"
)

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	kind := "Server"
	if e.StatusCode >= 400 && e.StatusCode < 500 {
		kind = "Client"
	} else if e.StatusCode < 400 {
		kind = "Unexpected"
	}
	return fmt.Sprintf("%d %s Error: %s for url: %s", e.StatusCode, kind, http.StatusText(e.StatusCode), e.URL)
}

// DecodeError is returned when a 2xx body cannot be decoded into the requested type.
type DecodeError struct {
	URL         string
	ContentType string
	Body        []byte
	Err         error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode response from %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
