package remote

import (
	"fmt"
	"net/http"
	"unicode/utf8"
)

// ErrorKind classifies answerer failures. All kinds take the same failure
// branch in the store; the kind only matters for logs.
type ErrorKind string

const (
	KindTransport ErrorKind = "TRANSPORT"
	KindStatus    ErrorKind = "STATUS"
	KindSchema    ErrorKind = "SCHEMA"
)

// Error is returned by every answerer in this package.
type Error struct {
	Kind    ErrorKind
	Backend string
	Status  int // HTTP status, when known
	Err     error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("[%s][%s] status %d %s: %v", e.Backend, e.Kind, e.Status, http.StatusText(e.Status), e.Err)
	}
	return fmt.Sprintf("[%s][%s] %v", e.Backend, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func transportError(backend string, err error) *Error {
	return &Error{Kind: KindTransport, Backend: backend, Err: err}
}

func statusError(backend string, status int, body string) *Error {
	return &Error{Kind: KindStatus, Backend: backend, Status: status, Err: fmt.Errorf("unexpected response: %s", truncate(body, 200))}
}

func schemaError(backend string, err error) *Error {
	return &Error{Kind: KindSchema, Backend: backend, Err: err}
}

// truncate keeps at most n bytes of s without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
