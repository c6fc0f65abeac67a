package session

import (
	"errors"
	"sort"
	"strings"
)

// ErrNotAuthenticated is returned by operations that need an active session.
var ErrNotAuthenticated = errors.New("session: not authenticated")

// AuthError is a rejected username/password exchange.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string { return "invalid username or password" }

func (e *AuthError) Unwrap() error { return e.Err }

// ValidationError carries field-level rejections, either found locally
// before any request or reported by the backend.
type ValidationError struct {
	// Fields maps a field name to its messages.
	Fields map[string][]string
	// Err is the backend error, nil for local validation.
	Err error
}

// Error joins every message with spaces, fields in name order.
func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var msgs []string
	for _, name := range names {
		msgs = append(msgs, e.Fields[name]...)
	}
	if len(msgs) == 0 {
		return "registration failed"
	}
	return strings.Join(msgs, " ")
}

func (e *ValidationError) Unwrap() error { return e.Err }
