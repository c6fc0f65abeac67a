package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// HTTPError is a non-2xx response. Payload is the body exactly as the
// backend sent it.
type HTTPError struct {
	Method     string
	URL        string
	StatusCode int
	Payload    []byte
}

func (e *HTTPError) Error() string {
	msg := fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.StatusCode, http.StatusText(e.StatusCode))
	if d := e.Detail(); d != "" {
		msg += ": " + d
	}
	return msg
}

// Detail returns the backend's "detail" message when the payload carries
// one, otherwise the raw payload trimmed of whitespace.
func (e *HTTPError) Detail() string {
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(e.Payload, &body); err == nil && body.Detail != "" {
		return body.Detail
	}
	return strings.TrimSpace(string(e.Payload))
}

// Fields decodes a field-error payload such as
// {"username": ["already taken"], "password": "too short"} into a
// field->messages map. It returns nil when the payload is not a JSON object.
func (e *HTTPError) Fields() map[string][]string {
	var raw map[string]any
	if err := json.Unmarshal(e.Payload, &raw); err != nil {
		return nil
	}
	out := make(map[string][]string, len(raw))
	for k, v := range raw {
		if msgs := flatten(v); len(msgs) > 0 {
			out[k] = msgs
		}
	}
	return out
}

func flatten(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		return []string{t}
	case []any:
		var out []string
		for _, item := range t {
			out = append(out, flatten(item)...)
		}
		return out
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var out []string
		for _, k := range keys {
			out = append(out, flatten(t[k])...)
		}
		return out
	default:
		return []string{fmt.Sprint(t)}
	}
}

// NetworkError is a request that could not complete.
type NetworkError struct {
	Method string
	URL    string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// StatusCode returns the status of an *HTTPError in err's chain, or 0.
func StatusCode(err error) int {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.StatusCode
	}
	return 0
}

// IsUnauthorized reports whether err is a 401 from the backend.
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}
