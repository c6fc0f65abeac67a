package api

import (
	"bytes"
	"encoding/json"
	"errors"
)

// Page is one page of a list endpoint. Paginated endpoints answer with
// {"count", "next", "previous", "results"}; the others answer with a bare
// JSON array, which decodes into Results with no links.
type Page[T any] struct {
	Count    int    `json:"count"`
	Next     string `json:"next"`
	Previous string `json:"previous"`
	Results  []T    `json:"results"`
}

// HasNext reports whether another page follows.
func (p Page[T]) HasNext() bool { return p.Next != "" }

func (p *Page[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		var items []T
		if err := json.Unmarshal(b, &items); err != nil {
			return err
		}
		*p = Page[T]{Count: len(items), Results: items}
		return nil
	}

	var env struct {
		Count    int              `json:"count"`
		Next     *string          `json:"next"`
		Previous *string          `json:"previous"`
		Results  *json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(b, &env); err != nil {
		return err
	}
	if env.Results == nil {
		return errors.New("list payload has neither results nor a bare array")
	}
	var items []T
	if err := json.Unmarshal(*env.Results, &items); err != nil {
		return err
	}
	*p = Page[T]{Count: env.Count, Results: items}
	if env.Next != nil {
		p.Next = *env.Next
	}
	if env.Previous != nil {
		p.Previous = *env.Previous
	}
	return nil
}
