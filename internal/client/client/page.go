package client

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Page is the normalized form of a list response. The backend answers with
// either a bare JSON array or a paginated envelope; both decode into Page.
type Page[T any] struct {
	Results []T
	Count   int
	Next    string
}

type envelope[T any] struct {
	Results []T     `json:"results"`
	Count   *int    `json:"count"`
	Next    *string `json:"next"`
}

func (p *Page[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*p = Page[T]{Results: []T{}}
		return nil
	case b[0] == '[':
		var items []T
		if err := json.Unmarshal(b, &items); err != nil {
			return err
		}
		if items == nil {
			items = []T{}
		}
		*p = Page[T]{Results: items, Count: len(items)}
		return nil
	case b[0] == '{':
		var env envelope[T]
		if err := json.Unmarshal(b, &env); err != nil {
			return err
		}
		page := Page[T]{Results: env.Results}
		if page.Results == nil {
			page.Results = []T{}
		}
		page.Count = len(page.Results)
		if env.Count != nil {
			page.Count = *env.Count
		}
		if env.Next != nil {
			page.Next = *env.Next
		}
		*p = page
		return nil
	default:
		return fmt.Errorf("list response: unexpected JSON %.20q", b)
	}
}
