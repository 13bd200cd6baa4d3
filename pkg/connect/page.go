package connect

import (
	"bytes"
	"encoding/json"
)

// Meta describes where a Page sits in the full result set. It is zero
// when the request was made with Pagination=false.
type Meta struct {
	CurrentPage int `json:"current_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
	LastPage    int `json:"last_page"`
}

type flatMeta Meta

// Page is one page of a list endpoint.
type Page[T any] struct {
	Data []T `json:"data"`
	Meta Meta `json:"meta"`
}

// HasMore reports whether a later page exists.
func (p *Page[T]) HasMore() bool {
	return p.Meta.CurrentPage > 0 && p.Meta.CurrentPage < p.Meta.LastPage
}

// UnmarshalJSON accepts the resource envelope ({"data": [], "meta": {}}),
// the flat paginator envelope ({"data": [], "current_page": 1, ...}) and a
// bare JSON array.
func (p *Page[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		p.Meta = Meta{}
		return json.Unmarshal(b, &p.Data)
	}

	var env struct {
		Data []T  `json:"data"`
		Meta *Meta `json:"meta"`
		flatMeta
	}
	if err := json.Unmarshal(b, &env); err != nil {
		return err
	}

	p.Data = env.Data
	if env.Data == nil {
		p.Data = []T{}
	}
	p.Meta = Meta(env.flatMeta)
	if env.Meta != nil {
		p.Meta = *env.Meta
	}
	return nil
}
