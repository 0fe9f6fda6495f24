package models

import "encoding/json"

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// PageRequest is a normalised page/limit pair.
type PageRequest struct {
	Page  int
	Limit int
}

// NewPageRequest clamps page to >= 1 and limit to [1, MaxPageLimit].
// A zero limit means "use the default".
func NewPageRequest(page, limit int) PageRequest {
	if page < 1 {
		page = 1
	}
	switch {
	case limit == 0:
		limit = DefaultPageLimit
	case limit < 1:
		limit = 1
	case limit > MaxPageLimit:
		limit = MaxPageLimit
	}
	return PageRequest{Page: page, Limit: limit}
}

func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// List is the envelope of every list response.
type List[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

func NewList[T any](data []T, p PageRequest, total int) *List[T] {
	if data == nil {
		data = []T{}
	}
	pages := 0
	if p.Limit > 0 {
		pages = (total + p.Limit - 1) / p.Limit
	}
	return &List[T]{
		Data:       data,
		Pagination: Pagination{Page: p.Page, Limit: p.Limit, Total: total, Pages: pages},
	}
}

// Patch is a partial update as received on the wire: exposed field name to
// raw JSON value. Keys are checked against a per-entity allow-list before
// they reach SQL.
type Patch map[string]json.RawMessage
