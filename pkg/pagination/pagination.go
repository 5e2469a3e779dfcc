package pagination

import (
	"net/http"
	"strconv"
)

// Params holds windowing parameters extracted from query strings.
type Params struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// DefaultParams returns sensible windowing defaults.
func DefaultParams() Params {
	return Params{
		Offset: 0,
		Limit:  10,
	}
}

// FromRequest extracts offset and limit parameters from an HTTP request.
// Invalid or out-of-range values fall back to the defaults.
func FromRequest(r *http.Request) Params {
	p := DefaultParams()

	if offset := r.URL.Query().Get("offset"); offset != "" {
		if v, err := strconv.Atoi(offset); err == nil && v >= 0 {
			p.Offset = v
		}
	}

	if limit := r.URL.Query().Get("limit"); limit != "" {
		if v, err := strconv.Atoi(limit); err == nil && v > 0 && v <= 100 {
			p.Limit = v
		}
	}

	return p
}

// Result wraps a windowed response.
type Result[T any] struct {
	Data       []T  `json:"data"`
	TotalCount int  `json:"total_count"`
	Offset     int  `json:"offset"`
	Limit      int  `json:"limit"`
	HasNext    bool `json:"has_next"`
}

// NewResult creates a windowed result.
func NewResult[T any](data []T, totalCount int, params Params) Result[T] {
	return Result[T]{
		Data:       data,
		TotalCount: totalCount,
		Offset:     params.Offset,
		Limit:      params.Limit,
		HasNext:    params.Offset+len(data) < totalCount,
	}
}
