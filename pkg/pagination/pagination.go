package pagination

import (
	"net/http"
	"net/url"
	"strconv"
)

// MaxLimit caps the page size a caller may request.
const MaxLimit = 100

// Params holds pagination parameters extracted from query strings.
type Params struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// DefaultParams returns the page size the notification history uses.
func DefaultParams() Params {
	return Params{
		Page:  1,
		Limit: 20,
	}
}

// FromRequest extracts page and limit from an HTTP request, falling back to
// the defaults for missing or out-of-range values.
func FromRequest(r *http.Request) Params {
	return FromValues(r.URL.Query())
}

// FromValues extracts page and limit from query values.
func FromValues(q url.Values) Params {
	p := DefaultParams()

	if page := q.Get("page"); page != "" {
		if v, err := strconv.Atoi(page); err == nil && v > 0 {
			p.Page = v
		}
	}

	if limit := q.Get("limit"); limit != "" {
		if v, err := strconv.Atoi(limit); err == nil && v > 0 && v <= MaxLimit {
			p.Limit = v
		}
	}

	return p
}

// Values encodes the parameters as backend query values.
func (p Params) Values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(p.Page))
	v.Set("limit", strconv.Itoa(p.Limit))
	return v
}

// Result wraps a paginated response.
type Result[T any] struct {
	Data       []T  `json:"data"`
	TotalCount int  `json:"total_count"`
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// NewResult creates a paginated result. A positive totalPages reported by the
// backend wins over the one computed from totalCount.
func NewResult[T any](data []T, totalCount, totalPages int, params Params) Result[T] {
	if totalPages <= 0 && params.Limit > 0 {
		totalPages = totalCount / params.Limit
		if totalCount%params.Limit > 0 {
			totalPages++
		}
	}
	if data == nil {
		data = []T{}
	}

	return Result[T]{
		Data:       data,
		TotalCount: totalCount,
		Page:       params.Page,
		Limit:      params.Limit,
		TotalPages: totalPages,
		HasNext:    params.Page < totalPages,
		HasPrev:    params.Page > 1,
	}
}
