package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.Limit)
}

func TestFromRequest_CustomValues(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/notifications?page=3&limit=50", nil)
	p := FromRequest(req)

	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 50, p.Limit)
}

func TestFromRequest_InvalidValuesFallBack(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"negative page", "page=-1"},
		{"zero page", "page=0"},
		{"non numeric page", "page=abc"},
		{"zero limit", "limit=0"},
		{"limit over max", "limit=101"},
		{"non numeric limit", "limit=ten"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/notifications?"+tt.query, nil)
			assert.Equal(t, DefaultParams(), FromRequest(req))
		})
	}
}

func TestFromRequest_MaxLimitAccepted(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/notifications?limit=100", nil)
	assert.Equal(t, MaxLimit, FromRequest(req).Limit)
}

func TestParams_Values(t *testing.T) {
	v := Params{Page: 2, Limit: 20}.Values()
	assert.Equal(t, "limit=20&page=2", v.Encode())
}

func TestNewResult_ComputesPages(t *testing.T) {
	r := NewResult([]string{"a", "b"}, 45, 0, Params{Page: 2, Limit: 20})

	assert.Equal(t, 3, r.TotalPages)
	assert.True(t, r.HasNext)
	assert.True(t, r.HasPrev)
}

func TestNewResult_BackendTotalPagesWins(t *testing.T) {
	r := NewResult([]int{1}, 45, 5, Params{Page: 5, Limit: 20})

	assert.Equal(t, 5, r.TotalPages)
	assert.False(t, r.HasNext)
}

func TestNewResult_NilDataBecomesEmptySlice(t *testing.T) {
	r := NewResult[string](nil, 0, 0, DefaultParams())

	assert.NotNil(t, r.Data)
	assert.Equal(t, 0, r.TotalPages)
	assert.False(t, r.HasNext)
	assert.False(t, r.HasPrev)
}
