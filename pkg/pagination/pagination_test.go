package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()
	assert.Equal(t, 0, p.Offset)
	assert.Equal(t, 10, p.Limit)
}

func TestFromRequest_Defaults(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/items", nil)
	p := FromRequest(req)

	assert.Equal(t, 0, p.Offset)
	assert.Equal(t, 10, p.Limit)
}

func TestFromRequest_CustomValues(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/items?offset=40&limit=20", nil)
	p := FromRequest(req)

	assert.Equal(t, 40, p.Offset)
	assert.Equal(t, 20, p.Limit)
}

func TestFromRequest_NegativeOffset(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/items?offset=-1", nil)
	p := FromRequest(req)
	assert.Equal(t, 0, p.Offset)
}

func TestFromRequest_LimitTooLarge(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/items?limit=500", nil)
	p := FromRequest(req)
	assert.Equal(t, 10, p.Limit)
}

func TestFromRequest_NonNumeric(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/items?offset=abc&limit=xyz", nil)
	p := FromRequest(req)

	assert.Equal(t, 0, p.Offset)
	assert.Equal(t, 10, p.Limit)
}

func TestNewResult(t *testing.T) {
	data := []string{"a", "b", "c"}
	result := NewResult(data, 10, Params{Offset: 0, Limit: 3})

	assert.Equal(t, data, result.Data)
	assert.Equal(t, 10, result.TotalCount)
	assert.Equal(t, 0, result.Offset)
	assert.Equal(t, 3, result.Limit)
	assert.True(t, result.HasNext)
}

func TestNewResult_LastWindow(t *testing.T) {
	data := []string{"i", "j"}
	result := NewResult(data, 10, Params{Offset: 8, Limit: 5})

	assert.False(t, result.HasNext)
}

func TestNewResult_Empty(t *testing.T) {
	result := NewResult([]string{}, 0, DefaultParams())

	assert.Empty(t, result.Data)
	assert.Equal(t, 0, result.TotalCount)
	assert.False(t, result.HasNext)
}
