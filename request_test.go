package pandey

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePagination(t *testing.T) {
	q, err := ParsePagination(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, DefaultPageLimit, q.Limit)

	q, err = ParsePagination(httptest.NewRequest("GET", "/?page=3&limit=20", nil))
	require.NoError(t, err)
	assert.Equal(t, 3, q.Page)
	assert.Equal(t, 20, q.Limit)
	assert.Equal(t, 40, q.Offset())

	for _, target := range []string{"/?page=0", "/?page=x", "/?limit=0", "/?limit=101"} {
		_, err := ParsePagination(httptest.NewRequest("GET", target, nil))
		assert.ErrorIs(t, err, ErrValidation, target)
	}
}

func TestQueryHelpers(t *testing.T) {
	r := httptest.NewRequest("GET", "/?brand=7&min=12.5&stock=true&bad=yes", nil)

	brand, err := QueryUint(r, "brand")
	require.NoError(t, err)
	assert.Equal(t, uint(7), *brand)

	missing, err := QueryUint(r, "category")
	require.NoError(t, err)
	assert.Nil(t, missing)

	minPrice, err := QueryFloat(r, "min")
	require.NoError(t, err)
	assert.Equal(t, 12.5, *minPrice)

	stock, err := QueryBool(r, "stock")
	require.NoError(t, err)
	assert.True(t, *stock)

	_, err = QueryBool(r, "bad")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestParseID(t *testing.T) {
	id, err := ParseID("42")
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	for _, raw := range []string{"", "0", "-1", "abc"} {
		_, err := ParseID(raw)
		assert.ErrorIs(t, err, ErrValidation, raw)
	}
}

func TestDecodeJSON(t *testing.T) {
	var body struct {
		Name string `json:"name"`
	}

	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"SSD"}`))
	require.NoError(t, DecodeJSON(r, &body))
	assert.Equal(t, "SSD", body.Name)

	r = httptest.NewRequest("POST", "/", strings.NewReader(`{"name":`))
	assert.ErrorIs(t, DecodeJSON(r, &body), ErrValidation)
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%ryzen%", LikePattern("ryzen"))
	assert.Equal(t, `%50\%\_off\\%`, LikePattern(`50%_off\`))
}
