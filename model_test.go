package pandey

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPage(t *testing.T) {
	page := NewPage([]int{1, 2}, ListQuery{Page: 2, Limit: 5}, 12)

	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, int64(12), page.Total)
	assert.Equal(t, 2, page.Page)

	assert.Equal(t, 0, NewPage([]int{}, ListQuery{Page: 1, Limit: 5}, 0).TotalPages)
	assert.Equal(t, 1, NewPage([]int{1}, ListQuery{Page: 1, Limit: 5}, 5).TotalPages)
	assert.Equal(t, 0, NewPage([]int{1}, ListQuery{Page: 1}, 5).TotalPages)
}

func TestListQueryOffset(t *testing.T) {
	assert.Equal(t, 0, ListQuery{Page: 0, Limit: 10}.Offset())
	assert.Equal(t, 0, ListQuery{Page: 1, Limit: 10}.Offset())
	assert.Equal(t, 20, ListQuery{Page: 3, Limit: 10}.Offset())
}
