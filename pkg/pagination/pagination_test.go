package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateClampsParams(t *testing.T) {
	p := &PaginationParams{Page: -3, PerPage: 500}
	p.Validate()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 100, p.PerPage)

	p = &PaginationParams{}
	p.Validate()
	assert.Equal(t, 15, p.PerPage)
}

func TestPaginate(t *testing.T) {
	all := []int{1, 2, 3, 4, 5, 6, 7}

	res := Paginate(all, &PaginationParams{Page: 2, PerPage: 3})
	assert.Equal(t, []int{4, 5, 6}, res.Items)
	assert.Equal(t, int64(7), res.Pagination.Total)
	assert.Equal(t, 3, res.Pagination.TotalPages)
	assert.True(t, res.Pagination.HasNext)
	assert.True(t, res.Pagination.HasPrev)

	res = Paginate(all, &PaginationParams{Page: 3, PerPage: 3})
	assert.Equal(t, []int{7}, res.Items)
	assert.False(t, res.Pagination.HasNext)

	res = Paginate(all, &PaginationParams{Page: 9, PerPage: 3})
	assert.Empty(t, res.Items)
	assert.NotNil(t, res.Items)
}

func TestPaginateEmpty(t *testing.T) {
	res := Paginate([]string{}, DefaultPagination())
	assert.Empty(t, res.Items)
	assert.Equal(t, 0, res.Pagination.TotalPages)
	assert.False(t, res.Pagination.HasNext)
}
